package core

import (
	"fmt"
	"math/rand"
)

// Standard tetromino templates. Offsets use row-up coordinates.
var (
	TemplateI = MustTemplate("I", ColorCyan, 1.5, 0.5, []Coord{C(0, 0), C(1, 0), C(2, 0), C(3, 0)})
	TemplateO = MustTemplate("O", ColorYellow, 0.5, 0.5, []Coord{C(0, 0), C(1, 0), C(0, 1), C(1, 1)})
	TemplateT = MustTemplate("T", ColorPurple, 0, 0, []Coord{C(-1, 0), C(0, 0), C(1, 0), C(0, 1)})
	TemplateS = MustTemplate("S", ColorGreen, 0, 0, []Coord{C(-1, 0), C(0, 0), C(0, 1), C(1, 1)})
	TemplateZ = MustTemplate("Z", ColorRed, 0, 0, []Coord{C(-1, 1), C(0, 1), C(0, 0), C(1, 0)})
	TemplateJ = MustTemplate("J", ColorBlue, 0, 0, []Coord{C(-1, 1), C(-1, 0), C(0, 0), C(1, 0)})
	TemplateL = MustTemplate("L", ColorOrange, 0, 0, []Coord{C(1, 1), C(-1, 0), C(0, 0), C(1, 0)})

	// TemplateMono is a single cell. Not part of the standard set.
	TemplateMono = MustTemplate("Mono", ColorGray, 0, 0, []Coord{C(0, 0)})
)

// Catalog is an immutable ordered set of piece templates.
type Catalog struct {
	templates []*Template
	byName    map[string]*Template
}

// NewCatalog builds a catalog. Names must be unique and the set non-empty.
func NewCatalog(templates ...*Template) (*Catalog, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrInvalidTemplate)
	}
	c := &Catalog{
		templates: make([]*Template, 0, len(templates)),
		byName:    make(map[string]*Template, len(templates)),
	}
	for _, t := range templates {
		if t == nil {
			return nil, fmt.Errorf("%w: nil template", ErrInvalidTemplate)
		}
		if _, dup := c.byName[t.name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidTemplate, t.name)
		}
		c.byName[t.name] = t
		c.templates = append(c.templates, t)
	}
	return c, nil
}

// StandardCatalog returns the seven tetrominoes in I, O, T, S, Z, J, L order.
func StandardCatalog() *Catalog {
	c, err := NewCatalog(TemplateI, TemplateO, TemplateT, TemplateS, TemplateZ, TemplateJ, TemplateL)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// Lookup returns the template with the given name.
func (c *Catalog) Lookup(name string) (*Template, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Templates returns the templates in catalog order.
func (c *Catalog) Templates() []*Template {
	out := make([]*Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Picker chooses the next template to spawn.
type Picker interface {
	Next() *Template
}

// Draw policy names accepted by NewPicker.
const (
	PolicyUniform = "uniform"
	PolicyBag     = "bag"
)

// NewPicker returns the picker for a policy name.
// An empty policy selects PolicyUniform.
func NewPicker(policy string, c *Catalog, rng *rand.Rand) (Picker, error) {
	switch policy {
	case "", PolicyUniform:
		return NewUniformPicker(c, rng), nil
	case PolicyBag:
		return NewBagPicker(c, rng), nil
	default:
		return nil, fmt.Errorf("blockfall: unknown draw policy %q", policy)
	}
}

// UniformPicker draws every template independently with equal probability.
type UniformPicker struct {
	catalog *Catalog
	rng     *rand.Rand
}

// NewUniformPicker creates a uniform picker.
func NewUniformPicker(c *Catalog, rng *rand.Rand) *UniformPicker {
	return &UniformPicker{catalog: c, rng: rng}
}

// Next returns a uniformly drawn template.
func (p *UniformPicker) Next() *Template {
	return p.catalog.templates[p.rng.Intn(len(p.catalog.templates))]
}

// BagPicker deals every template once per shuffled bag.
// Any window of Len() consecutive draws aligned to a bag holds each
// template exactly once.
type BagPicker struct {
	catalog *Catalog
	rng     *rand.Rand
	bag     []*Template
}

// NewBagPicker creates a shuffle-bag picker.
func NewBagPicker(c *Catalog, rng *rand.Rand) *BagPicker {
	return &BagPicker{catalog: c, rng: rng}
}

// Next returns the next template from the bag, refilling it when empty.
func (p *BagPicker) Next() *Template {
	if len(p.bag) == 0 {
		p.bag = append(p.bag[:0], p.catalog.templates...)
		p.rng.Shuffle(len(p.bag), func(i, j int) {
			p.bag[i], p.bag[j] = p.bag[j], p.bag[i]
		})
	}
	t := p.bag[0]
	p.bag = p.bag[1:]
	return t
}

// Queue holds the preview template ahead of the active piece.
type Queue struct {
	picker  Picker
	preview *Template
}

// NewQueue creates a queue and draws the first preview.
func NewQueue(p Picker) *Queue {
	return &Queue{picker: p, preview: p.Next()}
}

// Peek returns the preview template without consuming it.
func (q *Queue) Peek() *Template {
	return q.preview
}

// Next returns the preview template and draws a replacement.
func (q *Queue) Next() *Template {
	t := q.preview
	q.preview = q.picker.Next()
	return t
}

// Spawn places t at the canonical spawn anchor of b with orientation 0:
// horizontally centred (left-biased) with its top cell on the top row.
func Spawn(t *Template, b *Board) ActivePiece {
	lo, hi := t.Bounds(0)
	width := hi.Col - lo.Col + 1
	return ActivePiece{
		Template:    t,
		Anchor:      C((b.columns-width)/2-lo.Col, b.rows-1-hi.Row),
		Orientation: 0,
	}
}
