package core

// Phase is the lifecycle stage of the active piece.
type Phase uint8

const (
	PhaseSpawned Phase = iota
	PhaseFalling
	PhaseLanded
	PhaseLocked
	PhaseCleared
	PhaseDespawned
)

// String returns the string representation of a phase.
func (p Phase) String() string {
	switch p {
	case PhaseSpawned:
		return "spawned"
	case PhaseFalling:
		return "falling"
	case PhaseLanded:
		return "landed"
	case PhaseLocked:
		return "locked"
	case PhaseCleared:
		return "cleared"
	case PhaseDespawned:
		return "despawned"
	default:
		return "unknown"
	}
}

// CanTransition reports whether the lifecycle allows p -> to.
//
//	Spawned -> Falling -> Landed -> Locked -> Cleared -> Despawned
//
// Landed may return to Falling when the piece is moved off its support,
// and a spawned piece may land immediately on a crowded board.
func (p Phase) CanTransition(to Phase) bool {
	switch p {
	case PhaseSpawned:
		return to == PhaseFalling || to == PhaseLanded
	case PhaseFalling:
		return to == PhaseLanded
	case PhaseLanded:
		return to == PhaseFalling || to == PhaseLocked
	case PhaseLocked:
		return to == PhaseCleared
	case PhaseCleared:
		return to == PhaseDespawned
	default:
		return false
	}
}
