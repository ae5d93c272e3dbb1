// Package headless runs games without a terminal UI.
// It drives the fixed-tick loop, feeds input from scripts or generators and
// publishes immutable frames on a channel.
package headless

import "time"

// Interval returns the wall-clock duration of one tick at tickRate.
func Interval(tickRate int) time.Duration {
	if tickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(tickRate)
}

// Ticks converts a wall-clock duration to a tick count, rounding down.
func Ticks(d time.Duration, tickRate int) uint64 {
	if d <= 0 || tickRate <= 0 {
		return 0
	}
	return uint64(d / Interval(tickRate))
}
