package ws

import "fmt"

// RoomID computes the deterministic broadcast channel for a pair of users.
// Both participants always derive the same token regardless of who
// initiates, so the two sides converge on one room with no discovery step.
func RoomID(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("chat-%d-%d", a, b)
}
