package ws

import "testing"

func TestRoomIDDeterministic(t *testing.T) {
	tests := []struct {
		a, b uint
		want string
	}{
		{1, 2, "chat-1-2"},
		{2, 1, "chat-1-2"},
		{10, 3, "chat-3-10"},
		{7, 7, "chat-7-7"},
	}
	for _, tt := range tests {
		if got := RoomID(tt.a, tt.b); got != tt.want {
			t.Errorf("RoomID(%d, %d) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRoomIDSymmetric(t *testing.T) {
	pairs := [][2]uint{{1, 2}, {99, 100}, {5, 5}, {0, 1}, {12345, 67}}
	for _, p := range pairs {
		if RoomID(p[0], p[1]) != RoomID(p[1], p[0]) {
			t.Errorf("RoomID(%d, %d) != RoomID(%d, %d)", p[0], p[1], p[1], p[0])
		}
	}
}
