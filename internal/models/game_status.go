package models

// RoomStatus is the top-level lifecycle state of a Room: waiting,
// playing, or ended. Phases within an active game live in each game
// package's own phase enum, not here.
type RoomStatus string

const (
	StatusWaiting RoomStatus = "waiting"
	StatusPlaying RoomStatus = "playing"
	StatusEnded   RoomStatus = "ended"
)
