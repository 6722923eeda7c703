package store

import "fmt"

// RoomInfoKey and the per-game key builders below centralize the
// "room:{roomId}:..." layout so no game package hand-rolls key strings
// that could drift out of sync with each other.
func RoomInfoKey(roomID string) string { return fmt.Sprintf("room:%s:info", roomID) }

func MarbleStateKey(roomID string) string    { return fmt.Sprintf("room:%s:marble:state", roomID) }
func MarblePenaltiesKey(roomID string) string { return fmt.Sprintf("room:%s:marble:penalties", roomID) }
func MarbleVotesKey(roomID string) string     { return fmt.Sprintf("room:%s:marble:votes", roomID) }
func MarbleSelectedKey(roomID string) string  { return fmt.Sprintf("room:%s:marble:selected", roomID) }
func MarbleVoteDoneKey(roomID string) string  { return fmt.Sprintf("room:%s:marble:vote_done", roomID) }

func MafiaStateKey(roomID string) string { return fmt.Sprintf("room:%s:mafia:state", roomID) }

func LiarStateKey(roomID string) string { return fmt.Sprintf("room:%s:liar:state", roomID) }

func QuizStateKey(roomID string) string { return fmt.Sprintf("room:%s:quiz:state", roomID) }

func TruthStateKey(roomID string) string { return fmt.Sprintf("room:%s:truth:state", roomID) }
