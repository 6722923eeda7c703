package marble

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateBoard_FixedCellsAndPenaltyCoverage(t *testing.T) {
	selected := make([]string, 25)
	for i := range selected {
		selected[i] = "penalty-" + string(rune('a'+i))
	}
	board := generateBoard(selected)

	assert.Len(t, board, BoardSize)
	assert.Equal(t, CellStart, board[0].Type)
	assert.Equal(t, CellUirijuFill, board[7].Type)
	assert.Equal(t, CellUirijuDrink, board[21].Type)

	seen := make(map[string]bool)
	penaltyCells := 0
	for i, cell := range board {
		if i == 0 || i == 7 || i == 21 {
			continue
		}
		assert.Equal(t, CellPenalty, cell.Type)
		assert.NotEmpty(t, cell.Text)
		seen[cell.Text] = true
		penaltyCells++
	}
	assert.Equal(t, 25, penaltyCells)
	assert.Len(t, seen, 25, "every selected penalty must appear exactly once")
}

func TestState_CurrentTurnHolder_EmptyOrderReturnsEmptyString(t *testing.T) {
	s := &State{}
	assert.Equal(t, "", s.CurrentTurnHolder())
}

func TestState_Advance_WrapsAroundRoundRobin(t *testing.T) {
	s := &State{TurnOrder: []string{"a", "b", "c"}}
	assert.Equal(t, "a", s.CurrentTurnHolder())
	s.Advance()
	assert.Equal(t, "b", s.CurrentTurnHolder())
	s.Advance()
	assert.Equal(t, "c", s.CurrentTurnHolder())
	s.Advance()
	assert.Equal(t, "a", s.CurrentTurnHolder(), "turn order must wrap back to the first holder")
}

func TestState_Advance_EachHolderGetsEqualTurnsOverNCycles(t *testing.T) {
	order := []string{"a", "b", "c", "d"}
	s := &State{TurnOrder: order}
	counts := make(map[string]int)
	for i := 0; i < len(order)*10; i++ {
		counts[s.CurrentTurnHolder()]++
		s.Advance()
	}
	for _, tag := range order {
		assert.Equal(t, 10, counts[tag], "turn holder %s did not get a fair share of turns", tag)
	}
}

func TestVoteMember_RoundTripsThroughSplitVoteMember(t *testing.T) {
	member := voteMember("device-123", 7)
	idx, voter := splitVoteMember(member)
	assert.Equal(t, 7, idx)
	assert.Equal(t, "device-123", voter)
}
