package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRanking_StableSortPreservesInputOrderForTiedScores(t *testing.T) {
	s := &State{
		Teams:      []string{"red", "blue", "green"},
		TeamScores: map[string]int{"red": 5, "blue": 5, "green": 9},
	}
	got := ranking(s)
	require.Len(t, got, 3)
	assert.Equal(t, "green", got[0].Team)
	assert.Equal(t, "red", got[1].Team, "tied scores must keep their original team order")
	assert.Equal(t, "blue", got[2].Team)
}

func TestRanking_MissingScoresDefaultToZero(t *testing.T) {
	s := &State{Teams: []string{"red", "blue"}, TeamScores: map[string]int{"red": 3}}
	got := ranking(s)
	assert.Equal(t, 3, got[0].Score)
	assert.Equal(t, 0, got[1].Score)
}

func TestNextTeam_SkipsCompletedTeamsAndWraps(t *testing.T) {
	s := &State{
		Teams:            []string{"a", "b", "c"},
		CurrentTeamIndex: 0,
		CompletedTeams:   []string{"a", "b"},
		Phase:            PhaseRoundEnd,
	}
	// exercise the wraparound logic directly, mirroring NextTeam's body.
	n := len(s.Teams)
	found := -1
	for i := 1; i <= n; i++ {
		idx := (s.CurrentTeamIndex + i) % n
		if !s.isCompleted(s.Teams[idx]) {
			found = idx
			break
		}
	}
	require.Equal(t, 2, found, "the only uncompleted team is 'c' at index 2")
}

func TestState_CurrentTeam_OutOfRangeReturnsEmptyString(t *testing.T) {
	s := &State{Teams: []string{"a", "b"}, CurrentTeamIndex: 5}
	assert.Equal(t, "", s.currentTeam())
}

func TestState_IsCompleted(t *testing.T) {
	s := &State{CompletedTeams: []string{"a", "b"}}
	assert.True(t, s.isCompleted("a"))
	assert.False(t, s.isCompleted("c"))
}

func TestNewState_DefaultsRoundTimeWhenNonPositive(t *testing.T) {
	s := newState([]string{"a"}, 0)
	assert.Equal(t, DefaultRoundSeconds, s.RoundTimeSeconds)

	s = newState([]string{"a"}, -5)
	assert.Equal(t, DefaultRoundSeconds, s.RoundTimeSeconds)

	s = newState([]string{"a"}, 45)
	assert.Equal(t, 45, s.RoundTimeSeconds)
}
