package liar

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partyhost/server/internal/catalog"
	"github.com/partyhost/server/internal/eventbus"
	"github.com/partyhost/server/internal/game"
	"github.com/partyhost/server/internal/registry"
	"github.com/partyhost/server/internal/scheduler"
	"github.com/partyhost/server/internal/store"
)

func newTestMachine(t *testing.T) (*Machine, *registry.Registry, context.Context) {
	t.Helper()
	st := store.NewMemoryStore()
	bus := eventbus.New(8, time.Second, time.Hour)
	sched := scheduler.New()
	reg := registry.New(st, bus, time.Hour)
	deps := game.Deps{Store: st, Bus: bus, Scheduler: sched, Catalog: catalog.New(), Registry: reg, RoomTTL: time.Hour}
	return New(deps), reg, context.Background()
}

func seedLiarRoom(t *testing.T, ctx context.Context, reg *registry.Registry, n int) string {
	t.Helper()
	info, err := reg.CreateRoom(ctx)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		_, err := reg.Join(ctx, info.RoomID, fmt.Sprintf("p%d", i))
		require.NoError(t, err)
	}
	return info.RoomID
}

func TestSubmitGuess_TrimAndLowercaseMatchCountsAsCorrect(t *testing.T) {
	m, _, ctx := newTestMachine(t)
	roomID := "room1"
	s := &State{
		Phase:        PhaseLiarGuess,
		Keyword:      "사자",
		LiarDeviceID: "liar-device",
	}
	require.NoError(t, m.saveState(ctx, roomID, s))

	err := m.SubmitGuess(ctx, roomID, "liar-device", " 사자 ", false)
	require.NoError(t, err)

	final, err := m.loadState(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, WinnerLiar, final.Winner)
}

func TestSubmitGuess_CaseAndWhitespaceInsensitiveForAsciiKeyword(t *testing.T) {
	m, _, ctx := newTestMachine(t)
	roomID := "room2"
	s := &State{
		Phase:        PhaseLiarGuess,
		Keyword:      "Giraffe",
		LiarDeviceID: "liar-device",
	}
	require.NoError(t, m.saveState(ctx, roomID, s))

	require.NoError(t, m.SubmitGuess(ctx, roomID, "liar-device", "  giraffe  ", false))

	final, err := m.loadState(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, WinnerLiar, final.Winner)
}

func TestSubmitGuess_WrongGuessMeansCitizenWin(t *testing.T) {
	m, _, ctx := newTestMachine(t)
	roomID := "room3"
	s := &State{
		Phase:        PhaseLiarGuess,
		Keyword:      "giraffe",
		LiarDeviceID: "liar-device",
	}
	require.NoError(t, m.saveState(ctx, roomID, s))

	require.NoError(t, m.SubmitGuess(ctx, roomID, "liar-device", "zebra", false))

	final, err := m.loadState(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, WinnerCitizen, final.Winner)
}

func TestSubmitGuess_PassMeansCitizenWinWithNoGuessRecorded(t *testing.T) {
	m, _, ctx := newTestMachine(t)
	roomID := "room4"
	s := &State{
		Phase:        PhaseLiarGuess,
		Keyword:      "giraffe",
		LiarDeviceID: "liar-device",
	}
	require.NoError(t, m.saveState(ctx, roomID, s))

	require.NoError(t, m.SubmitGuess(ctx, roomID, "liar-device", "", true))

	final, err := m.loadState(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, WinnerCitizen, final.Winner)
	assert.Empty(t, final.LiarGuess)
}

func TestSubmitGuess_RejectsNonLiarDevice(t *testing.T) {
	m, _, ctx := newTestMachine(t)
	roomID := "room5"
	s := &State{Phase: PhaseLiarGuess, Keyword: "x", LiarDeviceID: "liar-device"}
	require.NoError(t, m.saveState(ctx, roomID, s))

	err := m.SubmitGuess(ctx, roomID, "someone-else", "x", false)
	assert.Error(t, err)
}

func TestResolveVoteMoreRound_StrictMajorityRequiredForMore(t *testing.T) {
	m, _, ctx := newTestMachine(t)
	roomID := "room6"

	s := &State{
		Phase:          PhaseVoteMoreRound,
		MoreRoundVotes: map[string]bool{"a": true, "b": false},
		RoundCount:     1,
	}
	m.resolveVoteMoreRound(ctx, roomID, s)
	assert.Equal(t, PhasePointing, s.Phase, "a tie must not count as a majority for more")
}

func TestResolveVoteMoreRound_MajorityAdvancesToSecondRound(t *testing.T) {
	m, _, ctx := newTestMachine(t)
	roomID := "room7"

	s := &State{
		Phase:          PhaseVoteMoreRound,
		MoreRoundVotes: map[string]bool{"a": true, "b": true, "c": false},
		RoundCount:     1,
	}
	require.NoError(t, m.saveState(ctx, roomID, s))
	m.resolveVoteMoreRound(ctx, roomID, s)
	assert.Equal(t, 2, s.RoundCount)
	assert.Equal(t, 0, s.CurrentExplainerIndex)
}

func TestPluralityWithRandomTiebreak_ReturnsEmptyForNoVotes(t *testing.T) {
	assert.Equal(t, "", pluralityWithRandomTiebreak(map[string]string{}))
}

func TestPluralityWithRandomTiebreak_UniqueWinnerIsDeterministic(t *testing.T) {
	votes := map[string]string{"a": "x", "b": "x", "c": "y"}
	assert.Equal(t, "x", pluralityWithRandomTiebreak(votes))
}

func TestPluralityWithRandomTiebreak_TieAlwaysReturnsOneOfTheLeaders(t *testing.T) {
	votes := map[string]string{"a": "x", "b": "y"}
	for i := 0; i < 20; i++ {
		result := pluralityWithRandomTiebreak(votes)
		assert.Contains(t, []string{"x", "y"}, result)
	}
}

func TestInitialize_RejectsFewerThanThreePlayers(t *testing.T) {
	m, reg, ctx := newTestMachine(t)
	roomID := seedLiarRoom(t, ctx, reg, 2)
	_, err := m.Initialize(ctx, roomID)
	assert.Error(t, err)
}
