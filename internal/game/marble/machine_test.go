package marble

import (
	"context"
	"encoding/json"
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

func newTestMachine(t *testing.T) (*Machine, *registry.Registry, store.Store, context.Context) {
	t.Helper()
	st := store.NewMemoryStore()
	bus := eventbus.New(8, time.Second, time.Hour)
	sched := scheduler.New()
	reg := registry.New(st, bus, time.Hour)
	deps := game.Deps{Store: st, Bus: bus, Scheduler: sched, Catalog: catalog.New(), Registry: reg, RoomTTL: time.Hour}
	return New(deps), reg, st, context.Background()
}

func seedSoloRoom(t *testing.T, ctx context.Context, m *Machine, reg *registry.Registry, n int) ([]string, string) {
	t.Helper()
	info, err := reg.CreateRoom(ctx)
	require.NoError(t, err)
	deviceIDs := make([]string, n)
	for i := 0; i < n; i++ {
		p, err := reg.Join(ctx, info.RoomID, fmt.Sprintf("p%d", i))
		require.NoError(t, err)
		deviceIDs[i] = p.DeviceID
	}

	selected := make([]string, 26)
	for i := range selected {
		selected[i] = fmt.Sprintf("penalty-%d", i)
	}
	raw, err := json.Marshal(selected)
	require.NoError(t, err)
	require.NoError(t, m.Store.Set(ctx, store.MarbleSelectedKey(info.RoomID), raw, time.Hour))

	return deviceIDs, info.RoomID
}

func TestRollDice_RejectsOutOfTurnPlayer(t *testing.T) {
	m, reg, _, ctx := newTestMachine(t)
	deviceIDs, roomID := seedSoloRoom(t, ctx, m, reg, 2)

	_, err := m.Initialize(ctx, roomID, ModeSolo)
	require.NoError(t, err)

	s, err := m.loadState(ctx, roomID)
	require.NoError(t, err)
	holder := s.CurrentTurnHolder()

	var notHolder string
	for _, id := range deviceIDs {
		if id != holder {
			notHolder = id
			break
		}
	}

	_, err = m.RollDice(ctx, roomID, notHolder)
	assert.Error(t, err, "a player who does not hold the turn must be rejected")
}

func TestRollDice_AdvancesTurnAndWrapsPosition(t *testing.T) {
	m, reg, _, ctx := newTestMachine(t)
	_, roomID := seedSoloRoom(t, ctx, m, reg, 2)

	_, err := m.Initialize(ctx, roomID, ModeSolo)
	require.NoError(t, err)

	s, err := m.loadState(ctx, roomID)
	require.NoError(t, err)
	firstHolder := s.CurrentTurnHolder()

	result, err := m.RollDice(ctx, roomID, firstHolder)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Dice, 1)
	assert.LessOrEqual(t, result.Dice, 6)
	assert.Equal(t, (result.FromIndex+result.Dice)%BoardSize, result.ToIndex)

	s, err = m.loadState(ctx, roomID)
	require.NoError(t, err)
	assert.NotEqual(t, firstHolder, s.CurrentTurnHolder(), "turn must advance after a roll")
}

func TestInitialize_RequiresClosedVotingWith26Penalties(t *testing.T) {
	m, reg, _, ctx := newTestMachine(t)
	info, err := reg.CreateRoom(ctx)
	require.NoError(t, err)
	_, err = reg.Join(ctx, info.RoomID, "p0")
	require.NoError(t, err)

	_, err = m.Initialize(ctx, info.RoomID, ModeSolo)
	assert.Error(t, err, "initialize must fail when voting was never closed")
}
