package mafia

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
	"github.com/partyhost/server/internal/models"
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

func seedRoom(t *testing.T, ctx context.Context, reg *registry.Registry, n int) *models.RoomInfo {
	t.Helper()
	info, err := reg.CreateRoom(ctx)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		_, err := reg.Join(ctx, info.RoomID, fmt.Sprintf("p%d", i))
		require.NoError(t, err)
	}
	info, err = reg.Info(ctx, info.RoomID)
	require.NoError(t, err)
	return info
}

func TestPlurality_UniqueWinner(t *testing.T) {
	target, unique := plurality(map[string]string{"a": "x", "b": "x", "c": "y"})
	assert.True(t, unique)
	assert.Equal(t, "x", target)
}

func TestPlurality_TieMeansNoWinner(t *testing.T) {
	_, unique := plurality(map[string]string{"a": "x", "b": "y"})
	assert.False(t, unique)
}

func TestPlurality_EmptyVotesMeansNoWinner(t *testing.T) {
	_, unique := plurality(map[string]string{})
	assert.False(t, unique)
}

func TestCheckWinner_MafiaEliminatedMeansCitizenWin(t *testing.T) {
	m, reg, ctx := newTestMachine(t)
	info := seedRoom(t, ctx, reg, 5)
	for i, p := range info.Players {
		if i == 0 {
			p.Role = string(RoleMafia)
		} else {
			p.Role = string(RoleCivilian)
		}
		p.Alive = i != 0
	}
	require.NoError(t, reg.SaveRoom(ctx, info))

	s := newState()
	over := m.checkWinner(ctx, info.RoomID, s, info)
	require.True(t, over)
	assert.Equal(t, WinnerCitizen, s.Winner)
	assert.Equal(t, PhaseGameEnd, s.Phase)
}

func TestCheckWinner_MafiaOutnumberingMeansMafiaWin(t *testing.T) {
	m, reg, ctx := newTestMachine(t)
	info := seedRoom(t, ctx, reg, 4)
	info.Players[0].Role = string(RoleMafia)
	info.Players[1].Role = string(RoleMafia)
	info.Players[2].Role = string(RoleCivilian)
	info.Players[3].Role = string(RoleCivilian)
	info.Players[2].Alive = false
	info.Players[3].Alive = false
	require.NoError(t, reg.SaveRoom(ctx, info))

	s := newState()
	over := m.checkWinner(ctx, info.RoomID, s, info)
	require.True(t, over)
	assert.Equal(t, WinnerMafia, s.Winner)
}

func TestCheckWinner_NoDecisiveMajorityKeepsPlaying(t *testing.T) {
	m, reg, ctx := newTestMachine(t)
	info := seedRoom(t, ctx, reg, 5)
	info.Players[0].Role = string(RoleMafia)
	for i := 1; i < 5; i++ {
		info.Players[i].Role = string(RoleCivilian)
	}
	require.NoError(t, reg.SaveRoom(ctx, info))

	s := newState()
	over := m.checkWinner(ctx, info.RoomID, s, info)
	assert.False(t, over)
	assert.NotEqual(t, PhaseGameEnd, s.Phase)
}

func TestInitialize_RejectsFewerThanFourPlayers(t *testing.T) {
	m, reg, ctx := newTestMachine(t)
	info := seedRoom(t, ctx, reg, 3)
	_, err := m.Initialize(ctx, info.RoomID)
	assert.Error(t, err)
}

func TestInitialize_AssignsRolesToEveryPlayer(t *testing.T) {
	m, reg, ctx := newTestMachine(t)
	info := seedRoom(t, ctx, reg, 6)
	s, err := m.Initialize(ctx, info.RoomID)
	require.NoError(t, err)
	assert.Equal(t, PhaseNight, s.Phase)

	info, err = reg.Info(ctx, info.RoomID)
	require.NoError(t, err)
	for _, p := range info.Players {
		assert.NotEmpty(t, p.Role)
		assert.True(t, p.Alive)
	}
}
