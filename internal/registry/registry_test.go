package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partyhost/server/internal/eventbus"
	"github.com/partyhost/server/internal/store"
)

func newTestRegistry() *Registry {
	st := store.NewMemoryStore()
	bus := eventbus.New(8, time.Second, time.Hour)
	return New(st, bus, time.Hour)
}

func TestCreateRoom_GeneratesCodeFromTheAmbiguityFreeAlphabet(t *testing.T) {
	r := newTestRegistry()
	info, err := r.CreateRoom(context.Background())
	require.NoError(t, err)
	assert.Len(t, info.RoomID, RoomCodeLength)
	for _, c := range info.RoomID {
		assert.Contains(t, RoomCodeChars, string(c))
	}
}

func TestCreateRoom_CodesAreUniqueAcrossManyRooms(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		info, err := r.CreateRoom(ctx)
		require.NoError(t, err)
		assert.False(t, seen[info.RoomID], "room code %s reused", info.RoomID)
		seen[info.RoomID] = true
	}
}

func TestJoin_RejectsDuplicateNicknameInSameRoom(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	info, err := r.CreateRoom(ctx)
	require.NoError(t, err)

	_, err = r.Join(ctx, info.RoomID, "alice")
	require.NoError(t, err)

	_, err = r.Join(ctx, info.RoomID, "alice")
	assert.Error(t, err)
}

func TestJoin_AllowsSameNicknameInDifferentRooms(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	roomA, err := r.CreateRoom(ctx)
	require.NoError(t, err)
	roomB, err := r.CreateRoom(ctx)
	require.NoError(t, err)

	_, err = r.Join(ctx, roomA.RoomID, "alice")
	require.NoError(t, err)
	_, err = r.Join(ctx, roomB.RoomID, "alice")
	assert.NoError(t, err)
}

func TestJoin_RejectsNicknameOutsideLengthBounds(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	info, err := r.CreateRoom(ctx)
	require.NoError(t, err)

	_, err = r.Join(ctx, info.RoomID, "")
	assert.Error(t, err)

	_, err = r.Join(ctx, info.RoomID, "waytoolongnickname")
	assert.Error(t, err)
}

func TestAuthorizeHost_RejectsWrongToken(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	info, err := r.CreateRoom(ctx)
	require.NoError(t, err)

	_, err = r.AuthorizeHost(ctx, info.RoomID, "not-the-token")
	assert.Error(t, err)

	_, err = r.AuthorizeHost(ctx, info.RoomID, info.HostSessionToken)
	assert.NoError(t, err)
}

func TestRequirePlayer_NotFoundForUnknownDevice(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	info, err := r.CreateRoom(ctx)
	require.NoError(t, err)

	_, _, err = r.RequirePlayer(ctx, info.RoomID, "ghost")
	assert.Error(t, err)
}
