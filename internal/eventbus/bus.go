// Package eventbus fans events out to connected clients: per room, at
// most one host stream and one player stream per deviceId, each a
// one-way, ordered, JSON-framed channel with a bounded buffer and a
// send timeout so one stuck client can't block the others.
package eventbus

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/partyhost/server/internal/logging"
)

// Event is the wire shape every stream carries: {name, data}.
type Event struct {
	Name string `json:"name"`
	Data any    `json:"data"`
}

// Stream is a single client's one-way event channel.
type Stream struct {
	ch       chan Event
	lastUsed atomic64
}

func newStream(buffer int) *Stream {
	return &Stream{ch: make(chan Event, buffer)}
}

// C returns the receive side of the stream for the HTTP handler to drain.
func (s *Stream) C() <-chan Event { return s.ch }

// atomic64 is a tiny int64 nanosecond timestamp guarded by a mutex.
type atomic64 struct {
	mu sync.Mutex
	v  int64
}

func (a *atomic64) store(v int64) {
	a.mu.Lock()
	a.v = v
	a.mu.Unlock()
}

func (a *atomic64) load() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.v
}

type roomStreams struct {
	mu      sync.RWMutex
	host    *Stream
	players map[string]*Stream // deviceId -> stream
}

// Bus holds the live streams for every room the process knows about. Its
// maps are accessed concurrently by request-handler goroutines and timer
// callbacks, so every room's bucket carries its own lock rather than one
// global lock across all rooms.
type Bus struct {
	mu          sync.RWMutex
	rooms       map[string]*roomStreams
	buffer      int
	writeWait   time.Duration
	idleTimeout time.Duration
}

// New creates a Bus. buffer sizes each stream's channel; writeWait bounds
// how long a broadcast waits on a slow client before dropping it;
// idleTimeout is how long a stream may sit unread before it is reaped.
func New(buffer int, writeWait, idleTimeout time.Duration) *Bus {
	return &Bus{
		rooms:       make(map[string]*roomStreams),
		buffer:      buffer,
		writeWait:   writeWait,
		idleTimeout: idleTimeout,
	}
}

func (b *Bus) room(roomID string) *roomStreams {
	b.mu.Lock()
	defer b.mu.Unlock()
	rs, ok := b.rooms[roomID]
	if !ok {
		rs = &roomStreams{players: make(map[string]*Stream)}
		b.rooms[roomID] = rs
	}
	return rs
}

// OpenHost creates (replacing any existing) host stream for roomID.
// Authorization against the host session token is the caller's
// responsibility (the registry holds that secret, not the bus).
func (b *Bus) OpenHost(roomID string) *Stream {
	rs := b.room(roomID)
	s := newStream(b.buffer)
	s.lastUsed.store(time.Now().UnixNano())
	rs.mu.Lock()
	rs.host = s
	rs.mu.Unlock()
	logging.Debug("eventbus: host stream opened room=%s", roomID)
	return s
}

// OpenPlayer creates (replacing any existing) player stream for deviceId
// in roomID. Checking that deviceId is a known roster member is the
// caller's responsibility.
func (b *Bus) OpenPlayer(roomID, deviceID string) *Stream {
	rs := b.room(roomID)
	s := newStream(b.buffer)
	s.lastUsed.store(time.Now().UnixNano())
	rs.mu.Lock()
	rs.players[deviceID] = s
	rs.mu.Unlock()
	logging.Debug("eventbus: player stream opened room=%s device=%s", roomID, deviceID)
	return s
}

// CloseHost drops the host stream for roomID if it is still s (so a
// reconnect that replaced it first isn't accidentally closed).
func (b *Bus) CloseHost(roomID string, s *Stream) {
	b.mu.RLock()
	rs, ok := b.rooms[roomID]
	b.mu.RUnlock()
	if !ok {
		return
	}
	rs.mu.Lock()
	if rs.host == s {
		rs.host = nil
	}
	rs.mu.Unlock()
}

// ClosePlayer drops the player stream for deviceId in roomID if it is
// still s.
func (b *Bus) ClosePlayer(roomID, deviceID string, s *Stream) {
	b.mu.RLock()
	rs, ok := b.rooms[roomID]
	b.mu.RUnlock()
	if !ok {
		return
	}
	rs.mu.Lock()
	if rs.players[deviceID] == s {
		delete(rs.players, deviceID)
	}
	rs.mu.Unlock()
}

// Cleanup removes every stream for roomID, releasing its bucket
// entirely.
func (b *Bus) Cleanup(roomID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.rooms, roomID)
}

func (b *Bus) send(s *Stream, ev Event) bool {
	select {
	case s.ch <- ev:
		s.lastUsed.store(time.Now().UnixNano())
		return true
	case <-time.After(b.writeWait):
		return false
	}
}

// BroadcastHost delivers {name, payload} to the host stream if present.
// A send failure (buffer full past the write timeout) silently drops
// the event and removes the host stream rather than blocking the caller.
func (b *Bus) BroadcastHost(roomID, name string, payload any) {
	b.mu.RLock()
	rs, ok := b.rooms[roomID]
	b.mu.RUnlock()
	if !ok {
		return
	}
	rs.mu.Lock()
	host := rs.host
	rs.mu.Unlock()
	if host == nil {
		return
	}
	if !b.send(host, Event{Name: name, Data: payload}) {
		b.CloseHost(roomID, host)
		logging.Debug("eventbus: dropped host stream room=%s event=%s", roomID, name)
	}
}

// BroadcastPlayers delivers {name, payload} to every live player stream
// of roomID. Failing streams are removed.
func (b *Bus) BroadcastPlayers(roomID, name string, payload any) {
	b.mu.RLock()
	rs, ok := b.rooms[roomID]
	b.mu.RUnlock()
	if !ok {
		return
	}
	rs.mu.RLock()
	targets := make(map[string]*Stream, len(rs.players))
	for id, s := range rs.players {
		targets[id] = s
	}
	rs.mu.RUnlock()

	for deviceID, s := range targets {
		if !b.send(s, Event{Name: name, Data: payload}) {
			b.ClosePlayer(roomID, deviceID, s)
			logging.Debug("eventbus: dropped player stream room=%s device=%s event=%s", roomID, deviceID, name)
		}
	}
}

// BroadcastAll delivers to both the host stream and every player stream.
func (b *Bus) BroadcastAll(roomID, name string, payload any) {
	b.BroadcastHost(roomID, name, payload)
	b.BroadcastPlayers(roomID, name, payload)
}

// SendToPlayer delivers a message to exactly one device's stream (used
// for responses that must not leak to other players, e.g. a police
// investigation result in Mafia).
func (b *Bus) SendToPlayer(roomID, deviceID, name string, payload any) {
	b.mu.RLock()
	rs, ok := b.rooms[roomID]
	b.mu.RUnlock()
	if !ok {
		return
	}
	rs.mu.RLock()
	s := rs.players[deviceID]
	rs.mu.RUnlock()
	if s == nil {
		return
	}
	if !b.send(s, Event{Name: name, Data: payload}) {
		b.ClosePlayer(roomID, deviceID, s)
	}
}

// SendToMafia delivers a message to every player stream whose deviceId
// is in mafiaDeviceIDs — used for the mafia-only chat channel.
func (b *Bus) SendToMafia(roomID string, mafiaDeviceIDs []string, name string, payload any) {
	for _, id := range mafiaDeviceIDs {
		b.SendToPlayer(roomID, id, name, payload)
	}
}

// ReapIdle closes any stream that has not been used for longer than the
// bus's idle timeout. Intended to be called periodically from a
// background sweep.
func (b *Bus) ReapIdle() {
	cutoff := time.Now().Add(-b.idleTimeout).UnixNano()
	b.mu.RLock()
	rooms := make(map[string]*roomStreams, len(b.rooms))
	for id, rs := range b.rooms {
		rooms[id] = rs
	}
	b.mu.RUnlock()

	for roomID, rs := range rooms {
		rs.mu.Lock()
		if rs.host != nil && rs.host.lastUsed.load() < cutoff {
			rs.host = nil
		}
		for id, s := range rs.players {
			if s.lastUsed.load() < cutoff {
				delete(rs.players, id)
			}
		}
		rs.mu.Unlock()
		_ = roomID
	}
}

// MarshalPayload is a convenience for handlers that need to confirm a
// payload is JSON-encodable before enqueueing it (mainly used in tests).
func MarshalPayload(v any) ([]byte, error) {
	return json.Marshal(v)
}
