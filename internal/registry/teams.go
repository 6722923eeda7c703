package registry

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/partyhost/server/internal/apperr"
	"github.com/partyhost/server/internal/models"
)

// teamTag returns the label "Team A", "Team B", ... for bucket index i.
func teamTag(i int) string {
	return fmt.Sprintf("Team %c", 'A'+byte(i))
}

// AssignRandomTeams shuffles the roster and assigns team tags in
// round-robin order, ensuring bucket sizes differ by at most one.
func (r *Registry) AssignRandomTeams(ctx context.Context, roomID string, k int) (*models.RoomInfo, error) {
	if k < 1 {
		return nil, apperr.InvalidArgumentf("team count must be >= 1")
	}
	info, err := r.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	shuffled := make([]*models.Player, len(info.Players))
	copy(shuffled, info.Players)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	for i, p := range shuffled {
		p.Team = teamTag(i % k)
	}
	if err := r.saveRoom(ctx, info); err != nil {
		return nil, err
	}
	r.bus.BroadcastAll(roomID, "TEAM_ASSIGNED", teamStatus(info))
	return info, nil
}

// SelectTeam is a player-side opt-in; it rejects with conflict once a
// bucket reaches the ceiling of n/k.
func (r *Registry) SelectTeam(ctx context.Context, roomID, deviceID, tag string, k int) (*models.RoomInfo, error) {
	if k < 1 {
		return nil, apperr.InvalidArgumentf("team count must be >= 1")
	}
	info, err := r.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	player := info.FindPlayer(deviceID)
	if player == nil {
		return nil, apperr.NotFoundf("device %s is not in room %s", deviceID, roomID)
	}

	ceiling := (len(info.Players) + k - 1) / k
	bucketSize := 0
	for _, p := range info.Players {
		if p.Team == tag && p.DeviceID != deviceID {
			bucketSize++
		}
	}
	if bucketSize >= ceiling {
		return nil, apperr.Conflictf("team %q is full", tag)
	}

	player.Team = tag
	if err := r.saveRoom(ctx, info); err != nil {
		return nil, err
	}
	r.bus.BroadcastAll(roomID, "PLAYER_TEAM_SELECTED", map[string]any{
		"deviceId": deviceID,
		"team":     tag,
		"status":   teamStatus(info),
	})
	return info, nil
}

// ResetTeams clears every player's team tag, broadcasts
// TEAM_MANUAL_START with the chosen k, then broadcasts the now-empty
// TEAM_ASSIGNED status.
func (r *Registry) ResetTeams(ctx context.Context, roomID string, k int) (*models.RoomInfo, error) {
	info, err := r.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	for _, p := range info.Players {
		p.Team = ""
	}
	if err := r.saveRoom(ctx, info); err != nil {
		return nil, err
	}
	r.bus.BroadcastAll(roomID, "TEAM_MANUAL_START", map[string]any{"teamCount": k})
	r.bus.BroadcastAll(roomID, "TEAM_ASSIGNED", teamStatus(info))
	return info, nil
}

// TeamStatus is the shape GET /teams/status/{roomId} returns.
type TeamStatus struct {
	Teams map[string][]string `json:"teams"` // team tag -> nicknames
}

func teamStatus(info *models.RoomInfo) TeamStatus {
	teams := make(map[string][]string)
	for _, p := range info.Players {
		if p.Team == "" {
			continue
		}
		teams[p.Team] = append(teams[p.Team], p.Nickname)
	}
	return TeamStatus{Teams: teams}
}

// Teams returns the current team status for a room.
func (r *Registry) Teams(ctx context.Context, roomID string) (TeamStatus, error) {
	info, err := r.loadRoom(ctx, roomID)
	if err != nil {
		return TeamStatus{}, err
	}
	return teamStatus(info), nil
}
