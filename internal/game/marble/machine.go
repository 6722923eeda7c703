package marble

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"

	"github.com/partyhost/server/internal/apperr"
	"github.com/partyhost/server/internal/game"
	"github.com/partyhost/server/internal/models"
	"github.com/partyhost/server/internal/store"
)

// Machine implements the 28-cell board game: penalty submission,
// voting on which penalties make the board, board generation, and
// turn-based dice rolling. Every phase here is host- or action-driven
// (there is no phase with a countdown), so Machine never arms a
// scheduler timer and OnPhaseComplete is an unused stub kept only to
// satisfy game.Machine.
type Machine struct {
	game.Deps
}

// New creates a Marble Machine.
func New(deps game.Deps) *Machine { return &Machine{Deps: deps} }

// OnPhaseComplete satisfies game.Machine; Marble has no timer-driven
// phases, so there is nothing to do when it fires.
func (m *Machine) OnPhaseComplete(roomID string) {}

func (m *Machine) loadState(ctx context.Context, roomID string) (*State, error) {
	raw, err := m.Store.Get(ctx, store.MarbleStateKey(roomID))
	if err == store.ErrNotFound {
		return nil, apperr.NotFoundf("marble state not found for room %s", roomID)
	}
	if err != nil {
		return nil, err
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *Machine) saveState(ctx context.Context, roomID string, s *State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return m.Store.Set(ctx, store.MarbleStateKey(roomID), raw, m.RoomTTL)
}

// SubmitPenalty appends a penalty string for deviceID, up to 2 per
// device.
func (m *Machine) SubmitPenalty(ctx context.Context, roomID, deviceID, text string) error {
	if text == "" {
		return apperr.InvalidArgumentf("penalty text is required")
	}
	raw, err := m.Store.ListRange(ctx, store.MarblePenaltiesKey(roomID))
	if err != nil {
		return err
	}
	count := 0
	for _, r := range raw {
		var p Penalty
		if json.Unmarshal(r, &p) == nil && p.DeviceID == deviceID {
			count++
		}
	}
	if count >= 2 {
		return apperr.InvalidStatef("device %s already submitted 2 penalties", deviceID)
	}

	buf, err := json.Marshal(Penalty{DeviceID: deviceID, Text: text})
	if err != nil {
		return err
	}
	if err := m.Store.ListAppend(ctx, store.MarblePenaltiesKey(roomID), buf, m.RoomTTL); err != nil {
		return err
	}

	info, err := m.Registry.Info(ctx, roomID)
	if err != nil {
		return err
	}
	expected := len(info.Players) * 2
	total := len(raw) + 1
	m.Bus.BroadcastAll(roomID, "MARBLE_PENALTY_PROGRESS", map[string]any{
		"totalCount":    total,
		"expectedCount": expected,
		"isAllSubmitted": total >= expected,
	})
	return nil
}

// penaltyList returns every submitted penalty in append order.
func (m *Machine) penaltyList(ctx context.Context, roomID string) ([]Penalty, error) {
	raw, err := m.Store.ListRange(ctx, store.MarblePenaltiesKey(roomID))
	if err != nil {
		return nil, err
	}
	out := make([]Penalty, 0, len(raw))
	for _, r := range raw {
		var p Penalty
		if err := json.Unmarshal(r, &p); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

// VoteStatus is the snapshot broadcast on every vote toggle.
type VoteStatus struct {
	PenaltyIndex int      `json:"penaltyIndex"`
	Text         string   `json:"text"`
	VoteCount    int      `json:"voteCount"`
	Voters       []string `json:"voters"`
}

// ToggleVote flips deviceID's vote on penaltyIndex: a re-vote removes
// it.
func (m *Machine) ToggleVote(ctx context.Context, roomID, deviceID string, penaltyIndex int) error {
	penalties, err := m.penaltyList(ctx, roomID)
	if err != nil {
		return err
	}
	if penaltyIndex < 0 || penaltyIndex >= len(penalties) {
		return apperr.InvalidArgumentf("penalty index %d out of range", penaltyIndex)
	}

	member := voteMember(deviceID, penaltyIndex)
	contains, err := m.Store.SetContains(ctx, store.MarbleVotesKey(roomID), member)
	if err != nil {
		return err
	}
	if contains {
		if err := m.Store.SetRemove(ctx, store.MarbleVotesKey(roomID), member); err != nil {
			return err
		}
	} else {
		if _, err := m.Store.SetAdd(ctx, store.MarbleVotesKey(roomID), member, m.RoomTTL); err != nil {
			return err
		}
	}

	snapshot, err := m.voteSnapshot(ctx, roomID, penalties)
	if err != nil {
		return err
	}
	m.Bus.BroadcastAll(roomID, "MARBLE_VOTE_STATUS", snapshot)
	return nil
}

func (m *Machine) voteSnapshot(ctx context.Context, roomID string, penalties []Penalty) ([]VoteStatus, error) {
	members, err := m.Store.SetMembers(ctx, store.MarbleVotesKey(roomID))
	if err != nil {
		return nil, err
	}
	voters := make(map[int][]string)
	for _, mem := range members {
		idx, voter := splitVoteMember(mem)
		if idx >= 0 {
			voters[idx] = append(voters[idx], voter)
		}
	}
	out := make([]VoteStatus, len(penalties))
	for i, p := range penalties {
		out[i] = VoteStatus{PenaltyIndex: i, Text: p.Text, VoteCount: len(voters[i]), Voters: voters[i]}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VoteCount > out[j].VoteCount })
	return out, nil
}

func splitVoteMember(member string) (int, string) {
	for i := len(member) - 1; i >= 0; i-- {
		if member[i] == '|' {
			idx := 0
			neg := false
			rest := member[i+1:]
			for j, c := range rest {
				if j == 0 && c == '-' {
					neg = true
					continue
				}
				if c < '0' || c > '9' {
					return -1, ""
				}
				idx = idx*10 + int(c-'0')
			}
			if neg {
				idx = -idx
			}
			return idx, member[:i]
		}
	}
	return -1, ""
}

// CloseVoting groups penalties by vote count descending, randomizes
// ties, and takes the top 26; falls back to the catalog's penalty
// category then the hard-coded default list if fewer exist.
func (m *Machine) CloseVoting(ctx context.Context, roomID string) ([]string, error) {
	penalties, err := m.penaltyList(ctx, roomID)
	if err != nil {
		return nil, err
	}
	snapshot, err := m.voteSnapshot(ctx, roomID, penalties)
	if err != nil {
		return nil, err
	}

	buckets := make(map[int][]string)
	for _, v := range snapshot {
		buckets[v.VoteCount] = append(buckets[v.VoteCount], v.Text)
	}
	counts := make([]int, 0, len(buckets))
	for c := range buckets {
		counts = append(counts, c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	selected := make([]string, 0, 26)
	for _, c := range counts {
		group := buckets[c]
		rand.Shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })
		for _, text := range group {
			if len(selected) >= 26 {
				break
			}
			selected = append(selected, text)
		}
		if len(selected) >= 26 {
			break
		}
	}

	if len(selected) < 26 {
		if cat, ok := m.Catalog.FindOnePenaltyCategory(models.GameMarble); ok {
			for _, text := range m.Catalog.AllContent(cat) {
				if len(selected) >= 26 {
					break
				}
				selected = append(selected, text)
			}
		}
	}
	if len(selected) < 26 {
		for _, text := range fallbackPenalties {
			if len(selected) >= 26 {
				break
			}
			selected = append(selected, text)
		}
	}
	if len(selected) > 26 {
		selected = selected[:26]
	}

	raw, err := json.Marshal(selected)
	if err != nil {
		return nil, err
	}
	if err := m.Store.Set(ctx, store.MarbleSelectedKey(roomID), raw, m.RoomTTL); err != nil {
		return nil, err
	}
	m.Bus.BroadcastAll(roomID, "MARBLE_VOTING_CLOSED", map[string]any{"selected": selected})
	return selected, nil
}

// Initialize performs mode selection and board generation in one call:
// the host picks team or solo mode, turn order and starting positions
// are set up, and a fresh board shuffle of the 26 selected penalties
// is generated.
func (m *Machine) Initialize(ctx context.Context, roomID string, mode Mode) (*State, error) {
	info, err := m.Registry.Info(ctx, roomID)
	if err != nil {
		return nil, err
	}

	raw, err := m.Store.Get(ctx, store.MarbleSelectedKey(roomID))
	if err != nil {
		return nil, apperr.InvalidStatef("penalty voting has not been closed for room %s", roomID)
	}
	var selected []string
	if err := json.Unmarshal(raw, &selected); err != nil {
		return nil, err
	}
	if len(selected) != 26 {
		return nil, apperr.InvalidStatef("expected 26 selected penalties, got %d", len(selected))
	}

	s := &State{Mode: mode, Positions: make(map[string]int)}

	switch mode {
	case ModeTeam:
		teams := make(map[string]struct{})
		for _, p := range info.Players {
			if p.Team == "" {
				return nil, apperr.InvalidStatef("teams must be assigned before team-mode marble")
			}
			teams[p.Team] = struct{}{}
		}
		order := make([]string, 0, len(teams))
		for tag := range teams {
			order = append(order, tag)
		}
		sort.Strings(order)
		s.TurnOrder = order
		for _, tag := range order {
			s.Positions[tag] = 0
		}
	case ModeSolo:
		ids := info.DeviceIDs()
		rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		s.TurnOrder = ids
		for _, id := range ids {
			s.Positions[id] = 0
		}
	default:
		return nil, apperr.InvalidArgumentf("unknown marble mode %q", mode)
	}

	s.Board = generateBoard(selected)

	if err := m.saveState(ctx, roomID, s); err != nil {
		return nil, err
	}
	m.Bus.BroadcastAll(roomID, "MARBLE_INIT", s)
	return s, nil
}

// generateBoard places a fresh shuffle of the 26 selected penalties into
// indices 1-6, 8-20, 22-27, with fixed cells at 0/7/21.
func generateBoard(selected []string) [BoardSize]Cell {
	shuffled := make([]string, len(selected))
	copy(shuffled, selected)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	var board [BoardSize]Cell
	board[0] = Cell{Index: 0, Type: CellStart}
	board[7] = Cell{Index: 7, Type: CellUirijuFill}
	board[21] = Cell{Index: 21, Type: CellUirijuDrink}

	next := 0
	for i := 0; i < BoardSize; i++ {
		if i == 0 || i == 7 || i == 21 {
			continue
		}
		board[i] = Cell{Index: i, Type: CellPenalty, Text: shuffled[next]}
		next++
	}
	return board
}

// whoseTurnKey resolves the deviceId claiming a roll to the turn-holder
// key (team tag in team mode, deviceId itself in solo mode).
func whoseTurnKey(s *State, info *models.RoomInfo, deviceID string) (string, error) {
	if s.Mode == ModeSolo {
		return deviceID, nil
	}
	p := info.FindPlayer(deviceID)
	if p == nil {
		return "", apperr.NotFoundf("device %s not in room", deviceID)
	}
	if p.Team == "" {
		return "", apperr.InvalidStatef("device %s has no team", deviceID)
	}
	return p.Team, nil
}

// DiceResult is broadcast after a successful roll.
type DiceResult struct {
	TurnHolder  string `json:"turnHolder"`
	Dice        int    `json:"dice"`
	FromIndex   int    `json:"fromIndex"`
	ToIndex     int    `json:"toIndex"`
	Cell        Cell   `json:"cell"`
}

// RollDice validates that deviceID currently holds the turn, draws a
// uniform 1-6 roll, advances that turn holder's position modulo
// BoardSize, and broadcasts the move followed by the new turn holder.
// Out-of-turn rolls are rejected.
func (m *Machine) RollDice(ctx context.Context, roomID, deviceID string) (*DiceResult, error) {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return nil, err
	}
	info, err := m.Registry.Info(ctx, roomID)
	if err != nil {
		return nil, err
	}

	holderKey, err := whoseTurnKey(s, info, deviceID)
	if err != nil {
		return nil, err
	}
	if holderKey != s.CurrentTurnHolder() {
		return nil, apperr.InvalidStatef("it is %s's turn in room %s", s.CurrentTurnHolder(), roomID)
	}

	dice := rand.Intn(6) + 1
	from := s.Positions[holderKey]
	to := (from + dice) % BoardSize
	s.Positions[holderKey] = to
	s.LastDice = dice
	s.Advance()

	if err := m.saveState(ctx, roomID, s); err != nil {
		return nil, err
	}

	result := &DiceResult{TurnHolder: holderKey, Dice: dice, FromIndex: from, ToIndex: to, Cell: s.Board[to]}
	m.Bus.BroadcastAll(roomID, "MARBLE_DICE_ROLLED", result)
	m.Bus.BroadcastAll(roomID, "MARBLE_TURN_CHANGE", map[string]any{"turnHolder": s.CurrentTurnHolder()})
	return result, nil
}

// End clears every marble-scoped key for roomID and returns the room to
// waiting.
func (m *Machine) End(ctx context.Context, roomID string) error {
	for _, key := range []string{
		store.MarbleStateKey(roomID),
		store.MarblePenaltiesKey(roomID),
		store.MarbleVotesKey(roomID),
		store.MarbleSelectedKey(roomID),
		store.MarbleVoteDoneKey(roomID),
	} {
		if err := m.Store.Delete(ctx, key); err != nil {
			return err
		}
	}
	if _, err := m.Registry.EndGame(ctx, roomID); err != nil {
		return err
	}
	m.Bus.BroadcastAll(roomID, "MARBLE_GAME_END", nil)
	return nil
}
