package liar

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"time"

	"github.com/partyhost/server/internal/apperr"
	"github.com/partyhost/server/internal/game"
	"github.com/partyhost/server/internal/models"
	"github.com/partyhost/server/internal/store"
)

// Machine implements the round-robin keyword-hiding deduction game:
// one liar bluffs through an explanation round without knowing the
// keyword, then the group points at a suspect and the liar gets a
// last chance to guess the keyword.
type Machine struct {
	game.Deps
}

// New creates a Liar Machine.
func New(deps game.Deps) *Machine { return &Machine{Deps: deps} }

func (m *Machine) loadState(ctx context.Context, roomID string) (*State, error) {
	raw, err := m.Store.Get(ctx, store.LiarStateKey(roomID))
	if err == store.ErrNotFound {
		return nil, apperr.NotFoundf("liar state not found for room %s", roomID)
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
	return m.Store.Set(ctx, store.LiarStateKey(roomID), raw, m.RoomTTL)
}

// Initialize draws a random keyword from the catalog, picks a liar,
// shuffles the explanation order, and arms roleReveal.
func (m *Machine) Initialize(ctx context.Context, roomID string) (*State, error) {
	info, err := m.Registry.Info(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if len(info.Players) < 3 {
		return nil, apperr.InvalidStatef("liar requires at least 3 players, got %d", len(info.Players))
	}

	cat, ok := m.Catalog.RandomCategory(models.GameLiar)
	if !ok {
		return nil, apperr.InvalidStatef("no liar categories seeded")
	}
	words := m.Catalog.RandomWords(cat.CategoryID, 1)
	if len(words) == 0 {
		return nil, apperr.InvalidStatef("category %s has no words", cat.CategoryID)
	}
	keyword := words[0]

	ids := info.DeviceIDs()
	liarDeviceID := ids[rand.Intn(len(ids))]

	order := make([]string, len(ids))
	copy(order, ids)
	rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	s := newState(keyword, cat.Name, liarDeviceID, order)
	if err := m.saveState(ctx, roomID, s); err != nil {
		return nil, err
	}

	m.Bus.BroadcastHost(roomID, "LIAR_INIT", map[string]any{
		"categoryName":     s.CategoryName,
		"explanationOrder": s.ExplanationOrder,
	})
	m.armTimer(roomID, s)
	return s, nil
}

func (m *Machine) armTimer(roomID string, s *State) {
	if s.TimerSec <= 0 {
		return
	}
	phase := s.Phase
	m.Scheduler.StartTimer(roomID, s.TimerSec, func(remaining int) {
		m.Bus.BroadcastAll(roomID, "LIAR_TIMER", map[string]any{"phase": phase, "remaining": remaining})
	}, func() {
		m.OnPhaseComplete(roomID)
	})
}

// RoleView is what a single device learns about its own role.
type RoleView struct {
	IsLiar       bool   `json:"isLiar"`
	Keyword      string `json:"keyword,omitempty"`
	CategoryName string `json:"categoryName"`
}

// GetRole returns deviceID's private view of the current round: every
// non-liar sees the keyword, the liar does not.
func (m *Machine) GetRole(ctx context.Context, roomID, deviceID string) (*RoleView, error) {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return nil, err
	}
	isLiar := deviceID == s.LiarDeviceID
	view := &RoleView{IsLiar: isLiar, CategoryName: s.CategoryName}
	if !isLiar {
		view.Keyword = s.Keyword
	}
	return view, nil
}

// OnPhaseComplete advances the state machine when a phase's timer
// expires.
func (m *Machine) OnPhaseComplete(roomID string) {
	ctx := context.Background()
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return
	}
	switch s.Phase {
	case PhaseRoleReveal:
		m.toPhase(ctx, roomID, s, PhaseExplanation)
	case PhaseExplanation:
		m.advanceExplanation(ctx, roomID, s)
	case PhaseVoteMoreRound:
		m.resolveVoteMoreRound(ctx, roomID, s)
	case PhasePointingVote:
		m.resolvePointingVote(ctx, roomID, s)
	case PhasePointingResult:
		if s.PointedDeviceID == s.LiarDeviceID {
			m.toPhase(ctx, roomID, s, PhaseLiarGuess)
		} else {
			m.finish(ctx, roomID, s, WinnerLiar)
		}
	case PhaseLiarGuess:
		m.finish(ctx, roomID, s, WinnerCitizen)
	}
}

func (m *Machine) toPhase(ctx context.Context, roomID string, s *State, phase Phase) {
	s.Phase = phase
	s.TimerSec = phaseDurations[phase]
	if err := m.saveState(ctx, roomID, s); err != nil {
		return
	}
	m.Bus.BroadcastAll(roomID, "LIAR_PHASE_CHANGE", map[string]any{"phase": phase})
	m.armTimer(roomID, s)
}

// advanceExplanation moves to the next speaker, or to voteMoreRound /
// pointing once everyone has spoken.
func (m *Machine) advanceExplanation(ctx context.Context, roomID string, s *State) {
	s.CurrentExplainerIndex++
	if s.CurrentExplainerIndex < len(s.ExplanationOrder) {
		s.TimerSec = phaseDurations[PhaseExplanation]
		if err := m.saveState(ctx, roomID, s); err != nil {
			return
		}
		m.Bus.BroadcastAll(roomID, "LIAR_NEXT_SPEAKER", map[string]any{"currentExplainer": s.currentExplainer()})
		m.armTimer(roomID, s)
		return
	}

	if s.RoundCount < 2 {
		s.MoreRoundVotes = make(map[string]bool)
		m.toPhase(ctx, roomID, s, PhaseVoteMoreRound)
		return
	}
	m.toPhase(ctx, roomID, s, PhasePointing)
}

// VoteMoreRound records wantMore for voter during voteMoreRound.
func (m *Machine) VoteMoreRound(ctx context.Context, roomID, voter string, wantMore bool) error {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return err
	}
	if s.Phase != PhaseVoteMoreRound {
		return apperr.InvalidStatef("voteMoreRound is only valid during the voteMoreRound phase")
	}
	s.MoreRoundVotes[voter] = wantMore
	if err := m.saveState(ctx, roomID, s); err != nil {
		return err
	}
	m.Bus.BroadcastHost(roomID, "LIAR_MORE_ROUND_UPDATE", s.MoreRoundVotes)
	return nil
}

// resolveVoteMoreRound tallies more-vs-stop; a strict majority for more
// resumes explanation for a second round after a short delay.
func (m *Machine) resolveVoteMoreRound(ctx context.Context, roomID string, s *State) {
	more, stop := 0, 0
	for _, v := range s.MoreRoundVotes {
		if v {
			more++
		} else {
			stop++
		}
	}
	if more > stop {
		s.RoundCount = 2
		s.CurrentExplainerIndex = 0
		if err := m.saveState(ctx, roomID, s); err != nil {
			return
		}
		m.Bus.BroadcastAll(roomID, "LIAR_MORE_ROUND_RESULT", map[string]any{"more": more, "stop": stop, "decision": "more"})
		m.Scheduler.ScheduleDelayed(roomID, 2*time.Second, func() {
			ctx := context.Background()
			fresh, err := m.loadState(ctx, roomID)
			if err != nil {
				return
			}
			m.toPhase(ctx, roomID, fresh, PhaseExplanation)
		})
		return
	}
	m.Bus.BroadcastAll(roomID, "LIAR_MORE_ROUND_RESULT", map[string]any{"more": more, "stop": stop, "decision": "stop"})
	m.toPhase(ctx, roomID, s, PhasePointing)
}

// StartPointingVote is the host-driven transition out of the pointing
// phase, which has no deadline of its own.
func (m *Machine) StartPointingVote(ctx context.Context, roomID string) error {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return err
	}
	if s.Phase != PhasePointing {
		return apperr.InvalidStatef("startPointingVote is only valid during the pointing phase")
	}
	s.PointingVotes = make(map[string]string)
	m.toPhase(ctx, roomID, s, PhasePointingVote)
	return nil
}

// PointingVote records voter's accusation during pointingVote.
func (m *Machine) PointingVote(ctx context.Context, roomID, voter, target string) error {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return err
	}
	if s.Phase != PhasePointingVote {
		return apperr.InvalidStatef("pointingVote is only valid during the pointingVote phase")
	}
	s.PointingVotes[voter] = target
	if err := m.saveState(ctx, roomID, s); err != nil {
		return err
	}
	m.Bus.BroadcastHost(roomID, "LIAR_POINTING_UPDATE", s.PointingVotes)
	return nil
}

// resolvePointingVote computes the plurality accusation (random
// tiebreak).
func (m *Machine) resolvePointingVote(ctx context.Context, roomID string, s *State) {
	target := pluralityWithRandomTiebreak(s.PointingVotes)
	s.PointedDeviceID = target
	s.Phase = PhasePointingResult
	s.TimerSec = phaseDurations[PhasePointingResult]
	if err := m.saveState(ctx, roomID, s); err != nil {
		return
	}
	m.Bus.BroadcastAll(roomID, "LIAR_POINTING_RESULT", map[string]any{
		"pointedDeviceId": s.PointedDeviceID,
		"isLiarCaught":    s.PointedDeviceID == s.LiarDeviceID,
	})
	m.armTimer(roomID, s)
}

// pluralityWithRandomTiebreak returns the deviceId with the most votes,
// breaking ties uniformly at random. Returns "" if there are no votes.
func pluralityWithRandomTiebreak(votes map[string]string) string {
	counts := make(map[string]int)
	for _, target := range votes {
		counts[target]++
	}
	if len(counts) == 0 {
		return ""
	}
	best := -1
	for _, c := range counts {
		if c > best {
			best = c
		}
	}
	var leaders []string
	for target, c := range counts {
		if c == best {
			leaders = append(leaders, target)
		}
	}
	return leaders[rand.Intn(len(leaders))]
}

// SubmitGuess is the liar's guess (or "pass"), the only action valid
// during liarGuess; it resolves the game immediately.
func (m *Machine) SubmitGuess(ctx context.Context, roomID, deviceID, guess string, pass bool) error {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return err
	}
	if s.Phase != PhaseLiarGuess {
		return apperr.InvalidStatef("submitGuess is only valid during the liarGuess phase")
	}
	if deviceID != s.LiarDeviceID {
		return apperr.Unauthorizedf("only the liar may submit a guess")
	}

	m.Scheduler.CancelTimer(roomID)
	if pass {
		m.finish(ctx, roomID, s, WinnerCitizen)
		return nil
	}
	s.LiarGuess = guess
	correct := strings.TrimSpace(strings.ToLower(guess)) == strings.TrimSpace(strings.ToLower(s.Keyword))
	winner := WinnerCitizen
	if correct {
		winner = WinnerLiar
	}
	m.finish(ctx, roomID, s, winner)
	return nil
}

// finish publishes the full round reveal and transitions to gameEnd.
func (m *Machine) finish(ctx context.Context, roomID string, s *State, winner Winner) {
	s.Winner = winner
	s.Phase = PhaseGameEnd
	s.TimerSec = 0
	if err := m.saveState(ctx, roomID, s); err != nil {
		return
	}
	m.Bus.BroadcastAll(roomID, "LIAR_GAME_END", map[string]any{
		"keyword":         s.Keyword,
		"liarDeviceId":    s.LiarDeviceID,
		"pointedDeviceId": s.PointedDeviceID,
		"liarGuess":       s.LiarGuess,
		"isGuessCorrect":  winner == WinnerLiar && s.LiarGuess != "",
		"winner":          winner,
	})
}

// End clears every liar-scoped key for roomID and returns the room to
// waiting.
func (m *Machine) End(ctx context.Context, roomID string) error {
	m.Scheduler.Cleanup(roomID)
	if err := m.Store.Delete(ctx, store.LiarStateKey(roomID)); err != nil {
		return err
	}
	if _, err := m.Registry.EndGame(ctx, roomID); err != nil {
		return err
	}
	m.Bus.BroadcastAll(roomID, "LIAR_GAME_END", nil)
	return nil
}
