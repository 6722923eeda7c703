package quiz

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/partyhost/server/internal/apperr"
	"github.com/partyhost/server/internal/game"
	"github.com/partyhost/server/internal/store"
)

// Machine implements the charades-style speed quiz: teams take turns
// racing the clock through a shuffled word pool, marking each word
// correct or passing it to the back of the queue.
type Machine struct {
	game.Deps
}

// New creates a Quiz Machine.
func New(deps game.Deps) *Machine { return &Machine{Deps: deps} }

func (m *Machine) loadState(ctx context.Context, roomID string) (*State, error) {
	raw, err := m.Store.Get(ctx, store.QuizStateKey(roomID))
	if err == store.ErrNotFound {
		return nil, apperr.NotFoundf("quiz state not found for room %s", roomID)
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
	return m.Store.Set(ctx, store.QuizStateKey(roomID), raw, m.RoomTTL)
}

// Initialize requires teams already assigned via the team registry.
func (m *Machine) Initialize(ctx context.Context, roomID string, roundTimeSeconds int) (*State, error) {
	status, err := m.Registry.Teams(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if len(status.Teams) == 0 {
		return nil, apperr.InvalidStatef("quiz requires teams to be pre-assigned")
	}
	teams := make([]string, 0, len(status.Teams))
	for tag := range status.Teams {
		teams = append(teams, tag)
	}
	sort.Strings(teams)

	s := newState(teams, roundTimeSeconds)
	if err := m.saveState(ctx, roomID, s); err != nil {
		return nil, err
	}
	m.Bus.BroadcastAll(roomID, "QUIZ_INIT", s)
	return s, nil
}

// StartRound loads a fresh word pool for the current team from
// categoryID and begins the playing phase.
func (m *Machine) StartRound(ctx context.Context, roomID, categoryID string) (*State, error) {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseWaiting && s.Phase != PhaseRoundEnd {
		return nil, apperr.InvalidStatef("startRound is only valid from waiting or roundEnd")
	}
	team := s.currentTeam()
	if team == "" || s.isCompleted(team) {
		return nil, apperr.InvalidStatef("no team available to start a round")
	}

	words := m.Catalog.RandomWords(categoryID, WordPoolSize)
	if len(words) == 0 {
		return nil, apperr.InvalidArgumentf("category %s has no words", categoryID)
	}

	s.CurrentWord = words[0]
	s.RemainingWords = words[1:]
	s.CurrentRoundScore = 0
	s.RemainingTime = s.RoundTimeSeconds
	s.Phase = PhasePlaying
	if err := m.saveState(ctx, roomID, s); err != nil {
		return nil, err
	}

	m.Bus.BroadcastAll(roomID, "QUIZ_ROUND_START", map[string]any{"team": team, "currentWord": s.CurrentWord})
	m.armTimer(roomID, s)
	return s, nil
}

func (m *Machine) armTimer(roomID string, s *State) {
	m.Scheduler.StartTimer(roomID, s.RemainingTime, func(remaining int) {
		m.Bus.BroadcastAll(roomID, "QUIZ_TIMER", map[string]any{"remaining": remaining})
	}, func() {
		m.OnPhaseComplete(roomID)
	})
}

// OnPhaseComplete ends the round when the timer runs out.
func (m *Machine) OnPhaseComplete(roomID string) {
	ctx := context.Background()
	s, err := m.loadState(ctx, roomID)
	if err != nil || s.Phase != PhasePlaying {
		return
	}
	m.endRound(ctx, roomID, s)
}

// Correct marks the current word correct and advances to the next
// pending word, or ends the round if the pool is exhausted.
func (m *Machine) Correct(ctx context.Context, roomID string) (*State, error) {
	s, err := m.requirePlaying(ctx, roomID)
	if err != nil {
		return nil, err
	}
	s.CurrentRoundScore++
	if len(s.RemainingWords) == 0 {
		m.endRound(ctx, roomID, s)
		return s, nil
	}
	s.CurrentWord = s.RemainingWords[0]
	s.RemainingWords = s.RemainingWords[1:]
	if err := m.saveState(ctx, roomID, s); err != nil {
		return nil, err
	}
	m.Bus.BroadcastAll(roomID, "QUIZ_CORRECT", map[string]any{"score": s.CurrentRoundScore, "currentWord": s.CurrentWord})
	return s, nil
}

// Pass pushes the current word to the tail of the pool and advances to
// the next one; with only one word left, it stays current.
func (m *Machine) Pass(ctx context.Context, roomID string) (*State, error) {
	s, err := m.requirePlaying(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if len(s.RemainingWords) == 0 {
		if err := m.saveState(ctx, roomID, s); err != nil {
			return nil, err
		}
		m.Bus.BroadcastAll(roomID, "QUIZ_PASS", map[string]any{"currentWord": s.CurrentWord})
		return s, nil
	}
	s.RemainingWords = append(s.RemainingWords, s.CurrentWord)
	s.CurrentWord = s.RemainingWords[0]
	s.RemainingWords = s.RemainingWords[1:]
	if err := m.saveState(ctx, roomID, s); err != nil {
		return nil, err
	}
	m.Bus.BroadcastAll(roomID, "QUIZ_PASS", map[string]any{"currentWord": s.CurrentWord})
	return s, nil
}

func (m *Machine) requirePlaying(ctx context.Context, roomID string) (*State, error) {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if s.Phase != PhasePlaying {
		return nil, apperr.InvalidStatef("correct/pass is only valid during playing")
	}
	return s, nil
}

// endRound records the team's score, marks it completed, clears the
// word state, and broadcasts results.
func (m *Machine) endRound(ctx context.Context, roomID string, s *State) {
	m.Scheduler.CancelTimer(roomID)
	team := s.currentTeam()
	if team != "" {
		s.TeamScores[team] = s.CurrentRoundScore
		s.CompletedTeams = append(s.CompletedTeams, team)
	}
	s.CurrentWord = ""
	s.RemainingWords = nil
	s.Phase = PhaseRoundEnd
	if err := m.saveState(ctx, roomID, s); err != nil {
		return
	}
	m.Bus.BroadcastAll(roomID, "QUIZ_ROUND_END", map[string]any{"team": team, "score": s.CurrentRoundScore})

	if len(s.CompletedTeams) >= len(s.Teams) {
		m.finish(ctx, roomID, s)
	}
}

// NextTeam advances the turn index to the next not-yet-completed team,
// wrapping around.
func (m *Machine) NextTeam(ctx context.Context, roomID string) (*State, error) {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseRoundEnd {
		return nil, apperr.InvalidStatef("nextTeam is only valid during roundEnd")
	}
	if len(s.CompletedTeams) >= len(s.Teams) {
		return nil, apperr.InvalidStatef("every team has already played")
	}

	n := len(s.Teams)
	for i := 1; i <= n; i++ {
		idx := (s.CurrentTeamIndex + i) % n
		if !s.isCompleted(s.Teams[idx]) {
			s.CurrentTeamIndex = idx
			break
		}
	}
	s.Phase = PhaseWaiting
	if err := m.saveState(ctx, roomID, s); err != nil {
		return nil, err
	}
	m.Bus.BroadcastAll(roomID, "QUIZ_NEXT_TEAM", map[string]any{"team": s.currentTeam()})
	return s, nil
}

// finish publishes the stable-sorted final ranking.
func (m *Machine) finish(ctx context.Context, roomID string, s *State) {
	s.Phase = PhaseFinished
	if err := m.saveState(ctx, roomID, s); err != nil {
		return
	}
	m.Bus.BroadcastAll(roomID, "QUIZ_GAME_END", map[string]any{
		"ranking":    ranking(s),
		"isComplete": true,
	})
}

// ranking returns every team's score, stable-sorted descending.
func ranking(s *State) []RankingEntry {
	out := make([]RankingEntry, len(s.Teams))
	for i, t := range s.Teams {
		out[i] = RankingEntry{Team: t, Score: s.TeamScores[t]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// End clears every quiz-scoped key for roomID and returns the room to
// waiting.
func (m *Machine) End(ctx context.Context, roomID string) error {
	m.Scheduler.Cleanup(roomID)
	if err := m.Store.Delete(ctx, store.QuizStateKey(roomID)); err != nil {
		return err
	}
	if _, err := m.Registry.EndGame(ctx, roomID); err != nil {
		return err
	}
	m.Bus.BroadcastAll(roomID, "QUIZ_GAME_END", nil)
	return nil
}
