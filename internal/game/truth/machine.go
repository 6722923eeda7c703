package truth

import (
	"context"
	"encoding/json"
	"math/rand"

	"github.com/partyhost/server/internal/apperr"
	"github.com/partyhost/server/internal/game"
	"github.com/partyhost/server/internal/store"
)

// Machine implements the lie-detection mini-game: an answerer fields
// a crowd-submitted question while the server scores their webcam
// face-tracking samples for signs of deception.
type Machine struct {
	game.Deps
}

// New creates a Truth Machine.
func New(deps game.Deps) *Machine { return &Machine{Deps: deps} }

// OnPhaseComplete satisfies game.Machine; every Truth transition here is
// host- or action-driven, so there is no scheduler-timer phase to react
// to.
func (m *Machine) OnPhaseComplete(roomID string) {}

func (m *Machine) loadState(ctx context.Context, roomID string) (*State, error) {
	raw, err := m.Store.Get(ctx, store.TruthStateKey(roomID))
	if err == store.ErrNotFound {
		return nil, apperr.NotFoundf("truth state not found for room %s", roomID)
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
	return m.Store.Set(ctx, store.TruthStateKey(roomID), raw, m.RoomTTL)
}

// Initialize starts a fresh round at selectAnswerer.
func (m *Machine) Initialize(ctx context.Context, roomID string) (*State, error) {
	s := newState()
	if err := m.saveState(ctx, roomID, s); err != nil {
		return nil, err
	}
	m.Bus.BroadcastAll(roomID, "TRUTH_INIT", s)
	return s, nil
}

// SelectAnswerer picks deviceID (or, if empty, a random roster member)
// as the answerer and moves to submitQuestions.
func (m *Machine) SelectAnswerer(ctx context.Context, roomID, deviceID string) (*State, error) {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseSelectAnswerer {
		return nil, apperr.InvalidStatef("selectAnswerer is only valid during selectAnswerer")
	}

	target := deviceID
	if target == "" {
		info, err := m.Registry.Info(ctx, roomID)
		if err != nil {
			return nil, err
		}
		ids := info.DeviceIDs()
		if len(ids) == 0 {
			return nil, apperr.InvalidStatef("no players to select as answerer")
		}
		target = ids[rand.Intn(len(ids))]
	}

	s.AnswererDeviceID = target
	s.Phase = PhaseSubmitQuestions
	s.SubmittedQuestions = nil
	if err := m.saveState(ctx, roomID, s); err != nil {
		return nil, err
	}
	m.Bus.BroadcastAll(roomID, "TRUTH_ANSWERER_SELECTED", map[string]any{"answererDeviceId": target})
	return s, nil
}

// SubmitQuestion records a candidate question from a non-answerer.
func (m *Machine) SubmitQuestion(ctx context.Context, roomID, deviceID, text string) error {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return err
	}
	if s.Phase != PhaseSubmitQuestions {
		return apperr.InvalidStatef("submitQuestion is only valid during submitQuestions")
	}
	if deviceID == s.AnswererDeviceID {
		return apperr.Unauthorizedf("the answerer may not submit a question")
	}
	s.SubmittedQuestions = append(s.SubmittedQuestions, SubmittedQuestion{DeviceID: deviceID, Text: text})
	if err := m.saveState(ctx, roomID, s); err != nil {
		return err
	}
	m.Bus.BroadcastHost(roomID, "TRUTH_QUESTION_SUBMITTED", map[string]any{"count": len(s.SubmittedQuestions)})
	return nil
}

// FinishQuestionSubmission snapshots the submitted questions (each
// isUsed=false) and moves to selectQuestion.
func (m *Machine) FinishQuestionSubmission(ctx context.Context, roomID string) (*State, error) {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseSubmitQuestions {
		return nil, apperr.InvalidStatef("finishQuestionSubmission is only valid during submitQuestions")
	}
	s.Phase = PhaseSelectQuestion
	s.QuestionVotes = make(map[string]int)
	if err := m.saveState(ctx, roomID, s); err != nil {
		return nil, err
	}
	m.Bus.BroadcastAll(roomID, "TRUTH_PHASE_CHANGE", map[string]any{"phase": s.Phase, "questions": s.SubmittedQuestions})
	return s, nil
}

// SelectRandomQuestion picks a uniformly random not-yet-used question
// for the host to reroll through. It does not mark the question used
// — ConfirmQuestion does that.
func (m *Machine) SelectRandomQuestion(ctx context.Context, roomID string) (int, error) {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return -1, err
	}
	if s.Phase != PhaseSelectQuestion {
		return -1, apperr.InvalidStatef("selectRandomQuestion is only valid during selectQuestion")
	}
	var unused []int
	for i, q := range s.SubmittedQuestions {
		if !q.IsUsed {
			unused = append(unused, i)
		}
	}
	if len(unused) == 0 {
		return -1, apperr.InvalidStatef("no unused questions remain")
	}
	idx := unused[rand.Intn(len(unused))]
	m.Bus.BroadcastHost(roomID, "TRUTH_QUESTION_PREVIEW", map[string]any{"index": idx, "text": s.SubmittedQuestions[idx].Text})
	return idx, nil
}

// ConfirmQuestion commits questionIndex as the selected question and
// moves to answering.
func (m *Machine) ConfirmQuestion(ctx context.Context, roomID string, questionIndex int) (*State, error) {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseSelectQuestion {
		return nil, apperr.InvalidStatef("confirmQuestion is only valid during selectQuestion")
	}
	if questionIndex < 0 || questionIndex >= len(s.SubmittedQuestions) {
		return nil, apperr.InvalidArgumentf("question index %d out of range", questionIndex)
	}
	return m.commitQuestion(ctx, roomID, s, questionIndex)
}

// VoteQuestion toggles a non-answerer's vote on questionIndex during
// selectQuestion's player-vote flow.
func (m *Machine) VoteQuestion(ctx context.Context, roomID, deviceID string, questionIndex int) error {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return err
	}
	if s.Phase != PhaseSelectQuestion {
		return apperr.InvalidStatef("voteQuestion is only valid during selectQuestion")
	}
	if deviceID == s.AnswererDeviceID {
		return apperr.Unauthorizedf("the answerer may not vote on the question")
	}
	if questionIndex < 0 || questionIndex >= len(s.SubmittedQuestions) {
		return apperr.InvalidArgumentf("question index %d out of range", questionIndex)
	}
	if prev, ok := s.QuestionVotes[deviceID]; ok && prev == questionIndex {
		delete(s.QuestionVotes, deviceID)
	} else {
		s.QuestionVotes[deviceID] = questionIndex
	}
	if err := m.saveState(ctx, roomID, s); err != nil {
		return err
	}
	m.Bus.BroadcastHost(roomID, "TRUTH_QUESTION_VOTE_UPDATE", s.QuestionVotes)
	return nil
}

// FinishQuestionVote picks the plurality-voted question (random
// tiebreak; a uniformly random question if no votes were cast).
func (m *Machine) FinishQuestionVote(ctx context.Context, roomID string) (*State, error) {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseSelectQuestion {
		return nil, apperr.InvalidStatef("finishQuestionVote is only valid during selectQuestion")
	}

	var chosen int
	if len(s.QuestionVotes) == 0 {
		if len(s.SubmittedQuestions) == 0 {
			return nil, apperr.InvalidStatef("no questions were submitted")
		}
		chosen = rand.Intn(len(s.SubmittedQuestions))
	} else {
		counts := make(map[int]int)
		for _, idx := range s.QuestionVotes {
			counts[idx]++
		}
		best := -1
		var leaders []int
		for idx, c := range counts {
			switch {
			case c > best:
				best = c
				leaders = []int{idx}
			case c == best:
				leaders = append(leaders, idx)
			}
		}
		chosen = leaders[rand.Intn(len(leaders))]
	}
	return m.commitQuestion(ctx, roomID, s, chosen)
}

func (m *Machine) commitQuestion(ctx context.Context, roomID string, s *State, index int) (*State, error) {
	s.SubmittedQuestions[index].IsUsed = true
	s.SelectedQuestion = s.SubmittedQuestions[index].Text
	s.Phase = PhaseAnswering
	s.TrackingData = nil
	if err := m.saveState(ctx, roomID, s); err != nil {
		return nil, err
	}
	m.Bus.BroadcastAll(roomID, "TRUTH_QUESTION_SELECTED", map[string]any{"question": s.SelectedQuestion})
	return s, nil
}

// SubmitSample appends a face-tracking sample from the answerer and
// forwards it to the host stream for overlay display.
func (m *Machine) SubmitSample(ctx context.Context, roomID, deviceID string, sample FaceTrackingSample) error {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return err
	}
	if s.Phase != PhaseAnswering {
		return apperr.InvalidStatef("submitSample is only valid during answering")
	}
	if deviceID != s.AnswererDeviceID {
		return apperr.Unauthorizedf("only the answerer may submit face-tracking samples")
	}
	s.TrackingData = append(s.TrackingData, sample)
	if err := m.saveState(ctx, roomID, s); err != nil {
		return err
	}
	m.Bus.BroadcastHost(roomID, "TRUTH_FACE_DATA", sample)
	return nil
}

// FinishAnswering runs the deterministic lie-detection algorithm over
// every collected sample and moves to result.
func (m *Machine) FinishAnswering(ctx context.Context, roomID string) (*State, error) {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseAnswering {
		return nil, apperr.InvalidStatef("finishAnswering is only valid during answering")
	}
	result := Analyze(s.TrackingData)
	s.Result = &result
	s.Phase = PhaseResult
	if err := m.saveState(ctx, roomID, s); err != nil {
		return nil, err
	}
	m.Bus.BroadcastAll(roomID, "TRUTH_RESULT", map[string]any{
		"question": s.SelectedQuestion,
		"result":   result,
	})
	return s, nil
}

// End clears every truth-scoped key for roomID and returns the room to
// waiting.
func (m *Machine) End(ctx context.Context, roomID string) error {
	if err := m.Store.Delete(ctx, store.TruthStateKey(roomID)); err != nil {
		return err
	}
	if _, err := m.Registry.EndGame(ctx, roomID); err != nil {
		return err
	}
	m.Bus.BroadcastAll(roomID, "TRUTH_GAME_END", nil)
	return nil
}
