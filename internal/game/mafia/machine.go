package mafia

import (
	"context"
	"encoding/json"

	"github.com/partyhost/server/internal/apperr"
	"github.com/partyhost/server/internal/game"
	"github.com/partyhost/server/internal/models"
	"github.com/partyhost/server/internal/store"
)

// Machine implements the social-deduction night/day cycle: mafia kill,
// doctor saves, police investigates, then the village votes to execute
// a suspect, repeating until one side holds a majority of the living.
type Machine struct {
	game.Deps
}

// New creates a Mafia Machine.
func New(deps game.Deps) *Machine { return &Machine{Deps: deps} }

func (m *Machine) loadState(ctx context.Context, roomID string) (*State, error) {
	raw, err := m.Store.Get(ctx, store.MafiaStateKey(roomID))
	if err == store.ErrNotFound {
		return nil, apperr.NotFoundf("mafia state not found for room %s", roomID)
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
	return m.Store.Set(ctx, store.MafiaStateKey(roomID), raw, m.RoomTTL)
}

// Initialize assigns roles to every player, marks everyone alive, and
// arms the first night timer.
func (m *Machine) Initialize(ctx context.Context, roomID string) (*State, error) {
	info, err := m.Registry.Info(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if len(info.Players) < 4 {
		return nil, apperr.InvalidStatef("mafia requires at least 4 players, got %d", len(info.Players))
	}

	roles := assignRoles(info.DeviceIDs())
	for _, p := range info.Players {
		p.Role = string(roles[p.DeviceID])
		p.Alive = true
	}
	if err := m.Registry.SaveRoom(ctx, info); err != nil {
		return nil, err
	}

	s := newState()
	if err := m.saveState(ctx, roomID, s); err != nil {
		return nil, err
	}

	m.Bus.BroadcastHost(roomID, "MAFIA_INIT", s)
	m.armTimer(roomID, s)
	return s, nil
}

func (m *Machine) armTimer(roomID string, s *State) {
	if s.Phase == PhaseGameEnd {
		return
	}
	phase := s.Phase
	m.Scheduler.StartTimer(roomID, s.TimerSec, func(remaining int) {
		m.Bus.BroadcastAll(roomID, "MAFIA_TIMER", map[string]any{"phase": phase, "remaining": remaining})
	}, func() {
		m.OnPhaseComplete(roomID)
	})
}

// OnPhaseComplete advances the state machine when a phase's timer
// expires without an early completion (checkNightComplete calls the
// same transition helper directly).
func (m *Machine) OnPhaseComplete(roomID string) {
	ctx := context.Background()
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return
	}
	switch s.Phase {
	case PhaseNight:
		m.toDayAnnouncement(ctx, roomID, s)
	case PhaseDayAnnouncement:
		m.toPhase(ctx, roomID, s, PhaseDayDiscussion)
	case PhaseDayDiscussion:
		m.toPhase(ctx, roomID, s, PhaseVote)
	case PhaseVote:
		m.resolveVote(ctx, roomID, s)
	case PhaseVoteResult:
		if s.ExecutionTarget != "" {
			m.toPhase(ctx, roomID, s, PhaseFinalDefense)
		} else {
			m.newNight(ctx, roomID, s)
		}
	case PhaseFinalDefense:
		m.toPhase(ctx, roomID, s, PhaseFinalVote)
	case PhaseFinalVote:
		m.resolveFinalVote(ctx, roomID, s)
	case PhaseFinalVoteResult:
		m.newNight(ctx, roomID, s)
	}
}

func (m *Machine) toPhase(ctx context.Context, roomID string, s *State, phase Phase) {
	s.Phase = phase
	s.TimerSec = phaseDurations[phase]
	if err := m.saveState(ctx, roomID, s); err != nil {
		return
	}
	m.Bus.BroadcastAll(roomID, "MAFIA_PHASE_CHANGE", map[string]any{"phase": phase})
	m.armTimer(roomID, s)
}

// MafiaKill, DoctorSave, PoliceInvestigate — night actions.

func (m *Machine) requireAlivePlayerWithRole(info *models.RoomInfo, deviceID string, role Role) (*models.Player, error) {
	p := info.FindPlayer(deviceID)
	if p == nil {
		return nil, apperr.NotFoundf("device %s not in room", deviceID)
	}
	if Role(p.Role) != role {
		return nil, apperr.Unauthorizedf("device %s is not %s", deviceID, role)
	}
	if !p.Alive {
		return nil, apperr.InvalidStatef("device %s is dead", deviceID)
	}
	return p, nil
}

func (m *Machine) MafiaKill(ctx context.Context, roomID, deviceID, target string) error {
	return m.nightAction(ctx, roomID, deviceID, target, RoleMafia, func(s *State) { s.MafiaTarget = target })
}

func (m *Machine) DoctorSave(ctx context.Context, roomID, deviceID, target string) error {
	return m.nightAction(ctx, roomID, deviceID, target, RoleDoctor, func(s *State) { s.DoctorTarget = target })
}

// PoliceResult is delivered only to the investigating policeman's own
// stream, never broadcast.
type PoliceResult struct {
	Target  string `json:"target"`
	IsMafia bool   `json:"isMafia"`
}

func (m *Machine) PoliceInvestigate(ctx context.Context, roomID, deviceID, target string) (*PoliceResult, error) {
	info, err := m.Registry.Info(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if _, err := m.requireAlivePlayerWithRole(info, deviceID, RolePolice); err != nil {
		return nil, err
	}
	targetPlayer := info.FindPlayer(target)
	if targetPlayer == nil || !targetPlayer.Alive {
		return nil, apperr.InvalidArgumentf("target %s is not an alive player", target)
	}

	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseNight {
		return nil, apperr.InvalidStatef("policeInvestigate is only valid during night")
	}
	s.PoliceTarget = target
	if err := m.saveState(ctx, roomID, s); err != nil {
		return nil, err
	}

	result := &PoliceResult{Target: target, IsMafia: Role(targetPlayer.Role) == RoleMafia}
	m.Bus.SendToPlayer(roomID, deviceID, "MAFIA_POLICE_RESULT", result)
	m.checkNightComplete(ctx, roomID, info)
	return result, nil
}

func (m *Machine) nightAction(ctx context.Context, roomID, deviceID, target string, role Role, apply func(*State)) error {
	info, err := m.Registry.Info(ctx, roomID)
	if err != nil {
		return err
	}
	if _, err := m.requireAlivePlayerWithRole(info, deviceID, role); err != nil {
		return err
	}
	targetPlayer := info.FindPlayer(target)
	if targetPlayer == nil || !targetPlayer.Alive {
		return apperr.InvalidArgumentf("target %s is not an alive player", target)
	}

	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return err
	}
	if s.Phase != PhaseNight {
		return apperr.InvalidStatef("night actions are only valid during night")
	}
	apply(s)
	if err := m.saveState(ctx, roomID, s); err != nil {
		return err
	}
	m.checkNightComplete(ctx, roomID, info)
	return nil
}

// PostMafiaChat appends a chat line, readable only by mafia devices.
func (m *Machine) PostMafiaChat(ctx context.Context, roomID, deviceID, text string) error {
	info, err := m.Registry.Info(ctx, roomID)
	if err != nil {
		return err
	}
	if _, err := m.requireAlivePlayerWithRole(info, deviceID, RoleMafia); err != nil {
		return err
	}
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return err
	}
	s.MafiaChat = append(s.MafiaChat, ChatMessage{DeviceID: deviceID, Text: text})
	if err := m.saveState(ctx, roomID, s); err != nil {
		return err
	}
	m.Bus.SendToMafia(roomID, m.aliveMafiaIDs(info), "MAFIA_CHAT", s.MafiaChat[len(s.MafiaChat)-1])
	return nil
}

func (m *Machine) aliveMafiaIDs(info *models.RoomInfo) []string {
	var ids []string
	for _, p := range info.Players {
		if p.Alive && Role(p.Role) == RoleMafia {
			ids = append(ids, p.DeviceID)
		}
	}
	return ids
}

// checkNightComplete cancels the night timer and advances to
// dayAnnouncement once every role that has a living representative has
// submitted its choice.
func (m *Machine) checkNightComplete(ctx context.Context, roomID string, info *models.RoomInfo) {
	s, err := m.loadState(ctx, roomID)
	if err != nil || s.Phase != PhaseNight {
		return
	}

	mafiaAlive, doctorAlive, policeAlive := false, false, false
	for _, p := range info.Players {
		if !p.Alive {
			continue
		}
		switch Role(p.Role) {
		case RoleMafia:
			mafiaAlive = true
		case RoleDoctor:
			doctorAlive = true
		case RolePolice:
			policeAlive = true
		}
	}

	if mafiaAlive && s.MafiaTarget == "" {
		return
	}
	if doctorAlive && s.DoctorTarget == "" {
		return
	}
	if policeAlive && s.PoliceTarget == "" {
		return
	}

	m.Scheduler.CancelTimer(roomID)
	m.toDayAnnouncement(ctx, roomID, s)
}

// toDayAnnouncement resolves the night's outcome and checks the win
// condition before arming the next timer.
func (m *Machine) toDayAnnouncement(ctx context.Context, roomID string, s *State) {
	s.WasSaved = false
	s.LastNightKilled = ""
	if s.MafiaTarget != "" {
		if s.MafiaTarget == s.DoctorTarget {
			s.WasSaved = true
		} else {
			s.LastNightKilled = s.MafiaTarget
		}
	}

	info, err := m.Registry.Info(ctx, roomID)
	if err != nil {
		return
	}
	if s.LastNightKilled != "" {
		if p := info.FindPlayer(s.LastNightKilled); p != nil {
			p.Alive = false
		}
		s.DeadPlayers = append(s.DeadPlayers, s.LastNightKilled)
		if err := m.Registry.SaveRoom(ctx, info); err != nil {
			return
		}
	}

	s.resetNight()
	s.Phase = PhaseDayAnnouncement
	s.TimerSec = phaseDurations[PhaseDayAnnouncement]
	if err := m.saveState(ctx, roomID, s); err != nil {
		return
	}

	m.Bus.BroadcastAll(roomID, "MAFIA_DAY_ANNOUNCEMENT", map[string]any{
		"killedPlayer": s.LastNightKilled,
		"wasSaved":     s.WasSaved,
		"dayCount":     s.DayCount,
	})

	if m.checkWinner(ctx, roomID, s, info) {
		return
	}
	m.armTimer(roomID, s)
}

// Vote records voter's plurality-vote pick during the vote phase
// (last-write-wins).
func (m *Machine) Vote(ctx context.Context, roomID, voter, target string) error {
	info, err := m.Registry.Info(ctx, roomID)
	if err != nil {
		return err
	}
	voterPlayer := info.FindPlayer(voter)
	if voterPlayer == nil || !voterPlayer.Alive {
		return apperr.InvalidStatef("only alive players may vote")
	}
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return err
	}
	if s.Phase != PhaseVote {
		return apperr.InvalidStatef("vote is only valid during the vote phase")
	}
	s.Votes[voter] = target
	if err := m.saveState(ctx, roomID, s); err != nil {
		return err
	}
	m.Bus.BroadcastHost(roomID, "MAFIA_VOTE_UPDATE", s.Votes)
	return nil
}

// resolveVote computes the plurality target (unique winner required; a
// tie executes no one).
func (m *Machine) resolveVote(ctx context.Context, roomID string, s *State) {
	target, unique := plurality(s.Votes)
	if unique {
		s.ExecutionTarget = target
	} else {
		s.ExecutionTarget = ""
	}
	s.Phase = PhaseVoteResult
	s.TimerSec = phaseDurations[PhaseVoteResult]
	if err := m.saveState(ctx, roomID, s); err != nil {
		return
	}
	m.Bus.BroadcastAll(roomID, "MAFIA_VOTE_RESULT", map[string]any{
		"votes":           s.Votes,
		"executionTarget": s.ExecutionTarget,
	})
	m.armTimer(roomID, s)
}

// plurality returns the single deviceId with the most votes, or ("",
// false) if there is a tie for the top spot.
func plurality(votes map[string]string) (string, bool) {
	counts := make(map[string]int)
	for _, target := range votes {
		counts[target]++
	}
	best := -1
	winner := ""
	tied := false
	for target, c := range counts {
		switch {
		case c > best:
			best = c
			winner = target
			tied = false
		case c == best:
			tied = true
		}
	}
	if winner == "" || tied {
		return "", false
	}
	return winner, true
}

// FinalVote records voter's kill(true)/save(false) choice during
// finalVote; the executionTarget itself cannot vote.
func (m *Machine) FinalVote(ctx context.Context, roomID, voter string, kill bool) error {
	info, err := m.Registry.Info(ctx, roomID)
	if err != nil {
		return err
	}
	voterPlayer := info.FindPlayer(voter)
	if voterPlayer == nil || !voterPlayer.Alive {
		return apperr.InvalidStatef("only alive players may vote")
	}
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return err
	}
	if s.Phase != PhaseFinalVote {
		return apperr.InvalidStatef("finalVote is only valid during the finalVote phase")
	}
	if voter == s.ExecutionTarget {
		return apperr.Unauthorizedf("the accused may not vote in their own final vote")
	}
	s.FinalVotes[voter] = kill
	if err := m.saveState(ctx, roomID, s); err != nil {
		return err
	}
	m.Bus.BroadcastHost(roomID, "MAFIA_FINAL_VOTE_UPDATE", s.FinalVotes)
	return nil
}

// resolveFinalVote executes the accused iff killVotes > saveVotes, then
// checks the win condition.
func (m *Machine) resolveFinalVote(ctx context.Context, roomID string, s *State) {
	kill, save := 0, 0
	for _, v := range s.FinalVotes {
		if v {
			kill++
		} else {
			save++
		}
	}
	executed := kill > save

	info, err := m.Registry.Info(ctx, roomID)
	if err != nil {
		return
	}
	if executed && s.ExecutionTarget != "" {
		if p := info.FindPlayer(s.ExecutionTarget); p != nil {
			p.Alive = false
		}
		s.DeadPlayers = append(s.DeadPlayers, s.ExecutionTarget)
		if err := m.Registry.SaveRoom(ctx, info); err != nil {
			return
		}
	}

	s.Phase = PhaseFinalVoteResult
	s.TimerSec = phaseDurations[PhaseFinalVoteResult]
	if err := m.saveState(ctx, roomID, s); err != nil {
		return
	}
	m.Bus.BroadcastAll(roomID, "MAFIA_FINAL_VOTE_RESULT", map[string]any{
		"executed":        executed,
		"executionTarget": s.ExecutionTarget,
		"killVotes":       kill,
		"saveVotes":       save,
	})

	if m.checkWinner(ctx, roomID, s, info) {
		return
	}
	m.armTimer(roomID, s)
}

// newNight starts a fresh day cycle after a night with no execution, or
// after a finalVoteResult that didn't end the game.
func (m *Machine) newNight(ctx context.Context, roomID string, s *State) {
	s.DayCount++
	s.resetNight()
	s.resetVotes()
	s.resetFinalVotes()
	s.Phase = PhaseNight
	s.TimerSec = phaseDurations[PhaseNight]
	if err := m.saveState(ctx, roomID, s); err != nil {
		return
	}
	m.Bus.BroadcastAll(roomID, "MAFIA_PHASE_CHANGE", map[string]any{"phase": PhaseNight, "dayCount": s.DayCount})
	m.armTimer(roomID, s)
}

// checkWinner declares mafia the winner once they equal or outnumber
// the living non-mafia, or the village the winner once no mafia is
// left alive; otherwise it returns false. Must be called before arming
// the next timer after any death.
func (m *Machine) checkWinner(ctx context.Context, roomID string, s *State, info *models.RoomInfo) bool {
	mafiaAlive, nonMafiaAlive := 0, 0
	for _, p := range info.Players {
		if !p.Alive {
			continue
		}
		if Role(p.Role) == RoleMafia {
			mafiaAlive++
		} else {
			nonMafiaAlive++
		}
	}

	var winner Winner
	switch {
	case mafiaAlive == 0:
		winner = WinnerCitizen
	case mafiaAlive >= nonMafiaAlive:
		winner = WinnerMafia
	default:
		return false
	}

	s.Winner = winner
	s.Phase = PhaseGameEnd
	s.TimerSec = 0
	if err := m.saveState(ctx, roomID, s); err != nil {
		return true
	}
	m.Scheduler.CancelTimer(roomID)
	m.Bus.BroadcastAll(roomID, "MAFIA_GAME_END", map[string]any{
		"winner":  winner,
		"players": info.Players,
	})
	return true
}

// DebugForcePhase cycles a room stuck in voteResult straight back to
// night without running checkWinner, bypassing the normal
// OnPhaseComplete dispatch entirely. It exists only for manual testing
// of phase transitions and must never be reachable from a production
// route; callers gate it on config.Debug.
func (m *Machine) DebugForcePhase(ctx context.Context, roomID string) error {
	s, err := m.loadState(ctx, roomID)
	if err != nil {
		return err
	}
	if s.Phase != PhaseVoteResult {
		return apperr.InvalidStatef("debugForcePhase is only valid during voteResult")
	}
	m.newNight(ctx, roomID, s)
	return nil
}

// End clears every mafia-scoped key for roomID and returns the room to
// waiting.
func (m *Machine) End(ctx context.Context, roomID string) error {
	m.Scheduler.Cleanup(roomID)
	if err := m.Store.Delete(ctx, store.MafiaStateKey(roomID)); err != nil {
		return err
	}
	if _, err := m.Registry.EndGame(ctx, roomID); err != nil {
		return err
	}
	m.Bus.BroadcastAll(roomID, "MAFIA_GAME_END", nil)
	return nil
}
