// Package mafia implements the social-deduction game: phased night/day
// cycles with server-enforced deadlines and information partitioning
// between mafia, doctor, police, and civilians.
package mafia

// Phase names the one of nine stages a room's Mafia game is in.
type Phase string

const (
	PhaseNight            Phase = "night"
	PhaseDayAnnouncement  Phase = "dayAnnouncement"
	PhaseDayDiscussion    Phase = "dayDiscussion"
	PhaseVote             Phase = "vote"
	PhaseVoteResult       Phase = "voteResult"
	PhaseFinalDefense     Phase = "finalDefense"
	PhaseFinalVote        Phase = "finalVote"
	PhaseFinalVoteResult  Phase = "finalVoteResult"
	PhaseGameEnd          Phase = "gameEnd"
)

// phaseDurations holds the fixed countdown length for every phase.
// gameEnd has no timer.
var phaseDurations = map[Phase]int{
	PhaseNight:           30,
	PhaseDayAnnouncement: 10,
	PhaseDayDiscussion:   240,
	PhaseVote:            60,
	PhaseVoteResult:      5,
	PhaseFinalDefense:    30,
	PhaseFinalVote:       30,
	PhaseFinalVoteResult: 5,
	PhaseGameEnd:         0,
}

// Role is a player's Mafia-scoped role tag, stored on models.Player.Role.
type Role string

const (
	RoleMafia    Role = "mafia"
	RoleDoctor   Role = "doctor"
	RolePolice   Role = "police"
	RoleCivilian Role = "civilian"
)

// ChatMessage is one append-only entry in the mafia-only chat.
type ChatMessage struct {
	DeviceID string `json:"deviceId"`
	Text     string `json:"text"`
}

// Winner is set only once the game has reached gameEnd.
type Winner string

const (
	WinnerNone     Winner = ""
	WinnerCitizen  Winner = "citizen"
	WinnerMafia    Winner = "mafia"
)

// State is the JSON value stored at "room:{id}:mafia:state".
type State struct {
	Phase     Phase  `json:"phase"`
	TimerSec  int    `json:"timerSec"`
	DayCount  int    `json:"dayCount"`

	MafiaTarget  string `json:"mafiaTarget,omitempty"`
	DoctorTarget string `json:"doctorTarget,omitempty"`
	PoliceTarget string `json:"policeTarget,omitempty"`

	Votes          map[string]string `json:"votes"`          // voter -> target
	FinalVotes     map[string]bool   `json:"finalVotes"`      // voter -> kill(true)/save(false)
	ExecutionTarget string           `json:"executionTarget,omitempty"`
	LastNightKilled string           `json:"lastNightKilled,omitempty"`
	WasSaved        bool             `json:"wasSaved"`

	MafiaChat    []ChatMessage `json:"mafiaChat"`
	DeadPlayers  []string      `json:"deadPlayers"`
	Winner       Winner        `json:"winner,omitempty"`
}

func newState() *State {
	return &State{
		Phase:      PhaseNight,
		TimerSec:   phaseDurations[PhaseNight],
		DayCount:   1,
		Votes:      make(map[string]string),
		FinalVotes: make(map[string]bool),
	}
}

// isDead reports whether deviceID is in DeadPlayers.
func (s *State) isDead(deviceID string) bool {
	for _, id := range s.DeadPlayers {
		if id == deviceID {
			return true
		}
	}
	return false
}

// resetNight clears the pending night targets for a fresh night phase.
func (s *State) resetNight() {
	s.MafiaTarget = ""
	s.DoctorTarget = ""
	s.PoliceTarget = ""
}

// resetVotes clears the day-vote tally for a fresh vote phase.
func (s *State) resetVotes() {
	s.Votes = make(map[string]string)
	s.ExecutionTarget = ""
}

// resetFinalVotes clears the final-vote tally for a fresh finalVote phase.
func (s *State) resetFinalVotes() {
	s.FinalVotes = make(map[string]bool)
}
