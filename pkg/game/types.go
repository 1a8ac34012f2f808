package game

import (
	"sync"
	"time"

	"github.com/sospetto-game/server/pkg/game/constants"
)

// Phase is a room's position in the match state machine.
type Phase string

const (
	PhaseLobby      Phase = "LOBBY"
	PhaseCountdown  Phase = "COUNTDOWN"
	PhaseSetup      Phase = "SETUP"
	PhaseClue       Phase = "CLUE"
	PhaseVote       Phase = "VOTE"
	PhaseResolution Phase = "RESOLUTION"
	PhaseStealLife  Phase = "STEAL_LIFE"
	PhaseRoundEnd   Phase = "ROUND_END"
	PhaseHeadToHead Phase = "HEAD_TO_HEAD"
	PhaseGameOver   Phase = "GAME_OVER"
)

// Role is a player's secret assignment for the current round.
type Role string

const (
	RoleNone      Role = ""
	RoleImpostor  Role = "IMPOSTOR"
	RoleInnocent  Role = "INNOCENT"
	RoleSpectator Role = "SPECTATOR"
)

// Reason explains how STEAL_LIFE was entered or why a round ended.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonNoMajority     Reason = "NO_MAJORITY"
	ReasonInnocentVoted  Reason = "INNOCENT_VOTED"
	ReasonWordGuessed    Reason = "WORD_GUESSED"
	ReasonStealTimeout   Reason = "STEAL_TIMEOUT"
	ReasonImpostorFailed Reason = "IMPOSTOR_FAILED"
)

// RoundResult is the outcome of a round.
type RoundResult string

const (
	RoundResultImpostorWin  RoundResult = "IMPOSTOR_WIN"
	RoundResultInnocentsWin RoundResult = "INNOCENTS_WIN"
)

// DuelButton is one of the three head-to-head choices.
type DuelButton int

const (
	DuelButtonSafe DuelButton = iota
	DuelButtonDanger
)

// Player is one member of a room. Mutated only while the room lock is held.
type Player struct {
	ID            string
	Name          string
	IsHost        bool
	Lives         int
	Role          Role
	IsGhost       bool
	HasBonusCard  bool
	TimesImpostor int
	VotesReceived int
	// Disconnected marks a seat whose connection went away mid-match. The
	// seat plays out the match on timers and is reclaimed at the next
	// return to the lobby.
	Disconnected bool
}

// IsAlive reports whether the player can still act in the match.
func (p *Player) IsAlive() bool {
	return p.Lives > 0 && !p.IsGhost
}

// Clue is one submitted hint.
type Clue struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
}

// Room is the mutable state machine for one match. All fields are guarded by
// mu; action handlers and timer callbacks each run to completion under it, so
// transitions on one room never interleave.
type Room struct {
	mu sync.Mutex

	ID      string
	Phase   Phase
	Players []*Player

	Category    string
	Words       []string
	TargetIndex int

	ImposterID     string
	LastImposterID string

	CurrentTurnIndex int
	Clues            []Clue
	Votes            map[string]string

	// TimerRemaining may go slightly negative during the clue grace window.
	TimerRemaining int
	StealReason    Reason

	H2HButtons []DuelButton
	DuelistIDs []string

	// Single-slot timer state. Every new countdown or deferred continuation
	// bumps timerGen, which invalidates anything previously scheduled.
	timerGen    uint64
	timerCancel func()

	closed bool
}

func newRoom(id string) *Room {
	return &Room{
		ID:    id,
		Phase: PhaseLobby,
		Votes: make(map[string]string),
	}
}

func newPlayer(id, name string, isHost bool) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		IsHost: isHost,
		Lives:  constants.MaxLives,
	}
}

// Timing holds every countdown budget and deferred delay the engine uses.
// Production uses DefaultTiming; tests shrink these to run fast.
type Timing struct {
	TickInterval     time.Duration
	CountdownSeconds int
	SetupDelay       time.Duration
	ClueSeconds      int
	ClueGraceSeconds int
	VoteSeconds      int
	VoteAllInSeconds int
	StealSeconds     int
	RevealDelay      time.Duration
	RoundEndDelay    time.Duration
	DuelTurnDelay    time.Duration
	DuelDeathDelay   time.Duration
	ResetDelay       time.Duration
}

// DefaultTiming returns the production timings.
func DefaultTiming() Timing {
	return Timing{
		TickInterval:     time.Second,
		CountdownSeconds: constants.CountdownSeconds,
		SetupDelay:       constants.SetupDelaySeconds * time.Second,
		ClueSeconds:      constants.ClueSeconds,
		ClueGraceSeconds: constants.ClueGraceSeconds,
		VoteSeconds:      constants.VoteSeconds,
		VoteAllInSeconds: constants.VoteAllInSeconds,
		StealSeconds:     constants.StealSeconds,
		RevealDelay:      constants.RevealDelaySeconds * time.Second,
		RoundEndDelay:    constants.RoundEndDelaySeconds * time.Second,
		DuelTurnDelay:    constants.DuelTurnDelaySeconds * time.Second,
		DuelDeathDelay:   constants.DuelDeathDelaySeconds * time.Second,
		ResetDelay:       constants.ResetDelaySeconds * time.Second,
	}
}
