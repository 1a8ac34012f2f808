package game

// The visibility filter. Every broadcast goes through safeView: the timer
// handle, target index and duel button layout never leave the server, and the
// impostor's identity and per-player roles only appear once the game's own
// rules have revealed them. Per-player secrets travel through dedicated
// unicasts only.

// PlayerView is the broadcast-safe projection of a Player.
type PlayerView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IsHost        bool   `json:"isHost"`
	Lives         int    `json:"lives"`
	IsGhost       bool   `json:"isGhost"`
	HasBonusCard  bool   `json:"hasBonusCard"`
	TimesImpostor int    `json:"timesImpostor"`
	VotesReceived int    `json:"votesReceived"`
	Disconnected  bool   `json:"disconnected,omitempty"`
	Role          string `json:"role,omitempty"`
}

// RoomView is the broadcast-safe projection of a Room.
type RoomView struct {
	ID               string            `json:"id"`
	Phase            string            `json:"phase"`
	Players          []PlayerView      `json:"players"`
	Category         string            `json:"category,omitempty"`
	Words            []string          `json:"words,omitempty"`
	ImposterID       string            `json:"imposterId,omitempty"`
	CurrentTurnIndex int               `json:"currentTurnIndex"`
	Clues            []Clue            `json:"clues"`
	Votes            map[string]string `json:"votes,omitempty"`
	Timer            int               `json:"timer"`
	StealReason      string            `json:"stealReason,omitempty"`
	DuelistIDs       []string          `json:"duelistIds,omitempty"`
}

// revealPhases are the phases in which roles and the impostor's identity are
// public knowledge.
var revealPhases = map[Phase]bool{
	PhaseResolution: true,
	PhaseStealLife:  true,
	PhaseRoundEnd:   true,
	PhaseGameOver:   true,
	PhaseHeadToHead: true,
}

// safeView projects the room into its broadcast-safe form. Callers hold r.mu.
func (r *Room) safeView() RoomView {
	reveal := revealPhases[r.Phase]

	view := RoomView{
		ID:               r.ID,
		Phase:            string(r.Phase),
		Players:          r.playerViews(reveal),
		Category:         r.Category,
		Words:            append([]string(nil), r.Words...),
		CurrentTurnIndex: r.CurrentTurnIndex,
		Clues:            append([]Clue(nil), r.Clues...),
		Timer:            displaySeconds(r.TimerRemaining),
		StealReason:      string(r.StealReason),
		DuelistIDs:       append([]string(nil), r.DuelistIDs...),
	}

	if reveal {
		view.ImposterID = r.ImposterID
	}

	if r.Phase == PhaseCountdown {
		// Round secrets are already drawn but withheld until the countdown ends.
		view.Category = ""
		view.Words = nil
	}

	if len(r.Votes) > 0 {
		view.Votes = make(map[string]string, len(r.Votes))
		for voter, target := range r.Votes {
			view.Votes[voter] = target
		}
	}

	return view
}

func (r *Room) playerViews(revealRoles bool) []PlayerView {
	views := make([]PlayerView, len(r.Players))
	for i, p := range r.Players {
		views[i] = PlayerView{
			ID:            p.ID,
			Name:          p.Name,
			IsHost:        p.IsHost,
			Lives:         p.Lives,
			IsGhost:       p.IsGhost,
			HasBonusCard:  p.HasBonusCard,
			TimesImpostor: p.TimesImpostor,
			VotesReceived: p.VotesReceived,
			Disconnected:  p.Disconnected,
		}
		if revealRoles {
			views[i].Role = string(p.Role)
		}
	}
	return views
}

// displaySeconds floors the remaining time at zero for clients; the internal
// value may be negative during the clue grace window.
func displaySeconds(remaining int) int {
	if remaining < 0 {
		return 0
	}
	return remaining
}
