package game

import "github.com/sospetto-game/server/pkg/game/constants"

// livingPlayers returns the players still able to act, in turn order.
func (r *Room) livingPlayers() []*Player {
	living := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.IsAlive() {
			living = append(living, p)
		}
	}
	return living
}

// findPlayer returns the player with the given id, or nil.
func (r *Room) findPlayer(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// imposter returns the current impostor, or nil.
func (r *Room) imposter() *Player {
	if r.ImposterID == "" {
		return nil
	}
	return r.findPlayer(r.ImposterID)
}

// loseLife deducts one life with a floor of zero and reports whether the
// player was eliminated by this deduction. Elimination is permanent: the
// ghost flag only clears on a full match reset.
func (r *Room) loseLife(p *Player) bool {
	if p.Lives > 0 {
		p.Lives--
	}
	if p.Lives == 0 && !p.IsGhost {
		p.IsGhost = true
		return true
	}
	return false
}

// pruneDisconnected drops seats whose connection went away mid-match and
// hands the host role to the earliest remaining player if the host was among
// them. Reports whether any players remain.
func (r *Room) pruneDisconnected() bool {
	kept := r.Players[:0]
	hostLost := false
	for _, p := range r.Players {
		if p.Disconnected {
			if p.IsHost {
				hostLost = true
			}
			continue
		}
		kept = append(kept, p)
	}
	r.Players = kept
	if len(r.Players) == 0 {
		return false
	}
	if hostLost {
		r.Players[0].IsHost = true
	}
	return true
}

// resetForLobby clears the match back to a fresh lobby in place. The roster
// and host assignment survive; everything round-scoped is wiped.
func (r *Room) resetForLobby() {
	r.Phase = PhaseLobby
	r.Category = ""
	r.Words = nil
	r.TargetIndex = 0
	r.ImposterID = ""
	r.LastImposterID = ""
	r.CurrentTurnIndex = 0
	r.Clues = nil
	r.Votes = make(map[string]string)
	r.TimerRemaining = 0
	r.StealReason = ReasonNone
	r.H2HButtons = nil
	r.DuelistIDs = nil
	r.cancelTimer()

	for _, p := range r.Players {
		p.Lives = constants.MaxLives
		p.Role = RoleNone
		p.IsGhost = false
		p.HasBonusCard = false
		p.TimesImpostor = 0
		p.VotesReceived = 0
	}
}
