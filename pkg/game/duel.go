package game

import (
	"github.com/sospetto-game/server/pkg/log"
	"github.com/sospetto-game/server/pkg/messages"
)

// The head-to-head finale. With exactly two players left, the match stops
// being a deduction game: the duelists alternate picking one of three face
// down buttons, one safe and two not, re-dealt every turn. An unsafe pick
// costs a life, and the first duelist to run out loses the match.

// startHeadToHead opens the duel. Unspent bonus cards convert to one life
// each on entry, which is the only way past the usual life cap.
func (m *Manager) startHeadToHead(r *Room) {
	r.cancelTimer()
	r.Phase = PhaseHeadToHead
	r.CurrentTurnIndex = 0
	r.TimerRemaining = 0

	living := r.livingPlayers()
	r.DuelistIDs = make([]string, 0, len(living))
	for _, p := range living {
		if p.HasBonusCard {
			p.HasBonusCard = false
			p.Lives++
		}
		r.DuelistIDs = append(r.DuelistIDs, p.ID)
	}
	r.H2HButtons = shuffleDuelButtons()

	log.Info("room %s entering head-to-head: %s vs %s", r.ID, r.DuelistIDs[0], r.DuelistIDs[1])
	m.broadcast(r.ID, messages.MessageTypeServerDuelStart, messages.ServerDuelStart{
		TurnPlayerID: r.DuelistIDs[0],
		Players:      r.playerViews(true),
	})
	m.broadcastRoom(r)
}

// DuelAction resolves one button press by the duelist whose turn it is.
func (m *Manager) DuelAction(clientID string, roomID string, buttonIndex int) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.Phase != PhaseHeadToHead {
			return ErrWrongPhase
		}
		if len(r.DuelistIDs) != 2 {
			return ErrWrongPhase
		}
		currentID := r.DuelistIDs[r.CurrentTurnIndex%2]
		if clientID != currentID {
			return ErrNotYourTurn
		}
		if buttonIndex < 0 || buttonIndex >= len(r.H2HButtons) {
			return ErrInvalidTarget
		}
		duelist := r.findPlayer(currentID)
		if duelist == nil || !duelist.IsAlive() {
			return ErrWrongPhase
		}

		isSafe := r.H2HButtons[buttonIndex] == DuelButtonSafe
		if !isSafe {
			r.loseLife(duelist)
		}
		m.broadcast(r.ID, messages.MessageTypeServerDuelResult, messages.ServerDuelResult{
			PlayerID:    duelist.ID,
			ButtonIndex: buttonIndex,
			IsSafe:      isSafe,
			Lives:       duelist.Lives,
		})
		m.broadcastRoom(r)

		if duelist.Lives <= 0 {
			winner := r.findPlayer(r.DuelistIDs[(r.CurrentTurnIndex+1)%2])
			r.scheduleAfter(m.timing.DuelDeathDelay, PhaseHeadToHead, func() {
				m.finishGame(r, winner)
			})
			return nil
		}

		r.CurrentTurnIndex++
		r.H2HButtons = shuffleDuelButtons()
		nextID := r.DuelistIDs[r.CurrentTurnIndex%2]
		r.scheduleAfter(m.timing.DuelTurnDelay, PhaseHeadToHead, func() {
			m.broadcast(r.ID, messages.MessageTypeServerDuelTurn, messages.ServerDuelTurn{
				TurnPlayerID: nextID,
			})
			m.broadcastRoom(r)
		})
		return nil
	})
}
