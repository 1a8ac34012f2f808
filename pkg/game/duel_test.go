package game

import (
	"testing"
	"time"

	"github.com/sospetto-game/server/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupDuel drives a three player match into the head-to-head finale by
// eliminating one player directly.
func setupDuel(t *testing.T, m *Manager) (*Room, [2]string) {
	t.Helper()
	r := setupMatch(t, m, []string{"a", "b", "c"})

	r.mu.Lock()
	r.cancelTimer()
	ghost := r.Players[len(r.Players)-1]
	ghost.Lives = 0
	ghost.IsGhost = true
	m.startHeadToHead(r)
	duelists := [2]string{r.DuelistIDs[0], r.DuelistIDs[1]}
	r.mu.Unlock()
	return r, duelists
}

func safeIndex(r *Room) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.H2HButtons {
		if b == DuelButtonSafe {
			return i
		}
	}
	return -1
}

func dangerIndex(r *Room) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.H2HButtons {
		if b == DuelButtonDanger {
			return i
		}
	}
	return -1
}

func TestDuelStartConvertsBonusCards(t *testing.T) {
	m, fm := newTestManager(t, testTiming())
	r := setupMatch(t, m, []string{"a", "b", "c"})

	r.mu.Lock()
	r.cancelTimer()
	ghost := r.Players[2]
	ghost.Lives = 0
	ghost.IsGhost = true
	holder := r.Players[0]
	holder.HasBonusCard = true
	holderID := holder.ID
	holderLives := holder.Lives
	m.startHeadToHead(r)
	r.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, PhaseHeadToHead, r.Phase)
	assert.Len(t, r.DuelistIDs, 2)
	holder = r.findPlayer(holderID)
	assert.False(t, holder.HasBonusCard)
	assert.Equal(t, holderLives+1, holder.Lives)

	start := decodePayload[messages.ServerDuelStart](t, fm.lastBroadcast(messages.MessageTypeServerDuelStart))
	assert.Equal(t, r.DuelistIDs[0], start.TurnPlayerID)
}

func TestDuelEnforcesTurnAndButtonRange(t *testing.T) {
	m, _ := newTestManager(t, testTiming())
	r, duelists := setupDuel(t, m)

	assert.ErrorIs(t, m.DuelAction(duelists[1], r.ID, 0), ErrNotYourTurn)
	assert.ErrorIs(t, m.DuelAction(duelists[0], r.ID, 3), ErrInvalidTarget)
	assert.ErrorIs(t, m.DuelAction(duelists[0], r.ID, -1), ErrInvalidTarget)
}

func TestDuelSafePickPassesTheTurn(t *testing.T) {
	m, fm := newTestManager(t, testTiming())
	r, duelists := setupDuel(t, m)

	r.mu.Lock()
	livesBefore := r.findPlayer(duelists[0]).Lives
	r.mu.Unlock()

	require.NoError(t, m.DuelAction(duelists[0], r.ID, safeIndex(r)))

	result := decodePayload[messages.ServerDuelResult](t, fm.lastBroadcast(messages.MessageTypeServerDuelResult))
	assert.Equal(t, duelists[0], result.PlayerID)
	assert.True(t, result.IsSafe)

	r.mu.Lock()
	assert.Equal(t, livesBefore, r.findPlayer(duelists[0]).Lives)
	assert.Equal(t, 1, r.CurrentTurnIndex)
	r.mu.Unlock()

	// A fresh layout is dealt and the other duelist is announced.
	require.Eventually(t, func() bool {
		msg := fm.lastBroadcast(messages.MessageTypeServerDuelTurn)
		if msg == nil {
			return false
		}
		turn := decodePayload[messages.ServerDuelTurn](t, msg)
		return turn.TurnPlayerID == duelists[1]
	}, 2*time.Second, 2*time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()
	safe := 0
	for _, b := range r.H2HButtons {
		if b == DuelButtonSafe {
			safe++
		}
	}
	assert.Len(t, r.H2HButtons, 3)
	assert.Equal(t, 1, safe)
}

func TestDuelUnsafePickCostsALife(t *testing.T) {
	m, fm := newTestManager(t, testTiming())
	r, duelists := setupDuel(t, m)

	r.mu.Lock()
	livesBefore := r.findPlayer(duelists[0]).Lives
	r.mu.Unlock()

	require.NoError(t, m.DuelAction(duelists[0], r.ID, dangerIndex(r)))

	result := decodePayload[messages.ServerDuelResult](t, fm.lastBroadcast(messages.MessageTypeServerDuelResult))
	assert.False(t, result.IsSafe)
	assert.Equal(t, livesBefore-1, result.Lives)

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, livesBefore-1, r.findPlayer(duelists[0]).Lives)
	assert.Equal(t, 1, r.CurrentTurnIndex)
}

func TestDuelDeathEndsTheMatch(t *testing.T) {
	m, fm := newTestManager(t, testTiming())
	r, duelists := setupDuel(t, m)

	r.mu.Lock()
	r.findPlayer(duelists[0]).Lives = 1
	r.mu.Unlock()

	require.NoError(t, m.DuelAction(duelists[0], r.ID, dangerIndex(r)))

	waitPhase(t, r, PhaseGameOver)
	over := decodePayload[messages.ServerGameOver](t, fm.lastBroadcast(messages.MessageTypeServerGameOver))
	assert.Equal(t, duelists[1], over.WinnerID)

	r.mu.Lock()
	defer r.mu.Unlock()
	loser := r.findPlayer(duelists[0])
	assert.Equal(t, 0, loser.Lives)
	assert.True(t, loser.IsGhost)
}
