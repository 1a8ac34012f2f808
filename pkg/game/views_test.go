package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secretRoom(phase Phase) *Room {
	r := newRoom("ABCD")
	r.Phase = phase
	r.Category = "Animals"
	r.Words = testCategories()[0].Words
	r.TargetIndex = 7
	r.ImposterID = "b"
	r.LastImposterID = "b"
	r.H2HButtons = []DuelButton{DuelButtonDanger, DuelButtonSafe, DuelButtonDanger}
	r.Players = []*Player{
		{ID: "a", Name: "a", IsHost: true, Lives: 3, Role: RoleInnocent},
		{ID: "b", Name: "b", Lives: 3, Role: RoleImpostor},
		{ID: "c", Name: "c", Lives: 3, Role: RoleInnocent},
	}
	return r
}

func TestSafeViewHidesSecretsInMaskedPhases(t *testing.T) {
	maskedPhases := []Phase{PhaseLobby, PhaseSetup, PhaseClue, PhaseVote}
	for _, phase := range maskedPhases {
		t.Run(string(phase), func(t *testing.T) {
			view := secretRoom(phase).safeView()
			assert.Empty(t, view.ImposterID)
			for _, p := range view.Players {
				assert.Empty(t, p.Role)
			}
		})
	}
}

func TestSafeViewRevealsAfterResolution(t *testing.T) {
	revealedPhases := []Phase{PhaseResolution, PhaseStealLife, PhaseRoundEnd, PhaseHeadToHead, PhaseGameOver}
	for _, phase := range revealedPhases {
		t.Run(string(phase), func(t *testing.T) {
			view := secretRoom(phase).safeView()
			assert.Equal(t, "b", view.ImposterID)
			for _, p := range view.Players {
				assert.NotEmpty(t, p.Role)
			}
		})
	}
}

func TestSafeViewNeverSerializesTargetOrButtons(t *testing.T) {
	allPhases := []Phase{
		PhaseLobby, PhaseCountdown, PhaseSetup, PhaseClue, PhaseVote,
		PhaseResolution, PhaseStealLife, PhaseRoundEnd, PhaseHeadToHead, PhaseGameOver,
	}
	for _, phase := range allPhases {
		b, err := json.Marshal(secretRoom(phase).safeView())
		require.NoError(t, err)
		assert.NotContains(t, string(b), "targetIndex", "phase %s leaked the target index", phase)
		assert.NotContains(t, string(b), "Buttons", "phase %s leaked the duel layout", phase)
	}
}

func TestSafeViewCountdownWithholdsTheGrid(t *testing.T) {
	view := secretRoom(PhaseCountdown).safeView()
	assert.Empty(t, view.Category)
	assert.Empty(t, view.Words)
}

func TestSafeViewCopiesVotes(t *testing.T) {
	r := secretRoom(PhaseVote)
	r.Votes = map[string]string{"a": "b"}
	view := r.safeView()
	view.Votes["a"] = "c"
	assert.Equal(t, "b", r.Votes["a"])
}

func TestDisplaySecondsFloorsAtZero(t *testing.T) {
	assert.Equal(t, 0, displaySeconds(-2))
	assert.Equal(t, 0, displaySeconds(0))
	assert.Equal(t, 5, displaySeconds(5))
}
