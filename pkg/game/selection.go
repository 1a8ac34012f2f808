package game

import (
	"math/rand"

	"github.com/sospetto-game/server/pkg/words"
)

// pickCategory copies a uniformly chosen category so later mutation of the
// room's word slice cannot touch the source content.
func pickCategory(categories []words.Category) (string, []string) {
	category := categories[rand.Intn(len(categories))]
	copied := make([]string, len(category.Words))
	copy(copied, category.Words)
	return category.Name, copied
}

// chooseImpostor runs the weighted two-stage draw: uniform among the living
// players with the fewest impostor rounds so far, redrawing once to avoid an
// immediate repeat when that would not empty the pool.
func chooseImpostor(living []*Player, lastImposterID string) *Player {
	if len(living) == 0 {
		return nil
	}

	minTimes := living[0].TimesImpostor
	for _, p := range living[1:] {
		if p.TimesImpostor < minTimes {
			minTimes = p.TimesImpostor
		}
	}

	candidates := make([]*Player, 0, len(living))
	for _, p := range living {
		if p.TimesImpostor == minTimes {
			candidates = append(candidates, p)
		}
	}

	selected := candidates[rand.Intn(len(candidates))]

	if lastImposterID != "" && selected.ID == lastImposterID && len(candidates) > 1 {
		others := make([]*Player, 0, len(candidates)-1)
		for _, p := range candidates {
			if p.ID != lastImposterID {
				others = append(others, p)
			}
		}
		selected = others[rand.Intn(len(others))]
	}

	return selected
}

// selectRound draws everything a fresh round needs: category, words, target,
// impostor, per-player roles and a shuffled turn order. Callers hold r.mu.
func (r *Room) selectRound(categories []words.Category) {
	r.Category, r.Words = pickCategory(categories)
	r.TargetIndex = rand.Intn(len(r.Words))

	living := r.livingPlayers()
	selected := chooseImpostor(living, r.LastImposterID)
	if selected == nil {
		return
	}
	selected.TimesImpostor++
	r.ImposterID = selected.ID
	r.LastImposterID = selected.ID

	for _, p := range r.Players {
		if p.IsAlive() {
			if p.ID == r.ImposterID {
				p.Role = RoleImpostor
			} else {
				p.Role = RoleInnocent
			}
		} else {
			p.Role = RoleSpectator
		}
		p.VotesReceived = 0
	}

	// Dead players stay in the list and are skipped at their turn.
	rand.Shuffle(len(r.Players), func(i, j int) {
		r.Players[i], r.Players[j] = r.Players[j], r.Players[i]
	})
}

// shuffleDuelButtons deals a fresh {1 safe, 2 unsafe} layout. Each duel turn
// is an independent draw, not a depleting pool.
func shuffleDuelButtons() []DuelButton {
	buttons := []DuelButton{DuelButtonSafe, DuelButtonDanger, DuelButtonDanger}
	rand.Shuffle(len(buttons), func(i, j int) {
		buttons[i], buttons[j] = buttons[j], buttons[i]
	})
	return buttons
}
