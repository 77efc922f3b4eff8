package dresser

import (
	"math"
	"strings"

	"github.com/threadora/threadora-backend/models"
)

// Share of the look budget each slot aims for; the outerwear fallback
// reuses the bottom share.
var budgetShare = map[role]float64{
	roleTop:       0.30,
	roleBottom:    0.30,
	roleOuterwear: 0.30,
	roleFootwear:  0.25,
	roleAccessory: 0.15,
}

// composeLooks attempts `attempts` looks against the role buckets.
// Selection per slot: highest relevance candidate whose price keeps the
// running total within budget, preferring items unused by earlier looks
// of this call (reuse is allowed only when no unused candidate fits).
// Unfillable slots are skipped; looks that end up empty are dropped and
// do not count toward the attempt total. Given identical input the
// output is reproducible: all ties resolve to the earliest candidate.
func composeLooks(buckets map[role][]models.Product, ans QuizAnswers, budget float64, attempts int) []Look {
	used := make(map[string]bool)
	var looks []Look

	for attempt := 0; attempt < attempts; attempt++ {
		var items []LookItem
		var total float64

		for _, slot := range slotOrder {
			remaining := budget - total
			pick, pickRole := pickForSlot(buckets, slot, ans, used, remaining, budget)
			if pick == nil {
				continue
			}
			used[pick.ID.Hex()] = true
			items = append(items, lookItem(pick, pickRole, ans))
			total += pick.Price
		}

		if len(items) == 0 {
			continue
		}
		looks = append(looks, buildLook(len(looks)+1, items, total, ans))
	}
	return looks
}

// pickForSlot returns the best candidate for a slot, trying outerwear
// when the bottom bucket has nothing eligible.
func pickForSlot(buckets map[role][]models.Product, slot role, ans QuizAnswers, used map[string]bool, remaining, budget float64) (*models.Product, role) {
	if p := pickFromBucket(buckets[slot], slot, ans, used, remaining, budget); p != nil {
		return p, slot
	}
	if slot == roleBottom {
		if p := pickFromBucket(buckets[roleOuterwear], roleOuterwear, ans, used, remaining, budget); p != nil {
			return p, roleOuterwear
		}
	}
	return nil, slot
}

func pickFromBucket(candidates []models.Product, slot role, ans QuizAnswers, used map[string]bool, remaining, budget float64) *models.Product {
	target := budget * budgetShare[slot]

	var best *models.Product
	bestUsed := false
	bestScore := 0
	bestDist := 0.0

	for i := range candidates {
		p := &candidates[i]
		if p.Price > remaining {
			continue
		}
		wasUsed := used[p.ID.Hex()]
		score := relevance(p, ans)
		dist := math.Abs(p.Price - target)

		if best == nil || better(wasUsed, score, dist, bestUsed, bestScore, bestDist) {
			best, bestUsed, bestScore, bestDist = p, wasUsed, score, dist
		}
	}
	return best
}

// better orders candidates: unused before used, then higher relevance,
// then price closest to the slot's budget share. Equal keys keep the
// incumbent, so input order breaks ties.
func better(used bool, score int, dist float64, curUsed bool, curScore int, curDist float64) bool {
	if used != curUsed {
		return !used
	}
	if score != curScore {
		return score > curScore
	}
	return dist < curDist
}

// relevance scores a candidate against the quiz answers
func relevance(p *models.Product, ans QuizAnswers) int {
	score := 0
	if matchAny(ans.Style, p.Style) || matchAny(ans.Style, p.Tags) {
		score += 3
	}
	if matchAny(ans.Occasion, p.Occasions) || matchAny(ans.Occasion, p.Tags) {
		score += 2
	}
	if matchAny(ans.Color, p.Colors) {
		score++
	}
	if ans.Purpose != "" && matchAny(ans.Purpose, p.Tags) {
		score++
	}
	if sizesOverlap(ans.Sizes, p.Sizes) {
		score++
	}
	return score
}

func matchAny(want string, have []string) bool {
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "" {
		return false
	}
	for _, h := range have {
		h = strings.ToLower(h)
		if strings.Contains(h, want) || strings.Contains(want, h) {
			return true
		}
	}
	return false
}

func sizesOverlap(wanted, available []string) bool {
	if len(wanted) == 0 || len(available) == 0 {
		return false
	}
	for _, w := range wanted {
		for _, a := range available {
			if strings.EqualFold(strings.TrimSpace(w), strings.TrimSpace(a)) {
				return true
			}
		}
	}
	return false
}
