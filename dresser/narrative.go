package dresser

import (
	"fmt"
	"strings"

	"github.com/threadora/threadora-backend/models"
)

// Narrative building is pure string composition: every field has a
// generic fallback, so it cannot fail.

var styleAdjectives = map[string]string{
	"casual":     "Laid-Back",
	"formal":     "Polished",
	"streetwear": "Street-Ready",
	"street":     "Street-Ready",
	"ethnic":     "Heritage",
	"sporty":     "Active",
	"minimal":    "Minimal",
	"classic":    "Classic",
	"bohemian":   "Free-Spirit",
}

var occasionNouns = map[string]string{
	"work":    "Workday",
	"office":  "Workday",
	"party":   "Party",
	"date":    "Date Night",
	"wedding": "Wedding",
	"casual":  "Weekend",
	"travel":  "Travel",
	"brunch":  "Brunch",
	"gym":     "Training",
}

var lookNouns = []string{"Edit", "Ensemble", "Mix"}

var styleTips = map[string]string{
	"work":    "Keep accessories understated and let sharp tailoring do the talking.",
	"office":  "Keep accessories understated and let sharp tailoring do the talking.",
	"party":   "Roll the sleeves and add one statement piece; everything else stays simple.",
	"date":    "Stick to one hero colour and keep the silhouette relaxed but intentional.",
	"wedding": "Steam everything the night before; crisp fabric carries the whole look.",
	"travel":  "Pick breathable layers you can shed; comfort reads as confidence.",
	"gym":     "Moisture-wicking layers first, then build colour on top.",
}

const genericStyleTip = "Balance one relaxed piece against one structured piece and the look holds together."

var roleNotes = map[role]string{
	roleTop:       "The anchor of the outfit, wear it front and centre",
	roleBottom:    "Keeps the silhouette grounded, pair high or cuffed to taste",
	roleOuterwear: "Throw it on as the finishing layer",
	roleFootwear:  "Finishes the look from the ground up",
	roleAccessory: "The detail that pulls the outfit together",
}

// lookItem projects a chosen product into the look it belongs to
func lookItem(p *models.Product, r role, ans QuizAnswers) LookItem {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}

	note := roleNotes[r]
	if note == "" {
		note = "A versatile piece for this look"
	}

	return LookItem{
		ProductID:   p.ID.Hex(),
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Price:       p.Price,
		Image:       image,
		StylingNote: note,
	}
}

// buildLook computes the exact total and assembles the templated name,
// description and tip for one composed outfit.
func buildLook(number int, items []LookItem, total float64, ans QuizAnswers) Look {
	adj := styleAdjectives[strings.ToLower(ans.Style)]
	if adj == "" {
		adj = "Signature"
	}
	noun := occasionNouns[strings.ToLower(ans.Occasion)]
	if noun == "" {
		noun = "Everyday"
	}
	variant := lookNouns[(number-1)%len(lookNouns)]

	name := fmt.Sprintf("The %s %s %s", adj, noun, variant)

	anchor := items[0]
	var desc string
	if anchor.Brand != "" {
		desc = fmt.Sprintf("A %d-piece %s look built around the %s from %s.",
			len(items), strings.ToLower(adj), anchor.Name, anchor.Brand)
	} else {
		desc = fmt.Sprintf("A %d-piece %s look built around the %s.",
			len(items), strings.ToLower(adj), anchor.Name)
	}

	tip := styleTips[strings.ToLower(ans.Occasion)]
	if tip == "" {
		tip = genericStyleTip
	}

	return Look{
		LookNumber:      number,
		LookName:        name,
		LookDescription: desc,
		Items:           items,
		TotalPrice:      total,
		StyleTip:        tip,
	}
}
