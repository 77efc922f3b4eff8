package dresser

import (
	"strings"

	"github.com/threadora/threadora-backend/models"
)

// role is a garment slot the composer tries to fill per look
type role string

const (
	roleTop       role = "top"
	roleBottom    role = "bottom"
	roleOuterwear role = "outerwear"
	roleFootwear  role = "footwear"
	roleAccessory role = "accessory"
)

// slotOrder is the fixed fill order per look. The bottom slot falls back
// to outerwear when no bottom candidate remains.
var slotOrder = []role{roleTop, roleBottom, roleFootwear, roleAccessory}

var roleKeywords = []struct {
	role  role
	words []string
}{
	{roleTop, []string{"top", "shirt", "tee", "blouse", "sweater", "sweatshirt", "hoodie", "kurta", "polo", "tank", "dress", "tunic"}},
	{roleBottom, []string{"bottom", "pant", "jean", "trouser", "short", "skirt", "legging", "chino", "jogger", "cargo"}},
	{roleOuterwear, []string{"jacket", "coat", "blazer", "cardigan", "outerwear", "shrug"}},
	{roleFootwear, []string{"shoe", "sneaker", "boot", "heel", "sandal", "loafer", "footwear", "slipper"}},
	{roleAccessory, []string{"accessor", "bag", "belt", "watch", "cap", "hat", "scarf", "jewel", "sunglass", "wallet", "tie"}},
}

// bucketByRole partitions candidates into role buckets. The category
// field decides shoes and accessories outright; clothes are classified
// by subcategory/tag keywords, first matching role wins, and products
// matching nothing are left out of composition. Bucket order follows
// input order, so ties stay stable.
func bucketByRole(products []models.Product) map[role][]models.Product {
	buckets := make(map[role][]models.Product)
	for _, p := range products {
		if r, ok := roleOf(p); ok {
			buckets[r] = append(buckets[r], p)
		}
	}
	return buckets
}

func roleOf(p models.Product) (role, bool) {
	switch strings.ToLower(p.Category) {
	case models.CategoryShoes:
		return roleFootwear, true
	case models.CategoryAccessories:
		return roleAccessory, true
	}

	haystack := strings.ToLower(p.Subcategory)
	for _, t := range p.Tags {
		haystack += " " + strings.ToLower(t)
	}

	for _, rk := range roleKeywords {
		for _, w := range rk.words {
			if strings.Contains(haystack, w) {
				return rk.role, true
			}
		}
	}
	return "", false
}
