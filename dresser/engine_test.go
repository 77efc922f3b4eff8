package dresser

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/threadora/threadora-backend/models"
)

func product(name, category, subcategory string, price float64, extra func(*models.Product)) models.Product {
	p := models.Product{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Category:    category,
		Subcategory: subcategory,
		Price:       price,
	}
	if extra != nil {
		extra(&p)
	}
	return p
}

func testCatalog() []models.Product {
	return []models.Product{
		product("White Tee", models.CategoryClothes, "t-shirt", 1000, nil),
		product("Oxford Shirt", models.CategoryClothes, "shirt", 1200, nil),
		product("Slim Jeans", models.CategoryClothes, "jeans", 800, nil),
		product("Pleated Trousers", models.CategoryClothes, "trousers", 900, nil),
		product("Canvas Sneakers", models.CategoryShoes, "", 1500, nil),
		product("Leather Boots", models.CategoryShoes, "", 2000, nil),
		product("Woven Belt", models.CategoryAccessories, "", 500, nil),
	}
}

type failingCatalog struct{}

func (failingCatalog) Catalog(ctx context.Context) ([]models.Product, error) {
	return nil, errors.New("catalog down")
}

func TestRecommendBuildsCompleteLooks(t *testing.T) {
	engine := NewEngine()
	looks, err := engine.Recommend(context.Background(), StaticCatalog(testCatalog()), QuizAnswers{})
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(looks) != defaultLookCount {
		t.Fatalf("expected %d looks, got %d", defaultLookCount, len(looks))
	}

	for _, look := range looks {
		if len(look.Items) == 0 || len(look.Items) > 4 {
			t.Errorf("look %d has %d items, want 1..4", look.LookNumber, len(look.Items))
		}
		var sum float64
		for _, item := range look.Items {
			sum += item.Price
		}
		if sum != look.TotalPrice {
			t.Errorf("look %d total %v does not match item sum %v", look.LookNumber, look.TotalPrice, sum)
		}
		if look.TotalPrice > defaultBudget {
			t.Errorf("look %d total %v exceeds default budget", look.LookNumber, look.TotalPrice)
		}
		if look.LookName == "" || look.LookDescription == "" || look.StyleTip == "" {
			t.Errorf("look %d is missing narrative fields", look.LookNumber)
		}
	}
}

func TestRecommendIsDeterministic(t *testing.T) {
	catalog := testCatalog()
	engine := NewEngine()
	ans := QuizAnswers{Style: "casual", Occasion: "work", Budget: 6000}

	first, err := engine.Recommend(context.Background(), StaticCatalog(catalog), ans)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := engine.Recommend(context.Background(), StaticCatalog(catalog), ans)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different looks")
	}
}

func TestRecommendPrefersUnusedProductsAcrossLooks(t *testing.T) {
	engine := NewEngine()
	looks, err := engine.Recommend(context.Background(), StaticCatalog(testCatalog()), QuizAnswers{})
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(looks) < 2 {
		t.Fatalf("need at least 2 looks, got %d", len(looks))
	}

	// Two tops, two bottoms, two shoes: the second look must not repeat
	// the first look's picks for those slots.
	firstIDs := make(map[string]bool)
	for _, item := range looks[0].Items {
		firstIDs[item.ProductID] = true
	}
	repeats := 0
	for _, item := range looks[1].Items {
		if firstIDs[item.ProductID] && item.Category != models.CategoryAccessories {
			repeats++
		}
	}
	if repeats != 0 {
		t.Errorf("second look repeats %d non-accessory items from the first", repeats)
	}
}

func TestRecommendDegradesUnderTightBudget(t *testing.T) {
	engine := NewEngine()
	ans := QuizAnswers{Budget: 1000}
	looks, err := engine.Recommend(context.Background(), StaticCatalog(testCatalog()), ans)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	for _, look := range looks {
		if look.TotalPrice > 1000 {
			t.Errorf("look %d total %v exceeds the stated budget", look.LookNumber, look.TotalPrice)
		}
	}
}

func TestRecommendEmptyCatalog(t *testing.T) {
	engine := NewEngine()

	looks, err := engine.Recommend(context.Background(), StaticCatalog(nil), QuizAnswers{})
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(looks) != 0 {
		t.Fatalf("expected no looks from an empty catalog, got %d", len(looks))
	}
}

func TestRecommendAllOutOfStock(t *testing.T) {
	no := false
	catalog := testCatalog()
	for i := range catalog {
		catalog[i].InStock = &no
	}

	engine := NewEngine()
	looks, err := engine.Recommend(context.Background(), StaticCatalog(catalog), QuizAnswers{})
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(looks) != 0 {
		t.Fatalf("expected no looks when everything is out of stock, got %d", len(looks))
	}
}

func TestRecommendProviderFailure(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Recommend(context.Background(), failingCatalog{}, QuizAnswers{})
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestFilterCatalogGender(t *testing.T) {
	catalog := []models.Product{
		product("Mens Tee", models.CategoryClothes, "t-shirt", 500, func(p *models.Product) { p.Gender = "male" }),
		product("Womens Tee", models.CategoryClothes, "t-shirt", 500, func(p *models.Product) { p.Gender = "female" }),
		product("Unisex Tee", models.CategoryClothes, "t-shirt", 500, func(p *models.Product) { p.Gender = "unisex" }),
		product("Untagged Tee", models.CategoryClothes, "t-shirt", 500, nil),
	}

	got := filterCatalog(catalog, "female")
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates for female, got %d", len(got))
	}
	for _, p := range got {
		if p.Gender == "male" {
			t.Errorf("male product %s passed the female filter", p.Name)
		}
	}

	if got := filterCatalog(catalog, ""); len(got) != 4 {
		t.Errorf("expected all 4 candidates with no gender filter, got %d", len(got))
	}
}

func TestBucketByRole(t *testing.T) {
	catalog := []models.Product{
		product("Sneakers", models.CategoryShoes, "", 100, nil),
		product("Belt", models.CategoryAccessories, "", 100, nil),
		product("Hoodie", models.CategoryClothes, "hoodie", 100, nil),
		product("Joggers", models.CategoryClothes, "", 100, func(p *models.Product) { p.Tags = []string{"jogger"} }),
		product("Denim Jacket", models.CategoryClothes, "jacket", 100, nil),
		product("Mystery Garment", models.CategoryClothes, "", 100, nil),
	}

	buckets := bucketByRole(catalog)

	cases := []struct {
		r    role
		want string
	}{
		{roleFootwear, "Sneakers"},
		{roleAccessory, "Belt"},
		{roleTop, "Hoodie"},
		{roleBottom, "Joggers"},
		{roleOuterwear, "Denim Jacket"},
	}
	for _, c := range cases {
		if len(buckets[c.r]) != 1 || buckets[c.r][0].Name != c.want {
			t.Errorf("bucket %s: want exactly [%s], got %v", c.r, c.want, names(buckets[c.r]))
		}
	}

	total := 0
	for _, b := range buckets {
		total += len(b)
	}
	if total != 5 {
		t.Errorf("unclassifiable product should be left out, got %d bucketed", total)
	}
}

func TestOuterwearFallsBackIntoBottomSlot(t *testing.T) {
	catalog := []models.Product{
		product("Crew Tee", models.CategoryClothes, "t-shirt", 500, nil),
		product("Bomber Jacket", models.CategoryClothes, "jacket", 1500, nil),
	}

	engine := NewEngine()
	looks, err := engine.Recommend(context.Background(), StaticCatalog(catalog), QuizAnswers{})
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(looks) == 0 {
		t.Fatal("expected at least one look")
	}

	found := false
	for _, item := range looks[0].Items {
		if item.Name == "Bomber Jacket" {
			found = true
		}
	}
	if !found {
		t.Error("jacket did not fill the empty bottom slot")
	}
}

func names(products []models.Product) []string {
	var out []string
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}
