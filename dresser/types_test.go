package dresser

import (
	"encoding/json"
	"testing"
)

func TestBudgetUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Budget
	}{
		{"number", `{"budget": 2500}`, 2500},
		{"decimal number", `{"budget": 2499.50}`, 2499.50},
		{"plain string", `{"budget": "2500"}`, 2500},
		{"currency string", `{"budget": "₹2,500"}`, 2500},
		{"rs prefix", `{"budget": "Rs. 1999"}`, 1999},
		{"garbage string", `{"budget": "whatever fits"}`, 0},
		{"empty string", `{"budget": ""}`, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var ans QuizAnswers
			if err := json.Unmarshal([]byte(c.in), &ans); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if ans.Budget != c.want {
				t.Errorf("want %v, got %v", c.want, ans.Budget)
			}
		})
	}
}

func TestBuildLookNarrativeFallbacks(t *testing.T) {
	items := []LookItem{{Name: "Crew Tee", Price: 500}}

	look := buildLook(1, items, 500, QuizAnswers{})
	if look.LookName != "The Signature Everyday Edit" {
		t.Errorf("fallback name: got %q", look.LookName)
	}
	if look.StyleTip != genericStyleTip {
		t.Errorf("fallback tip: got %q", look.StyleTip)
	}

	look = buildLook(2, items, 500, QuizAnswers{Style: "casual", Occasion: "work"})
	if look.LookName != "The Laid-Back Workday Ensemble" {
		t.Errorf("mapped name: got %q", look.LookName)
	}
	if look.StyleTip == genericStyleTip {
		t.Error("work occasion should map to a specific tip")
	}
}

func TestBuildLookDescriptionWithBrand(t *testing.T) {
	withBrand := buildLook(1, []LookItem{{Name: "Oxford Shirt", Brand: "Linden", Price: 1200}}, 1200, QuizAnswers{})
	if withBrand.LookDescription != "A 1-piece signature look built around the Oxford Shirt from Linden." {
		t.Errorf("branded description: got %q", withBrand.LookDescription)
	}

	noBrand := buildLook(1, []LookItem{{Name: "Oxford Shirt", Price: 1200}}, 1200, QuizAnswers{})
	if noBrand.LookDescription != "A 1-piece signature look built around the Oxford Shirt." {
		t.Errorf("unbranded description: got %q", noBrand.LookDescription)
	}
}
