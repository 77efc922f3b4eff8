package models

import "testing"

func TestProductAvailable(t *testing.T) {
	yes, no := true, false
	zero, five := 0, 5

	cases := []struct {
		name string
		p    Product
		want bool
	}{
		{"untracked", Product{}, true},
		{"in stock flag", Product{InStock: &yes}, true},
		{"out of stock flag", Product{InStock: &no}, false},
		{"tracked with stock", Product{StockQty: &five}, true},
		{"tracked depleted", Product{StockQty: &zero}, false},
		{"flag ok but depleted", Product{InStock: &yes, StockQty: &zero}, false},
	}
	for _, c := range cases {
		if got := c.p.Available(); got != c.want {
			t.Errorf("%s: want %v, got %v", c.name, c.want, got)
		}
	}
}

func TestCartTotal(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{Price: 499.50, Quantity: 2},
		{Price: 1200, Quantity: 1},
	}}
	if got := cart.Total(); got != 2199 {
		t.Errorf("total: want 2199, got %v", got)
	}

	empty := Cart{}
	if got := empty.Total(); got != 0 {
		t.Errorf("empty cart total: want 0, got %v", got)
	}
}
