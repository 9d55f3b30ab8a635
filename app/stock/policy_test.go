package stock_test

import (
	"testing"

	"github.com/shashiranjanraj/stockpile/app/stock"
)

func TestNeedsRestock(t *testing.T) {
	cases := []struct {
		name      string
		total     int
		available int
		want      bool
	}{
		{"zero total always flags", 0, 0, true},
		{"zero total flags regardless of available", 0, 5, true},
		{"well below threshold", 100, 12, true},
		{"just below threshold", 100, 19, true},
		{"exactly on threshold is not flagged", 100, 20, false},
		{"above threshold", 100, 21, false},
		{"full stock", 100, 100, false},
		{"small total, on threshold", 10, 2, false},
		{"small total, below threshold", 10, 1, true},
		{"nothing available", 50, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stock.NeedsRestock(tc.total, tc.available); got != tc.want {
				t.Errorf("NeedsRestock(%d, %d) = %v, want %v", tc.total, tc.available, got, tc.want)
			}
		})
	}
}

func TestNeedsRestockIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if stock.NeedsRestock(100, 12) != true {
			t.Fatal("expected identical result on repeated calls")
		}
		if stock.NeedsRestock(100, 20) != false {
			t.Fatal("expected identical result on repeated calls")
		}
	}
}
