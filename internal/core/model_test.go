package core_test

import (
	"testing"
	"time"

	"refill-ledger/internal/core"
)

func TestDateOf_UsesLocation(t *testing.T) {
	// 02:30 UTC on the 9th is still the 8th in São Paulo (UTC-3).
	instant := time.Date(2026, 2, 9, 2, 30, 0, 0, time.UTC)
	loc := time.FixedZone("BRT", -3*60*60)

	if got := core.DateOf(instant, loc); got != "2026-02-08" {
		t.Fatalf("expected 2026-02-08, got %s", got)
	}
	if got := core.DateOf(instant, time.UTC); got != "2026-02-09" {
		t.Fatalf("expected 2026-02-09, got %s", got)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2026-02-08", false},
		{"2026-2-8", true},
		{"08/02/2026", true},
		{"2026-02-30", true},
		{"", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			d, err := core.ParseDate(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", d)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.String() != tc.in {
				t.Fatalf("expected %s, got %s", tc.in, d)
			}
		})
	}
}

func TestComputeStats_Empty(t *testing.T) {
	stats := core.ComputeStats("2026-02-08", nil)
	assertStats(t, stats, 0, "0", "0")
	if stats.ContainerReturns != 0 {
		t.Fatalf("expected 0 container returns, got %d", stats.ContainerReturns)
	}
}
