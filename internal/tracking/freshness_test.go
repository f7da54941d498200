package tracking

import (
	"testing"
	"time"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		name string
		age  time.Duration
		want Freshness
	}{
		{"zero age", 0, Recent},
		{"just under recent cutoff", 299 * time.Second, Recent},
		{"exactly at recent cutoff", 300 * time.Second, Recent},
		{"just past recent cutoff", 301 * time.Second, Active},
		{"just under active cutoff", 599 * time.Second, Active},
		{"exactly at active cutoff", 600 * time.Second, Active},
		{"just past active cutoff", 601 * time.Second, Stale},
		{"an hour old", time.Hour, Stale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.age); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.age, got, tt.want)
			}
		})
	}
}

func TestTagFor(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tag := TagFor(now.Add(-2*time.Minute), now)
	if !tag.IsRecent || tag.IsStale {
		t.Errorf("2-minute-old reading should be recent, got %+v", tag)
	}
	if tag.AgeSeconds != 120 {
		t.Errorf("AgeSeconds = %v, want 120", tag.AgeSeconds)
	}

	tag = TagFor(now.Add(-7*time.Minute), now)
	if tag.IsRecent || tag.IsStale || tag.Freshness != Active {
		t.Errorf("7-minute-old reading should be active, got %+v", tag)
	}

	tag = TagFor(now.Add(-11*time.Minute), now)
	if !tag.IsStale {
		t.Errorf("11-minute-old reading should be stale, got %+v", tag)
	}
}

func TestFreshnessString(t *testing.T) {
	if Recent.String() != "recent" || Active.String() != "active" || Stale.String() != "stale" {
		t.Errorf("unexpected freshness names: %v %v %v", Recent, Active, Stale)
	}
}
