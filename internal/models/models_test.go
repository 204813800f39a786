// ABOUTME: Tests for model date math and derived-value helpers.
// ABOUTME: Week boundaries, completion percentage, and rounding.
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCivilDate(t *testing.T) {
	// A late-evening timestamp east of UTC is still that UTC day.
	oslo := time.FixedZone("CET", 3600)
	in := time.Date(2026, 1, 6, 0, 30, 0, 0, oslo) // 2026-01-05T23:30Z
	got := CivilDate(in)

	want := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CivilDate mismatch: got %v, want %v", got, want)
	}
}

func TestWeekContains(t *testing.T) {
	w := NewWeek(uuid.New(), 1,
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC))

	cases := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"start of first day", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"late on end day", time.Date(2026, 1, 11, 23, 59, 59, 0, time.UTC), true},
		{"first instant after", time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), false},
		{"before start", time.Date(2026, 1, 4, 23, 59, 59, 0, time.UTC), false},
	}
	for _, tc := range cases {
		if got := w.Contains(tc.t); got != tc.want {
			t.Errorf("%s: Contains(%v) = %v, want %v", tc.name, tc.t, got, tc.want)
		}
	}
}

func TestWeekEndExclusive(t *testing.T) {
	w := NewWeek(uuid.New(), 1,
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC))

	want := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	if !w.EndExclusive().Equal(want) {
		t.Errorf("EndExclusive mismatch: got %v", w.EndExclusive())
	}
}

func TestPhaseContains(t *testing.T) {
	p := NewPhase("Base",
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	if !p.Contains(time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)) {
		t.Error("end date should be inclusive")
	}
	if p.Contains(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Error("day after end date should be outside")
	}
}

func TestSetCompletion(t *testing.T) {
	s := NewWeeklySummary(uuid.New())
	s.ActualKm = 27.3

	target := 50.0
	s.SetCompletion(&target)
	if s.CompletionPercentage == nil || *s.CompletionPercentage != 55 {
		t.Errorf("expected 55%%, got %v", s.CompletionPercentage)
	}

	s.SetCompletion(nil)
	if s.CompletionPercentage != nil {
		t.Errorf("nil target should clear the percentage, got %v", s.CompletionPercentage)
	}

	zero := 0.0
	s.SetCompletion(&zero)
	if s.CompletionPercentage != nil {
		t.Errorf("zero target must not divide, got %v", s.CompletionPercentage)
	}
}

func TestRound1(t *testing.T) {
	// The classic float sum: 10.05 + 12.3 + 5.0 lands just under 27.35.
	sum := 10.05 + 12.3 + 5.0
	if got := Round1(sum); got != 27.3 {
		t.Errorf("Round1(%v) = %v, want 27.3", sum, got)
	}
	if got := Round1(2.75); got != 2.8 {
		t.Errorf("Round1(2.75) = %v, want 2.8", got)
	}
}

func TestCredentialExpired(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	c := &Credential{ExpiresAt: now.Unix() - 1}
	if !c.Expired(now) {
		t.Error("token past expiry should report expired")
	}
	c.ExpiresAt = now.Unix() + 60
	if c.Expired(now) {
		t.Error("future expiry should not report expired")
	}
}
