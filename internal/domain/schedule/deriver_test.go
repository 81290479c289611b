package schedule

import (
	"reflect"
	"testing"
	"time"
)

func mustDate(t *testing.T, date string) time.Time {
	t.Helper()
	d, err := DateIn(date, ist)
	if err != nil {
		t.Fatalf("parsing %q: %v", date, err)
	}
	return d
}

func TestDeriveOfferedSlotsOnlineWeekdayBuckets(t *testing.T) {
	morning := []string{"10:00", "10:25", "10:50", "11:15", "11:40", "12:05", "12:30"}
	evening := []string{"20:30", "21:00"}

	cases := []struct {
		date string // 2026-09-06 is a Sunday
		want []string
	}{
		{"2026-09-06", morning}, // Sunday
		{"2026-09-07", morning}, // Monday
		{"2026-09-08", evening}, // Tuesday
		{"2026-09-09", evening}, // Wednesday
		{"2026-09-10", evening}, // Thursday
		{"2026-09-11", evening}, // Friday
		{"2026-09-12", evening}, // Saturday
	}

	for _, tc := range cases {
		got := DeriveOfferedSlots(mustDate(t, tc.date), ConsultOnline, nil, nil)
		if got.Closed {
			t.Errorf("%s: online derivation unexpectedly closed", tc.date)
			continue
		}
		if !reflect.DeepEqual(got.Slots, tc.want) {
			t.Errorf("%s: slots = %v, want %v", tc.date, got.Slots, tc.want)
		}
	}
}

func TestDeriveOfferedSlotsOfflineClosedDays(t *testing.T) {
	for _, date := range []string{"2026-09-06", "2026-09-07"} {
		got := DeriveOfferedSlots(mustDate(t, date), ConsultOffline, DefaultDaySlots(), nil)
		if !got.Closed {
			t.Errorf("%s: expected offline closed", date)
		}
		if got.Reason != offlineClosedReason {
			t.Errorf("%s: reason = %q", date, got.Reason)
		}
		if len(got.Slots) != 0 {
			t.Errorf("%s: expected no slots, got %v", date, got.Slots)
		}
	}
}

func TestDeriveOfferedSlotsOfflineUsesTemplate(t *testing.T) {
	template := []string{"10:15", "10:30", "17:45"}
	got := DeriveOfferedSlots(mustDate(t, "2026-09-08"), ConsultOffline, template, nil)
	if got.Closed {
		t.Fatal("unexpected closed")
	}
	if !reflect.DeepEqual(got.Slots, template) {
		t.Errorf("slots = %v, want %v", got.Slots, template)
	}

	// The returned slice must be a copy, not an alias of the template.
	got.Slots[0] = "09:00"
	if template[0] != "10:15" {
		t.Error("derivation aliased the template slice")
	}
}

func TestDeriveOfferedSlotsOverrideClosedWins(t *testing.T) {
	slots := []string{"10:15"}
	ov := &Override{Closed: true, Slots: &slots}

	for _, ct := range []ConsultType{ConsultOnline, ConsultOffline} {
		got := DeriveOfferedSlots(mustDate(t, "2026-09-08"), ct, DefaultDaySlots(), ov)
		if !got.Closed {
			t.Errorf("%s: expected closed override to win", ct)
		}
		if got.Reason == "" {
			t.Errorf("%s: expected a closure reason", ct)
		}
		if len(got.Slots) != 0 {
			t.Errorf("%s: expected no slots, got %v", ct, got.Slots)
		}
	}
}

func TestDeriveOfferedSlotsOverrideSlotsVerbatim(t *testing.T) {
	// Unsorted and outside the usual policy hours: the list must pass
	// through untouched, even on a day the clinic is normally closed.
	slots := []string{"18:00", "06:30", "12:00"}
	ov := &Override{Slots: &slots}

	got := DeriveOfferedSlots(mustDate(t, "2026-09-06"), ConsultOffline, DefaultDaySlots(), ov)
	if got.Closed {
		t.Fatal("unexpected closed")
	}
	if !reflect.DeepEqual(got.Slots, slots) {
		t.Errorf("slots = %v, want %v", got.Slots, slots)
	}
}

func TestDeriveOfferedSlotsOverrideWithoutSlotsFallsThrough(t *testing.T) {
	// closed=false with no explicit list defers to the default source.
	ov := &Override{Closed: false}
	template := []string{"10:15", "10:30"}

	got := DeriveOfferedSlots(mustDate(t, "2026-09-08"), ConsultOffline, template, ov)
	if got.Closed {
		t.Fatal("unexpected closed")
	}
	if !reflect.DeepEqual(got.Slots, template) {
		t.Errorf("slots = %v, want %v", got.Slots, template)
	}
}

func TestValidateSlots(t *testing.T) {
	if err := ValidateSlots([]string{"10:00", "10:30"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateSlots([]string{"10:00", "10:00"}); err == nil {
		t.Error("expected duplicate rejection")
	}
	if err := ValidateSlots([]string{"25:00"}); err == nil {
		t.Error("expected malformed rejection")
	}
	if err := ValidateSlots(nil); err != nil {
		t.Errorf("empty list should be valid: %v", err)
	}
}
