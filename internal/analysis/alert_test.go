package analysis

import (
	"math"
	"testing"
)

func TestShouldSendAlert_FirstRecord(t *testing.T) {
	got := ShouldSendAlert(55.0, nil, 5)
	if !got.ShouldSend {
		t.Error("first record should alert")
	}
	if got.Reason != "first_record" {
		t.Errorf("reason = %q, want first_record", got.Reason)
	}
	if got.Change != nil {
		t.Errorf("change = %v, want nil", *got.Change)
	}
}

func TestShouldSendAlert_ExactThresholdDoesNotTrigger(t *testing.T) {
	previous := 60.0
	// change is exactly -5.0, the comparison must be strictly greater
	got := ShouldSendAlert(55.0, &previous, 5)
	if got.ShouldSend {
		t.Error("|change| == threshold must not alert")
	}
	if got.Reason != "no_significant_change" {
		t.Errorf("reason = %q, want no_significant_change", got.Reason)
	}
	if got.Change == nil || math.Abs(*got.Change-(-5.0)) > 1e-9 {
		t.Errorf("change = %v, want -5.0 reported even below threshold", got.Change)
	}
}

func TestShouldSendAlert_Dropped(t *testing.T) {
	previous := 60.0
	got := ShouldSendAlert(54.9, &previous, 5)
	if !got.ShouldSend {
		t.Error("change beyond threshold should alert")
	}
	if got.Reason != "ppl_dropped_5.1p" {
		t.Errorf("reason = %q, want ppl_dropped_5.1p", got.Reason)
	}
	if got.Change == nil || math.Abs(*got.Change-(-5.1)) > 1e-9 {
		t.Errorf("change = %v, want -5.1 (signed)", got.Change)
	}
}

func TestShouldSendAlert_Increased(t *testing.T) {
	previous := 50.0
	got := ShouldSendAlert(57.5, &previous, 5)
	if !got.ShouldSend {
		t.Error("increase beyond threshold should alert")
	}
	if got.Reason != "ppl_increased_7.5p" {
		t.Errorf("reason = %q, want ppl_increased_7.5p", got.Reason)
	}
	if got.Change == nil || math.Abs(*got.Change-7.5) > 1e-9 {
		t.Errorf("change = %v, want 7.5", got.Change)
	}
}

func TestShouldSendAlert_SmallChange(t *testing.T) {
	previous := 55.0
	got := ShouldSendAlert(56.0, &previous, 5)
	if got.ShouldSend {
		t.Error("small change must not alert")
	}
	if got.Change == nil || math.Abs(*got.Change-1.0) > 1e-9 {
		t.Errorf("change = %v, want 1.0", got.Change)
	}
}
