package service

import (
	"errors"
	"testing"

	"hls-service/pkg/errno"
)

func TestPlanDeduplicatesAndSortsAscending(t *testing.T) {
	planner := NewRenditionPlanner("128k")

	specs, err := planner.Plan([]string{"720", "360", "360"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs after dedup, got %d", len(specs))
	}
	if specs[0].Label != "360p" || specs[1].Label != "720p" {
		t.Fatalf("expected ascending [360p 720p], got [%s %s]", specs[0].Label, specs[1].Label)
	}
	if specs[0].Width != 640 || specs[0].Height != 360 {
		t.Fatalf("360p resolution mismatch: %s", specs[0].Resolution())
	}
	if specs[0].AudioBitrate != "128k" {
		t.Fatalf("audio bitrate not applied: %s", specs[0].AudioBitrate)
	}
}

func TestPlanAcceptsLabelWithAndWithoutSuffix(t *testing.T) {
	planner := NewRenditionPlanner("128k")

	specs, err := planner.Plan([]string{"480p", "480"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(specs) != 1 {
		t.Fatalf("480p and 480 should collapse to one spec, got %d", len(specs))
	}
	if specs[0].PathFragment != "480p" {
		t.Fatalf("path fragment should be the canonical label, got %s", specs[0].PathFragment)
	}
}

func TestPlanRejectsUnknownLabel(t *testing.T) {
	planner := NewRenditionPlanner("128k")

	if _, err := planner.Plan([]string{"360", "999"}); !errors.Is(err, errno.ErrInvalidQuality) {
		t.Fatalf("expected ErrInvalidQuality, got %v", err)
	}
}

func TestPlanRejectsEmptySet(t *testing.T) {
	planner := NewRenditionPlanner("128k")

	if _, err := planner.Plan(nil); !errors.Is(err, errno.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for empty set, got %v", err)
	}
}

func TestPlanBandwidthCombinesVideoAndAudio(t *testing.T) {
	planner := NewRenditionPlanner("128k")

	specs, err := planner.Plan([]string{"720"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := specs[0].BandwidthBps(); got != 2_000_000+128_000 {
		t.Fatalf("expected bandwidth 2128000, got %d", got)
	}
}
