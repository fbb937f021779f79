package component

import (
	"errors"
	"testing"

	"hls-service/pkg/errno"
)

func TestDecodeSubmissionJSON(t *testing.T) {
	req, err := decodeSubmission([]byte(`{"source_url":"https://example.com/v.mp4","qualities":["360","720"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.SourceURL != "https://example.com/v.mp4" {
		t.Fatalf("source url %q", req.SourceURL)
	}
	if len(req.Qualities) != 2 || req.Qualities[0] != "360" || req.Qualities[1] != "720" {
		t.Fatalf("qualities %v", req.Qualities)
	}
}

func TestDecodeSubmissionConvertCommand(t *testing.T) {
	req, err := decodeSubmission([]byte("/convert https://example.com/v.mp4 360,720"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.SourceURL != "https://example.com/v.mp4" {
		t.Fatalf("source url %q", req.SourceURL)
	}
	if len(req.Qualities) != 2 {
		t.Fatalf("qualities %v", req.Qualities)
	}
}

func TestDecodeSubmissionCommandWithoutQualities(t *testing.T) {
	req, err := decodeSubmission([]byte("  /convert https://example.com/v.mp4  "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.Qualities) != 0 {
		t.Fatalf("expected empty qualities for defaulting, got %v", req.Qualities)
	}
}

func TestDecodeSubmissionStartIsNotAJob(t *testing.T) {
	if _, err := decodeSubmission([]byte("/start")); !errors.Is(err, errno.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestDecodeSubmissionRejectsGarbage(t *testing.T) {
	for _, payload := range []string{"", "hello", `{"source_url":`} {
		if _, err := decodeSubmission([]byte(payload)); !errors.Is(err, errno.ErrInvalidRequest) {
			t.Fatalf("payload %q: expected ErrInvalidRequest, got %v", payload, err)
		}
	}
}
