package command

import (
	"errors"
	"reflect"
	"testing"

	"hls-service/pkg/errno"
)

func TestParseConvertWithQualities(t *testing.T) {
	cmd, err := ParseConvert("/convert https://example.com/v.mp4 360,480,720")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.SourceURL != "https://example.com/v.mp4" {
		t.Fatalf("source %q", cmd.SourceURL)
	}
	if !reflect.DeepEqual(cmd.Qualities, []string{"360", "480", "720"}) {
		t.Fatalf("qualities %v", cmd.Qualities)
	}
}

func TestParseConvertDefaultsQualities(t *testing.T) {
	cmd, err := ParseConvert("/convert https://example.com/v.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if len(cmd.Qualities) != 0 {
		t.Fatalf("expected empty qualities, got %v", cmd.Qualities)
	}
}

func TestParseConvertTrimsQualityList(t *testing.T) {
	cmd, err := ParseConvert("/convert https://e.com/v.mp4 360, 720,")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cmd.Qualities, []string{"360", "720"}) {
		t.Fatalf("qualities %v", cmd.Qualities)
	}
}

func TestParseConvertMissingURL(t *testing.T) {
	if _, err := ParseConvert("/convert"); !errors.Is(err, errno.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestParseConvertWrongCommand(t *testing.T) {
	if _, err := ParseConvert("/status abc"); !errors.Is(err, errno.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestIsStart(t *testing.T) {
	if !IsStart("/start") || !IsStart("  /start  ") {
		t.Fatal("start command not recognized")
	}
	if IsStart("/convert x") || IsStart("") {
		t.Fatal("false positive")
	}
}
