package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hls-service/ddd/domain/vo"
	"hls-service/pkg/errno"
)

func plannedSpecs(t *testing.T, labels ...string) []vo.RenditionSpec {
	t.Helper()
	specs, err := NewRenditionPlanner("128k").Plan(labels)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	return specs
}

func writeRendition(t *testing.T, workspace, label string) {
	t.Helper()
	dir := filepath.Join(workspace, label)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prog.m3u8"), []byte("#EXTM3U\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "seg000.ts"), []byte{0x47}, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAssembleRewritesMissingMaster(t *testing.T) {
	workspace := t.TempDir()
	specs := plannedSpecs(t, "360", "720")
	writeRendition(t, workspace, "360p")
	writeRendition(t, workspace, "720p")

	if err := NewPlaylistAssembler().Assemble(workspace, specs); err != nil {
		t.Fatalf("assemble: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(workspace, MasterPlaylistName))
	if err != nil {
		t.Fatalf("master playlist not written: %v", err)
	}
	content := string(data)

	idx360 := strings.Index(content, "360p/prog.m3u8")
	idx720 := strings.Index(content, "720p/prog.m3u8")
	if idx360 < 0 || idx720 < 0 {
		t.Fatalf("master playlist missing renditions:\n%s", content)
	}
	if idx360 > idx720 {
		t.Fatalf("renditions out of planned order:\n%s", content)
	}
	if !strings.Contains(content, "BANDWIDTH=728000,RESOLUTION=640x360") {
		t.Fatalf("missing 360p attributes:\n%s", content)
	}
	if !strings.Contains(content, "BANDWIDTH=2128000,RESOLUTION=1280x720") {
		t.Fatalf("missing 720p attributes:\n%s", content)
	}
}

func TestAssembleRewritesToolOrderedMaster(t *testing.T) {
	workspace := t.TempDir()
	specs := plannedSpecs(t, "360", "720")
	writeRendition(t, workspace, "360p")
	writeRendition(t, workspace, "720p")

	// Tool emitted its own (reversed) ordering.
	toolMaster := "#EXTM3U\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=2128000,RESOLUTION=1280x720\n720p/prog.m3u8\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=728000,RESOLUTION=640x360\n360p/prog.m3u8\n"
	if err := os.WriteFile(filepath.Join(workspace, MasterPlaylistName), []byte(toolMaster), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := NewPlaylistAssembler().Assemble(workspace, specs); err != nil {
		t.Fatalf("assemble: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(workspace, MasterPlaylistName))
	content := string(data)
	if strings.Index(content, "360p/prog.m3u8") > strings.Index(content, "720p/prog.m3u8") {
		t.Fatalf("master playlist should be rewritten in planned order:\n%s", content)
	}
}

func TestAssembleKeepsValidToolMaster(t *testing.T) {
	workspace := t.TempDir()
	specs := plannedSpecs(t, "360", "720")
	writeRendition(t, workspace, "360p")
	writeRendition(t, workspace, "720p")

	toolMaster := "#EXTM3U\n#EXT-X-VERSION:3\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=728000,RESOLUTION=640x360\n360p/prog.m3u8\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=2128000,RESOLUTION=1280x720\n720p/prog.m3u8\n"
	if err := os.WriteFile(filepath.Join(workspace, MasterPlaylistName), []byte(toolMaster), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := NewPlaylistAssembler().Assemble(workspace, specs); err != nil {
		t.Fatalf("assemble: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(workspace, MasterPlaylistName))
	if string(data) != toolMaster {
		t.Fatalf("valid tool master should be kept verbatim, got:\n%s", string(data))
	}
}

func TestAssembleFailsOnMissingSubPlaylist(t *testing.T) {
	workspace := t.TempDir()
	specs := plannedSpecs(t, "360", "720")
	writeRendition(t, workspace, "360p")
	// 720p never produced.

	err := NewPlaylistAssembler().Assemble(workspace, specs)
	if !errors.Is(err, errno.ErrIncompleteOutput) {
		t.Fatalf("expected ErrIncompleteOutput, got %v", err)
	}
}

func TestAssembleFailsOnMissingSegments(t *testing.T) {
	workspace := t.TempDir()
	specs := plannedSpecs(t, "360")
	dir := filepath.Join(workspace, "360p")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prog.m3u8"), []byte("#EXTM3U\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := NewPlaylistAssembler().Assemble(workspace, specs)
	if !errors.Is(err, errno.ErrIncompleteOutput) {
		t.Fatalf("expected ErrIncompleteOutput, got %v", err)
	}
}
