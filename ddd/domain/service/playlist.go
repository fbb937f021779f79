package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hls-service/ddd/domain/vo"
	"hls-service/pkg/errno"
	"hls-service/pkg/logger"
)

const MasterPlaylistName = "master.m3u8"

// PlaylistAssembler 在所有档位产出后定稿 master playlist
type PlaylistAssembler interface {
	Assemble(workspace string, specs []vo.RenditionSpec) error
}

type playlistAssemblerImpl struct{}

func NewPlaylistAssembler() PlaylistAssembler {
	return &playlistAssemblerImpl{}
}

// Assemble 确认每个档位的子播放列表与切片齐全。转码器自带的 master
// 若与规划顺序完全一致则保留，否则按档位顺序确定性地重写，保证同一
// 请求多次运行产生相同的播放器行为。
func (a *playlistAssemblerImpl) Assemble(workspace string, specs []vo.RenditionSpec) error {
	if len(specs) == 0 {
		return fmt.Errorf("%w: no renditions planned", errno.ErrIncompleteOutput)
	}

	for _, spec := range specs {
		subPath := filepath.Join(workspace, spec.PathFragment, "prog.m3u8")
		if fi, err := os.Stat(subPath); err != nil || fi.IsDir() {
			return fmt.Errorf("%w: missing sub-playlist for %s", errno.ErrIncompleteOutput, spec.Label)
		}
		segments, err := filepath.Glob(filepath.Join(workspace, spec.PathFragment, "seg*.ts"))
		if err != nil || len(segments) == 0 {
			return fmt.Errorf("%w: no segments for %s", errno.ErrIncompleteOutput, spec.Label)
		}
	}

	masterPath := filepath.Join(workspace, MasterPlaylistName)
	if a.masterIsValid(masterPath, specs) {
		return nil
	}

	logger.Debugf("rewriting master playlist path=%s renditions=%d", masterPath, len(specs))
	content := a.render(specs)
	if err := os.WriteFile(masterPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: write master playlist: %v", errno.ErrIncompleteOutput, err)
	}
	return nil
}

// masterIsValid 检查已有 master 是否恰好按规划顺序引用全部档位，
// 且每个条目都带 BANDWIDTH 与 RESOLUTION 属性。
func (a *playlistAssemblerImpl) masterIsValid(masterPath string, specs []vo.RenditionSpec) bool {
	data, err := os.ReadFile(masterPath)
	if err != nil {
		return false
	}

	var uris []string
	lastStreamInf := ""
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#EXT-X-STREAM-INF:") {
			lastStreamInf = line
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		if lastStreamInf == "" {
			return false
		}
		if !strings.Contains(lastStreamInf, "BANDWIDTH=") || !strings.Contains(lastStreamInf, "RESOLUTION=") {
			return false
		}
		uris = append(uris, filepath.ToSlash(line))
		lastStreamInf = ""
	}

	if len(uris) != len(specs) {
		return false
	}
	for i, spec := range specs {
		if uris[i] != spec.SubPlaylist() {
			return false
		}
	}
	return true
}

func (a *playlistAssemblerImpl) render(specs []vo.RenditionSpec) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	b.WriteString("#EXT-X-VERSION:3\n")
	for _, spec := range specs {
		b.WriteString(fmt.Sprintf("#EXT-X-STREAM-INF:BANDWIDTH=%d,RESOLUTION=%s\n", spec.BandwidthBps(), spec.Resolution()))
		b.WriteString(spec.SubPlaylist() + "\n")
	}
	return b.String()
}
