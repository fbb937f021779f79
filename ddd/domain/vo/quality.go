package vo

import (
	"fmt"
	"strconv"
	"strings"
)

// RenditionSpec 单个清晰度档位的编码目标
type RenditionSpec struct {
	Label        string `json:"label"`         // 规范标签，如 "360p"
	Width        int    `json:"width"`         // 目标宽度
	Height       int    `json:"height"`        // 目标高度
	VideoBitrate string `json:"video_bitrate"` // 如 "600k"
	AudioBitrate string `json:"audio_bitrate"` // 如 "128k"
	PathFragment string `json:"path_fragment"` // 工作目录内的子目录名
}

// Resolution 返回 "WxH" 形式的分辨率
func (r RenditionSpec) Resolution() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// BandwidthBps 返回声明带宽（视频+音频码率之和，bps）
func (r RenditionSpec) BandwidthBps() int {
	v, err := ParseBitrateToBps(r.VideoBitrate)
	if err != nil {
		v = 0
	}
	a, err := ParseBitrateToBps(r.AudioBitrate)
	if err != nil {
		a = 0
	}
	return v + a
}

// SubPlaylist 返回子播放列表相对工作目录的路径
func (r RenditionSpec) SubPlaylist() string {
	return r.PathFragment + "/prog.m3u8"
}

// qualityLadder 固定档位表。标签到分辨率/码率的映射是纯函数；
// 表外标签直接拒绝，不做启发式推导。
var qualityLadder = map[string]RenditionSpec{
	"240p":  {Label: "240p", Width: 426, Height: 240, VideoBitrate: "300k"},
	"360p":  {Label: "360p", Width: 640, Height: 360, VideoBitrate: "600k"},
	"480p":  {Label: "480p", Width: 854, Height: 480, VideoBitrate: "1000k"},
	"720p":  {Label: "720p", Width: 1280, Height: 720, VideoBitrate: "2000k"},
	"1080p": {Label: "1080p", Width: 1920, Height: 1080, VideoBitrate: "3500k"},
}

// LookupQuality 按标签查档位，接受 "360" 与 "360p" 两种写法。
func LookupQuality(label string) (RenditionSpec, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return RenditionSpec{}, false
	}
	if !strings.HasSuffix(key, "p") {
		key += "p"
	}
	spec, ok := qualityLadder[key]
	return spec, ok
}

// ParseBitrateToBps 将 "2000k"/"2M"/"2000kbps"/"2mbps" 等解析为 bps
func ParseBitrateToBps(bitrate string) (int, error) {
	s := strings.TrimSpace(strings.ToLower(bitrate))
	if s == "" {
		return 0, fmt.Errorf("empty bitrate")
	}

	factor := 1.0
	switch {
	case strings.HasSuffix(s, "kbps"):
		factor = 1000
		s = strings.TrimSuffix(s, "kbps")
	case strings.HasSuffix(s, "mbps"):
		factor = 1000 * 1000
		s = strings.TrimSuffix(s, "mbps")
	case strings.HasSuffix(s, "k"):
		factor = 1000
		s = strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		factor = 1000 * 1000
		s = strings.TrimSuffix(s, "m")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid bitrate: %s", bitrate)
	}
	return int(v * factor), nil
}
