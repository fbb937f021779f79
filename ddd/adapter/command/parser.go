package command

import (
	"fmt"
	"strings"

	"hls-service/pkg/errno"
)

// ConvertCommand 解析后的 /convert 指令
type ConvertCommand struct {
	SourceURL string
	Qualities []string
}

const usage = "usage: /convert <video_url> [qualities]\nexample: /convert https://example.com/video.mp4 360,480,720"

// Usage 返回指令帮助文本，/start 或参数不全时回给请求方。
func Usage() string { return usage }

// ParseConvert 解析 "/convert <url> [q1,q2,...]" 形式的指令文本。
// 清晰度段缺省时返回空列表，由受理方补默认档位。
func ParseConvert(text string) (*ConvertCommand, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || fields[0] != "/convert" {
		return nil, fmt.Errorf("%w: not a /convert command", errno.ErrInvalidRequest)
	}
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: %s", errno.ErrInvalidRequest, usage)
	}

	cmd := &ConvertCommand{SourceURL: fields[1]}
	if len(fields) >= 3 {
		for _, q := range strings.Split(fields[2], ",") {
			q = strings.TrimSpace(q)
			if q == "" {
				continue
			}
			cmd.Qualities = append(cmd.Qualities, q)
		}
	}
	return cmd, nil
}

// IsStart 判断是否为 /start 问候指令
func IsStart(text string) bool {
	fields := strings.Fields(strings.TrimSpace(text))
	return len(fields) > 0 && fields[0] == "/start"
}
