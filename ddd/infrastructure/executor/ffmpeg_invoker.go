package executor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"hls-service/ddd/domain/port"
	"hls-service/ddd/domain/vo"
	"hls-service/pkg/config"
	"hls-service/pkg/errno"
	"hls-service/pkg/logger"
)

const stderrTailLines = 200

// FFmpegInvoker implements port.TranscodeInvoker with a single ffmpeg
// invocation producing every rendition of the job at once.
type FFmpegInvoker struct {
	cfg *config.Config
}

func NewFFmpegInvoker(cfg *config.Config) *FFmpegInvoker {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &FFmpegInvoker{cfg: cfg}
}

// Preflight 启动前确认 ffmpeg 可执行文件存在。
func (e *FFmpegInvoker) Preflight() error {
	binary := e.binary()
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", errno.ErrLaunch, binary)
	}
	return nil
}

func (e *FFmpegInvoker) Start(ctx context.Context, input string, specs []vo.RenditionSpec, workspace string) (port.Execution, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no renditions planned", errno.ErrLaunch)
	}
	// ffmpeg 不会自己创建 %v 子目录，先建好
	for _, spec := range specs {
		if err := os.MkdirAll(filepath.Join(workspace, spec.PathFragment), 0o755); err != nil {
			return nil, fmt.Errorf("%w: create rendition dir: %v", errno.ErrLaunch, err)
		}
	}

	args := e.buildArgs(input, specs, workspace)
	cmd := exec.CommandContext(ctx, e.binary(), args...)
	logger.Infof("ffmpeg command workspace=%s command=%s %s", workspace, e.binary(), strings.Join(args, " "))

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stderr pipe: %v", errno.ErrLaunch, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrLaunch, err)
	}

	ex := &ffmpegExecution{
		cmd:      cmd,
		lines:    make(chan string, 64),
		scanDone: make(chan struct{}),
	}
	go func() {
		defer close(ex.scanDone)
		defer close(ex.lines)
		scanner := bufio.NewScanner(stderr)
		scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			ex.capture(line)
			select {
			case ex.lines <- line:
			case <-ctx.Done():
				// 下游不再读，继续扫描只为排空管道
			}
		}
	}()
	return ex, nil
}

func (e *FFmpegInvoker) binary() string {
	if e.cfg != nil && strings.TrimSpace(e.cfg.Transcode.FFmpeg.BinaryPath) != "" {
		return e.cfg.Transcode.FFmpeg.BinaryPath
	}
	return "ffmpeg"
}

// buildArgs 组装单次多输出命令：N 路视频共享一路音频，
// var_stream_map 按计划顺序映射，%v 展开为清晰度名目录。
func (e *FFmpegInvoker) buildArgs(input string, specs []vo.RenditionSpec, workspace string) []string {
	videoCodec := "libx264"
	videoPreset := "veryfast"
	audioBitrate := "128k"
	segmentDuration := 6
	gopSize := 48
	padToExact := false
	if e.cfg != nil {
		ff := e.cfg.Transcode.FFmpeg
		if strings.TrimSpace(ff.VideoCodec) != "" {
			videoCodec = ff.VideoCodec
		}
		if strings.TrimSpace(ff.VideoPreset) != "" {
			videoPreset = ff.VideoPreset
		}
		if strings.TrimSpace(ff.AudioBitrate) != "" {
			audioBitrate = ff.AudioBitrate
		}
		if ff.SegmentDuration > 0 {
			segmentDuration = ff.SegmentDuration
		}
		if ff.GopSize > 0 {
			gopSize = ff.GopSize
		}
		padToExact = ff.PadToExact
	}

	args := []string{
		"-y", "-hide_banner", "-loglevel", "warning",
		"-i", input,
	}

	streamMaps := make([]string, 0, len(specs))
	for idx, spec := range specs {
		args = append(args, "-map", "0:v:0", "-map", "0:a:0")
		args = append(args,
			fmt.Sprintf("-c:v:%d", idx), videoCodec,
			fmt.Sprintf("-b:v:%d", idx), spec.VideoBitrate,
			fmt.Sprintf("-filter:v:%d", idx), scaleFilter(spec, padToExact),
		)
		streamMaps = append(streamMaps, fmt.Sprintf("v:%d,a:%d,name:%s", idx, idx, spec.PathFragment))
	}

	args = append(args,
		"-preset", videoPreset,
		"-g", strconv.Itoa(gopSize),
		"-keyint_min", strconv.Itoa(gopSize),
		"-c:a", "aac",
		"-b:a", audioBitrate,
		"-f", "hls",
		"-hls_time", strconv.Itoa(segmentDuration),
		"-hls_playlist_type", "vod",
		"-master_pl_name", "master.m3u8",
		"-hls_segment_filename", filepath.Join(workspace, "%v", "seg%03d.ts"),
		"-var_stream_map", strings.Join(streamMaps, " "),
		filepath.Join(workspace, "%v", "prog.m3u8"),
	)
	return args
}

// scaleFilter 默认保比例缩放到目标高度；pad 模式缩放后补边到精确分辨率。
func scaleFilter(spec vo.RenditionSpec, padToExact bool) string {
	if padToExact {
		return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
			spec.Width, spec.Height, spec.Width, spec.Height)
	}
	return fmt.Sprintf("scale=-2:%d", spec.Height)
}

type ffmpegExecution struct {
	cmd      *exec.Cmd
	lines    chan string
	scanDone chan struct{}

	mu   sync.Mutex
	tail []string

	cancelOnce sync.Once
}

func (x *ffmpegExecution) Lines() <-chan string { return x.lines }

func (x *ffmpegExecution) Wait() error {
	<-x.scanDone
	err := x.cmd.Wait()
	if err == nil {
		return nil
	}
	tail := x.tailText()
	if tail == "" {
		return fmt.Errorf("%w: %v", errno.ErrTranscodeFailed, err)
	}
	return fmt.Errorf("%w: %v: %s", errno.ErrTranscodeFailed, err, tail)
}

func (x *ffmpegExecution) Cancel() {
	x.cancelOnce.Do(func() {
		if x.cmd.Process != nil {
			_ = x.cmd.Process.Kill()
		}
	})
}

func (x *ffmpegExecution) capture(line string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if len(x.tail) >= stderrTailLines {
		x.tail = x.tail[1:]
	}
	x.tail = append(x.tail, line)
}

func (x *ffmpegExecution) tailText() string {
	x.mu.Lock()
	defer x.mu.Unlock()
	tail := x.tail
	if n := len(tail); n > 20 {
		tail = tail[n-20:]
	}
	return strings.TrimSpace(strings.Join(tail, "\n"))
}
