package config

import (
	"testing"
	"time"
)

func TestNormalizeDefaults(t *testing.T) {
	var c Config
	c.normalize()

	if c.Server.Port != 8080 {
		t.Fatalf("port %d", c.Server.Port)
	}
	if c.Transcode.FFmpeg.BinaryPath != "ffmpeg" {
		t.Fatalf("binary %q", c.Transcode.FFmpeg.BinaryPath)
	}
	if c.Transcode.FFmpeg.SegmentDuration != 6 {
		t.Fatalf("segment duration %d", c.Transcode.FFmpeg.SegmentDuration)
	}
	if c.Transcode.FFmpeg.AudioBitrate != "128k" {
		t.Fatalf("audio bitrate %q", c.Transcode.FFmpeg.AudioBitrate)
	}
	if len(c.Convert.DefaultQualities) != 2 || c.Convert.DefaultQualities[0] != "480" {
		t.Fatalf("default qualities %v", c.Convert.DefaultQualities)
	}
	if c.Convert.ProgressInterval != 3*time.Second {
		t.Fatalf("progress interval %v", c.Convert.ProgressInterval)
	}
	if c.Convert.ProgressMaxChars != 400 {
		t.Fatalf("progress max chars %d", c.Convert.ProgressMaxChars)
	}
	if c.Publish.Strategy != "local" || c.Publish.OutputDir != "hls_output" {
		t.Fatalf("publish defaults %+v", c.Publish)
	}
	if c.Worker.MaxConcurrentJobs != 2 || c.Worker.QueueCapacity != 20 {
		t.Fatalf("worker defaults %+v", c.Worker)
	}
}

func TestNormalizeClampsSegmentDuration(t *testing.T) {
	cases := map[int]int{1: 6, 3: 6, 4: 4, 6: 6, 10: 10, 11: 6}
	for in, want := range cases {
		var c Config
		c.Transcode.FFmpeg.SegmentDuration = in
		c.normalize()
		if c.Transcode.FFmpeg.SegmentDuration != want {
			t.Fatalf("segment %d: got %d want %d", in, c.Transcode.FFmpeg.SegmentDuration, want)
		}
	}
}

func TestNormalizeCredentialAliases(t *testing.T) {
	var c Config
	c.Minio.AccessKey = "ak"
	c.Minio.SecretKey = "sk"
	c.normalize()
	if c.Minio.AccessKeyID != "ak" || c.Minio.SecretAccessKey != "sk" {
		t.Fatalf("aliases not applied: %+v", c.Minio)
	}
}
