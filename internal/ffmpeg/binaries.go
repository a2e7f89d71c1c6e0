package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

const (
	EnvFFmpegPath  = "SUBTRACK_FFMPEG_PATH"
	EnvFFprobePath = "SUBTRACK_FFPROBE_PATH"
)

var ErrNotFound = errors.New("binary not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure resolves the ffmpeg and ffprobe binaries once per process,
// from the environment first and then from PATH.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = resolve(os.Getenv, exec.LookPath)
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func resolve(
	getenv func(string) string,
	lookPath func(string) (string, error),
) (BinaryPaths, error) {
	paths := BinaryPaths{
		FFmpeg:  getenv(EnvFFmpegPath),
		FFprobe: getenv(EnvFFprobePath),
	}

	if paths.FFmpeg == "" {
		found, err := lookPath("ffmpeg")
		if err != nil {
			return BinaryPaths{}, fmt.Errorf(
				"ffmpeg: %w: install it or set %s",
				ErrNotFound,
				EnvFFmpegPath,
			)
		}
		paths.FFmpeg = found
	}

	if paths.FFprobe == "" {
		found, err := lookPath("ffprobe")
		if err != nil {
			return BinaryPaths{}, fmt.Errorf(
				"ffprobe: %w: install it or set %s",
				ErrNotFound,
				EnvFFprobePath,
			)
		}
		paths.FFprobe = found
	}

	return paths, nil
}
