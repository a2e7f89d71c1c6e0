package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/subtrack/internal/subtitle"
	"github.com/mgpai22/subtrack/internal/video"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract an embedded subtitle stream from a video file",
	Long: `Extract an embedded subtitle stream from a video container with ffmpeg
and save it as SRT or VTT, ready for play or serve.

Streams are numbered among subtitle streams only, starting at 0.
ffmpeg and ffprobe are found on PATH or through SUBTRACK_FFMPEG_PATH
and SUBTRACK_FFPROBE_PATH.

Examples:
  subtrack extract movie.mkv
  subtrack extract movie.mkv -s 1 -o movie.jpn.srt
  subtrack extract movie.mp4 -o movie.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		IntP("stream", "s", 0, "Subtitle stream number (0 is the first subtitle stream)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	ctx := context.Background()

	stream, _ := cmd.Flags().GetInt("stream")
	outputPath, _ := cmd.Flags().GetString("output")

	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", videoPath)
	}
	if !video.IsVideoFile(videoPath) {
		return fmt.Errorf("unsupported file type: %s (expected a video file)", filepath.Ext(videoPath))
	}
	if stream < 0 {
		return fmt.Errorf("stream must not be negative, got %d", stream)
	}

	processor := video.NewProcessor()

	language := ""
	info, err := processor.GetInfo(ctx, videoPath)
	if err != nil {
		logger.Warnw("Could not probe video, extracting blindly", "error", err)
	} else {
		s, serr := info.SubtitleStream(stream)
		if serr != nil {
			return serr
		}
		language = s.Language
		logger.Infow("Found subtitle stream",
			"stream", stream,
			"codec", s.Codec,
			"language", s.Language,
			"title", s.Title,
		)
	}

	if outputPath == "" {
		baseName := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
		if language != "" {
			baseName += "." + language
		}
		outputPath = baseName + subtitle.GetExtensionForFormat(subtitle.FormatSRT)
	}

	logger.Infow("Extracting subtitles",
		"video", videoPath,
		"output", outputPath,
		"stream", stream,
	)

	opts := video.ExtractSubtitlesOptions{
		Stream: stream,
		Format: subtitle.GetFormatFromExtension(outputPath),
	}
	if err := processor.ExtractSubtitles(ctx, videoPath, outputPath, opts); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	file, err := openSubtitleFile(outputPath)
	if err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles extracted successfully: %s\n", absOutput)
	fmt.Fprintf(cmd.OutOrStdout(), "  Cues: %d\n", len(file.Track().Cues))

	return nil
}
