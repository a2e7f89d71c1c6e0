package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mgpai22/subtrack/internal/sanitize"
	"github.com/mgpai22/subtrack/internal/subtitle"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [subtitle_file]",
	Short: "Sanitise cue markup and rewrite a subtitle file",
	Long: `Rewrite a subtitle file with every cue passed through the markup
sanitiser: executable and embedded elements are removed with their
content, unknown tags are unwrapped and only allowed attributes survive.

With --plain all markup is removed. Cues are renumbered from 1.

Examples:
  subtrack clean movie.srt
  subtrack clean movie.srt --plain -o movie.plain.srt
  subtrack clean movie.vtt -f srt`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().
		StringP("format", "f", "", "Output subtitle format (srt, vtt); defaults to the input format")
	cleanCmd.Flags().
		Bool("plain", false, "Strip all markup instead of keeping the allowed tags")
}

func runClean(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]

	formatStr, _ := cmd.Flags().GetString("format")
	plain, _ := cmd.Flags().GetBool("plain")
	outputPath, _ := cmd.Flags().GetString("output")

	file, err := openSubtitleFile(subtitlePath)
	if err != nil {
		return err
	}

	format := file.Format()
	switch strings.ToLower(formatStr) {
	case "":
	case "srt":
		format = subtitle.FormatSRT
	case "vtt":
		format = subtitle.FormatVTT
	default:
		return fmt.Errorf("unsupported format %q: use srt or vtt", formatStr)
	}

	if outputPath == "" {
		baseName := strings.TrimSuffix(subtitlePath, filepath.Ext(subtitlePath))
		outputPath = baseName + ".clean" + subtitle.GetExtensionForFormat(format)
	}

	policy := cfg.Policy()
	track := file.Track()

	changed := 0
	for i, cue := range track.Cues {
		text := cleanText(policy, cue.Text, plain)
		if text == cue.Text {
			continue
		}
		if err := file.SetText(i, text); err != nil {
			return fmt.Errorf("failed to set text for cue %d: %w", i, err)
		}
		changed++
	}

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return fmt.Errorf("failed to create subtitle writer: %w", err)
	}
	if err := writer.Write(file.Track(), outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	logger.Infow("Cleaned subtitles",
		"input", subtitlePath,
		"output", outputPath,
		"changed", changed,
	)

	absOutput, _ := filepath.Abs(outputPath)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitles cleaned successfully: %s\n", absOutput)
	fmt.Fprintf(out, "  Cues: %d\n", len(track.Cues))
	fmt.Fprintf(out, "  Changed: %d\n", changed)
	if file.Skipped() > 0 {
		fmt.Fprintf(out, "  Dropped malformed blocks: %d\n", file.Skipped())
	}

	return nil
}

// cleanText sanitises cue text for writing back to a subtitle file,
// where line breaks are newlines rather than <br>.
func cleanText(policy *sanitize.Policy, text string, plain bool) string {
	if plain {
		return policy.PlainText(text)
	}
	return strings.ReplaceAll(policy.Render(text), "<br>", "\n")
}
