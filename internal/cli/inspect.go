package cli

import (
	"fmt"

	"github.com/mgpai22/subtrack/internal/subtitle"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [subtitle_file]",
	Short: "Print parse statistics for a subtitle file",
	Long: `Parse a subtitle file and report how many cues were found, how many
blocks were dropped as malformed, cues whose end precedes their start
(never displayed) and cues that overlap the previous one.

Examples:
  subtrack inspect movie.srt
  subtrack inspect legacy.srt --encoding windows-1252`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	file, err := openSubtitleFile(args[0])
	if err != nil {
		return err
	}

	cues := file.Track().Cues
	stats := subtitle.Analyze(cues, file.Skipped())

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s\n", args[0])
	fmt.Fprintf(out, "  Format: %s\n", file.Format())
	fmt.Fprintf(out, "  Cues: %d\n", stats.Cues)
	fmt.Fprintf(out, "  Skipped blocks: %d\n", stats.Skipped)
	fmt.Fprintf(out, "  Malformed ranges: %d\n", stats.Malformed)
	fmt.Fprintf(out, "  Overlaps: %d\n", stats.Overlaps)
	fmt.Fprintf(out, "  Span: %s\n", formatClock(stats.Span))

	if len(cues) > 0 {
		first, last := cues[0], cues[len(cues)-1]
		fmt.Fprintf(out, "  First cue: %s %q\n", formatClock(first.StartTime), firstLine(first.Text))
		fmt.Fprintf(out, "  Last cue: %s %q\n", formatClock(last.StartTime), firstLine(last.Text))
	}

	return nil
}

func firstLine(text string) string {
	for i, r := range text {
		if r == '\n' {
			return text[:i]
		}
	}
	return text
}
