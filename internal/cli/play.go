package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/mgpai22/subtrack/internal/clipboard"
	"github.com/mgpai22/subtrack/internal/host"
	"github.com/mgpai22/subtrack/internal/player"
	"github.com/mgpai22/subtrack/internal/subtitle"
	"github.com/mgpai22/subtrack/internal/video"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [subtitle_file]",
	Short: "Play a subtitle track against a simulated clock in the terminal",
	Long: `Play a subtitle track in the terminal. Cues are shown and hidden as a
simulated playback clock passes through them, sampled every poll interval.

The track comes from a file (SRT or VTT) or, with --clipboard, from the
clipboard. With --media the clock runs for the video's duration;
otherwise it stops after the last cue.

While playing, type a command and press enter:
  + / -        font size up / down
  < / >        opacity down / up
  w / m / s    position top / middle / bottom
  t            toggle subtitles
  p            pause / resume
  seek 42.5    jump to a position in seconds
  q            quit

Examples:
  subtrack play movie.srt
  subtrack play movie.srt --start 10m --speed 2
  subtrack play --clipboard
  subtrack play movie.vtt --media movie.mkv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().
		Bool("clipboard", false, "Load subtitles from the clipboard")
	playCmd.Flags().
		String("media", "", "Video file whose duration bounds playback")
	playCmd.Flags().
		Duration("start", 0, "Start position (e.g., 90s, 12m30s)")
	playCmd.Flags().
		Float64("speed", 1, "Playback rate")
}

func runPlay(cmd *cobra.Command, args []string) error {
	fromClipboard, _ := cmd.Flags().GetBool("clipboard")
	mediaPath, _ := cmd.Flags().GetString("media")
	start, _ := cmd.Flags().GetDuration("start")
	speed, _ := cmd.Flags().GetFloat64("speed")

	if fromClipboard == (len(args) == 1) {
		return fmt.Errorf("pass either a subtitle file or --clipboard")
	}
	if speed <= 0 {
		return fmt.Errorf("speed must be positive, got %v", speed)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	clock := player.NewPlaybackClock(nil)
	out := cmd.OutOrStdout()
	policy := cfg.Policy()

	session := host.NewSession("terminal", host.SessionOptions{
		Policy:       policy,
		Store:        seededStore(),
		Display:      newTerminalDisplay(out, policy, clock.CurrentTime),
		Logger:       logger,
		PollInterval: cfg.Playback.PollInterval,
	})
	defer session.Close()

	var (
		n   int
		err error
	)
	if fromClipboard {
		if !clipboard.Supported() {
			return fmt.Errorf("clipboard is not available on this system")
		}
		text, cerr := clipboard.ReadSubtitles()
		if cerr != nil {
			return cerr
		}
		n, err = session.Load(text)
	} else {
		file, oerr := openSubtitleFile(args[0])
		if oerr != nil {
			return oerr
		}
		n, err = session.LoadCues(file.Track().Cues)
	}
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no subtitle cues found")
	}

	duration, err := playbackDuration(ctx, mediaPath, session)
	if err != nil {
		return err
	}

	clock.SetDuration(duration)
	clock.SetRate(speed)
	clock.Seek(start)

	logger.Infow("Starting playback",
		"cues", n,
		"duration", duration.String(),
		"start", start.String(),
		"speed", speed,
	)

	clock.Play()
	if err := session.Play(ctx, clock); err != nil {
		return err
	}

	commands := make(chan playCommand)
	go readCommands(cmd.InOrStdin(), commands, func(err error) {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	})

	watch := time.NewTicker(250 * time.Millisecond)
	defer watch.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-watch.C:
			if clock.Ended() {
				fmt.Fprintf(out, "%s   end\n", formatClock(clock.CurrentTime()))
				return nil
			}
		case c, ok := <-commands:
			if !ok {
				// stdin closed; keep playing until the end
				commands = nil
				continue
			}
			if c.kind == commandQuit {
				return nil
			}
			applyCommand(c, session, clock, out)
		}
	}
}

// media duration when a video is given, otherwise the end of the
// last cue
func playbackDuration(ctx context.Context, mediaPath string, session *host.Session) (time.Duration, error) {
	if mediaPath == "" {
		return session.Span(), nil
	}
	if !video.IsVideoFile(mediaPath) {
		return 0, fmt.Errorf("unsupported media file: %s", mediaPath)
	}

	info, err := video.NewProcessor().GetInfo(ctx, mediaPath)
	if err != nil {
		return 0, fmt.Errorf("failed to probe media: %w", err)
	}
	logger.Infow("Media probed",
		"path", mediaPath,
		"duration", info.Duration.String(),
		"subtitle_streams", len(info.Subtitles),
	)
	return info.Duration, nil
}

type commandKind int

const (
	commandKey commandKind = iota
	commandPause
	commandSeek
	commandQuit
)

type playCommand struct {
	kind commandKind
	key  host.Key
	seek time.Duration
}

var commandAliases = map[string]host.Key{
	"+": host.KeyFontUp,
	"-": host.KeyFontDown,
	"<": host.KeyOpacityDown,
	">": host.KeyOpacityUp,
}

func parseCommand(line string) (playCommand, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return playCommand{}, errors.New("empty command")
	}

	switch fields[0] {
	case "q", "quit":
		return playCommand{kind: commandQuit}, nil
	case "p", "pause":
		return playCommand{kind: commandPause}, nil
	case "seek":
		if len(fields) != 2 {
			return playCommand{}, errors.New("usage: seek <seconds>")
		}
		secs, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || secs < 0 {
			return playCommand{}, fmt.Errorf("invalid seek position %q", fields[1])
		}
		return playCommand{kind: commandSeek, seek: subtitle.Seconds(secs)}, nil
	}

	key, ok := commandAliases[fields[0]]
	if !ok {
		key = host.Key(fields[0])
	}
	if _, bound := host.MessageForKey(key, player.DefaultSettings()); !bound {
		return playCommand{}, fmt.Errorf("unknown command %q", line)
	}
	return playCommand{kind: commandKey, key: key}, nil
}

func readCommands(r io.Reader, out chan<- playCommand, report func(error)) {
	defer close(out)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c, err := parseCommand(line)
		if err != nil {
			report(err)
			continue
		}
		out <- c
		if c.kind == commandQuit {
			return
		}
	}
}

func applyCommand(c playCommand, session *host.Session, clock *player.PlaybackClock, out io.Writer) {
	switch c.kind {
	case commandPause:
		if clock.Paused() {
			clock.Play()
		} else {
			clock.Pause()
			fmt.Fprintf(out, "%s   paused\n", formatClock(clock.CurrentTime()))
		}
	case commandSeek:
		clock.Seek(c.seek)
		// show the new position right away, even while paused
		session.Sample(clock.CurrentTime())
	case commandKey:
		msg, _ := host.MessageForKey(c.key, session.Settings())
		resp := session.Handle(msg)
		if !resp.Success {
			logger.Warnw("Command failed", "error", resp.Error)
			return
		}
		if resp.Enabled != nil {
			state := "off"
			if *resp.Enabled {
				state = "on"
			}
			fmt.Fprintf(out, "%s   subtitles %s\n", formatClock(clock.CurrentTime()), state)
		}
	}
}
