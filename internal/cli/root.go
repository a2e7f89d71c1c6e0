package cli

import (
	"fmt"
	"os"

	"github.com/mgpai22/subtrack/internal/config"
	"github.com/mgpai22/subtrack/internal/host"
	"github.com/mgpai22/subtrack/internal/logging"
	"github.com/mgpai22/subtrack/internal/subtitle"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "subtrack",
	Short: "Subtitle synchronization and rendering engine",
	Long: `Subtrack parses SubRip (and WebVTT) subtitles and keeps them in sync
with a playback clock, showing and hiding cues exactly when the active
cue changes. Cue markup is sanitised before it is displayed.

It can play a track in the terminal, serve sessions over HTTP for an
overlay client, and clean, inspect or extract subtitle files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		warnings, err := loaded.Validate()
		for _, w := range warnings {
			logger.Warnw("Config adjusted", "warning", w)
		}
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if loaded.Path() != "" {
			logger.Debugw("Config loaded", "path", loaded.Path())
		}

		if enc, _ := cmd.Flags().GetString("encoding"); enc != "" {
			loaded.Playback.Encoding = enc
		}
		cfg = loaded
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file path (default subtrack.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("encoding", "e", "", "Subtitle text encoding (e.g., utf-8, windows-1252); detected when empty")
}

// opens a subtitle file with the configured encoding
func openSubtitleFile(path string) (subtitle.File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("subtitle file not found: %s", path)
	}

	file, err := subtitle.Open(path, cfg.Playback.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subtitle file: %w", err)
	}

	logger.Debugw("Parsed subtitle file",
		"path", path,
		"format", file.Format(),
		"cues", len(file.Track().Cues),
		"skipped", file.Skipped(),
	)
	return file, nil
}

// settings store seeded with the configured display defaults
func seededStore() *host.MemoryStore {
	store := host.NewMemoryStore()
	_ = store.Save(host.Snapshot{
		Settings: cfg.Display,
		Enabled:  !cfg.Playback.Disabled,
	})
	return store
}
