// Package main provides the CLI entrypoint for tuiread.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuiread/internal/config"
	"github.com/verte-zerg/tuiread/internal/cue"
	"github.com/verte-zerg/tuiread/internal/document"
	"github.com/verte-zerg/tuiread/internal/logging"
	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/playback"
	"github.com/verte-zerg/tuiread/internal/store"
	"github.com/verte-zerg/tuiread/internal/tui"
)

var (
	// Version as provided by the release build.
	Version = ""

	readerFlags flagValues
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tuiread [FILE]",
		Short: "Terminal speed reader",
		Long: "Show a document one word at a time at a fixed rate.\n" +
			"Supported files: .txt, .docx, .md",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return []string{"txt", "docx", "md", "markdown"}, cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: runReaderCmd,
	}
	readerFlags.register(rootCmd)

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newManCmd(rootCmd))
	return rootCmd
}

func runReaderCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return err
	}
	flags := readerFlags
	settings, logOpts := resolveSettings(cmd, flags, fileCfg, envCfg)
	if err := validateSettings(settings); err != nil {
		return err
	}

	logger, closeLog, err := logging.Setup(logOpts)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			// Best-effort close of the log file.
			_ = cerr
		}
	}()

	mixer := newMixer(settings, logger)
	defer func() {
		if cerr := mixer.Close(); cerr != nil {
			logger.Debug("failed to close audio", "err", cerr)
		}
	}()

	var history *store.Store
	if settings.History {
		history, err = store.Open(config.DefaultDBPath())
		if err != nil {
			// Reading works without history.
			logger.Warn("history disabled", "err", err)
			history = nil
		} else {
			defer func() {
				if cerr := history.Close(); cerr != nil {
					logger.Debug("failed to close db", "err", cerr)
				}
			}()
		}
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	if settings.Plain || !tui.IsTerminal(os.Stdout) {
		return runPlain(cmd, path, settings, mixer, history, logger)
	}

	opts := tui.Options{
		Settings: settings,
		Cues:     mixer,
		Loader:   document.NewLoader(document.DefaultCacheTTL),
		Logger:   logger,
		Path:     path,
		Watch:    flags.watch,
	}
	if history != nil {
		opts.History = history
	}
	m := tui.NewModel(opts)
	defer func() {
		if cerr := m.Close(); cerr != nil {
			logger.Debug("failed to close watcher", "err", cerr)
		}
	}()
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func runPlain(cmd *cobra.Command, path string, settings model.Settings, mixer *cue.Mixer, history *store.Store, logger *log.Logger) error {
	if path == "" {
		return errors.New("plain mode needs a FILE argument")
	}
	doc, err := document.NewLoader(document.DefaultCacheTTL).Load(path)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	opts := tui.PlainOptions{
		Settings: settings,
		Cues:     mixer,
		Inline:   tui.IsTerminal(os.Stdout),
	}
	if history != nil {
		opts.OnSession = func(s playback.SessionSummary) {
			if _, err := history.InsertSession(context.Background(), s.Record(doc.Path)); err != nil {
				logger.Warn("failed to save reading session", "err", err)
			}
		}
	}
	err = tui.RunPlain(ctx, cmd.OutOrStdout(), doc.Words, opts)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// newMixer falls back to silence when cues are disabled or no audio device is usable.
func newMixer(settings model.Settings, logger *log.Logger) *cue.Mixer {
	var backend cue.Backend = cue.Silent{}
	clips := map[cue.Kind]*cue.Clip{}
	if settings.CuesEnabled {
		loaded, err := cue.LoadClips(settings.CuesDir, settings.Volume)
		if err != nil {
			logger.Warn("using built-in cues", "err", err)
			loaded = cue.DefaultClips(settings.Volume)
		}
		clips = loaded
		if b, err := cue.NewOtoBackend(); err != nil {
			logger.Warn("audio cues unavailable", "err", err)
		} else {
			backend = b
		}
	}
	mixer := cue.NewMixer(backend, clips, logger)
	mixer.SetMuted(settings.Muted)
	return mixer
}
