package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuiread/internal/config"
	"github.com/verte-zerg/tuiread/internal/logging"
	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/pacing"
)

const defaultVolume = 0.5

type flagValues struct {
	wpm       int
	smart     bool
	mute      bool
	plain     bool
	cuesDir   string
	noCues    bool
	noHistory bool
	watch     bool
	logLevel  string
	logFile   string
}

func (f *flagValues) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.wpm, "wpm", pacing.DefaultWPM, "words per minute, clamped to 1-1000")
	cmd.Flags().BoolVar(&f.smart, "smart", false, "hold longer words and punctuation longer")
	cmd.Flags().BoolVar(&f.mute, "mute", false, "start with audio cues muted")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "print words to stdout instead of the full-screen UI")
	cmd.Flags().StringVar(&f.cuesDir, "cues-dir", config.DefaultCuesDir(), "directory with <cue>.wav overrides")
	cmd.Flags().BoolVar(&f.noCues, "no-cues", false, "disable audio cues")
	cmd.Flags().BoolVar(&f.noHistory, "no-history", false, "do not record reading sessions")
	cmd.Flags().BoolVar(&f.watch, "watch", true, "reload the document when it changes on disk")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&f.logFile, "log-file", config.DefaultLogPath(), "log file path")
}

// resolveSettings merges settings. Precedence: explicit flag, environment,
// config file, flag default.
func resolveSettings(cmd *cobra.Command, f flagValues, fileCfg config.FileConfig, env config.Env) (model.Settings, logging.Options) {
	cuesEnabled := !f.noCues
	history := !f.noHistory
	volume := defaultVolume

	applyIntConfig(cmd, "wpm", &f.wpm, fileCfg.Reader.WPM)
	applyBoolConfig(cmd, "smart", &f.smart, fileCfg.Reader.SmartPacing)
	applyBoolConfig(cmd, "mute", &f.mute, fileCfg.Reader.Muted)
	applyStringConfig(cmd, "cues-dir", &f.cuesDir, fileCfg.Cues.Dir)
	applyBoolConfig(cmd, "no-cues", &cuesEnabled, fileCfg.Cues.Enabled)
	applyBoolConfig(cmd, "no-history", &history, fileCfg.History.Enabled)
	applyStringConfig(cmd, "log-level", &f.logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &f.logFile, fileCfg.Log.File)
	if fileCfg.Cues.Volume != nil {
		volume = *fileCfg.Cues.Volume
	}

	if muted, ok := env.MuteOverride(); ok && !cmd.Flags().Changed("mute") {
		f.mute = muted
	}
	applyEnvString(cmd, "log-level", &f.logLevel, env.LogLevel)
	applyEnvString(cmd, "log-file", &f.logFile, env.LogFile)

	return model.Settings{
			WPM:         pacing.ClampWPM(f.wpm),
			SmartPacing: f.smart,
			Muted:       f.mute,
			CuesEnabled: cuesEnabled,
			CuesDir:     f.cuesDir,
			Volume:      volume,
			History:     history,
			Plain:       f.plain,
		}, logging.Options{
			Path:  f.logFile,
			Level: f.logLevel,
		}
}

func validateSettings(s model.Settings) error {
	if s.Volume < 0 || s.Volume > 1 {
		return fmt.Errorf("cues volume must be between 0 and 1")
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyEnvString(cmd *cobra.Command, name string, target *string, value string) {
	if value == "" || cmd.Flags().Changed(name) {
		return
	}
	*target = value
}
