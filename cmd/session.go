package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eykd/amigaguide-go/internal/config"
	"github.com/eykd/amigaguide-go/internal/guide"
	"github.com/eykd/amigaguide-go/internal/parse"
)

const (
	flagConfig   = "config"
	flagPath     = "path"
	flagDebug    = "debug"
	flagLogLevel = "log-level"
)

// addGlobalFlags registers the flags shared by every guide command.
func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String(flagConfig, "", "settings file (default: "+config.DefaultFile+" if present)")
	fs.StringArray(flagPath, nil, "map an Amiga device to a local folder as PREFIX=FOLDER (repeatable)")
	fs.Bool(flagDebug, false, "log debug messages to stderr")
	fs.String(flagLogLevel, "", "log level: debug, info, warn or error (default: warn)")
}

// session holds what one command run needs to process guides.
type session struct {
	ctx    context.Context
	cfg    guide.Config
	logger *zap.SugaredLogger
}

// newSession reads the global flags and the settings file. Flags that are
// not registered on cmd keep their defaults, so commands also work outside
// the root command.
func newSession(cmd *cobra.Command, io GuideIO) (*session, error) {
	fs := cmd.Flags()
	configPath, _ := fs.GetString(flagConfig)
	paths, _ := fs.GetStringArray(flagPath)
	debug, _ := fs.GetBool(flagDebug)
	logLevel, _ := fs.GetString(flagLogLevel)

	required := configPath != ""
	if !required {
		configPath = config.DefaultFile
	}
	settings, err := io.LoadConfig(configPath, required)
	if err != nil {
		return nil, err
	}
	if err := settings.AddPathFlags(paths); err != nil {
		return nil, fmt.Errorf("--%s: %w", flagPath, err)
	}

	var level zapcore.Level
	switch {
	case logLevel != "":
		if level, err = zapcore.ParseLevel(logLevel); err != nil {
			return nil, fmt.Errorf("--%s: %w", flagLogLevel, err)
		}
	case debug:
		level = zapcore.DebugLevel
	default:
		if level, err = settings.Level(zapcore.WarnLevel); err != nil {
			return nil, err
		}
	}

	logger := newLogger(cmd.ErrOrStderr(), level, debug)
	logger.Debugw("loaded settings", "config", configPath, "paths", len(settings.Paths))
	return &session{
		ctx: guide.WithLogger(cmd.Context(), logger),
		cfg: guide.Config{
			Diagnostics:   parse.NewDiagnostics(),
			Paths:         settings.AmigaPaths(),
			MaxMacroDepth: settings.MaxMacroDepth,
		},
		logger: logger,
	}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}
