// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/pyside-migrate/cmd/pyside-migrate/commands"
	"github.com/walteh/pyside-migrate/cmd/pyside-migrate/opts"
	"github.com/walteh/pyside-migrate/pkg/config"
	"github.com/walteh/pyside-migrate/pkg/prompt"
	"github.com/walteh/pyside-migrate/pkg/report"
	"gitlab.com/tozd/go/errors"
)

// NewRootCommand builds the command tree. Running the root command without a
// subcommand performs the migration.
func NewRootCommand(stdin *os.File, stdout, stderr io.Writer) *cobra.Command {
	o := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "pyside-migrate",
		Short: "Migrate PySide2 references in a .nuke folder to PySide6",
		Long: `pyside-migrate rewrites PySide2 imports and references in the Python files of
your .nuke folder to PySide6. Every file it changes is first copied to
<file>.bak so the migration can be reverted by hand.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(stderr, o.Debug)
			ctx := logger.WithContext(cmd.Context())
			cmd.SetContext(ctx)

			return initRootOpts(ctx, o, cmd.Flags().Changed("config"), stdin, stdout)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunMigrate(cmd.Context(), o)
		},
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(
		commands.NewCheckCmd(o),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", config.DefaultFile, "settings file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// initRootOpts loads the settings and creates the shared collaborators. A
// missing default settings file is not an error; an explicit one must exist.
func initRootOpts(ctx context.Context, o *opts.RootOpts, explicitConfig bool, stdin *os.File, stdout io.Writer) error {
	logger := zerolog.Ctx(ctx)

	var cfg *config.Config
	var err error
	if explicitConfig {
		cfg, err = config.Load(ctx, o.ConfigFile)
	} else {
		cfg, err = config.LoadOrDefault(ctx, o.ConfigFile)
	}
	if err != nil {
		return errors.Errorf("loading settings: %w", err)
	}
	if loc := cfg.Location(); loc != "" {
		logger.Debug().Str("settings", loc).Msg("loaded settings file")
	} else {
		logger.Debug().Msg("using default settings")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		logger.Warn().Err(err).Msg("home directory unknown, only configured roots will be tried")
		home = ""
	}

	o.Config = cfg
	o.Home = home
	o.Console = report.New(stdout, *logger)
	o.Prompter = prompt.New(stdin, stdout)

	return nil
}

// setupLogging builds the stderr logger, warn level unless debug is set
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
