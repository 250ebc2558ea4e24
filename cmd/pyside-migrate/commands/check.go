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

package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/pyside-migrate/cmd/pyside-migrate/opts"
	"github.com/walteh/pyside-migrate/pkg/migrate"
	"github.com/walteh/pyside-migrate/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates the preview command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Show which files a migration would change",
		Long: `Check runs the migration without touching any file.
It will:
1. Locate the .nuke folder
2. Scan it for Python files
3. Apply the rewrite rules in memory
4. Report every file that would be updated`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunCheck(cmd.Context(), o, showDiff)
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "print the changed lines of every file")

	return cmd
}

// RunCheck reports what RunMigrate would change. No confirmation is asked
// and nothing is written.
func RunCheck(ctx context.Context, o *opts.RootOpts, showDiff bool) error {
	ctx = zerolog.Ctx(ctx).With().Str("command", "check").Logger().WithContext(ctx)

	o.Console.Header("PySide2 to PySide6 preview")

	root, err := locateRoot(ctx, o)
	if err != nil {
		return err
	}
	o.Console.Infof("Using .nuke folder: %s", root)

	files, err := discover(ctx, o, root)
	if err != nil {
		return err
	}

	o.Console.SetShowDiffs(showDiff)

	summary, err := migrate.Run(ctx, migrate.Options{
		Root:     root,
		Files:    files,
		Table:    rules.DefaultTable(),
		Reporter: o.Console,
		DryRun:   true,
	})
	if summary != nil {
		o.Console.Summary(ctx, summary)
	}
	if err != nil {
		return errors.Errorf("checking files: %w", err)
	}

	return nil
}
