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
	"github.com/walteh/pyside-migrate/cmd/pyside-migrate/opts"
	"github.com/walteh/pyside-migrate/pkg/backup"
	"github.com/walteh/pyside-migrate/pkg/locate"
	"github.com/walteh/pyside-migrate/pkg/migrate"
	"github.com/walteh/pyside-migrate/pkg/rules"
	"github.com/walteh/pyside-migrate/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// ConfirmMessage gates every run that modifies files.
const ConfirmMessage = "This will modify Python files in your .nuke folder. Continue?"

// RunMigrate locates the root directory, asks for confirmation and rewrites
// every matching file, backing each one up first.
func RunMigrate(ctx context.Context, o *opts.RootOpts) error {
	ctx = zerolog.Ctx(ctx).With().Str("command", "migrate").Logger().WithContext(ctx)

	o.Console.Header("PySide2 to PySide6 migration")

	root, err := locateRoot(ctx, o)
	if err != nil {
		return err
	}
	o.Console.Infof("Using .nuke folder: %s", root)

	ok, err := o.Prompter.Confirm(ctx, ConfirmMessage)
	if err != nil {
		return errors.Errorf("asking for confirmation: %w", err)
	}
	if !ok {
		o.Console.Info("Operation cancelled.")
		return nil
	}

	files, err := discover(ctx, o, root)
	if err != nil {
		return err
	}

	summary, err := migrate.Run(ctx, migrate.Options{
		Root:      root,
		Files:     files,
		Table:     rules.DefaultTable(),
		Persister: backup.New(),
		Reporter:  o.Console,
		Proceed:   true,
	})
	if summary != nil {
		o.Console.Summary(ctx, summary)
	}
	if err != nil {
		return errors.Errorf("running migration: %w", err)
	}

	if n := len(summary.Updated()); n > 0 {
		o.Console.Successf("Migrated %d of %d Python files to PySide6", n, summary.Total())
	}

	return nil
}

func locateRoot(ctx context.Context, o *opts.RootOpts) (string, error) {
	var defaults []string
	if o.Home != "" {
		defaults = locate.DefaultCandidates(o.Home)
	}

	root, err := locate.Locate(ctx, o.Config.Candidates(defaults), o.Prompter)
	if err != nil {
		return "", errors.Errorf("locating .nuke folder: %w", err)
	}

	return root, nil
}

func discover(ctx context.Context, o *opts.RootOpts, root string) ([]string, error) {
	files, err := walk.Walk(ctx, root, o.Config.Filter())
	if err != nil {
		return nil, errors.Errorf("scanning %s: %w", root, err)
	}

	if len(files) == 0 {
		o.Console.Warningf("No Python files found in %s", root)
	} else {
		o.Console.Infof("Found %d Python files", len(files))
	}

	return files, nil
}
