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

package migrate

import (
	"context"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/pyside-migrate/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotConfirmed is returned when a run that writes files was not confirmed.
	ErrNotConfirmed = errors.Base("migration not confirmed")

	// ErrInvalidEncoding is the cause recorded for files that are not UTF-8 text.
	ErrInvalidEncoding = errors.Base("content is not valid UTF-8")
)

// 💾 Persister backs files up and overwrites them
type Persister interface {
	// Backup copies path to its backup location and returns that location
	Backup(ctx context.Context, path string) (string, error)

	// Write replaces the content of path
	Write(ctx context.Context, path string, content []byte) error
}

// 📢 Reporter is told about every file once it reaches a terminal state
type Reporter interface {
	Processed(ctx context.Context, record FileRecord)
}

// 🔧 Options contains everything a run needs
type Options struct {
	// Root is the directory Files are relative to
	Root string

	// Files are root-relative, slash separated paths, processed in order
	Files []string

	// Table is the rule table applied to each file
	Table rules.Table

	// Persister performs backups and writes; unused in preview mode
	Persister Persister

	// Reporter is optional
	Reporter Reporter

	// Proceed is the user's confirmation that files may be modified
	Proceed bool

	// DryRun reports what would change without touching any file
	DryRun bool
}

// 🔍 Validate checks that the options describe a runnable migration
func (o Options) Validate() error {
	if o.Root == "" {
		return errors.Errorf("root is required")
	}
	if len(o.Table) == 0 {
		return errors.Errorf("rule table is empty")
	}
	if err := o.Table.Validate(); err != nil {
		return errors.Errorf("validating rule table: %w", err)
	}
	if !o.DryRun && o.Persister == nil {
		return errors.Errorf("persister is required")
	}
	return nil
}

// 🏃 Run processes every file sequentially and returns the summary.
//
// Per-file failures are recorded in the summary and never stop the run.
// Cancelling ctx stops the run between files; the partial summary is returned
// with the error.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	logger := zerolog.Ctx(ctx)

	if err := opts.Validate(); err != nil {
		return nil, errors.Errorf("validating options: %w", err)
	}

	if !opts.Proceed && !opts.DryRun {
		return nil, errors.WithStack(ErrNotConfirmed)
	}

	summary := &Summary{
		Root:   opts.Root,
		DryRun: opts.DryRun,
		Files:  make([]FileRecord, 0, len(opts.Files)),
	}

	logger.Debug().
		Str("root", opts.Root).
		Int("files", len(opts.Files)).
		Bool("dry_run", opts.DryRun).
		Msg("starting migration")

	for _, rel := range opts.Files {
		if err := ctx.Err(); err != nil {
			return summary, errors.Errorf("migration interrupted: %w", err)
		}

		record := processFile(ctx, opts, rel)
		summary.Files = append(summary.Files, record)

		if opts.Reporter != nil {
			opts.Reporter.Processed(ctx, record)
		}
	}

	logger.Debug().
		Int("total", summary.Total()).
		Int("updated", len(summary.Updated())).
		Int("failed", len(summary.Failed())).
		Msg("migration finished")

	return summary, nil
}

// 📄 processFile moves one file through read, rewrite, backup and write
func processFile(ctx context.Context, opts Options, rel string) FileRecord {
	path := filepath.Join(opts.Root, filepath.FromSlash(rel))
	record := FileRecord{
		Path:    path,
		RelPath: rel,
	}

	logger := zerolog.Ctx(ctx).With().Str("file", rel).Logger()

	data, err := os.ReadFile(path)
	if err != nil {
		record.Status = StatusReadError
		record.Err = errors.Errorf("reading file: %w", err)
		return record
	}

	if !utf8.Valid(data) {
		record.Status = StatusReadError
		record.Err = errors.Errorf("decoding file: %w", ErrInvalidEncoding)
		return record
	}

	result := opts.Table.Apply(string(data))
	if !result.Changed {
		record.Status = StatusUnchanged
		return record
	}

	record.Replacements = result.Replacements
	record.Rules = result.Matched
	logger.Debug().Strs("rules", result.Matched).Int("replacements", result.Replacements).Msg("rules matched")

	if opts.DryRun {
		record.Status = StatusPending
		record.Original = result.Original
		record.Rewritten = result.Text
		return record
	}

	backupPath, err := opts.Persister.Backup(ctx, path)
	if err != nil {
		record.Status = StatusBackupError
		record.Err = errors.Errorf("backing up file: %w", err)
		return record
	}
	record.BackupPath = backupPath

	if err := opts.Persister.Write(ctx, path, []byte(result.Text)); err != nil {
		record.Status = StatusWriteError
		record.Err = errors.Errorf("writing file: %w", err)
		return record
	}

	record.Status = StatusUpdated
	return record
}
