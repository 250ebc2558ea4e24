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

package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/pyside-migrate/pkg/migrate"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	statusWidth = 15 // Width for status text
	ruleWidth   = 50 // Width of section separators
)

// 🎯 Console prints the migration transcript and mirrors it to zerolog
type Console struct {
	zlog     zerolog.Logger
	console  io.Writer
	mu       sync.Mutex
	showDiff bool
}

var _ migrate.Reporter = (*Console)(nil)

// 🏭 New creates a console reporter writing to console
func New(console io.Writer, zlog zerolog.Logger) *Console {
	return &Console{
		zlog:    zlog,
		console: console,
	}
}

// SetShowDiffs enables line diffs for files a preview would change
func (c *Console) SetShowDiffs(show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showDiff = show
}

// 📝 Header prints the tool banner followed by msg
func (c *Console) Header(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("pyside-migrate")
	fmt.Fprintf(c.console, "\n%s %s\n%s\n", name, color.New(color.Faint).Sprint("• "+msg), strings.Repeat("=", ruleWidth))
	c.zlog.Debug().Msg(msg)
}

// 📝 Success logs a success message
func (c *Console) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	c.zlog.Debug().Msg(msg)
}

// 📝 Warning logs a warning message
func (c *Console) Warning(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	c.zlog.Debug().Msg(msg)
}

// 📝 Error logs an error message
func (c *Console) Error(msg string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		fmt.Fprintf(c.console, "❌ %s: %v\n", color.New(color.FgRed).Sprint(msg), err)
	} else {
		fmt.Fprintf(c.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	}
	c.zlog.Debug().Err(err).Msg(msg)
}

// 📝 Info logs an info message
func (c *Console) Info(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	c.zlog.Debug().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (c *Console) Infof(format string, args ...interface{}) {
	c.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (c *Console) Warningf(format string, args ...interface{}) {
	c.Warning(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (c *Console) Successf(format string, args ...interface{}) {
	c.Success(fmt.Sprintf(format, args...))
}

// 📝 formatRecord formats a processed file for display
func formatRecord(rec migrate.FileRecord) string {
	var symbol string
	var symbolColor color.Attribute
	switch rec.Status {
	case migrate.StatusUpdated:
		symbol, symbolColor = "⟳", color.FgBlue
	case migrate.StatusPending:
		symbol, symbolColor = "⟳", color.FgYellow
	case migrate.StatusUnchanged:
		symbol, symbolColor = "•", color.FgCyan
	default:
		symbol, symbolColor = "✗", color.FgRed
	}

	status := rec.Status.String()
	if rec.Replacements > 0 {
		status = fmt.Sprintf("%s (%d)", status, rec.Replacements)
	}

	return fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", fileIndent),
		color.New(symbolColor).Sprint(symbol),
		fmt.Sprintf("%-*s", nameWidth, rec.RelPath),
		fmt.Sprintf("%-*s", statusWidth, status))
}

// 📝 Processed prints one progress line for a file, its failure cause if any,
// and the pending diff when diffs are enabled
func (c *Console) Processed(ctx context.Context, rec migrate.FileRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.console, strings.TrimRight(formatRecord(rec), " "))

	if rec.Err != nil {
		fmt.Fprintf(c.console, "%s%s %v\n",
			strings.Repeat(" ", fileIndent+2),
			color.New(color.FgRed).Sprint("↳"),
			rec.Err)
	}

	if c.showDiff && rec.Status == migrate.StatusPending {
		for _, line := range diffLines(rec.Original, rec.Rewritten) {
			fmt.Fprintf(c.console, "%s%s\n", strings.Repeat(" ", fileIndent+2), line)
		}
	}

	event := c.zlog.Debug()
	if rec.Err != nil {
		event = c.zlog.Error().Err(rec.Err)
	}
	event.
		Str("file", rec.RelPath).
		Str("status", rec.Status.String()).
		Str("backup", rec.BackupPath).
		Int("replacements", rec.Replacements).
		Strs("rules", rec.Rules).
		Msg("file processed")
}

// 📊 Summary prints the closing block of a run
func (c *Console) Summary(ctx context.Context, s *migrate.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	title := "MIGRATION COMPLETE"
	if s.DryRun {
		title = "PREVIEW COMPLETE"
	}

	separator := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(c.console, "\n%s\n%s\n%s\n", separator, color.New(color.Bold).Sprint(title), separator)

	changed := s.Updated()
	if s.DryRun {
		changed = s.Pending()
	}
	backups := s.Backups()
	failed := s.Failed()

	fmt.Fprintf(c.console, "Files processed: %d\n", s.Total())
	if s.DryRun {
		fmt.Fprintf(c.console, "Files to update: %d\n", len(changed))
	} else {
		fmt.Fprintf(c.console, "Files updated: %d\n", len(changed))
		fmt.Fprintf(c.console, "Backup files created: %d\n", len(backups))
	}
	if len(failed) > 0 {
		fmt.Fprintf(c.console, "Files failed: %d\n", len(failed))
	}

	switch {
	case len(changed) == 0 && len(failed) == 0:
		fmt.Fprintf(c.console, "\n%s\n", color.New(color.FgGreen).Sprint("No files needed updating - all PySide references are already up to date!"))
	case len(changed) == 0:
		fmt.Fprintf(c.console, "\n%s\n", color.New(color.FgYellow).Sprint("No files were updated."))
	case s.DryRun:
		fmt.Fprintln(c.console, "\nFiles that would be updated:")
		for _, rec := range changed {
			fmt.Fprintf(c.console, "  - %s\n", rec.RelPath)
		}
	default:
		fmt.Fprintln(c.console, "\nUpdated files:")
		for _, rec := range changed {
			fmt.Fprintf(c.console, "  - %s\n", rec.RelPath)
		}
	}

	if len(backups) > 0 {
		fmt.Fprintln(c.console, "\nBackup files created (in case you need to revert):")
		for _, b := range backups {
			fmt.Fprintf(c.console, "  - %s\n", b)
		}
	}

	if len(failed) > 0 {
		fmt.Fprintln(c.console, "\nFailed files:")
		for _, rec := range failed {
			fmt.Fprintf(c.console, "  - %s: %v\n", rec.RelPath, rec.Err)
		}
	}

	if !s.DryRun && len(backups) > 0 {
		fmt.Fprintln(c.console, "\nNOTE: Test your Nuke installation after this migration.")
		fmt.Fprintln(c.console, "If you encounter issues, you can restore from the .bak files.")
	}

	c.zlog.Info().
		Str("root", s.Root).
		Bool("dry_run", s.DryRun).
		Int("total", s.Total()).
		Int("changed", len(changed)).
		Int("backups", len(backups)).
		Int("failed", len(failed)).
		Msg("run summary")
}
