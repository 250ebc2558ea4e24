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

package migrate_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/pyside-migrate/pkg/backup"
	"github.com/walteh/pyside-migrate/pkg/migrate"
	"github.com/walteh/pyside-migrate/pkg/rules"
	"github.com/walteh/pyside-migrate/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockPersister is a mock implementation of the migrate.Persister interface
type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) Backup(ctx context.Context, path string) (string, error) {
	result := m.Called(ctx, path)
	return result.String(0), result.Error(1)
}

func (m *MockPersister) Write(ctx context.Context, path string, content []byte) error {
	result := m.Called(ctx, path, content)
	return result.Error(0)
}

// 📝 recordingReporter keeps every processed record
type recordingReporter struct {
	records []migrate.FileRecord
}

func (r *recordingReporter) Processed(ctx context.Context, record migrate.FileRecord) {
	r.records = append(r.records, record)
}

// 🧪 createTestEnv creates a root with the given files and returns a context
func createTestEnv(t *testing.T, files map[string]string) (context.Context, string) {
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background()), root
}

func walkRoot(t *testing.T, ctx context.Context, root string) []string {
	files, err := walk.Walk(ctx, root, walk.DefaultFilter())
	require.NoError(t, err)
	return files
}

func readFile(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun(t *testing.T) {
	ctx, root := createTestEnv(t, map[string]string{
		"menu.py":              "from PySide2.QtCore import QWidget",
		"init.py":              "import os\nprint('hello')",
		"python/tools/grid.py": "import PySide2.QtGui\nPySide2.QtGui.QColor()\n",
	})

	reporter := &recordingReporter{}
	summary, err := migrate.Run(ctx, migrate.Options{
		Root:      root,
		Files:     walkRoot(t, ctx, root),
		Table:     rules.DefaultTable(),
		Persister: backup.New(),
		Reporter:  reporter,
		Proceed:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total(), "all files should be examined")
	assert.Len(t, summary.Updated(), 2, "two files should be updated")
	assert.Len(t, summary.Backups(), 2, "two backups should be created")
	assert.Empty(t, summary.Failed(), "nothing should fail")
	assert.Equal(t, summary.Files, reporter.records, "every record should be reported in order")

	// menu.py
	menu := filepath.Join(root, "menu.py")
	assert.Equal(t, "from PySide6.QtCore import QWidget", readFile(t, menu))
	assert.Equal(t, "from PySide2.QtCore import QWidget", readFile(t, menu+".bak"))

	// init.py
	initPy := filepath.Join(root, "init.py")
	assert.Equal(t, "import os\nprint('hello')", readFile(t, initPy))
	assert.NoFileExists(t, initPy+".bak", "unchanged files should not be backed up")

	// grid.py
	grid := filepath.Join(root, "python", "tools", "grid.py")
	assert.Equal(t, "import PySide6.QtGui\nPySide6.QtGui.QColor()\n", readFile(t, grid))

	byPath := map[string]migrate.FileRecord{}
	for _, r := range summary.Files {
		byPath[r.RelPath] = r
	}
	assert.Equal(t, migrate.StatusUpdated, byPath["menu.py"].Status)
	assert.Equal(t, menu+".bak", byPath["menu.py"].BackupPath)
	assert.Equal(t, []string{"from"}, byPath["menu.py"].Rules)
	assert.Equal(t, migrate.StatusUnchanged, byPath["init.py"].Status)
	assert.Empty(t, byPath["init.py"].BackupPath)
	assert.Equal(t, 2, byPath["python/tools/grid.py"].Replacements)
	assert.Empty(t, byPath["menu.py"].Original, "content should only be kept in preview mode")
}

func TestRunSecondPassIsNoop(t *testing.T) {
	ctx, root := createTestEnv(t, map[string]string{
		"menu.py": "from PySide2 import QtWidgets\nw = PySide2.QtWidgets.QLabel()\n",
	})

	opts := migrate.Options{
		Root:      root,
		Files:     walkRoot(t, ctx, root),
		Table:     rules.DefaultTable(),
		Persister: backup.New(),
		Proceed:   true,
	}

	first, err := migrate.Run(ctx, opts)
	require.NoError(t, err)
	require.Len(t, first.Updated(), 1)

	second, err := migrate.Run(ctx, opts)
	require.NoError(t, err)
	assert.Empty(t, second.Updated(), "already migrated files should not change")
	assert.Empty(t, second.Backups(), "no new backups should be made")
	assert.Equal(t, "from PySide2 import QtWidgets\nw = PySide2.QtWidgets.QLabel()\n",
		readFile(t, filepath.Join(root, "menu.py.bak")), "first backup should be kept")
}

func TestRunTouchesOnlyOriginalAndBackup(t *testing.T) {
	ctx, root := createTestEnv(t, map[string]string{
		"menu.py":     "import PySide2\n",
		"menu.py.tmp": "scratch notes\n",
	})

	summary, err := migrate.Run(ctx, migrate.Options{
		Root:      root,
		Files:     []string{"menu.py"},
		Table:     rules.DefaultTable(),
		Persister: backup.New(),
		Proceed:   true,
	})
	require.NoError(t, err)
	require.Len(t, summary.Files, 1)
	assert.Equal(t, migrate.StatusUpdated, summary.Files[0].Status)

	assert.Equal(t, "import PySide6\n", readFile(t, filepath.Join(root, "menu.py")))
	assert.Equal(t, "import PySide2\n", readFile(t, filepath.Join(root, "menu.py.bak")))
	assert.Equal(t, "scratch notes\n", readFile(t, filepath.Join(root, "menu.py.tmp")), "unrelated files should be untouched")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"menu.py", "menu.py.bak", "menu.py.tmp"}, names)
}

func TestRunEmptyRoot(t *testing.T) {
	ctx, root := createTestEnv(t, map[string]string{
		"readme.txt": "PySide2 notes",
	})

	summary, err := migrate.Run(ctx, migrate.Options{
		Root:      root,
		Files:     walkRoot(t, ctx, root),
		Table:     rules.DefaultTable(),
		Persister: backup.New(),
		Proceed:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Total())
	assert.Empty(t, summary.Updated())
	assert.Empty(t, summary.Backups())
	assert.Equal(t, "PySide2 notes", readFile(t, filepath.Join(root, "readme.txt")), "non matching files should be untouched")
}

func TestRunSkipsInvalidEncoding(t *testing.T) {
	ctx, root := createTestEnv(t, map[string]string{
		"a_good.py":   "from PySide2 import QtCore\n",
		"b_binary.py": "from PySide2 import QtCore\n\xff\xfe\x00",
		"c_plain.py":  "print('ok')\n",
	})

	summary, err := migrate.Run(ctx, migrate.Options{
		Root:      root,
		Files:     walkRoot(t, ctx, root),
		Table:     rules.DefaultTable(),
		Persister: backup.New(),
		Proceed:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total(), "all files should be counted as examined")
	require.Len(t, summary.Updated(), 1)
	assert.Equal(t, "a_good.py", summary.Updated()[0].RelPath)

	failed := summary.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "b_binary.py", failed[0].RelPath)
	assert.Equal(t, migrate.StatusReadError, failed[0].Status)
	assert.ErrorIs(t, failed[0].Err, migrate.ErrInvalidEncoding)

	assert.NoFileExists(t, filepath.Join(root, "b_binary.py.bak"))
	assert.Equal(t, "from PySide2 import QtCore\n\xff\xfe\x00", readFile(t, filepath.Join(root, "b_binary.py")))
}

func TestRunMissingFile(t *testing.T) {
	ctx, root := createTestEnv(t, map[string]string{
		"menu.py": "from PySide2 import QtCore\n",
	})

	summary, err := migrate.Run(ctx, migrate.Options{
		Root:      root,
		Files:     []string{"gone.py", "menu.py"},
		Table:     rules.DefaultTable(),
		Persister: backup.New(),
		Proceed:   true,
	})
	require.NoError(t, err)

	require.Len(t, summary.Failed(), 1)
	assert.Equal(t, migrate.StatusReadError, summary.Failed()[0].Status)
	assert.Contains(t, summary.Failed()[0].Err.Error(), "reading file")
	assert.Len(t, summary.Updated(), 1, "the run should continue after a read error")
}

func TestRunPersisterErrors(t *testing.T) {
	content := "from PySide2 import QtCore\n"
	rewritten := []byte("from PySide6 import QtCore\n")

	tests := []struct {
		name        string
		setupMocks  func(p *MockPersister, path string)
		wantStatus  migrate.FileStatus
		wantBackup  bool
		errContains string
	}{
		{
			name: "backup_fails",
			setupMocks: func(p *MockPersister, path string) {
				p.On("Backup", mock.Anything, path).Return("", errors.New("disk full")).Once()
			},
			wantStatus:  migrate.StatusBackupError,
			errContains: "backing up file: disk full",
		},
		{
			name: "write_fails",
			setupMocks: func(p *MockPersister, path string) {
				p.On("Backup", mock.Anything, path).Return(path+".bak", nil).Once()
				p.On("Write", mock.Anything, path, rewritten).Return(errors.New("read-only")).Once()
			},
			wantStatus:  migrate.StatusWriteError,
			wantBackup:  true,
			errContains: "writing file: read-only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, root := createTestEnv(t, map[string]string{
				"menu.py":  content,
				"other.py": content,
			})
			menu := filepath.Join(root, "menu.py")
			other := filepath.Join(root, "other.py")

			persister := &MockPersister{}
			tt.setupMocks(persister, menu)
			persister.On("Backup", mock.Anything, other).Return(other+".bak", nil).Once()
			persister.On("Write", mock.Anything, other, rewritten).Return(nil).Once()

			summary, err := migrate.Run(ctx, migrate.Options{
				Root:      root,
				Files:     []string{"menu.py", "other.py"},
				Table:     rules.DefaultTable(),
				Persister: persister,
				Proceed:   true,
			})
			require.NoError(t, err, "per-file errors should not fail the run")
			persister.AssertExpectations(t)

			rec := summary.Files[0]
			assert.Equal(t, tt.wantStatus, rec.Status)
			assert.True(t, rec.Status.Failed())
			assert.Contains(t, rec.Err.Error(), tt.errContains)
			assert.Equal(t, tt.wantBackup, rec.BackupPath != "")

			assert.Equal(t, migrate.StatusUpdated, summary.Files[1].Status, "later files should still be processed")
			assert.Len(t, summary.Updated(), 1)
		})
	}
}

func TestRunBackupFailureLeavesOriginal(t *testing.T) {
	ctx, root := createTestEnv(t, map[string]string{
		"menu.py": "from PySide2 import QtCore\n",
	})
	require.NoError(t, os.Mkdir(filepath.Join(root, "menu.py.bak"), 0o755))

	summary, err := migrate.Run(ctx, migrate.Options{
		Root:      root,
		Files:     []string{"menu.py"},
		Table:     rules.DefaultTable(),
		Persister: backup.New(),
		Proceed:   true,
	})
	require.NoError(t, err)

	require.Len(t, summary.Failed(), 1)
	assert.Equal(t, migrate.StatusBackupError, summary.Failed()[0].Status)
	assert.Equal(t, "from PySide2 import QtCore\n", readFile(t, filepath.Join(root, "menu.py")), "original should not be modified")
}

func TestRunDryRun(t *testing.T) {
	ctx, root := createTestEnv(t, map[string]string{
		"menu.py": "from PySide2.QtCore import QWidget",
		"init.py": "print('hello')",
	})

	summary, err := migrate.Run(ctx, migrate.Options{
		Root:   root,
		Files:  walkRoot(t, ctx, root),
		Table:  rules.DefaultTable(),
		DryRun: true,
	})
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	assert.Empty(t, summary.Updated())
	assert.Empty(t, summary.Backups())

	pending := summary.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "menu.py", pending[0].RelPath)
	assert.Equal(t, "from PySide2.QtCore import QWidget", pending[0].Original)
	assert.Equal(t, "from PySide6.QtCore import QWidget", pending[0].Rewritten)

	assert.Equal(t, "from PySide2.QtCore import QWidget", readFile(t, filepath.Join(root, "menu.py")))
	assert.NoFileExists(t, filepath.Join(root, "menu.py.bak"))
}

func TestRunRequiresConfirmation(t *testing.T) {
	ctx, root := createTestEnv(t, map[string]string{
		"menu.py": "from PySide2 import QtCore\n",
	})

	summary, err := migrate.Run(ctx, migrate.Options{
		Root:      root,
		Files:     []string{"menu.py"},
		Table:     rules.DefaultTable(),
		Persister: backup.New(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, migrate.ErrNotConfirmed)
	assert.Nil(t, summary)
	assert.Equal(t, "from PySide2 import QtCore\n", readFile(t, filepath.Join(root, "menu.py")))
}

func TestRunCancelled(t *testing.T) {
	ctx, root := createTestEnv(t, map[string]string{
		"menu.py": "from PySide2 import QtCore\n",
	})
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	summary, err := migrate.Run(ctx, migrate.Options{
		Root:      root,
		Files:     []string{"menu.py"},
		Table:     rules.DefaultTable(),
		Persister: backup.New(),
		Proceed:   true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary, "partial summary should be returned")
	assert.Equal(t, 0, summary.Total())
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name      string
		opts      migrate.Options
		wantError string
	}{
		{
			name:      "missing_root",
			opts:      migrate.Options{Table: rules.DefaultTable(), Persister: backup.New()},
			wantError: "root is required",
		},
		{
			name:      "empty_table",
			opts:      migrate.Options{Root: "/tmp", Persister: backup.New()},
			wantError: "rule table is empty",
		},
		{
			name:      "missing_persister",
			opts:      migrate.Options{Root: "/tmp", Table: rules.DefaultTable()},
			wantError: "persister is required",
		},
		{
			name: "dry_run_without_persister",
			opts: migrate.Options{Root: "/tmp", Table: rules.DefaultTable(), DryRun: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestFileStatusString(t *testing.T) {
	assert.Equal(t, "updated", migrate.StatusUpdated.String())
	assert.Equal(t, "read error", migrate.StatusReadError.String())
	assert.Equal(t, "unknown", migrate.FileStatus(99).String())
	assert.False(t, migrate.StatusPending.Failed())
	assert.True(t, migrate.StatusWriteError.Failed())
}
