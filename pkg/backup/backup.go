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

package backup

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// Suffix is appended to a file path to name its backup
	Suffix = ".bak"

	// tempPattern names the unique temporary sibling used by Write
	tempPattern = ".*.tmp"
)

// BackupPath returns the backup location for path.
func BackupPath(path string) string {
	return path + Suffix
}

// 💾 Manager copies files to their backup location and replaces them atomically
type Manager struct{}

// 🏭 New creates a new backup manager
func New() *Manager {
	return &Manager{}
}

// 📦 Backup copies path to BackupPath(path), replacing any previous backup.
// The copy keeps the permission bits and modification time of the original.
// The original is never modified.
func (m *Manager) Backup(ctx context.Context, path string) (string, error) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Errorf("checking file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", errors.Errorf("not a regular file: %s", path)
	}

	backupPath := BackupPath(path)
	if err := copyFile(path, backupPath, info.Mode().Perm()); err != nil {
		return "", errors.Errorf("creating backup: %w", err)
	}

	if err := os.Chtimes(backupPath, info.ModTime(), info.ModTime()); err != nil {
		logger.Warn().Err(err).Str("backup", backupPath).Msg("could not preserve modification time")
	}

	logger.Debug().Str("path", path).Str("backup", backupPath).Msg("backup created")
	return backupPath, nil
}

// ✍️ Write replaces the content of path atomically. The new content is written
// to a uniquely named temporary sibling first and renamed over the original, so
// a failure leaves the original as it was and no existing file is overwritten.
func (m *Manager) Write(ctx context.Context, path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+tempPattern)
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if err := writeAndClose(tmp, content, mode); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(content)).Msg("file written")
	return nil
}

func writeAndClose(f *os.File, content []byte, mode os.FileMode) error {
	// CreateTemp always uses 0600
	if err := f.Chmod(mode); err != nil {
		f.Close()
		return errors.Errorf("setting permissions: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func copyFile(src, dst string, mode os.FileMode) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		os.Remove(dst)
		return errors.Errorf("copying file: %w", err)
	}

	if err := destination.Chmod(mode); err != nil {
		destination.Close()
		return errors.Errorf("setting permissions: %w", err)
	}

	if err := destination.Close(); err != nil {
		os.Remove(dst)
		return errors.Errorf("closing destination file: %w", err)
	}

	return nil
}
