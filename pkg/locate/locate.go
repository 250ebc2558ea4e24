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

package locate

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrRootNotFound is returned when no usable root directory could be determined.
var ErrRootNotFound = errors.Base("root directory not found")

// 🔌 Asker supplies a path when no candidate exists
type Asker interface {
	Input(ctx context.Context, message string) (string, error)
}

// 📂 DefaultCandidates returns the well-known .nuke locations below home, in
// the order they are tried.
func DefaultCandidates(home string) []string {
	return []string{
		filepath.Join(home, ".nuke"),
		filepath.Join(home, "Documents", ".nuke"),
		filepath.Join(home, "AppData", "Roaming", ".nuke"), // windows
	}
}

// 🔍 Find returns the first candidate that is an existing directory
func Find(candidates []string) (string, bool) {
	for _, candidate := range candidates {
		if isDir(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// 🎯 Locate resolves the root directory. Candidates are tried in order; if
// none exists the asker is prompted for a path, which must exist.
func Locate(ctx context.Context, candidates []string, asker Asker) (string, error) {
	logger := zerolog.Ctx(ctx)

	if root, ok := Find(candidates); ok {
		logger.Debug().Str("root", root).Msg("found root directory")
		return root, nil
	}

	logger.Debug().Strs("candidates", candidates).Msg("no candidate root directory exists")

	if asker == nil {
		return "", errors.Errorf("no candidate exists: %w", ErrRootNotFound)
	}

	answer, err := asker.Input(ctx, "Could not find .nuke folder automatically. Please enter the path to your .nuke folder")
	if err != nil {
		return "", errors.Errorf("asking for root directory: %w", err)
	}

	root := strings.TrimSpace(answer)
	if root == "" {
		return "", errors.Errorf("no path entered: %w", ErrRootNotFound)
	}

	root, err = expandHome(root)
	if err != nil {
		return "", errors.Errorf("expanding %s: %w", answer, err)
	}

	if !isDir(root) {
		return "", errors.Errorf("%s does not exist: %w", root, ErrRootNotFound)
	}

	logger.Debug().Str("root", root).Msg("using entered root directory")
	return root, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, path[1:]), nil
}
