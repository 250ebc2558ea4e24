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

package walk

import (
	"context"
	"io/fs"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultInclude matches every Python source file below the root.
const DefaultInclude = "**/*.py"

// 🔍 Filter selects which files a walk returns
type Filter struct {
	Include []string // Globs a file must match (any of)
	Ignore  []string // Globs that exclude a file (any of)
}

// DefaultFilter returns a filter for Python sources with no ignores.
func DefaultFilter() Filter {
	return Filter{Include: []string{DefaultInclude}}
}

// 🔍 Validate checks the syntax of every glob in the filter
func (f Filter) Validate() error {
	if len(f.Include) == 0 {
		return errors.Errorf("at least one include pattern is required")
	}
	for _, pattern := range f.Include {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid include pattern %q", pattern)
		}
	}
	for _, pattern := range f.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	return nil
}

// 🎯 Match reports whether a root-relative, slash-separated path passes the filter
func (f Filter) Match(path string) bool {
	if matchAny(f.Ignore, path) {
		return false
	}
	return matchAny(f.Include, path)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, path) {
			return true
		}
	}
	return false
}

// 🚶 Walk returns the root-relative, slash-separated paths of every regular
// file under root that passes the filter, in lexical order. Directories that
// cannot be read are skipped. No match is not an error.
func Walk(ctx context.Context, root string, filter Filter) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	if err := filter.Validate(); err != nil {
		return nil, errors.Errorf("validating filter: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Errorf("checking root: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("root is not a directory: %s", root)
	}

	files := []string{}
	err = fs.WalkDir(os.DirFS(root), ".", func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == "." {
				return err
			}
			logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		if !filter.Match(path) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", root, err)
	}

	logger.Debug().Str("root", root).Int("files", len(files)).Msg("walk complete")
	return files, nil
}
