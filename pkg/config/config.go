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

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/walteh/pyside-migrate/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// DefaultFile is the settings file looked up in the working directory.
const DefaultFile = ".pyside-migrate.yaml"

// 📚 Config holds the optional settings of a run
type Config struct {
	// Roots are extra candidate root directories, tried before the defaults
	Roots []string `json:"roots,omitempty" yaml:"roots,omitempty" hcl:"roots,optional"`

	// Include are globs selecting files to migrate
	Include []string `json:"include,omitempty" yaml:"include,omitempty" hcl:"include,optional"`

	// Ignore are globs excluding files from the migration
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"`

	location string
}

// 🏭 Default returns the settings used when no file is present
func Default() *Config {
	return &Config{
		Include: []string{walk.DefaultInclude},
	}
}

// Location returns the file the settings were loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate checks the settings and fills in defaults
func (cfg *Config) Validate() error {
	if len(cfg.Include) == 0 {
		cfg.Include = []string{walk.DefaultInclude}
	}

	for i, root := range cfg.Roots {
		root = strings.TrimSpace(root)
		if root == "" {
			return errors.Errorf("roots[%d] is empty", i)
		}

		expanded, err := expandHome(root)
		if err != nil {
			return errors.Errorf("roots[%d]: %w", i, err)
		}
		cfg.Roots[i] = filepath.Clean(expanded)
	}

	if err := cfg.Filter().Validate(); err != nil {
		return errors.Errorf("validating patterns: %w", err)
	}

	return nil
}

// Filter returns the walk filter described by the settings
func (cfg *Config) Filter() walk.Filter {
	return walk.Filter{
		Include: cfg.Include,
		Ignore:  cfg.Ignore,
	}
}

// Candidates returns the configured roots followed by defaults
func (cfg *Config) Candidates(defaults []string) []string {
	out := make([]string, 0, len(cfg.Roots)+len(defaults))
	out = append(out, cfg.Roots...)
	return append(out, defaults...)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, path[1:]), nil
}
