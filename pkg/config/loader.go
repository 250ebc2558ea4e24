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
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for settings parsers
type Parser interface {
	// 📝 Parse parses the settings from bytes
	Parse(ctx context.Context, data []byte, filename string) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

// 🎯 parserFor returns a parser that can handle the given file
func parserFor(filename string) Parser {
	for _, p := range []Parser{&YAMLParser{}, &HCLParser{}, &JSONParser{}} {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// Load loads settings from the given path.
// The format is determined by the file extension:
// - .yaml or .yml for YAML
// - .hcl for HCL
// - .json for JSON
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading settings")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading settings file: %w", err)
	}

	p := parserFor(path)
	if p == nil {
		return nil, errors.Errorf("unsupported file extension %q", strings.ToLower(filepath.Ext(path)))
	}

	cfg, err := p.Parse(ctx, data, path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating settings: %w", err)
	}
	cfg.location = path

	return cfg, nil
}

// LoadOrDefault loads path if it exists and returns Default otherwise.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no settings file, using defaults")
		return Default(), nil
	}
	return Load(ctx, path)
}
