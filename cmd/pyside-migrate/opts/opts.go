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

package opts

import (
	"github.com/walteh/pyside-migrate/pkg/config"
	"github.com/walteh/pyside-migrate/pkg/prompt"
	"github.com/walteh/pyside-migrate/pkg/report"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// ConfigFile is the settings file given with --config
	ConfigFile string

	// Debug enables debug logging
	Debug bool

	// Home is the user's home directory, empty when it cannot be determined
	Home string

	Config   *config.Config
	Console  *report.Console
	Prompter prompt.Prompter
}
