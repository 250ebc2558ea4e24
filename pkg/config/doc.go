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

// Package config loads the optional settings file of pyside-migrate.
//
//	            +-------------+
//	            |   Config    |
//	            | (Settings)  |
//	            +------+------+
//	                   |
//	      +------------+------------+
//	      |            |            |
//	+-----+----+  +----+----+  +----+----+
//	|   YAML   |  |   HCL   |  |  JSON   |
//	|  Parser  |  |  Parser |  |  Parser |
//	+----------+  +---------+  +---------+
//
// 🎯 Purpose:
//   - Adds candidate root directories ahead of the built-in .nuke locations
//   - Selects which files are migrated (include globs, default **/*.py)
//   - Excludes files from the migration (ignore globs)
//
// The rule table itself is compiled in and cannot be changed here.
//
// 🔍 Example (.pyside-migrate.yaml):
//
//	roots:
//	  - ~/studio/.nuke
//	include:
//	  - "**/*.py"
//	ignore:
//	  - "venv/**"
//
// The same settings in HCL, where home is predefined:
//
//	roots   = ["${home}/studio/.nuke"]
//	include = ["**/*.py"]
//	ignore  = ["venv/**"]
package config
