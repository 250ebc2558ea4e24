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

package rules

import (
	"regexp"
	"slices"

	"gitlab.com/tozd/go/errors"
)

// 🔄 Rule is a single pattern substitution applied to file content
type Rule struct {
	Name        string         // Stable identifier used in logs and reports
	Pattern     *regexp.Regexp // Pattern to search for
	Replacement string         // Literal replacement text
}

// 🏭 NewRule compiles pattern and returns a Rule. It panics on an invalid pattern,
// so it is only meant for tables built at init time.
func NewRule(name, pattern, replacement string) Rule {
	return Rule{
		Name:        name,
		Pattern:     regexp.MustCompile(pattern),
		Replacement: replacement,
	}
}

// 📚 Table is an ordered list of rules. Order matters: each rule sees the
// output of the rules before it.
type Table []Rule

// qtModules are the modules with dedicated import rules.
var qtModules = []string{"QtCore", "QtGui", "QtWidgets", "QtNetwork", "QtOpenGL", "QtSql", "QtSvg", "QtXml"}

// multiLineModules are the modules with whitespace-tolerant "from X import" rules.
var multiLineModules = []string{"QtCore", "QtGui", "QtWidgets"}

var defaultTable = buildDefaultTable()

func buildDefaultTable() Table {
	t := Table{
		// import statements
		NewRule("from", `from PySide2`, "from PySide6"),
		NewRule("import", `import PySide2`, "import PySide6"),

		// direct references
		NewRule("qualified", `PySide2\.`, "PySide6."),
		NewRule("bare", `PySide2\b`, "PySide6"),
	}

	for _, mod := range qtModules {
		t = append(t, NewRule("from-"+mod, `from PySide2\.`+mod, "from PySide6."+mod))
	}

	for _, mod := range multiLineModules {
		t = append(t, NewRule("from-"+mod+"-import", `from PySide2\.`+mod+`\s+import`, "from PySide6."+mod+" import"))
	}

	return t
}

// 🎯 DefaultTable returns the PySide2 to PySide6 rule table.
//
// The broad rules come first and subsume most of the module-specific ones.
// All of them are kept so the table behaves the same as the rule set it was
// ported from.
func DefaultTable() Table {
	return slices.Clone(defaultTable)
}

// 🔍 Validate checks that every rule has a name and a pattern and that names are unique
func (t Table) Validate() error {
	seen := make(map[string]int, len(t))
	for i, rule := range t {
		if rule.Name == "" {
			return errors.Errorf("rule %d: name is required", i)
		}
		if rule.Pattern == nil {
			return errors.Errorf("rule %d (%s): pattern is required", i, rule.Name)
		}
		if prev, ok := seen[rule.Name]; ok {
			return errors.Errorf("rule %d (%s): duplicate of rule %d", i, rule.Name, prev)
		}
		seen[rule.Name] = i
	}
	return nil
}

// Names returns the rule names in table order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for _, rule := range t {
		names = append(names, rule.Name)
	}
	return names
}
