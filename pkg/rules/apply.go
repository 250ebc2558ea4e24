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

// 📊 Result contains the outcome of applying a table to some content
type Result struct {
	// Original is the content before any rule ran
	Original string

	// Text is the content after every rule ran
	Text string

	// Changed is true if at least one rule matched
	Changed bool

	// Replacements is the total number of matches replaced across all rules
	Replacements int

	// Matched lists the names of the rules that matched, in table order
	Matched []string
}

// 🔄 Apply runs every rule of the table over content, in order.
//
// A rule matches when its pattern is found in the text as left by the
// previous rules. Every rule is attempted regardless of earlier matches.
func (t Table) Apply(content string) Result {
	result := Result{
		Original: content,
		Text:     content,
	}

	for _, rule := range t {
		if rule.Pattern == nil {
			continue
		}

		matches := rule.Pattern.FindAllStringIndex(result.Text, -1)
		if len(matches) == 0 {
			continue
		}

		result.Text = rule.Pattern.ReplaceAllLiteralString(result.Text, rule.Replacement)
		result.Changed = true
		result.Replacements += len(matches)
		result.Matched = append(result.Matched, rule.Name)
	}

	return result
}
