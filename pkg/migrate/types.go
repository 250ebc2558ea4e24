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

package migrate

// 📊 FileStatus is the terminal state of a file after a run
type FileStatus int

const (
	StatusUnknown     FileStatus = iota
	StatusUnchanged              // No rule matched
	StatusUpdated                // Backed up and rewritten
	StatusPending                // Would be rewritten (preview only)
	StatusReadError              // Could not be read or decoded
	StatusBackupError            // Backup failed, original untouched
	StatusWriteError             // Backup exists, rewrite failed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusUpdated:
		return "updated"
	case StatusPending:
		return "pending"
	case StatusReadError:
		return "read error"
	case StatusBackupError:
		return "backup error"
	case StatusWriteError:
		return "write error"
	default:
		return "unknown"
	}
}

// Failed reports whether the status is one of the error states
func (s FileStatus) Failed() bool {
	return s == StatusReadError || s == StatusBackupError || s == StatusWriteError
}

// 📄 FileRecord is the outcome of processing one file
type FileRecord struct {
	Path         string     // Absolute path
	RelPath      string     // Path relative to the root, slash separated
	Status       FileStatus // Terminal state
	BackupPath   string     // Set once a backup exists
	Replacements int        // Number of replacements made
	Rules        []string   // Names of the rules that matched
	Err          error      // Cause for failed states

	// Original and Rewritten are only kept in preview mode
	Original  string
	Rewritten string
}

// 📚 Summary collects the records of a run
type Summary struct {
	Root   string
	DryRun bool
	Files  []FileRecord
}

// Total is the number of files examined
func (s *Summary) Total() int {
	return len(s.Files)
}

// Updated returns the files that were rewritten
func (s *Summary) Updated() []FileRecord {
	return s.filter(func(r FileRecord) bool { return r.Status == StatusUpdated })
}

// Pending returns the files a preview found would be rewritten
func (s *Summary) Pending() []FileRecord {
	return s.filter(func(r FileRecord) bool { return r.Status == StatusPending })
}

// Failed returns the files that ended in an error state
func (s *Summary) Failed() []FileRecord {
	return s.filter(func(r FileRecord) bool { return r.Status.Failed() })
}

// Backups returns every backup path created, including those of files whose
// rewrite failed afterwards
func (s *Summary) Backups() []string {
	var backups []string
	for _, r := range s.Files {
		if r.BackupPath != "" {
			backups = append(backups, r.BackupPath)
		}
	}
	return backups
}

func (s *Summary) filter(keep func(FileRecord) bool) []FileRecord {
	var out []FileRecord
	for _, r := range s.Files {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
