// Package journal records published page URLs in a local append-only
// log file, one tab-separated line per page.
package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// Entry is one recorded publication.
type Entry struct {
	Time  time.Time
	URL   string
	Title string
}

// Journal is an append-only TSV file of published pages.
type Journal struct {
	path string
}

// New creates a journal backed by the given file path.
func New(path string) *Journal {
	return &Journal{path: path}
}

// Path returns the backing file path.
func (j *Journal) Path() string {
	return j.path
}

// Record appends one line for a published page. Tabs and newlines in
// the title are flattened so the line stays parseable.
func (j *Journal) Record(url, title string) error {
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	line := fmt.Sprintf("%s\t%s\t%s\n", time.Now().Format(timeLayout), url, flatten(title))

	_, writeErr := f.WriteString(line)

	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}

	if writeErr != nil {
		return fmt.Errorf("failed to append log entry: %w", writeErr)
	}

	return nil
}

// Entries reads the journal back in recorded order. Lines that do not
// parse are skipped; a missing file is an empty journal.
func (j *Journal) Entries() ([]Entry, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	var entries []Entry

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}

		ts, err := time.Parse(timeLayout, parts[0])
		if err != nil {
			continue
		}

		entries = append(entries, Entry{Time: ts, URL: parts[1], Title: parts[2]})
	}

	return entries, nil
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\n", " ")

	return s
}
