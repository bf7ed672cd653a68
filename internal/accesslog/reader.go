package accesslog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxReadLimit caps how many entries a single read may return.
const MaxReadLimit = 1000

// DefaultReadLimit is used when the caller does not ask for a count.
const DefaultReadLimit = 100

// ErrInvalidDate indicates the date parameter is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Read returns up to limit entries from the given date's file, newest
// first. The date is validated against a fixed pattern and the
// resolved file must stay inside the log directory; a missing file
// yields an empty slice.
func (w *Writer) Read(date string, limit int) ([]Entry, error) {
	if !datePattern.MatchString(date) {
		return nil, ErrInvalidDate
	}

	if limit < 1 {
		limit = DefaultReadLimit
	}
	if limit > MaxReadLimit {
		limit = MaxReadLimit
	}

	path := filepath.Join(w.dir, date+".log")
	resolved, err := filepath.Abs(path)
	if err != nil || !strings.HasPrefix(resolved, w.dir+string(filepath.Separator)) {
		return nil, ErrInvalidDate
	}

	f, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("open access log: %w", err)
	}
	defer f.Close()

	// Keep only the trailing limit entries while scanning.
	var tail []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue // skip corrupt lines
		}
		tail = append(tail, e)
		if len(tail) > limit {
			tail = tail[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read access log: %w", err)
	}

	// Newest first.
	for i, j := 0, len(tail)-1; i < j; i, j = i+1, j-1 {
		tail[i], tail[j] = tail[j], tail[i]
	}
	return tail, nil
}
