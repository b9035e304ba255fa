package budget

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Record is the on-disk mirror of the budget: calls spent in the current
// window and when that window started.
type Record struct {
	Count     int    `toml:"count"`
	Timestamp string `toml:"timestamp"`
}

const defaultRecordPath = "~/.local/state/backdrop/requests.toml"

// naiveISO accepts timestamps written without a zone offset.
const naiveISO = "2006-01-02T15:04:05.999999999"

// DefaultRecordPath returns the unexpanded default record location.
func DefaultRecordPath() string {
	return defaultRecordPath
}

// emptyRecord is what a missing or unreadable record is treated as: nothing
// spent, and a window that has already elapsed.
func emptyRecord(now time.Time) Record {
	return Record{Count: 0, Timestamp: now.Add(-time.Hour).Format(time.RFC3339Nano)}
}

// LoadRecord reads the record at path. Any failure degrades to the empty
// record; the file is overwritten on the next save.
func LoadRecord(path string, now time.Time) Record {
	resolved, err := resolvePath(path)
	if err != nil {
		return emptyRecord(now)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return emptyRecord(now)
	}

	var rec Record
	if err := toml.Unmarshal(data, &rec); err != nil {
		return emptyRecord(now)
	}
	if _, ok := parseTimestamp(rec.Timestamp); !ok {
		return emptyRecord(now)
	}
	if rec.Count < 0 {
		rec.Count = 0
	}
	return rec
}

// SaveRecord writes rec to path, creating parent directories.
func SaveRecord(path string, rec Record) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create record dir: %w", err)
	}

	data, err := toml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}

// Time returns the parsed window start.
func (r Record) Time() (time.Time, bool) {
	return parseTimestamp(r.Timestamp)
}

func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, true
	}
	if ts, err := time.ParseInLocation(naiveISO, value, time.Local); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultRecordPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
