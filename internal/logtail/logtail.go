// Package logtail reads the tail of backdrop's log file for the dashboard.
package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Entry is one parsed console log line.
type Entry struct {
	Time    string
	Level   string
	Message string
	Fields  string
}

// Read returns the last maxLines entries of path in file order. A missing
// file yields no entries.
func Read(path string, maxLines int) ([]Entry, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, next := 0, 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		ring[next] = line
		next = (next + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	start := 0
	if count == maxLines {
		start = next
	}
	entries := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, ParseLine(ring[(start+i)%maxLines]))
	}
	return entries, nil
}

// ParseLine splits a zap console line (time, level, message, fields separated
// by tabs). Lines in any other shape become a message-only entry.
func ParseLine(line string) Entry {
	parts := strings.SplitN(line, "\t", 4)
	if len(parts) < 3 {
		return Entry{Message: line}
	}
	e := Entry{
		Time:    parts[0],
		Level:   stripANSI(parts[1]),
		Message: parts[2],
	}
	if len(parts) == 4 {
		e.Fields = parts[3]
	}
	return e
}

// stripANSI removes color escapes the level encoder may have written.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
