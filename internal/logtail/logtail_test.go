package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "backdrop.log")

	var content strings.Builder
	var expectedAll []Entry
	for i := 1; i <= 10; i++ {
		msg := fmt.Sprintf("update %d", i)
		content.WriteString("2026-03-01 12:00:0" + fmt.Sprint(i%10) + "\tINFO\t" + msg + "\n")
		expectedAll = append(expectedAll, Entry{Time: "2026-03-01 12:00:0" + fmt.Sprint(i%10), Level: "INFO", Message: msg})
	}
	content.WriteString("\n")

	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []Entry
	}{
		{"zero", 0, nil},
		{"negative", -1, nil},
		{"partial", 5, expectedAll[5:]},
		{"exactly all", 10, expectedAll},
		{"more than exists", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read returned error: %v", err)
			}
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("Read = %v, want nil", got)
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Entry
	}{
		{
			name: "with fields",
			line: "2026-03-01 12:00:00\tWARN\tcooling down\t{\"left\": 3}",
			want: Entry{Time: "2026-03-01 12:00:00", Level: "WARN", Message: "cooling down", Fields: "{\"left\": 3}"},
		},
		{
			name: "colored level",
			line: "2026-03-01 12:00:00\t\x1b[31mERROR\x1b[0m\tfetch failed",
			want: Entry{Time: "2026-03-01 12:00:00", Level: "ERROR", Message: "fetch failed"},
		},
		{
			name: "free text",
			line: "panic: something",
			want: Entry{Message: "panic: something"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLine(tt.line); got != tt.want {
				t.Fatalf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}
