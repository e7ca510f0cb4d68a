package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	if LevelDebug.String() != "debug" || LevelError.String() != "error" {
		t.Error("unexpected level strings")
	}
	if Level(99).String() != "unknown" {
		t.Error("expected unknown for out-of-range level")
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("json") != FormatJSON {
		t.Error("expected FormatJSON")
	}
	if ParseFormat("text") != FormatText || ParseFormat("") != FormatText {
		t.Error("expected FormatText")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, LevelWarn, FormatText)

	log.Debug("dropped")
	log.Info("dropped too")
	log.Warn("kept")
	log.Error("also kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("low-level messages leaked: %q", out)
	}
	if !strings.Contains(out, "kept") || !strings.Contains(out, "also kept") {
		t.Errorf("expected warn and error output, got %q", out)
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, LevelInfo, FormatText)

	log.Info("page split", "tree", "idx", "depth", 2)

	out := buf.String()
	if !strings.Contains(out, "[info] page split") {
		t.Errorf("unexpected output: %q", out)
	}
	// Extra fields come after the message in sorted key order.
	if !strings.Contains(out, "depth=2 tree=idx") {
		t.Errorf("expected sorted fields, got %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, LevelInfo, FormatJSON)

	log.Info("revision committed", "ops", 3)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["level"] != "info" {
		t.Errorf("unexpected level: %v", entry["level"])
	}
	if entry["msg"] != "revision committed" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["ops"] != float64(3) {
		t.Errorf("unexpected ops field: %v", entry["ops"])
	}
	if entry["ts"] == nil {
		t.Error("missing ts field")
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, LevelInfo, FormatJSON)

	child := log.WithFields("tree", "idx")
	child.Info("flush")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["tree"] != "idx" {
		t.Errorf("expected carried field, got %v", entry)
	}

	// The parent logger is untouched.
	buf.Reset()
	log.Info("plain")
	entry = map[string]interface{}{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, ok := entry["tree"]; ok {
		t.Error("parent logger inherited the child's field")
	}
}

func TestOddKeyValuePairs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, LevelInfo, FormatText)

	// A dangling key is ignored rather than panicking.
	log.Info("msg", "orphan")

	if !strings.Contains(buf.String(), "msg") {
		t.Errorf("expected message, got %q", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNop()
	log.Debug("a")
	log.Info("b", "k", "v")
	log.Warn("c")
	log.Error("d")
	if log.WithFields("k", "v") == nil {
		t.Error("WithFields returned nil")
	}
}
