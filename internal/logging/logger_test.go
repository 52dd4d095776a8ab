package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	defer Init(DefaultConfig())

	Info().Msg("hidden")
	Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected info message to be filtered, got %q", out)
	}
	if !strings.Contains(out, `"message":"shown"`) {
		t.Errorf("Expected JSON warn message, got %q", out)
	}
}

func TestInitInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "loud", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("debug")
	Info().Msg("info")

	out := buf.String()
	if strings.Contains(out, `"message":"debug"`) {
		t.Error("Expected debug to be filtered at info level")
	}
	if !strings.Contains(out, `"message":"info"`) {
		t.Errorf("Expected info message, got %q", out)
	}
}

func TestWithTable(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	defer Init(DefaultConfig())

	l := WithTable("menu")
	l.Info().Msg("cleaned")

	if !strings.Contains(buf.String(), `"table":"menu"`) {
		t.Errorf("Expected table field, got %q", buf.String())
	}
}
