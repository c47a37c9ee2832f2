package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zerolog.Level{
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"err":     zerolog.ErrorLevel,
		"trace":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	} {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q)=%v want %v", in, got, want)
		}
	}
}

func TestGetenv_Fallback(t *testing.T) {
	t.Setenv("RETVOL_LOGGER_TEST", "set")
	if v := getenv("RETVOL_LOGGER_TEST", "def"); v != "set" {
		t.Fatalf("getenv=%q", v)
	}
	t.Setenv("RETVOL_LOGGER_TEST", "")
	if v := getenv("RETVOL_LOGGER_TEST", "def"); v != "def" {
		t.Fatalf("empty value should fall back, got %q", v)
	}
}

func TestInit_Level(t *testing.T) {
	cases := []struct {
		level, pretty string
		want          zerolog.Level
	}{
		{"", "false", zerolog.InfoLevel},
		{"debug", "true", zerolog.DebugLevel},
		{"error", "false", zerolog.ErrorLevel},
	}
	for _, c := range cases {
		t.Setenv("LOG_LEVEL", c.level)
		t.Setenv("LOG_PRETTY", c.pretty)
		Init()
		if got := L().GetLevel(); got != c.want {
			t.Fatalf("LOG_LEVEL=%q: level=%v want %v", c.level, got, c.want)
		}
	}
}

func TestL_LazyInit(t *testing.T) {
	base = zerolog.Logger{}
	if lg := L(); lg == nil || lg.GetLevel() == zerolog.NoLevel {
		t.Fatal("L() should initialize the logger on first use")
	}
}

func TestInit_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retvol.log")
	t.Setenv("LOG_FILE", path)
	t.Setenv("LOG_PRETTY", "false")
	Init()
	t.Cleanup(func() {
		_ = os.Unsetenv("LOG_FILE")
		Init()
	})

	L().Info().Str("probe", "file-sink").Msg("hello")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), `"probe":"file-sink"`) {
		t.Fatalf("log line not written to file: %q", string(b))
	}
}
