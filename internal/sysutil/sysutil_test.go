package sysutil

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func keepGlobals(t *testing.T) {
	t.Helper()
	lvl, lg, tf := zerolog.GlobalLevel(), log.Logger, zerolog.TimeFieldFormat
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(lvl)
		log.Logger = lg
		zerolog.TimeFieldFormat = tf
	})
}

func TestSetLogLevel_AllVariants(t *testing.T) {
	keepGlobals(t)

	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"  DeBuG  ", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"unknown", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		got := SetLogLevel(tc.in)
		if got != tc.want || zerolog.GlobalLevel() != tc.want {
			t.Fatalf("SetLogLevel(%q) -> %v (global %v); want %v", tc.in, got, zerolog.GlobalLevel(), tc.want)
		}
	}
}

func TestConfigureLogging_JSON(t *testing.T) {
	keepGlobals(t)
	var buf bytes.Buffer

	ConfigureLogging("warn", false, &buf)
	log.Info().Msg("dropped")
	log.Warn().Str("code", "INVOICE_NOT_FOUND").Msg("request failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["code"] != "INVOICE_NOT_FOUND" || entry["level"] != "warn" || entry["time"] == nil {
		t.Fatalf("entry=%v", entry)
	}
}

func TestConfigureLogging_Pretty(t *testing.T) {
	keepGlobals(t)
	var buf bytes.Buffer

	ConfigureLogging("debug", true, &buf)
	log.Debug().Str("variant", "NotFound").Msg("request failed")

	out := buf.String()
	if strings.HasPrefix(out, "{") || !strings.Contains(out, "request failed") || !strings.Contains(out, "variant=NotFound") {
		t.Fatalf("console output=%q", out)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("FirstNonEmpty() = %q", got)
	}
	if got := FirstNonEmpty(" ", "\t", "\n"); got != "" {
		t.Fatalf("FirstNonEmpty(empties) = %q", got)
	}
	if got := FirstNonEmpty("   ", "  v1.2.0  ", "dev"); got != "  v1.2.0  " {
		t.Fatalf("FirstNonEmpty(...) = %q", got)
	}
}
