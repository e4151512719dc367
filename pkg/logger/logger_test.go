package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"unknown", zerolog.InfoLevel},
	}
	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseLevel(tc.level))
		})
	}
}

func TestNew_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Out: &buf})
	l.Info().Str("asset", "SPX").Msg("priced")

	assert.Contains(t, buf.String(), `"message":"priced"`)
	assert.Contains(t, buf.String(), `"asset":"SPX"`)
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Out: &buf})
	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_PrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Pretty: true, Out: &buf})
	l.Debug().Msg("pretty message")

	assert.Contains(t, buf.String(), "pretty message")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestAdapter(t *testing.T) {
	var buf bytes.Buffer
	p := NewAdapter(New(Config{Level: "debug", Out: &buf}))

	p.Debugf("paths=%d", 10)
	p.Infof("seed=%d", 7)
	p.Warnf("feller %s", "violated")
	p.Errorf("failed: %v", "boom")

	out := buf.String()
	for _, want := range []string{"paths=10", "seed=7", "feller violated", "failed: boom", `"level":"warn"`} {
		assert.Contains(t, out, want)
	}
}
