package log

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, level Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(level)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(LevelInfo)
	})
	return &buf
}

func TestInfoFormatsKeyValues(t *testing.T) {
	buf := capture(t, LevelInfo)

	Info("month loaded", "year", 2024, "title", "Missa de Domingo", "dangling")

	out := buf.String()
	assert.Contains(t, out, "[INFO] month loaded")
	assert.Contains(t, out, "year=2024")
	assert.Contains(t, out, `title="Missa de Domingo"`)
	assert.NotContains(t, out, "dangling")
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, LevelError)

	Debug("hidden")
	Info("hidden too")
	Error("shown", errors.New("boom"), "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[ERROR] shown err=boom k=v")
}

func TestDebugEnabled(t *testing.T) {
	buf := capture(t, LevelDebug)
	assert.Equal(t, LevelDebug, CurrentLevel())

	Debug("details", "n", 1)
	assert.Contains(t, buf.String(), "[DEBUG] details n=1")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelError, ParseLevel(" ERROR "))
	assert.Equal(t, LevelInfo, ParseLevel("info"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
}
