package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mcncl/jsonconv/internal/config"
)

type constantClock time.Time

func (c constantClock) Now() time.Time { return time.Time(c) }
func (constantClock) NewTicker(_ time.Duration) *time.Ticker {
	return &time.Ticker{}
}

var (
	date             = time.Date(2077, 1, 23, 10, 15, 13, 0o00, time.UTC)
	constantClockOpt = zap.WithClock(constantClock(date))
)

func TestNew_ConsoleLevels(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(config.LogConfig{Level: "debug", Format: "console"}, &buf, constantClockOpt)
	require.NoError(t, err)

	log.Debug("hello ", "world")
	log.Info("hello ", "world")
	log.Warnf("hello %s", "world")

	scanner := bufio.NewScanner(&buf)
	require.True(t, scanner.Scan(), "it should print a log statement")
	require.Equal(t, "2077-01-23T10:15:13.000Z\tDEBUG\thello world", scanner.Text())
	require.True(t, scanner.Scan(), "it should print a log statement")
	require.Equal(t, "2077-01-23T10:15:13.000Z\tINFO\thello world", scanner.Text())
	require.True(t, scanner.Scan(), "it should print a log statement")
	require.Equal(t, "2077-01-23T10:15:13.000Z\tWARN\thello world", scanner.Text())
	require.False(t, scanner.Scan())
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(config.LogConfig{Level: "warn", Format: "console"}, &buf, constantClockOpt)
	require.NoError(t, err)

	log.Debug("dropped")
	log.Info("dropped")
	log.Error("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "ERROR\tkept")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(config.LogConfig{Level: "info", Format: "json"}, &buf, constantClockOpt)
	require.NoError(t, err)

	log.Infow("encoded", "bytes", 12)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "encoded", entry["msg"])
	assert.Equal(t, "2077-01-23T10:15:13.000Z", entry["ts"])
	assert.Equal(t, float64(12), entry["bytes"])
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud", Format: "console"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New(config.LogConfig{Level: "info", Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))

	log := Nop()
	assert.Same(t, log, OrNop(log))
	assert.NotPanics(t, func() { OrNop(nil).Debugw("nothing", "k", "v") })
}
