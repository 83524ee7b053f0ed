package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: "json", Output: &buf})
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	Log.WithField("kind", "move").Debug("frame")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "frame", line["msg"])
	assert.Equal(t, "move", line["kind"])
}

func TestInitUnknownLevel(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	var buf bytes.Buffer
	Init(Options{Level: "loud", Output: &buf})
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
	assert.Contains(t, buf.String(), "unknown log level")
}

func TestSamplerSuppressesAndReports(t *testing.T) {
	l, hook := test.NewNullLogger()
	entry := logrus.NewEntry(l)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSampler(2)
	s.now = func() time.Time { return now }

	assert.True(t, s.Warn(entry, "dropped"))
	assert.True(t, s.Warn(entry, "dropped"))
	assert.False(t, s.Warn(entry, "dropped"))
	assert.False(t, s.Warn(entry, "dropped"))
	assert.Equal(t, uint64(2), s.Suppressed())
	assert.Len(t, hook.AllEntries(), 2)

	now = now.Add(time.Second)
	assert.True(t, s.Warn(entry, "dropped"))
	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, uint64(2), last.Data["suppressed"])
	assert.Equal(t, uint64(0), s.Suppressed())
}

func TestSamplerUnlimited(t *testing.T) {
	l, hook := test.NewNullLogger()
	s := NewSampler(0)
	for i := 0; i < 50; i++ {
		assert.True(t, s.Warn(logrus.NewEntry(l), "x"))
	}
	assert.Len(t, hook.AllEntries(), 50)
}
