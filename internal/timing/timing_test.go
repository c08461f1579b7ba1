package timing

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogCheckpoints(t *testing.T) {
	var buf bytes.Buffer
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	clock := base

	prevNow, prevOut, prevEnabled := now, output, enabled
	t.Cleanup(func() { now, output, enabled = prevNow, prevOut, prevEnabled })
	now = func() time.Time { return clock }
	output = func() io.Writer { return &buf }

	Enable()
	clock = base.Add(40 * time.Millisecond)
	Log("config")
	clock = base.Add(100 * time.Millisecond)
	Log("store")

	assert.Equal(t,
		"[TIMING] config: +40ms (total: 40ms)\n[TIMING] store: +60ms (total: 100ms)\n",
		buf.String())
}

func TestLogDisabled(t *testing.T) {
	var buf bytes.Buffer
	prevOut, prevEnabled := output, enabled
	t.Cleanup(func() { output, enabled = prevOut, prevEnabled })
	output = func() io.Writer { return &buf }
	enabled = false

	Log("ignored")
	assert.Empty(t, buf.String())
}
