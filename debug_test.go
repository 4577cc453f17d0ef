package serenade

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() { SetLogOutput(os.Stderr) })
	return &buf
}

func withDebug(t *testing.T, on bool) {
	t.Helper()
	prev := DebugMode()
	SetDebugMode(on)
	t.Cleanup(func() { SetDebugMode(prev) })
}

// --- log output ---

func TestLogfPrefix(t *testing.T) {
	buf := captureLog(t)
	logf("hello %d", 7)
	if got := buf.String(); got != "[serenade] hello 7\n" {
		t.Errorf("output = %q", got)
	}
}

func TestWarnf(t *testing.T) {
	buf := captureLog(t)
	warnf("disk %s", "full")
	if !strings.Contains(buf.String(), "warning: disk full") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWarnOnce(t *testing.T) {
	buf := captureLog(t)
	key := "test-warn-once-" + t.Name()
	warnOnce(key, "first")
	warnOnce(key, "second")
	out := buf.String()
	if !strings.Contains(out, "first") || strings.Contains(out, "second") {
		t.Errorf("output = %q, want only the first warning", out)
	}
}

func TestSetLogOutputNil(t *testing.T) {
	SetLogOutput(nil)
	t.Cleanup(func() { SetLogOutput(os.Stderr) })
	logf("discarded")
}

// --- debug mode ---

func TestDebugfGated(t *testing.T) {
	buf := captureLog(t)
	withDebug(t, false)
	debugf("hidden")
	if buf.Len() != 0 {
		t.Errorf("debugf wrote %q with debug off", buf.String())
	}
	SetDebugMode(true)
	debugf("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debugf output = %q", buf.String())
	}
}

func TestFrameStatsDebugLog(t *testing.T) {
	buf := captureLog(t)
	withDebug(t, true)
	st := frameStats{
		updateTime: time.Millisecond,
		batchCount: 3,
		pointCount: 1200,
		drawCalls:  2,
	}
	st.debugLog(42)
	out := buf.String()
	for _, want := range []string{"frame 42", "batches: 3", "points: 1200", "draw calls: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestFrameStatsSilentByDefault(t *testing.T) {
	buf := captureLog(t)
	withDebug(t, false)
	frameStats{}.debugLog(1)
	if buf.Len() != 0 {
		t.Errorf("output = %q, want none", buf.String())
	}
}

func TestDebugCheckPointCount(t *testing.T) {
	buf := captureLog(t)
	withDebug(t, true)
	debugCheckPointCount(debugMaxPoints)
	if buf.Len() != 0 {
		t.Errorf("warned at the threshold: %q", buf.String())
	}
	debugCheckPointCount(debugMaxPoints + 1)
	if !strings.Contains(buf.String(), "points") {
		t.Errorf("no warning above the threshold: %q", buf.String())
	}
}

func TestLoopDebugStats(t *testing.T) {
	l, g, _ := newTestLoop(t, 0)
	buf := captureLog(t)
	withDebug(t, true)
	l.Tick(frameDT)
	for _, want := range []string{"batches: 2", "points: 60", "draw calls: 1"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("stats missing %q in %q", want, buf.String())
		}
	}
	if g.points != smallCounts.Hearts+smallCounts.Petals+smallCounts.Stars {
		t.Errorf("points rendered = %d", g.points)
	}
}
