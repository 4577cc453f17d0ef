package serenade

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	logMu     sync.Mutex
	logOutput io.Writer = os.Stderr
	debugMode bool
	warned    = map[string]bool{}
)

// SetLogOutput redirects diagnostic lines. A nil writer discards them.
func SetLogOutput(w io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()
	if w == nil {
		w = io.Discard
	}
	logOutput = w
}

// SetDebugMode enables per-frame stats and debug-level lines.
func SetDebugMode(on bool) {
	logMu.Lock()
	debugMode = on
	logMu.Unlock()
}

// DebugMode reports whether debug output is enabled.
func DebugMode() bool {
	logMu.Lock()
	defer logMu.Unlock()
	return debugMode
}

func logf(format string, args ...any) {
	logMu.Lock()
	defer logMu.Unlock()
	_, _ = fmt.Fprintf(logOutput, "[serenade] "+format+"\n", args...)
}

func warnf(format string, args ...any) {
	logf("warning: "+format, args...)
}

// warnOnce logs a warning the first time key is seen.
func warnOnce(key, format string, args ...any) {
	logMu.Lock()
	seen := warned[key]
	warned[key] = true
	logMu.Unlock()
	if !seen {
		warnf(format, args...)
	}
}

func debugf(format string, args ...any) {
	if !DebugMode() {
		return
	}
	logf(format, args...)
}

// frameStats holds per-tick timing and draw metrics. Only reported in debug
// mode.
type frameStats struct {
	updateTime  time.Duration
	effectTime  time.Duration
	renderTime  time.Duration
	batchCount  int
	pointCount  int
	drawCalls   int
	timersFired int
}

// renderStats is implemented by scene graphs that count their output.
type renderStats interface {
	PointCount() int
	DrawCalls() int
}

// debugLog prints the stats of one tick.
func (st frameStats) debugLog(frame uint64) {
	if !DebugMode() {
		return
	}
	total := st.updateTime + st.effectTime + st.renderTime
	logf("frame %d | update: %v | effects: %v | render: %v | total: %v",
		frame, st.updateTime, st.effectTime, st.renderTime, total)
	logf("batches: %d | points: %d | draw calls: %d | timers: %d",
		st.batchCount, st.pointCount, st.drawCalls, st.timersFired)
}

// debugMaxPoints is the point count above which a frame is flagged.
const debugMaxPoints = 20000

func debugCheckPointCount(n int) {
	if n > debugMaxPoints && DebugMode() {
		warnf("frame has %d points (threshold %d)", n, debugMaxPoints)
	}
}
