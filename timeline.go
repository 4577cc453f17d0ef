package serenade

// timerEntry is one scheduled callback.
type timerEntry struct {
	due float64
	seq uint64
	fn  func()
}

// Timeline is the loop's timer scheduler. Callbacks never run inline from
// After; they fire during Advance once the timeline clock reaches their due
// time, in due order (ties in scheduling order). A panicking callback is
// logged and does not prevent the others from firing.
type Timeline struct {
	now     float64
	seq     uint64
	entries []timerEntry
}

// Now returns the timeline clock in seconds.
func (tl *Timeline) Now() float64 { return tl.now }

// Pending returns the number of callbacks not yet fired.
func (tl *Timeline) Pending() int { return len(tl.entries) }

// After schedules fn to run delay seconds from now. A negative delay is
// treated as zero.
func (tl *Timeline) After(delay float64, fn func()) {
	if fn == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	tl.seq++
	e := timerEntry{due: tl.now + delay, seq: tl.seq, fn: fn}
	// Insertion keeps entries sorted; timeline sizes stay small.
	i := len(tl.entries)
	for i > 0 && tl.entries[i-1].due > e.due {
		i--
	}
	tl.entries = append(tl.entries, timerEntry{})
	copy(tl.entries[i+1:], tl.entries[i:])
	tl.entries[i] = e
}

// Advance moves the clock forward by dt and fires every due callback. It
// returns the number fired. Callbacks scheduled while firing with a zero
// delay run on the next Advance.
func (tl *Timeline) Advance(dt float64) int {
	if dt > 0 {
		tl.now += dt
	}
	n := 0
	for _, e := range tl.entries {
		if e.due > tl.now {
			break
		}
		n++
	}
	if n == 0 {
		return 0
	}
	due := make([]timerEntry, n)
	copy(due, tl.entries[:n])
	rest := copy(tl.entries, tl.entries[n:])
	clear(tl.entries[rest:])
	tl.entries = tl.entries[:rest]
	for _, e := range due {
		guard("timer", func() error {
			e.fn()
			return nil
		})
	}
	return n
}

// Clear drops every pending callback.
func (tl *Timeline) Clear() {
	clear(tl.entries)
	tl.entries = tl.entries[:0]
}
