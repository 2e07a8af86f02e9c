package fetch

import "time"

// EmitInterval is the minimum spacing between progress emissions after the
// first chunk of a download.
const EmitInterval = 1000 * time.Millisecond

// UnknownTotal is the placeholder total used until the response declares a
// size, so percentage math never divides by zero.
const UnknownTotal int64 = 1

// Snapshot is the view of a transfer handed to a Reporter.
type Snapshot struct {
	Start       time.Time
	Total       int64
	TotalKnown  bool
	Now         time.Time
	Transferred int64
	// Rate is bytes per second over the interval since the previous
	// emission.
	Rate float64
	// Final is set on the snapshot emitted when the stream completes.
	Final bool
}

// Progress tracks one download. It is created per transfer and never shared.
type Progress struct {
	start       time.Time
	total       int64
	totalKnown  bool
	current     time.Time
	transferred int64
	prevTime    time.Time
	prevBytes   int64
	rate        float64
	emitted     bool
}

// NewProgress starts tracking a transfer at the given instant.
func NewProgress(start time.Time) *Progress {
	return &Progress{
		start:    start,
		total:    UnknownTotal,
		current:  start,
		prevTime: start,
	}
}

// SetTotal records the declared size. Only the first positive value is kept.
func (p *Progress) SetTotal(n int64) bool {
	if p.totalKnown || n <= 0 {
		return false
	}
	p.total = n
	p.totalKnown = true
	return true
}

// Observe accounts for a chunk of n bytes received at now. It reports a
// snapshot to emit when this is the first chunk or EmitInterval has passed
// since the last emission.
func (p *Progress) Observe(n int, now time.Time) (Snapshot, bool) {
	if n > 0 {
		p.transferred += int64(n)
	}
	p.current = now
	if p.emitted && now.Sub(p.prevTime) < EmitInterval {
		return Snapshot{}, false
	}
	return p.emit(false), true
}

// Finish reports the closing snapshot. ok is false when the last emission
// already covered every byte.
func (p *Progress) Finish(now time.Time) (Snapshot, bool) {
	p.current = now
	if p.emitted && p.transferred == p.prevBytes {
		return Snapshot{}, false
	}
	return p.emit(true), true
}

func (p *Progress) emit(final bool) Snapshot {
	if dt := p.current.Sub(p.prevTime); dt > 0 {
		p.rate = float64(p.transferred-p.prevBytes) / dt.Seconds()
	}
	p.prevTime = p.current
	p.prevBytes = p.transferred
	p.emitted = true
	return p.Snapshot(final)
}

// Snapshot returns the current state without affecting throttling.
func (p *Progress) Snapshot(final bool) Snapshot {
	return Snapshot{
		Start:       p.start,
		Total:       p.total,
		TotalKnown:  p.totalKnown,
		Now:         p.current,
		Transferred: p.transferred,
		Rate:        p.rate,
		Final:       final,
	}
}

// Transferred returns the cumulative byte count.
func (p *Progress) Transferred() int64 {
	return p.transferred
}
