package fetch

import (
	"fmt"
	"io"
	"time"
)

// Reporter receives progress snapshots at the throttled cadence.
type Reporter interface {
	Report(label string, snap Snapshot)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(label string, snap Snapshot)

// Report implements Reporter.
func (fn ReporterFunc) Report(label string, snap Snapshot) {
	fn(label, snap)
}

// LineReporter writes one RenderProgress line per snapshot.
type LineReporter struct {
	W io.Writer
}

// Report implements Reporter.
func (r LineReporter) Report(label string, snap Snapshot) {
	RenderProgress(r.W, label, snap.Start, snap.Total, snap.Now, snap.Transferred, snap.Rate)
}

// RenderProgress writes a single progress line: label, elapsed time,
// transferred/total (with a percentage when the total is known) and rate.
func RenderProgress(w io.Writer, label string, start time.Time, total int64, now time.Time, transferred int64, rate float64) {
	fmt.Fprintf(w, "[DOWNLOADING] %s  %s  %s  %s\n",
		label,
		FormatElapsed(now.Sub(start)),
		FormatRatio(transferred, total),
		FormatRate(rate),
	)
}

// FormatRatio renders "4.8 MB / 9.5 MB (50.0%)", or "4.8 MB / ?" while the
// total is still the UnknownTotal placeholder.
func FormatRatio(transferred, total int64) string {
	if total <= UnknownTotal && transferred > total {
		return fmt.Sprintf("%s / ?", FormatBytes(transferred))
	}
	pct := float64(transferred) * 100 / float64(total)
	return fmt.Sprintf("%s / %s (%.1f%%)", FormatBytes(transferred), FormatBytes(total), pct)
}

// FormatRate renders bytes per second scaled to KB/s or MB/s.
func FormatRate(rate float64) string {
	if rate < 0 {
		rate = 0
	}
	return FormatBytes(int64(rate)) + "/s"
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for n := n / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatElapsed renders a duration as mm:ss, or h:mm:ss past an hour.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	h, m, s := secs/3600, (secs/60)%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
