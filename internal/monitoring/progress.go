package monitoring

import (
	"time"

	"github.com/banshee-data/yearwheel/internal/timeutil"
)

// Progress logs a line every Every frames with the frame position, a
// short description (usually the frame date) and the render rate.
type Progress struct {
	Total int
	Every int
	Clock timeutil.Clock

	start time.Time
	done  int
	logs  int
}

// NewProgress returns a reporter for total frames. every <= 0 disables the
// periodic lines; Finish still logs a summary.
func NewProgress(total, every int, clock timeutil.Clock) *Progress {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Progress{Total: total, Every: every, Clock: clock, start: clock.Now()}
}

// Update records one finished frame.
func (p *Progress) Update(desc string) {
	p.done++
	if p.Every <= 0 || (p.done%p.Every != 0 && p.done != p.Total) {
		return
	}
	p.logs++
	Logf("[%d/%d] %s (%.1f frames/s)", p.done, p.Total, desc, p.Rate())
}

// Rate returns frames per second since the reporter was created.
func (p *Progress) Rate() float64 {
	elapsed := p.Clock.Since(p.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(p.done) / elapsed
}

// Done returns the number of frames recorded so far.
func (p *Progress) Done() int { return p.done }

// Finish logs the summary line and returns the elapsed time.
func (p *Progress) Finish() time.Duration {
	elapsed := p.Clock.Since(p.start)
	Logf("Done: %d frames in %s", p.done, elapsed.Round(time.Millisecond))
	return elapsed
}
