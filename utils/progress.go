package utils

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
)

// ProgressTracker shows how many items of a paginated listing have been fetched
type ProgressTracker struct {
	bar       *pb.ProgressBar
	quiet     bool
	output    io.Writer
	startTime time.Time
	total     int64
	current   int64
	pages     int
	mutex     sync.RWMutex
}

// PagingSummary contains final statistics for a paginated fetch
type PagingSummary struct {
	Items     int64
	Pages     int
	TotalTime time.Duration
	Label     string
}

// NewProgressTracker creates a tracker for total items; a total of zero means unknown
func NewProgressTracker(label string, total int64, quiet bool) *ProgressTracker {
	tracker := &ProgressTracker{
		quiet:     quiet,
		output:    os.Stderr,
		startTime: time.Now(),
		total:     total,
	}

	if !quiet {
		tmpl := `{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{etime . }}`
		bar := pb.New64(total).
			SetTemplate(pb.ProgressBarTemplate(tmpl)).
			SetWriter(tracker.output).
			Set("prefix", label+": ")
		tracker.bar = bar.Start()
	}

	return tracker
}

// AddPage records one fetched page of n items
func (p *ProgressTracker) AddPage(n int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.pages++
	p.current += int64(n)
	if p.bar != nil {
		if p.total > 0 && p.current > p.total {
			// The server total moved while paging
			p.total = p.current
			p.bar.SetTotal(p.total)
		}
		p.bar.SetCurrent(p.current)
	}
}

// SetTotal updates the expected item count once the server reports it
func (p *ProgressTracker) SetTotal(total int64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.total = total
	if p.bar != nil {
		p.bar.SetTotal(total)
	}
}

// Finish completes the progress bar and returns the paging summary
func (p *ProgressTracker) Finish(label string) *PagingSummary {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.bar != nil {
		p.bar.Finish()
	}

	summary := &PagingSummary{
		Items:     p.current,
		Pages:     p.pages,
		TotalTime: time.Since(p.startTime),
		Label:     label,
	}

	if !p.quiet {
		fmt.Fprintf(p.output, "Fetched %d %s in %d page(s) (%v)\n",
			summary.Items, summary.Label, summary.Pages, summary.TotalTime.Round(time.Millisecond))
	}

	return summary
}

// Percentage returns how much of the known total has been fetched
func (p *ProgressTracker) Percentage() float64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.total <= 0 {
		return 0
	}
	return float64(p.current) / float64(p.total) * 100
}

// IsQuiet returns whether the tracker is in quiet mode
func (p *ProgressTracker) IsQuiet() bool {
	return p.quiet
}
