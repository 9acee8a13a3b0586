package cmd

import (
	"vrcfetch/internal"
	"vrcfetch/utils"
)

// page is one fetched page of a listing
type page[T any] struct {
	items []T
	total int64
	more  bool
}

// collectPages calls next until a page reports no more items, or only once
// when fetchAll is false. A progress bar is shown while paging unless quiet.
func collectPages[T any](label string, fetchAll bool, next func() (page[T], error)) ([]T, error) {
	var tracker *utils.ProgressTracker
	if fetchAll {
		tracker = utils.NewProgressTracker(label, 0, config.QuietMode)
	}

	var all []T
	for {
		p, err := next()
		if err != nil {
			if tracker != nil {
				tracker.Finish(label)
			}
			return all, err
		}

		all = append(all, p.items...)
		if tracker == nil {
			return all, nil
		}
		if p.total > 0 {
			tracker.SetTotal(p.total)
		}
		tracker.AddPage(len(p.items))

		if !p.more || len(p.items) == 0 {
			break
		}
	}

	summary := tracker.Finish(label)
	internal.LogDebug("Paged %d %s in %d requests (%v)", summary.Items, summary.Label, summary.Pages, summary.TotalTime)
	return all, nil
}
