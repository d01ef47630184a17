package convert

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Summary aggregates a finished batch run into human-facing counts and
// text, the kind a CLI progress line or final report prints.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Cancelled int
}

// Summarize tallies results by terminal state.
func Summarize(results []BatchResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.State {
		case BatchSucceeded:
			s.Succeeded++
		case BatchFailed:
			s.Failed++
		case BatchCancelled:
			s.Cancelled++
		}
	}
	return s
}

// String renders a one-line human summary, e.g. "12 of 15 converted (2
// failed, 1 cancelled)".
func (s Summary) String() string {
	if s.Failed == 0 && s.Cancelled == 0 {
		return fmt.Sprintf("%s converted", humanize.Comma(int64(s.Succeeded)))
	}
	return fmt.Sprintf("%s of %s converted (%s failed, %s cancelled)",
		humanize.Comma(int64(s.Succeeded)),
		humanize.Comma(int64(s.Total)),
		humanize.Comma(int64(s.Failed)),
		humanize.Comma(int64(s.Cancelled)),
	)
}
