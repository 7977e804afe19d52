package billing

import (
	"slices"
	"time"

	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
	"github.com/shopspring/decimal"
)

// feeTimeline is the piecewise-constant monthly fee, ascending by date.
// The admission entry is placed ahead of explicit changes before the stable sort,
// so a change stamped at the admission instant overrides the admission fee.
type feeTimeline []models.FeeChange

func newFeeTimeline(admission time.Time, monthlyFee decimal.Decimal, changes []models.FeeChange) feeTimeline {
	tl := make(feeTimeline, 0, len(changes)+1)
	tl = append(tl, models.FeeChange{Date: admission, Fee: monthlyFee})
	tl = append(tl, changes...)
	slices.SortStableFunc(tl, func(a, b models.FeeChange) int {
		return a.Date.Compare(b.Date)
	})
	return tl
}

// feeCursor looks up the fee in effect before monotonically increasing instants
type feeCursor struct {
	timeline feeTimeline
	idx      int
}

// before returns the fee of the last entry dated strictly before t.
// The first entry applies when none is. Calls must not go back in time.
func (c *feeCursor) before(t time.Time) decimal.Decimal {
	for c.idx+1 < len(c.timeline) && c.timeline[c.idx+1].Date.Before(t) {
		c.idx++
	}
	return c.timeline[c.idx].Fee
}

// cycleWalker steps through billing cycles from admission
type cycleWalker struct {
	start     time.Time
	anchorDay int
	loc       *time.Location
	fees      feeCursor
}

func newCycleWalker(admission time.Time, timeline feeTimeline, loc *time.Location) *cycleWalker {
	return &cycleWalker{
		start:     admission,
		anchorDay: admission.Day(),
		loc:       loc,
		fees:      feeCursor{timeline: timeline},
	}
}

// fee is the rate of the current cycle: the last entry dated before the cycle's
// next boundary, so a change made part-way through a cycle already prices it
func (w *cycleWalker) fee() decimal.Decimal {
	next, _ := nextBoundary(w.start, w.anchorDay, w.loc)
	return w.fees.before(next)
}

// advance moves to the next cycle and returns its start
func (w *cycleWalker) advance() (next time.Time, adjusted bool) {
	next, adjusted = nextBoundary(w.start, w.anchorDay, w.loc)
	w.start = next
	return next, adjusted
}
