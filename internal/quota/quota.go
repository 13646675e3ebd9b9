package quota

import (
	"context"
	"errors"
	"time"
)

// ErrDailyLimit is the distinct "rate limited" kind: the origin used up its
// digest requests for the current day.
var ErrDailyLimit = errors.New("daily guest quota exceeded")

// Gate bounds how many digest requests an unauthenticated origin may make per
// calendar day. Allow counts the request and returns ErrDailyLimit once the
// ceiling is passed; the count-then-compare happens on an atomic increment, so
// two concurrent requests can never both slip through the last slot.
type Gate interface {
	Allow(ctx context.Context, origin string) error
}

// DayKey formats the quota day for an instant in the reference timezone. The
// day boundary is always evaluated in that one timezone, never server-local.
func DayKey(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format("2006-01-02")
}
