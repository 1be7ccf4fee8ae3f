package service

import (
	"errors"
	"time"
)

var (
	ErrNoData         = errors.New("no data for date")
	ErrInvalidRequest = errors.New("invalid request")
	ErrReportRender   = errors.New("render report")
	ErrReportDelivery = errors.New("deliver report")
	ErrUnavailable    = errors.New("feature not configured")
)

// Clock returns the current time.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
