package statistic

import (
	"fmt"
	"time"

	"github.com/tangohub/backend/pkg/dateutil"
)

type PeriodType interface {
	Period() string
	Start() time.Time
	End() time.Time
}

type PeriodWeek struct {
	current time.Time
}

func NewPeriodWeek(current time.Time) PeriodWeek {
	return PeriodWeek{current: current}
}

func (p PeriodWeek) Period() string {
	year, week := p.current.ISOWeek()
	return fmt.Sprintf("week:%d:%d", week, year)
}

func (p PeriodWeek) Start() time.Time {
	return dateutil.CurrentWeek(p.current)
}

func (p PeriodWeek) End() time.Time {
	return p.Start().AddDate(0, 0, 7)
}

type PeriodMonth struct {
	current time.Time
}

func NewPeriodMonth(current time.Time) PeriodMonth {
	return PeriodMonth{current: current}
}

func (p PeriodMonth) Period() string {
	return fmt.Sprintf("month:%d:%d", p.current.Month(), p.current.Year())
}

func (p PeriodMonth) Start() time.Time {
	return dateutil.CurrentMonth(p.current)
}

func (p PeriodMonth) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// PeriodTotal is the all-time board.
type PeriodTotal struct{}

func (PeriodTotal) Period() string {
	return "total"
}

func (PeriodTotal) Start() time.Time {
	return time.Time{}
}

func (PeriodTotal) End() time.Time {
	return time.Time{}.AddDate(9999, 0, 0)
}

func ToPeriodWithTime(periodString string, current time.Time) (PeriodType, error) {
	switch periodString {
	case "week":
		return NewPeriodWeek(current), nil
	case "month":
		return NewPeriodMonth(current), nil
	case "total", "":
		return PeriodTotal{}, nil
	}

	return nil, fmt.Errorf("invalid period, expected week, month, or total, but got %s", periodString)
}

func ToPeriod(periodString string) (PeriodType, error) {
	return ToPeriodWithTime(periodString, time.Now())
}
