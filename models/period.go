package models

import (
	"fmt"
	"strings"
)

// Period is the user-selected reporting window.
type Period string

const (
	Live      Period = "LIVE"
	OneDay    Period = "1D"
	OneWeek   Period = "1W"
	OneMonth  Period = "1M"
	SixMonths Period = "6M"
	YTD       Period = "YTD"
	OneYear   Period = "1Y"
	FiveYears Period = "5Y"
)

// Periods lists every supported period from shortest to longest.
var Periods = []Period{Live, OneDay, OneWeek, OneMonth, SixMonths, YTD, OneYear, FiveYears}

// SamplingPlan is the (range, interval) pair sent to a chart endpoint.
type SamplingPlan struct {
	Range    string
	Interval string
}

// ParsePeriod accepts labels such as "1d", "ytd" or "live" in any case.
// An empty label means OneDay.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return OneDay, nil
	}
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Plan maps the period to chart sampling parameters. Longer periods use a
// wider range and coarser samples.
func (p Period) Plan() SamplingPlan {
	switch p {
	case Live:
		return SamplingPlan{Range: "1d", Interval: "1m"}
	case OneWeek:
		return SamplingPlan{Range: "5d", Interval: "30m"}
	case OneMonth:
		return SamplingPlan{Range: "1mo", Interval: "1d"}
	case SixMonths:
		return SamplingPlan{Range: "6mo", Interval: "1d"}
	case YTD:
		return SamplingPlan{Range: "ytd", Interval: "1d"}
	case OneYear:
		return SamplingPlan{Range: "1y", Interval: "1d"}
	case FiveYears:
		return SamplingPlan{Range: "5y", Interval: "1wk"}
	default:
		return SamplingPlan{Range: "1d", Interval: "5m"}
	}
}

// Intraday reports whether percent change is measured against the first
// sample in the window rather than the previous close.
func (p Period) Intraday() bool {
	return p == Live || p == OneDay || p == ""
}

func (p Period) String() string {
	if p == "" {
		return string(OneDay)
	}
	return string(p)
}
