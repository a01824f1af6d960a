package model

import "time"

// TimeEstimate projects how long the remaining inspection will take.
type TimeEstimate struct {
	Remaining     int           // Holes still pending or detecting
	RatePerMinute float64       // Observed completion rate
	TimeLeft      time.Duration // Zero when the rate is unknown
}

// EstimateRemaining computes a completion projection from the overall
// aggregate and the observed completion rate in holes per minute. A rate of
// zero (nothing completed yet) yields an estimate with TimeLeft zero.
func EstimateRemaining(overall OverallAggregate, ratePerMinute float64) TimeEstimate {
	remaining := overall.Total - overall.Completed - overall.Errors
	if remaining < 0 {
		remaining = 0
	}
	est := TimeEstimate{
		Remaining:     remaining,
		RatePerMinute: ratePerMinute,
	}
	if ratePerMinute > 0 && remaining > 0 {
		minutes := float64(remaining) / ratePerMinute
		est.TimeLeft = time.Duration(minutes * float64(time.Minute))
	}
	return est
}
