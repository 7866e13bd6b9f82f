// Package environment reduces per-panel environmental time series into the
// summary features consumed by the performance estimator.
package environment

import (
	"math"

	"github.com/solarscan/solarscan-go/internal/errors"
)

// Series holds four parallel ordered sequences of environmental samples, one
// sample per time bucket. All four must share the same length.
type Series struct {
	Temperature []float64 `json:"temp"`
	Humidity    []float64 `json:"humidity"`
	WindSpeed   []float64 `json:"windspeed"`
	Sunshine    []float64 `json:"sunshine"`
}

// Stat summarizes one instantaneous-reading series.
type Stat struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// SunshineStat summarizes the sunshine series. Sunshine is accumulated, so it
// carries a total alongside the average.
type SunshineStat struct {
	Average float64 `json:"average"`
	Total   float64 `json:"total"`
}

// Summary is the reduced form of a Series.
type Summary struct {
	Temperature Stat         `json:"temperature"`
	Humidity    Stat         `json:"humidity"`
	WindSpeed   Stat         `json:"wind_speed"`
	Sunshine    SunshineStat `json:"sunshine"`
}

// Validate rejects empty or mismatched series before any computation begins.
func (s *Series) Validate() error {
	n := len(s.Temperature)
	if n == 0 {
		return errors.Newf("environment series must not be empty").
			Component("environment").
			Category(errors.CategoryValidation).
			Build()
	}
	if len(s.Humidity) != n || len(s.WindSpeed) != n || len(s.Sunshine) != n {
		return errors.Newf("environment series lengths differ: temp=%d humidity=%d windspeed=%d sunshine=%d",
			n, len(s.Humidity), len(s.WindSpeed), len(s.Sunshine)).
			Component("environment").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

// Reduce validates the series and reduces each sequence to its summary
// statistics.
func (s *Series) Reduce() (Summary, error) {
	if err := s.Validate(); err != nil {
		return Summary{}, err
	}

	return Summary{
		Temperature: statOf(s.Temperature),
		Humidity:    statOf(s.Humidity),
		WindSpeed:   statOf(s.WindSpeed),
		Sunshine: SunshineStat{
			Average: round1(mean(s.Sunshine)),
			Total:   round1(sum(s.Sunshine)),
		},
	}, nil
}

func statOf(values []float64) Stat {
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	return Stat{
		Average: round1(mean(values)),
		Min:     round1(minV),
		Max:     round1(maxV),
	}
}

func mean(values []float64) float64 {
	return sum(values) / float64(len(values))
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
