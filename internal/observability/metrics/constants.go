// Package metrics provides Prometheus metric collectors for the analysis
// pipeline and its supporting infrastructure.
package metrics

// Histogram bucket constants shared across collectors.
const (
	// BucketStart1ms is the starting bucket for 1ms histograms.
	BucketStart1ms = 0.001
	// BucketFactor2 is the exponential growth factor for histogram buckets.
	BucketFactor2 = 2
	// BucketCount12 defines 12 exponential buckets (1ms to ~4s).
	BucketCount12 = 12
	// BucketCount15 defines 15 exponential buckets (1ms to ~32s).
	BucketCount15 = 15
)

// Operation status labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
