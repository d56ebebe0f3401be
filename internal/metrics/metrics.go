package metrics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Outcome labels shared by every recorder.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Recorder collects business and transport metrics.
// Implementations can export metrics to various backends.
type Recorder interface {
	RecordTransfer(outcome string, amount, fee decimal.Decimal, duration time.Duration)
	RecordFunding(direction, outcome string)
	RecordConnection(outcome string)
	RecordReconciliation(accounts, mismatches int, duration time.Duration)
	RecordHTTPRequest(route, method string, status int, duration time.Duration)
}

// NoOpRecorder is used when metrics are not needed.
type NoOpRecorder struct{}

func (NoOpRecorder) RecordTransfer(string, decimal.Decimal, decimal.Decimal, time.Duration) {}
func (NoOpRecorder) RecordFunding(string, string)                                          {}
func (NoOpRecorder) RecordConnection(string)                                               {}
func (NoOpRecorder) RecordReconciliation(int, int, time.Duration)                          {}
func (NoOpRecorder) RecordHTTPRequest(string, string, int, time.Duration)                  {}
