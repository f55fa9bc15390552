package health

import "time"

// Message is the fixed text carried by every health report.
const Message = "API is running"

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Status is the payload returned by the health endpoints.
type Status struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Reporter produces health reports. It holds no state beyond its clock.
type Reporter struct {
	now func() time.Time
}

// NewReporter creates a Reporter backed by the wall clock.
func NewReporter() *Reporter {
	return &Reporter{now: time.Now}
}

// NewReporterWithClock creates a Reporter that reads time from now.
func NewReporterWithClock(now func() time.Time) *Reporter {
	return &Reporter{now: now}
}

// Report returns a successful status stamped with the current time.
func (r *Reporter) Report() Status {
	return Status{
		Success:   true,
		Message:   Message,
		Timestamp: r.now().UTC().Format(TimestampLayout),
	}
}
