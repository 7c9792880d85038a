// Package telemetry records frame timing and gift drops and writes them as CSV.
package telemetry

// DropEvent records one gift drop by the sleigh.
type DropEvent struct {
	Frame   int64   `csv:"frame"`
	Elapsed float64 `csv:"elapsed"`
	Cycle   int     `csv:"cycle"`
	Index   int     `csv:"drop_index"`
	Phase   float64 `csv:"phase"`
	X       float32 `csv:"x"`
	Y       float32 `csv:"y"`
}

// DropLog buffers drop events between flushes.
type DropLog struct {
	events []DropEvent
	total  int
}

// Record appends an event.
func (l *DropLog) Record(e DropEvent) {
	l.events = append(l.events, e)
	l.total++
}

// Drain returns and clears the pending events.
func (l *DropLog) Drain() []DropEvent {
	out := l.events
	l.events = nil
	return out
}

// Total returns the number of events ever recorded.
func (l *DropLog) Total() int {
	return l.total
}
