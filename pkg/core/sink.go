package core

// Sink receives the points that survive filtering. Implementations own
// their transport; the collector only assumes Send either delivers the
// whole batch or reports an error.
type Sink interface {
	Send(points []MetricPoint) error
	Close() error
}
