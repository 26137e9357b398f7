package event

import "expvar"

// Metrics holds all expvar variables for the instrumentation core.
type Metrics struct {
	PublishedGlobally bool // Indicates if the metrics are published to the global expvar namespace.

	EventsProcessedTotal *expvar.Int
	TracksResolvedTotal  *expvar.Int
	PhotonContextsTotal  *expvar.Int
	HitsRecordedTotal    *expvar.Int

	PendingOriginsStashedTotal  *expvar.Int
	PendingOriginsConsumedTotal *expvar.Int
	PendingOriginsDroppedTotal  *expvar.Int

	CSVWritesTotal        *expvar.Int
	CSVWriteErrorsTotal   *expvar.Int
	StoreWritesTotal      *expvar.Int
	StoreWriteErrorsTotal *expvar.Int
	RowsWrittenTotal      *expvar.Int
}

// NewMetrics creates and initializes a new Metrics struct with expvar
// variables. When publishGlobally is false the variables stay private,
// which keeps parallel test runs from colliding on the global expvar
// namespace.
func NewMetrics(publishGlobally bool, prefix string) *Metrics {
	var newIntFunc func(string) *expvar.Int
	if publishGlobally {
		newIntFunc = publishExpvarInt
	} else {
		newIntFunc = func(_ string) *expvar.Int { return new(expvar.Int) }
	}

	return &Metrics{
		PublishedGlobally: publishGlobally,

		EventsProcessedTotal: newIntFunc(prefix + "events_processed_total"),
		TracksResolvedTotal:  newIntFunc(prefix + "tracks_resolved_total"),
		PhotonContextsTotal:  newIntFunc(prefix + "photon_contexts_total"),
		HitsRecordedTotal:    newIntFunc(prefix + "hits_recorded_total"),

		PendingOriginsStashedTotal:  newIntFunc(prefix + "pending_origins_stashed_total"),
		PendingOriginsConsumedTotal: newIntFunc(prefix + "pending_origins_consumed_total"),
		PendingOriginsDroppedTotal:  newIntFunc(prefix + "pending_origins_dropped_total"),

		CSVWritesTotal:        newIntFunc(prefix + "csv_writes_total"),
		CSVWriteErrorsTotal:   newIntFunc(prefix + "csv_write_errors_total"),
		StoreWritesTotal:      newIntFunc(prefix + "store_writes_total"),
		StoreWriteErrorsTotal: newIntFunc(prefix + "store_write_errors_total"),
		RowsWrittenTotal:      newIntFunc(prefix + "rows_written_total"),
	}
}

// publishExpvarInt reuses an already-published variable with the same
// name instead of panicking on re-registration.
func publishExpvarInt(name string) *expvar.Int {
	if v := expvar.Get(name); v != nil {
		if i, ok := v.(*expvar.Int); ok {
			return i
		}
	}
	return expvar.NewInt(name)
}
