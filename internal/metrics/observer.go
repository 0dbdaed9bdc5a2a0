package metrics

import (
	"errors"

	"listify/internal/link"
	"listify/internal/playlist"
)

// reconcileObserver implements playlist.Observer using the Prometheus
// metrics declared in this package.
type reconcileObserver struct{}

// NewReconcileObserver creates an observer that records resolver and
// reconciler outcomes into the counters and gauges declared in metrics.go.
func NewReconcileObserver() playlist.Observer {
	return &reconcileObserver{}
}

func (o *reconcileObserver) ObserveResolve(expected link.Kind, err error) {
	ResolvesTotal.WithLabelValues(expected.String(), errorStatus(err, "success")).Inc()
}

func (o *reconcileObserver) ObserveLookup(scanned int, err error) {
	LookupScanned.Observe(float64(scanned))
	LookupsTotal.WithLabelValues(errorStatus(err, "found")).Inc()
}

func (o *reconcileObserver) ObserveRemove(err error) {
	RemovalsTotal.WithLabelValues(errorStatus(err, "success")).Inc()
}

func (o *reconcileObserver) ObservePinned(delta int) {
	PinnedHandles.Add(float64(delta))
}

// errorStatus maps err to a label value: ok for nil, the playlist error
// kind otherwise.
func errorStatus(err error, ok string) string {
	if err == nil {
		return ok
	}
	var perr *playlist.Error
	if errors.As(err, &perr) {
		return perr.Kind.String()
	}
	return "error"
}

// ObserveCommand records one shell command.
func ObserveCommand(command string, durationSeconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	CommandsTotal.WithLabelValues(command, status).Inc()
	CommandDuration.WithLabelValues(command).Observe(durationSeconds)
}

// ObserveLibraryEvent counts one delivered library event.
func ObserveLibraryEvent(event string) {
	LibraryEventsTotal.WithLabelValues(event).Inc()
}
