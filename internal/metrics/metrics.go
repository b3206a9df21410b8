package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeHit labels toggles that found their incident.
	OutcomeHit = "hit"
	// OutcomeMiss labels toggles for an unknown id.
	OutcomeMiss = "miss"
)

var (
	incidentsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safetyboard",
			Name:      "incidents_created_total",
			Help:      "Incidents reported through the API, partitioned by severity.",
		},
		[]string{"severity"},
	)

	incidentTogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safetyboard",
			Name:      "incident_toggles_total",
			Help:      "Detail expansion toggles, partitioned by whether the incident existed.",
		},
		[]string{"outcome"},
	)

	filterChangesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "safetyboard",
			Name:      "filter_changes_total",
			Help:      "Number of times the active filter was replaced.",
		},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safetyboard",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, partitioned by route pattern and status code.",
		},
		[]string{"route", "code"},
	)
)

// Register attaches safetyboard collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		incidentsCreatedTotal,
		incidentTogglesTotal,
		filterChangesTotal,
		httpRequestsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

func ObserveIncidentCreated(severity string) {
	incidentsCreatedTotal.WithLabelValues(severity).Inc()
}

func ObserveToggle(found bool) {
	label := OutcomeMiss
	if found {
		label = OutcomeHit
	}
	incidentTogglesTotal.WithLabelValues(label).Inc()
}

func ObserveFilterChange() {
	filterChangesTotal.Inc()
}

// ObserveRequest counts one served request. An empty route means no pattern
// matched.
func ObserveRequest(route string, code int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
