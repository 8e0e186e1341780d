package lifecycle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var submissionsCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cosign_submissions_total",
		Help: "Submissions that reached a terminal state, by state.",
	},
	[]string{"state"},
)
