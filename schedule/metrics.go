package schedule

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var referenceFetchCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cosign_reference_height_fetch_total",
		Help: "Reference height fetches by result.",
	},
	[]string{"result"},
)
