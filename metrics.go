package plinth

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Conversion kinds used as metric labels.
const (
	opBuffer = "buffer"
	opDisk   = "disk"
	opBase64 = "base64"
)

var (
	conversions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plinth_conversions_total",
			Help: "Number of completed upload conversions.",
		},
		[]string{"kind"},
	)

	conversionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plinth_conversion_errors_total",
			Help: "Number of failed upload conversions.",
		},
		[]string{"kind"},
	)

	conversionBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plinth_conversion_bytes_total",
			Help: "Bytes copied by upload conversions.",
		},
		[]string{"kind"},
	)
)

// startMetricsServer exposes /metrics on its own port, separate from the
// app's request path like the health listener.
func startMetricsServer(port string, log *logrus.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		log.Infof("Starting metrics server on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Metrics server error: %v", err)
		}
	}()

	return server
}
