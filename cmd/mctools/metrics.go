package main

import (
	"log/slog"
	"net/http"

	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/emitter"
	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/state"
	"github.com/jasonlovesdoggo/mctools/internal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// toggles counts armed flips by where they came from (hotkey or menu)
	toggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mctools_toggles_total",
		Help: "The total number of times automation was armed or disarmed",
	}, []string{"source"})

	// keysEmitted counts synthetic presses per digit
	keysEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mctools_keys_emitted_total",
		Help: "The total number of synthetic key presses",
	}, []string{"key"})

	sessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mctools_sessions_total",
		Help: "The total number of automation sessions by how they ended",
	}, []string{"outcome"})

	sessionTaps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mctools_session_taps",
		Help:    "Key presses per automation session",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
)

// registerArmedGauge exposes the armed flag. With -lock-mode=exclusive a
// scrape waits while a session holds the state.
func registerArmedGauge(st *state.State) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "mctools_armed",
		Help: "1 when automation is armed",
	}, func() float64 {
		if st.Armed() {
			return 1
		}
		return 0
	})
}

// countingKeyboard records every successful tap.
type countingKeyboard struct {
	emitter.Keyboard
}

func (k countingKeyboard) Tap(key string) error {
	if err := k.Keyboard.Tap(key); err != nil {
		return err
	}
	keysEmitted.WithLabelValues(key).Inc()
	return nil
}

func observeSession(res emitter.Result) {
	sessions.WithLabelValues(res.Outcome.String()).Inc()
	if res.Taps > 0 {
		sessionTaps.Observe(float64(res.Taps))
	}
}

// RegisterMetricsHandler starts a separate HTTP server for metrics
func RegisterMetricsHandler(addr string, lg *slog.Logger) {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	internal.MountDebug(metricsMux)

	go func() {
		lg.Info("starting metrics server", "addr", addr, "path", "/metrics")
		err := http.ListenAndServe(addr, metricsMux)
		if err != nil {
			lg.Error("metrics server failed", "err", err)
		}
	}()
}
