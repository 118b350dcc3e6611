// Package metrics holds the Prometheus collectors of one LATM channel.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const namespace = "latm"

// Metrics is the set of collectors updated by a parser/session pair.
type Metrics struct {
	// Framer
	Payloads      prometheus.Counter
	PayloadBytes  prometheus.Histogram
	Resyncs       prometheus.Counter
	SkippedBytes  prometheus.Counter
	DroppedBytes  prometheus.Counter
	ConfigChanges prometheus.Counter
	Unsupported   prometheus.Counter

	// Decoder session
	Opens        prometheus.Counter
	OpenFailures prometheus.Counter
	DecodeErrors prometheus.Counter
	Overflows    prometheus.Counter
}

// New creates the collectors and registers them with reg, labelled with
// channel. A nil reg registers into a private registry. Collectors that are
// already registered under the same name and channel are reused, so two
// channels sharing a name also share counters. Any other registration
// failure is logged and the collector is used unexported.
func New(reg prometheus.Registerer, channel string, log *zap.Logger) *Metrics {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	labels := prometheus.Labels{"channel": channel}

	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
		return register(reg, c, log)
	}

	m := &Metrics{
		Payloads:      counter("payloads_total", "Access units extracted from AudioMuxElements"),
		Resyncs:       counter("resyncs_total", "Times the framer lost lock and went back to seeking"),
		SkippedBytes:  counter("skipped_bytes_total", "Bytes skipped while seeking the syncword"),
		DroppedBytes:  counter("dropped_bytes_total", "Unconsumed bytes dropped by the accumulation buffer"),
		ConfigChanges: counter("config_changes_total", "StreamMuxConfigs that changed the decoder configuration"),
		Unsupported:   counter("unsupported_elements_total", "AudioMuxElements using an unsupported LATM variant"),
		Opens:         counter("decoder_opens_total", "Successful decoder opens"),
		OpenFailures:  counter("decoder_open_failures_total", "Failed decoder opens"),
		DecodeErrors:  counter("decode_errors_total", "Access units the decoder rejected"),
		Overflows:     counter("overflows_total", "PCM frames dropped because the output buffer was full"),
	}
	m.PayloadBytes = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   namespace,
		Name:        "payload_bytes",
		Help:        "Access unit size in bytes",
		ConstLabels: labels,
		Buckets:     []float64{64, 128, 256, 384, 512, 768, 1024, 1536, 2048},
	}), log)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C, log *zap.Logger) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		log.Warn("metrics registration failed, collector not exported", zap.Error(err))
	}
	return c
}
