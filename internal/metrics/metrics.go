// Package metrics exposes Prometheus metrics for the Ember relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the relay.
type Metrics struct {
	// Turn pipeline metrics
	TurnsTotal      prometheus.Counter
	TurnsRejected   prometheus.Counter
	RephraseCalls   prometheus.Counter
	ClarifyCalls    prometheus.Counter
	GreetingsTotal  prometheus.Counter
	FallbackReplies prometheus.Counter

	// Provider metrics
	ChatFailures  prometheus.Counter
	TTSFailures   prometheus.Counter
	OCRFailures   prometheus.Counter
	AudioSkipped  prometheus.Counter
	SynthDuration prometheus.Histogram

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
}

// New creates and registers all relay metrics on reg.
// Pass a fresh prometheus.NewRegistry in tests to avoid duplicate
// registration panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TurnsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "ember_turns_total",
			Help: "Total number of tutoring turns processed",
		}),
		TurnsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "ember_turns_rejected_total",
			Help: "Total number of requests rejected for missing input",
		}),
		RephraseCalls: factory.NewCounter(prometheus.CounterOpts{
			Name: "ember_rephrase_calls_total",
			Help: "Total number of rephrase calls triggered by duplicate replies",
		}),
		ClarifyCalls: factory.NewCounter(prometheus.CounterOpts{
			Name: "ember_clarify_calls_total",
			Help: "Total number of clarify calls triggered by follow-up detection",
		}),
		GreetingsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "ember_greetings_total",
			Help: "Total number of greetings generated",
		}),
		FallbackReplies: factory.NewCounter(prometheus.CounterOpts{
			Name: "ember_fallback_replies_total",
			Help: "Total number of turns answered with the fallback reply",
		}),
		ChatFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ember_chat_failures_total",
			Help: "Total number of failed chat-completion calls",
		}),
		TTSFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ember_tts_failures_total",
			Help: "Total number of failed speech synthesis calls",
		}),
		OCRFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ember_ocr_failures_total",
			Help: "Total number of failed image text extractions",
		}),
		AudioSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "ember_audio_skipped_total",
			Help: "Total number of turns that skipped speech synthesis",
		}),
		SynthDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ember_synth_duration_seconds",
			Help:    "Speech synthesis call duration",
			Buckets: prometheus.DefBuckets,
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ember_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"route", "status"}),
	}
}
