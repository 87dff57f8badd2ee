// Package metrics exposes quiz engine counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"lingo-quiz-service/internal/domain"
)

// Observer implements app.Observer on top of Prometheus collectors.
type Observer struct {
	sessionsStarted *prometheus.CounterVec
	sessionsClosed  *prometheus.CounterVec
	activeSessions  *prometheus.GaugeVec
	answers         *prometheus.CounterVec
	xpAwarded       *prometheus.CounterVec
}

// NewObserver registers the quiz collectors with reg.
func NewObserver(reg prometheus.Registerer) *Observer {
	factory := promauto.With(reg)
	return &Observer{
		sessionsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_sessions_started_total",
				Help: "Total number of quiz sessions started",
			},
			[]string{"mode"},
		),
		sessionsClosed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_sessions_closed_total",
				Help: "Total number of quiz sessions that left the open state",
			},
			[]string{"mode", "state"}, // state: resolved/expired/closed
		),
		activeSessions: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "quiz_sessions_active",
				Help: "Current number of open quiz sessions",
			},
			[]string{"mode"},
		),
		answers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_answers_total",
				Help: "Total number of recorded answers",
			},
			[]string{"mode", "result"}, // result: correct/wrong
		),
		xpAwarded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_xp_awarded_total",
				Help: "Total XP granted to players",
			},
			[]string{"mode"},
		),
	}
}

func (o *Observer) SessionStarted(mode domain.Mode) {
	o.sessionsStarted.WithLabelValues(string(mode)).Inc()
	o.activeSessions.WithLabelValues(string(mode)).Inc()
}

func (o *Observer) AnswerRecorded(mode domain.Mode, correct bool, xp int) {
	result := "wrong"
	if correct {
		result = "correct"
	}
	o.answers.WithLabelValues(string(mode), result).Inc()
	if xp > 0 {
		o.xpAwarded.WithLabelValues(string(mode)).Add(float64(xp))
	}
}

func (o *Observer) SessionClosed(mode domain.Mode, state domain.SessionState) {
	o.sessionsClosed.WithLabelValues(string(mode), string(state)).Inc()
	o.activeSessions.WithLabelValues(string(mode)).Dec()
}
