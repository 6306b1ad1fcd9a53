package monitoring

import (
	"outreach-service/prometheus"

	"go.uber.org/zap"
)

// Monitor is the telemetry facade handlers depend on. Implementations must
// never let a sink failure reach the caller; tracking is strictly
// best-effort.
type Monitor interface {
	TrackError(err error, context map[string]interface{})
	TrackEvent(category, name string, attributes map[string]interface{})
	SetUser(id, email, name string)
}

// Service fans telemetry out to an error sink and a session sink. It is
// constructed once in main and passed to whoever needs it; tests substitute
// Nop.
type Service struct {
	errorSink   *sinkClient
	sessionSink *sinkClient
	log         *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithErrorSink points the service at an error tracker endpoint
func WithErrorSink(client *sinkClient) Option {
	return func(s *Service) {
		s.errorSink = client
	}
}

// WithSessionSink points the service at a session tracker endpoint
func WithSessionSink(client *sinkClient) Option {
	return func(s *Service) {
		s.sessionSink = client
	}
}

// NewService creates the telemetry facade
func NewService(log *zap.Logger, opts ...Option) *Service {
	s := &Service{log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TrackError forwards an error to both sinks. Failures are logged and
// counted, never returned.
func (s *Service) TrackError(err error, context map[string]interface{}) {
	if err == nil {
		return
	}

	payload := map[string]interface{}{
		"type":    "error",
		"message": err.Error(),
		"context": context,
	}
	s.deliver("error_sink", s.errorSink, payload)
	s.deliver("session_sink", s.sessionSink, map[string]interface{}{
		"category": "error",
		"name":     err.Error(),
		"attrs":    context,
	})
}

// TrackEvent forwards a (category, name, attributes) event to the session
// sink. Failures are logged and counted, never returned.
func (s *Service) TrackEvent(category, name string, attributes map[string]interface{}) {
	s.deliver("session_sink", s.sessionSink, map[string]interface{}{
		"category": category,
		"name":     name,
		"attrs":    attributes,
	})
}

// SetUser attaches user identity to both sinks for subsequent events
func (s *Service) SetUser(id, email, name string) {
	payload := map[string]interface{}{
		"type": "identify",
		"user": map[string]string{"id": id, "email": email, "name": name},
	}
	s.deliver("error_sink", s.errorSink, payload)
	s.deliver("session_sink", s.sessionSink, payload)
}

func (s *Service) deliver(label string, sink *sinkClient, payload map[string]interface{}) {
	if sink == nil {
		return
	}
	if err := sink.send(payload); err != nil {
		if prometheus.TelemetryFailureCounter != nil {
			prometheus.TelemetryFailureCounter.WithLabelValues(label).Inc()
		}
		if s.log != nil {
			s.log.Warn("telemetry delivery failed",
				zap.String("sink", label),
				zap.Error(err))
		}
	}
}

// Nop is a Monitor that discards everything; used in tests
type Nop struct{}

func (Nop) TrackError(err error, context map[string]interface{})                {}
func (Nop) TrackEvent(category, name string, attributes map[string]interface{}) {}
func (Nop) SetUser(id, email, name string)                                      {}
