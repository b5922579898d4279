// Package metrics métricas Prometheus del panel: peticiones HTTP servidas y
// llamadas a los servicios REST.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics colectores registrados. Un *Metrics nil no registra nada.
type Metrics struct {
	httpInFlight     prometheus.Gauge
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	backendCalls     *prometheus.CounterVec
	backendDuration  *prometheus.HistogramVec
	loginAttempts    *prometheus.CounterVec
	sessionsRejected prometheus.Counter
}

// New crea los colectores y los registra en reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sisvam_http_in_flight_requests",
			Help: "Peticiones HTTP en curso.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sisvam_http_requests_total",
			Help: "Peticiones HTTP servidas.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sisvam_http_request_duration_seconds",
			Help:    "Latencia de las peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sisvam_backend_calls_total",
			Help: "Llamadas a los servicios REST por recurso, operación y resultado.",
		}, []string{"resource", "op", "outcome"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sisvam_backend_call_duration_seconds",
			Help:    "Latencia de las llamadas a los servicios REST.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource", "op"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sisvam_login_attempts_total",
			Help: "Intentos de inicio de sesión.",
		}, []string{"outcome"}),
		sessionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sisvam_sessions_rejected_total",
			Help: "Sesiones cerradas por token vencido o rechazado.",
		}),
	}
	reg.MustRegister(m.httpInFlight, m.httpRequests, m.httpDuration,
		m.backendCalls, m.backendDuration, m.loginAttempts, m.sessionsRejected)
	return m
}

// RequestStarted marca una petición en curso; devuelve la función que la cierra.
func (m *Metrics) RequestStarted() func(method, route string, status int) {
	if m == nil {
		return func(string, string, int) {}
	}
	start := time.Now()
	m.httpInFlight.Inc()
	return func(method, route string, status int) {
		m.httpInFlight.Dec()
		code := strconv.Itoa(status)
		m.httpRequests.WithLabelValues(method, route, code).Inc()
		m.httpDuration.WithLabelValues(method, route, code).Observe(time.Since(start).Seconds())
	}
}

// BackendCall registra una llamada a un servicio REST. outcome: ok, empty, failed.
func (m *Metrics) BackendCall(resource, op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.backendCalls.WithLabelValues(resource, op, outcome).Inc()
	m.backendDuration.WithLabelValues(resource, op).Observe(d.Seconds())
}

// Login registra un intento de login (ok, rejected, limited).
func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

// SessionRejected cuenta una sesión cerrada por 401 del backend.
func (m *Metrics) SessionRejected() {
	if m == nil {
		return
	}
	m.sessionsRejected.Inc()
}
