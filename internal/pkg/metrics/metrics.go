package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the planner pipeline reports to.
type Recorder interface {
	ObservePlan(source string, duration time.Duration, err error)
	ObserveLLM(model string, duration time.Duration, err error)
	ObserveCandidates(strategy string, count int)
	ObserveRatingsRefresh(source string, count int, err error)
}

// Prometheus implements Recorder and the HTTP middleware on one registry.
type Prometheus struct {
	gatherer prometheus.Gatherer

	httpDuration   *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	planDuration   *prometheus.HistogramVec
	llmDuration    *prometheus.HistogramVec
	candidates     *prometheus.CounterVec
	ratingsRefresh *prometheus.CounterVec
	ratingsCount   prometheus.Gauge
}

// New registers the collectors on reg. A nil reg gets a fresh registry
// with the Go and process collectors.
func New(reg *prometheus.Registry) *Prometheus {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	factory := promauto.With(reg)

	return &Prometheus{
		gatherer: reg,
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "myai_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
			},
			[]string{"method", "route"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "myai_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		planDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "myai_plan_duration_seconds",
				Help:    "Duration of plan generation by step source",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
			},
			[]string{"source", "status"},
		),
		llmDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "myai_llm_request_duration_seconds",
				Help:    "Latency of step generation LLM calls",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 30},
			},
			[]string{"model", "status"},
		),
		candidates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "myai_candidates_total",
				Help: "Candidate tools collected per lookup strategy",
			},
			[]string{"strategy"},
		),
		ratingsRefresh: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "myai_ratings_refresh_total",
				Help: "Ratings refresh attempts",
			},
			[]string{"source", "status"},
		),
		ratingsCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "myai_ratings_entries",
				Help: "Number of tools with a live popularity rating",
			},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (p *Prometheus) ObservePlan(source string, duration time.Duration, err error) {
	p.planDuration.WithLabelValues(source, status(err)).Observe(duration.Seconds())
}

func (p *Prometheus) ObserveLLM(model string, duration time.Duration, err error) {
	p.llmDuration.WithLabelValues(model, status(err)).Observe(duration.Seconds())
}

func (p *Prometheus) ObserveCandidates(strategy string, count int) {
	p.candidates.WithLabelValues(strategy).Add(float64(count))
}

func (p *Prometheus) ObserveRatingsRefresh(source string, count int, err error) {
	p.ratingsRefresh.WithLabelValues(source, status(err)).Inc()
	if err == nil {
		p.ratingsCount.Set(float64(count))
	}
}

// Middleware records request count and latency by matched route.
func (p *Prometheus) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		p.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		p.httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler exposes the registry in the text exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

type nop struct{}

// Nop returns a Recorder that drops everything.
func Nop() Recorder { return nop{} }

func (nop) ObservePlan(string, time.Duration, error)  {}
func (nop) ObserveLLM(string, time.Duration, error)   {}
func (nop) ObserveCandidates(string, int)             {}
func (nop) ObserveRatingsRefresh(string, int, error) {}

var _ Recorder = (*Prometheus)(nil)
