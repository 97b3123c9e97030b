// Package metrics expone la instrumentación del motor: un Recorder no-op por
// defecto y uno respaldado por Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

type Recorder interface {
	IncOpTotal(op string, success bool)
	ObserveOpSeconds(op string, success bool, seconds float64)
	ObserveCandidates(n int)
	SetSnapshotAnimals(n int)
	IncSnapshotReload(success bool)
}

type noopRecorder struct{}

func (noopRecorder) IncOpTotal(string, bool)                {}
func (noopRecorder) ObserveOpSeconds(string, bool, float64) {}
func (noopRecorder) ObserveCandidates(int)                  {}
func (noopRecorder) SetSnapshotAnimals(int)                 {}
func (noopRecorder) IncSnapshotReload(bool)                 {}

var (
	recMu    sync.RWMutex
	recorder Recorder = noopRecorder{}
)

func Default() Recorder {
	recMu.RLock()
	defer recMu.RUnlock()
	return recorder
}

func SetRecorder(r Recorder) {
	if r == nil {
		r = noopRecorder{}
	}
	recMu.Lock()
	defer recMu.Unlock()
	recorder = r
}

// TimeOp mide una operación del motor. Uso: done := TimeOp("simulate"); ...; done(err == nil)
func TimeOp(op string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		rec := Default()
		rec.IncOpTotal(op, success)
		rec.ObserveOpSeconds(op, success, time.Since(start).Seconds())
	}
}

type PromRecorder struct {
	opTotal    *prom.CounterVec
	opSeconds  *prom.HistogramVec
	candidates prom.Histogram
	animals    prom.Gauge
	reloads    *prom.CounterVec
}

// NewPrometheus registra las métricas en reg.
func NewPrometheus(reg prom.Registerer) (*PromRecorder, error) {
	p := &PromRecorder{
		opTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "pedigree_ops_total",
			Help: "Total number of pedigree engine operations",
		}, []string{"op", "success"}),
		opSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "pedigree_op_seconds",
			Help:    "Pedigree engine operation duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"op", "success"}),
		candidates: prom.NewHistogram(prom.HistogramOpts{
			Name:    "pedigree_rank_candidates",
			Help:    "Eligible candidates evaluated per ranking request",
			Buckets: prom.ExponentialBuckets(1, 4, 8),
		}),
		animals: prom.NewGauge(prom.GaugeOpts{
			Name: "pedigree_snapshot_animals",
			Help: "Recorded animals in the current pedigree snapshot",
		}),
		reloads: prom.NewCounterVec(prom.CounterOpts{
			Name: "pedigree_snapshot_reloads_total",
			Help: "Pedigree snapshot reload attempts",
		}, []string{"success"}),
	}

	for _, c := range []prom.Collector{p.opTotal, p.opSeconds, p.candidates, p.animals, p.reloads} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *PromRecorder) IncOpTotal(op string, success bool) {
	p.opTotal.WithLabelValues(op, strconv.FormatBool(success)).Inc()
}

func (p *PromRecorder) ObserveOpSeconds(op string, success bool, seconds float64) {
	p.opSeconds.WithLabelValues(op, strconv.FormatBool(success)).Observe(seconds)
}

func (p *PromRecorder) ObserveCandidates(n int)  { p.candidates.Observe(float64(n)) }
func (p *PromRecorder) SetSnapshotAnimals(n int) { p.animals.Set(float64(n)) }

func (p *PromRecorder) IncSnapshotReload(success bool) {
	p.reloads.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// Handler sirve /metrics para el registry dado.
func Handler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
