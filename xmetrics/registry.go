package xmetrics

import (
	"fmt"
	"sync"

	"github.com/go-kit/kit/metrics"
	gokitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusProvider is a Prometheus-specific version of go-kit's metrics.Provider.  Use this interface
// when interacting directly with Prometheus.
type PrometheusProvider interface {
	NewCounterVec(string) *prometheus.CounterVec
	NewGaugeVec(string) *prometheus.GaugeVec
	NewHistogramVec(string) *prometheus.HistogramVec
}

// Registry is a Prometheus registry and a go-kit metrics.Provider all in one.
//
// Preregistered metrics are returned by name.  Any other name produces an ad hoc, unlabeled
// metric that is registered on first use and cached afterwards.  Asking for an existing name
// with the wrong type panics.
type Registry interface {
	PrometheusProvider
	provider.Provider
	prometheus.Gatherer
	prometheus.Registerer
}

type registry struct {
	*prometheus.Registry

	namespace string
	subsystem string

	lock  sync.Mutex
	cache map[string]prometheus.Collector
}

// NewRegistry creates a Registry and preregisters every metric from the supplied modules.
// Duplicate names across modules are an error.
func NewRegistry(o *Options, modules ...Module) (Registry, error) {
	r := &registry{
		Registry:  o.registry(),
		namespace: o.namespace(),
		subsystem: o.subsystem(),
		cache:     make(map[string]prometheus.Collector),
	}

	for _, module := range modules {
		for _, m := range module() {
			if _, ok := r.cache[m.Name]; ok {
				return nil, fmt.Errorf("duplicate metric with name: %s", m.Name)
			}

			if len(m.Namespace) == 0 {
				m.Namespace = r.namespace
			}

			if len(m.Subsystem) == 0 {
				m.Subsystem = r.subsystem
			}

			c, err := NewCollector(m)
			if err != nil {
				return nil, err
			}

			if err := r.Registry.Register(c); err != nil {
				return nil, fmt.Errorf("error while preregistering metric %s: %w", m.Name, err)
			}

			r.cache[m.Name] = c
		}
	}

	return r, nil
}

// adhoc returns the cached collector for name, creating and registering it via create if necessary
func (r *registry) adhoc(name string, create func(Metric) prometheus.Collector, kind string) prometheus.Collector {
	r.lock.Lock()
	defer r.lock.Unlock()

	if existing, ok := r.cache[name]; ok {
		return existing
	}

	c := create(Metric{Name: name, Namespace: r.namespace, Subsystem: r.subsystem, Help: name})
	if err := r.Registry.Register(c); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			panic(fmt.Errorf("unable to register %s %s: %w", kind, name, err))
		}

		c = already.ExistingCollector
	}

	r.cache[name] = c
	return c
}

func (r *registry) NewCounterVec(name string) *prometheus.CounterVec {
	c := r.adhoc(name, func(m Metric) prometheus.Collector {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.Namespace, Subsystem: m.Subsystem, Name: m.Name, Help: m.Help,
		}, []string{})
	}, CounterType)

	counterVec, ok := c.(*prometheus.CounterVec)
	if !ok {
		panic(fmt.Errorf("the metric %s is not a counter", name))
	}

	return counterVec
}

func (r *registry) NewCounter(name string) metrics.Counter {
	return gokitprometheus.NewCounter(r.NewCounterVec(name))
}

func (r *registry) NewGaugeVec(name string) *prometheus.GaugeVec {
	c := r.adhoc(name, func(m Metric) prometheus.Collector {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: m.Namespace, Subsystem: m.Subsystem, Name: m.Name, Help: m.Help,
		}, []string{})
	}, GaugeType)

	gaugeVec, ok := c.(*prometheus.GaugeVec)
	if !ok {
		panic(fmt.Errorf("the metric %s is not a gauge", name))
	}

	return gaugeVec
}

func (r *registry) NewGauge(name string) metrics.Gauge {
	return gokitprometheus.NewGauge(r.NewGaugeVec(name))
}

func (r *registry) NewHistogramVec(name string) *prometheus.HistogramVec {
	c := r.adhoc(name, func(m Metric) prometheus.Collector {
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: m.Namespace, Subsystem: m.Subsystem, Name: m.Name, Help: m.Help,
		}, []string{})
	}, HistogramType)

	histogramVec, ok := c.(*prometheus.HistogramVec)
	if !ok {
		panic(fmt.Errorf("the metric %s is not a histogram", name))
	}

	return histogramVec
}

// NewHistogram returns a go-kit histogram.  The buckets parameter is ignored: buckets come from
// the preregistered Metric, or the Prometheus defaults for ad hoc histograms.
func (r *registry) NewHistogram(name string, _ int) metrics.Histogram {
	return gokitprometheus.NewHistogram(r.NewHistogramVec(name))
}

// Stop is a nop, as Prometheus metrics need no cleanup
func (r *registry) Stop() {}
