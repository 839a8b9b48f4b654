// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vechain/rewarder/log"
)

const namespace = "rewarder"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics installs the Prometheus provider. Meters that
// were already used stay bound to the noop provider.
func InitializePrometheusMetrics() {
	// don't allow for reset
	if _, ok := metrics.(*prometheusProvider); !ok {
		metrics = &prometheusProvider{}
	}
}

type prometheusProvider struct {
	meters sync.Map
}

// loadOrCreate returns the meter registered under name, creating it once.
func loadOrCreate[T any](m *sync.Map, name string, create func() T) T {
	if item, ok := m.Load(name); ok {
		return item.(T)
	}
	item, _ := m.LoadOrStore(name, create())
	return item.(T)
}

func register(c prometheus.Collector) {
	if err := prometheus.Register(c); err != nil {
		logger.Warn("unable to register metric", "err", err)
	}
}

func floatBuckets(buckets []int64) []float64 {
	if len(buckets) == 0 {
		return nil
	}
	out := make([]float64, len(buckets))
	for i, b := range buckets {
		out[i] = float64(b)
	}
	return out
}

func (p *prometheusProvider) handler() http.Handler {
	return promhttp.Handler()
}

func (p *prometheusProvider) counterVec(name string, labels []string) CountVecMeter {
	return loadOrCreate(&p.meters, name, func() CountVecMeter {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		register(vec)
		return countVec{vec}
	})
}

func (p *prometheusProvider) histogram(name string, buckets []int64) HistogramMeter {
	return loadOrCreate(&p.meters, name, func() HistogramMeter {
		h := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets(buckets),
		})
		register(h)
		return histogram{h}
	})
}

func (p *prometheusProvider) histogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return loadOrCreate(&p.meters, name, func() HistogramVecMeter {
		vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets(buckets),
		}, labels)
		register(vec)
		return histogramVec{vec}
	})
}

type countVec struct{ *prometheus.CounterVec }

func (c countVec) AddWithLabel(i int64, labels map[string]string) {
	c.With(labels).Add(float64(i))
}

type histogram struct{ prometheus.Histogram }

func (h histogram) Observe(i int64) {
	h.Histogram.Observe(float64(i))
}

type histogramVec struct{ *prometheus.HistogramVec }

func (h histogramVec) ObserveWithLabels(i int64, labels map[string]string) {
	h.With(labels).Observe(float64(i))
}
