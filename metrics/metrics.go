// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics holds the process wide meters. Meters are no-ops until
// InitializePrometheusMetrics is called.
package metrics

import (
	"net/http"
	"sync"
)

var metrics provider = noopProvider{}

type provider interface {
	counterVec(name string, labels []string) CountVecMeter
	histogram(name string, buckets []int64) HistogramMeter
	histogramVec(name string, labels []string, buckets []int64) HistogramVecMeter
	handler() http.Handler
}

// HTTPHandler returns the http handler for retrieving metrics
func HTTPHandler() http.Handler {
	return metrics.handler()
}

var (
	BucketHTTPReqs = []int64{
		0, 1, 2, 5, 10, 20, 30, 50, 75, 100,
		150, 200, 300, 400, 500, 750, 1000,
		1500, 2000, 3000, 4000, 5000, 10000,
	}
	// BucketDays suits counts of day boundaries crossed by a weight advance.
	BucketDays = []int64{0, 1, 2, 3, 7, 14, 30, 90, 365, 1000}
)

type HistogramMeter interface {
	Observe(int64)
}

type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// CountVecMeter is a monotonically increasing counter split by labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// lazyLoad defers creating a meter to its first use, so package level meters
// bind to whichever provider is installed by then.
func lazyLoad[T any](f func() T) func() T {
	var result T
	var once sync.Once
	return func() T {
		once.Do(func() {
			result = f()
		})
		return result
	}
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return lazyLoad(func() HistogramMeter {
		return metrics.histogram(name, buckets)
	})
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return lazyLoad(func() HistogramVecMeter {
		return metrics.histogramVec(name, labels, buckets)
	})
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return lazyLoad(func() CountVecMeter {
		return metrics.counterVec(name, labels)
	})
}

type noopProvider struct{}

type noopMeter struct{}

func (noopProvider) counterVec(string, []string) CountVecMeter { return noopMeter{} }
func (noopProvider) histogram(string, []int64) HistogramMeter  { return noopMeter{} }
func (noopProvider) histogramVec(string, []string, []int64) HistogramVecMeter {
	return noopMeter{}
}
func (noopProvider) handler() http.Handler { return http.NotFoundHandler() }

func (noopMeter) AddWithLabel(int64, map[string]string)      {}
func (noopMeter) Observe(int64)                              {}
func (noopMeter) ObserveWithLabels(int64, map[string]string) {}
