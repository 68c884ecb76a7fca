// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memengine

import (
	"github.com/duckvec/duckvec/internal/base"
	"github.com/prometheus/client_golang/prometheus"
)

// Options holds the optional parameters for an Engine.
type Options struct {
	// BoolWidth is the storage width in bytes of BOOLEAN cells: 1, 2, 4 or 8.
	// The default is 1.
	BoolWidth int

	// HeapBlockSize is the size of each block of the out-of-line string heap.
	// Payloads larger than a block get a block of their own. The default is
	// 64 KiB.
	HeapBlockSize int

	// Logger is used to log list child resizes and heap growth when Verbose is
	// set. The default is base.DefaultLogger.
	Logger base.Logger

	// Verbose enables logging of resizes and heap growth.
	Verbose bool

	// Metrics receives engine metrics. The default is a fresh set from
	// NewMetrics, which is not registered anywhere.
	Metrics *Metrics
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified. Returns the new options.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.BoolWidth <= 0 {
		o.BoolWidth = 1
	}
	if o.HeapBlockSize <= 0 {
		o.HeapBlockSize = 64 << 10
	}
	if o.Logger == nil {
		o.Logger = base.DefaultLogger{}
	}
	if o.Metrics == nil {
		o.Metrics = NewMetrics()
	}
	return o
}

// Metrics holds the engine's prometheus metrics.
type Metrics struct {
	// StringAssignments counts AssignStringElement calls.
	StringAssignments prometheus.Counter
	// HeapDedupHits counts out-of-line payloads that reused an identical
	// stored payload.
	HeapDedupHits prometheus.Counter
	// HeapBytes is the number of payload bytes in the string heap.
	HeapBytes prometheus.Gauge
	// ListResizes counts SetListSize calls that grew a list child.
	ListResizes prometheus.Counter
	// PayloadSize observes the length of every assigned string payload.
	PayloadSize prometheus.Histogram
}

// NewMetrics returns a new, unregistered set of metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		StringAssignments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "duckvec",
			Subsystem: "memengine",
			Name:      "string_assignments_total",
			Help:      "Number of string_t cells assigned.",
		}),
		HeapDedupHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "duckvec",
			Subsystem: "memengine",
			Name:      "heap_dedup_hits_total",
			Help:      "Number of out-of-line payloads that reused a stored copy.",
		}),
		HeapBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "duckvec",
			Subsystem: "memengine",
			Name:      "heap_bytes",
			Help:      "Payload bytes stored in the string heap.",
		}),
		ListResizes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "duckvec",
			Subsystem: "memengine",
			Name:      "list_resizes_total",
			Help:      "Number of list child vectors grown.",
		}),
		PayloadSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "duckvec",
			Subsystem: "memengine",
			Name:      "payload_size_bytes",
			Help:      "Length of assigned string payloads.",
			Buckets:   prometheus.ExponentialBuckets(4, 4, 8),
		}),
	}
}

// Collectors returns every metric, for registration with a
// prometheus.Registerer.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.StringAssignments, m.HeapDedupHits, m.HeapBytes, m.ListResizes, m.PayloadSize,
	}
}
