// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package system

import (
	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/kernel"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the prometheus collectors updated by MetricsModules. They are
// shared by all transactions of a processor.
type Metrics struct {
	invocations        *prometheus.CounterVec
	substateOperations *prometheus.CounterVec
	createdNodes       prometheus.Counter
	droppedNodes       prometheus.Counter
	callDepth          prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with the given
// registerer, if any.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	res := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "keel",
			Subsystem: "system",
			Name:      "invocations_total",
			Help:      "Number of invocations by blueprint and function.",
		}, []string{"blueprint", "ident"}),
		substateOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "keel",
			Subsystem: "system",
			Name:      "substate_operations_total",
			Help:      "Number of substate operations by kind.",
		}, []string{"kind"}),
		createdNodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "keel",
			Subsystem: "system",
			Name:      "created_nodes_total",
			Help:      "Number of nodes created.",
		}),
		droppedNodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "keel",
			Subsystem: "system",
			Name:      "dropped_nodes_total",
			Help:      "Number of nodes dropped.",
		}),
		callDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "keel",
			Subsystem: "system",
			Name:      "call_depth",
			Help:      "Depth of the pushed call frames.",
			Buckets:   prometheus.LinearBuckets(1, 1, kernel.DefaultMaxCallDepth),
		}),
	}
	if registerer == nil {
		return res, nil
	}
	for _, collector := range []prometheus.Collector{
		res.invocations,
		res.substateOperations,
		res.createdNodes,
		res.droppedNodes,
		res.callDepth,
	} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// MetricsModule reports the activity of a transaction to a set of shared
// prometheus collectors.
type MetricsModule struct {
	BaseModule
	metrics *Metrics
}

func NewMetricsModule(metrics *Metrics) *MetricsModule {
	return &MetricsModule{metrics: metrics}
}

func (m *MetricsModule) Name() string {
	return "metrics"
}

func (m *MetricsModule) BeforePushFrame(actor keel.Actor, _ keel.IndexedValue, api kernel.InternalApi) error {
	m.metrics.invocations.WithLabelValues(actor.Blueprint, actor.Ident).Inc()
	m.metrics.callDepth.Observe(float64(api.Depth() + 1))
	return nil
}

func (m *MetricsModule) OnCreateNode(kernel.CreateNodeEvent, kernel.InternalApi) error {
	m.metrics.createdNodes.Inc()
	return nil
}

func (m *MetricsModule) OnDropNode(kernel.DropNodeEvent, kernel.InternalApi) error {
	m.metrics.droppedNodes.Inc()
	return nil
}

func (m *MetricsModule) OnOpenSubstate(kernel.OpenSubstateEvent, kernel.InternalApi) error {
	m.metrics.substateOperations.WithLabelValues("open").Inc()
	return nil
}

func (m *MetricsModule) OnWriteSubstate(kernel.WriteSubstateEvent, kernel.InternalApi) error {
	m.metrics.substateOperations.WithLabelValues("write").Inc()
	return nil
}

func (m *MetricsModule) OnSubstateOperation(event kernel.SubstateOperationEvent, _ kernel.InternalApi) error {
	m.metrics.substateOperations.WithLabelValues(event.Kind.String()).Inc()
	return nil
}
