package validation

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/eigerco/txcore/internal/fee"
)

// Metrics counts pipeline outcomes. A nil *Metrics records nothing.
type Metrics struct {
	rejections *prometheus.CounterVec
	applied    prometheus.Counter
	collected  prometheus.Counter
	burned     prometheus.Counter
}

func NewMetrics(namespace string, registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extrinsics_rejected",
			Help:      "Number of extrinsics rejected, by reason",
		}, []string{"reason"}),
		applied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extrinsics_applied",
			Help:      "Number of extrinsics applied",
		}),
		collected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fees_collected",
			Help:      "Total fees withdrawn from signers",
		}),
		burned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fees_burned",
			Help:      "Total fees burned instead of credited",
		}),
	}
	err := errors.Join(
		registerer.Register(m.rejections),
		registerer.Register(m.applied),
		registerer.Register(m.collected),
		registerer.Register(m.burned),
	)
	return m, err
}

func (m *Metrics) rejected(r Reason) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(r.String()).Inc()
}

func (m *Metrics) appliedFee(total, burned fee.Balance) {
	if m == nil {
		return
	}
	m.applied.Inc()
	m.collected.Add(float64(total))
	m.burned.Add(float64(burned))
}
