package runtime

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/eigerco/txcore/internal/fee"
)

// Metrics tracks finalized blocks. A nil *Metrics records nothing.
type Metrics struct {
	multiplier prometheus.Gauge
	fullness   prometheus.Gauge
	finalized  prometheus.Counter
}

func NewMetrics(namespace string, registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		multiplier: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fee_multiplier",
			Help:      "Fee multiplier applying to the next block",
		}),
		fullness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "block_fullness",
			Help:      "Weight fullness of the last finalized block, from 0 to 1",
		}),
		finalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_finalized",
			Help:      "Number of blocks finalized",
		}),
	}
	err := errors.Join(
		registerer.Register(m.multiplier),
		registerer.Register(m.fullness),
		registerer.Register(m.finalized),
	)
	return m, err
}

func (m *Metrics) blockFinalized(fullness fee.Perbill, next fee.Multiplier) {
	if m == nil {
		return
	}
	m.finalized.Inc()
	m.fullness.Set(float64(fullness) / fee.PerbillAccuracy)
	m.multiplier.Set(float64(next) / float64(fee.Accuracy))
}
