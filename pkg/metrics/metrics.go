package metrics

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/huynhanx03/token-dispenser/pkg/dispenser"
)

const namespace = "dispenser"

// Source is the read side the gauges sample on scrape.
type Source interface {
	WaitingCount() int
	Capacity() int
}

// Collector counts issue and serve outcomes. It is a dispenser.Observer.
type Collector struct {
	issued   prometheus.Counter
	served   prometheus.Counter
	rejected *prometheus.CounterVec
}

var _ dispenser.Observer = (*Collector)(nil)

// New registers the dispenser collectors on reg.
func New(reg prometheus.Registerer, src Source) (*Collector, error) {
	c := &Collector{
		issued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Tokens issued into the waiting list.",
		}),
		served: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_served_total",
			Help:      "Tokens removed from the waiting list and served.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Issue or serve attempts rejected, by reason.",
		}, []string{"reason"}),
	}

	waiting := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "waiting_tokens",
		Help:      "Tokens currently waiting.",
	}, func() float64 { return float64(src.WaitingCount()) })

	capacity := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "capacity",
		Help:      "Maximum number of waiting tokens.",
	}, func() float64 { return float64(src.Capacity()) })

	for _, col := range []prometheus.Collector{c.issued, c.served, c.rejected, waiting, capacity} {
		if err := reg.Register(col); err != nil {
			return nil, errors.Wrap(err, "metrics: register")
		}
	}
	return c, nil
}

// Observe implements dispenser.Observer.
func (c *Collector) Observe(_ context.Context, ev dispenser.Event) error {
	switch ev.Kind {
	case dispenser.EventIssued:
		c.issued.Inc()
	case dispenser.EventServed:
		c.served.Inc()
	case dispenser.EventRejected:
		c.rejected.WithLabelValues(reason(ev.Reason)).Inc()
	}
	return nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, dispenser.ErrQueueFull):
		return "full"
	case errors.Is(err, dispenser.ErrQueueEmpty):
		return "empty"
	default:
		return "unknown"
	}
}
