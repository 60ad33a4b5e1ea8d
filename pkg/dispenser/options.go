package dispenser

import (
	"go.uber.org/zap"

	"github.com/huynhanx03/token-dispenser/pkg/timer"
)

type Option func(*Dispenser)

// WithTimer sets the clock used to stamp tokens.
func WithTimer(t timer.Timer) Option {
	return func(d *Dispenser) { d.clock = t }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispenser) { d.logger = l }
}

// WithObserver registers observers notified after every issue or serve attempt.
func WithObserver(obs ...Observer) Option {
	return func(d *Dispenser) { d.observers = append(d.observers, obs...) }
}
