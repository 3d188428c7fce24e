package alerts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"solana-trade-desk/internal/observability"
)

// DefaultCooldown is the minimum gap between two alerts of the same kind.
const DefaultCooldown = 30 * time.Minute

// Notifier delivers an alert to one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, a Alert) error
}

// Dispatcher fans alerts out to notifiers, rate limited per alert kind.
type Dispatcher struct {
	notifiers []Notifier
	cooldown  time.Duration
	logger    *zap.Logger
	metrics   *observability.Metrics
	now       func() time.Time

	mu       sync.Mutex
	lastSent map[Kind]time.Time
	sent     int
}

// DispatcherOption configures Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithCooldown overrides DefaultCooldown.
func WithCooldown(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) { disp.cooldown = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) DispatcherOption {
	return func(disp *Dispatcher) { disp.logger = l }
}

// WithMetrics counts sent and suppressed alerts.
func WithMetrics(m *observability.Metrics) DispatcherOption {
	return func(disp *Dispatcher) { disp.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) DispatcherOption {
	return func(disp *Dispatcher) { disp.now = now }
}

// NewDispatcher creates a dispatcher over notifiers.
func NewDispatcher(notifiers []Notifier, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		notifiers: notifiers,
		cooldown:  DefaultCooldown,
		logger:    zap.NewNop(),
		now:       time.Now,
		lastSent:  make(map[Kind]time.Time),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.Named("alerts")
	return d
}

// Dispatch sends every alert whose kind is outside its cooldown and returns
// the number sent. Notifier errors are logged and counted, never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, alerts []Alert) int {
	sent := 0
	for _, a := range alerts {
		if !d.reserve(a.Kind) {
			d.metrics.RecordAlertsSuppressed()
			d.logger.Debug("alert suppressed by cooldown", zap.String("kind", string(a.Kind)))
			continue
		}

		d.metrics.RecordAlert(string(a.Kind))
		for _, n := range d.notifiers {
			if err := n.Notify(ctx, a); err != nil {
				d.metrics.RecordNotifyError(n.Name())
				d.logger.Error("notify failed",
					zap.String("notifier", n.Name()),
					zap.String("kind", string(a.Kind)),
					zap.Error(err))
			}
		}
		sent++
	}
	return sent
}

// Sent returns the total number of alerts dispatched.
func (d *Dispatcher) Sent() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sent
}

// reserve marks kind as sent now unless it is still cooling down.
func (d *Dispatcher) reserve(kind Kind) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if last, ok := d.lastSent[kind]; ok && now.Sub(last) < d.cooldown {
		return false
	}
	d.lastSent[kind] = now
	d.sent++
	return true
}
