package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	oerrors "github.com/pushchain/relayer-price-oracle/priceOracle/errors"
)

const defaultTick = time.Second

// Process is a unit of periodic work: a price fetch, a strategy cycle, a cleanup.
type Process interface {
	Name() string
	Interval() time.Duration
	Run(ctx context.Context) error
}

// Loop drives one process. Every tick it checks whether the process is due,
// and runs it when more than Interval() has elapsed since the previous run
// started. A loop never runs its process concurrently with itself.
type Loop struct {
	process   Process
	tick      time.Duration
	now       func() time.Time
	lastRunAt time.Time
	fatal     error
	logger    zerolog.Logger
}

// NewLoop creates a loop checking p every tick.
func NewLoop(p Process, tick time.Duration, logger zerolog.Logger) *Loop {
	if tick <= 0 {
		tick = defaultTick
	}
	return &Loop{
		process: p,
		tick:    tick,
		now:     time.Now,
		logger: logger.With().
			Str("component", "scheduler").
			Str("process", p.Name()).
			Logger(),
	}
}

// Run ticks until ctx is cancelled. Errors and panics of the process are
// logged and never end the loop, except a configuration error that is not
// scoped to one chain, which is returned.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	l.logger.Info().Dur("interval", l.process.Interval()).Msg("loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info().Msg("loop stopped")
			return nil
		case <-ticker.C:
			l.step(ctx)
			if l.fatal != nil {
				return fmt.Errorf("process %s: %w", l.process.Name(), l.fatal)
			}
		}
	}
}

// step runs the process if it is due and reports whether it ran.
func (l *Loop) step(ctx context.Context) bool {
	now := l.now()
	if !l.lastRunAt.IsZero() && now.Sub(l.lastRunAt) <= l.process.Interval() {
		return false
	}
	l.lastRunAt = now
	l.invoke(ctx)
	return true
}

func (l *Loop) invoke(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().
				Str("panic", fmt.Sprint(r)).
				Str("stack", string(debug.Stack())).
				Msg("process panicked")
		}
	}()

	start := time.Now()
	err := l.process.Run(ctx)
	switch {
	case err == nil:
		l.logger.Debug().Dur("took", time.Since(start)).Msg("process run completed")
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		l.logger.Debug().Msg("process run cancelled")
	case oerrors.IsGlobalConfigError(err):
		l.logger.Error().Err(err).Msg("process misconfigured, stopping")
		l.fatal = err
	case oerrors.IsRetryable(err):
		l.logger.Warn().
			Err(err).
			Str("severity", string(oerrors.GetSeverity(err))).
			Dur("took", time.Since(start)).
			Msg("process run failed, retrying next cycle")
	default:
		l.logger.Error().
			Err(err).
			Str("severity", string(oerrors.GetSeverity(err))).
			Dur("took", time.Since(start)).
			Msg("process run failed")
	}
}

// Scheduler runs independent loops concurrently, one goroutine each, so a
// slow process never delays another.
type Scheduler struct {
	tick   time.Duration
	loops  []*Loop
	logger zerolog.Logger
}

// New creates a scheduler whose loops share the given tick.
func New(tick time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{tick: tick, logger: logger}
}

// Register adds a process. Must be called before Run.
func (s *Scheduler) Register(p Process) {
	s.loops = append(s.loops, NewLoop(p, s.tick, s.logger))
}

// Len returns the number of registered processes.
func (s *Scheduler) Len() int {
	return len(s.loops)
}

// Run blocks until ctx is cancelled and every loop has returned. A loop
// failing with a global configuration error stops the others.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.loops) == 0 {
		return errors.New("scheduler: no processes registered")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, loop := range s.loops {
		loop := loop
		g.Go(func() error {
			return loop.Run(gctx)
		})
	}
	return g.Wait()
}
