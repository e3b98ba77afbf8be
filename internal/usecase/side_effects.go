package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultSideEffectTimeout = 30 * time.Second

// Outcome is the result of one best-effort side effect. It is logged and
// then dropped: a failed notification never changes the primary result.
type Outcome struct {
	Kind   string
	Target string
	Err    error
}

// SideEffects runs notifications after a primary operation has committed,
// off the request path.
type SideEffects struct {
	logger    *slog.Logger
	timeout   time.Duration
	onFailure func(Outcome)
	wg        sync.WaitGroup
}

func NewSideEffects(logger *slog.Logger) *SideEffects {
	if logger == nil {
		logger = slog.Default()
	}
	return &SideEffects{logger: logger, timeout: defaultSideEffectTimeout}
}

// OnFailure registers a hook invoked for every failed outcome.
func (s *SideEffects) OnFailure(fn func(Outcome)) {
	s.onFailure = fn
}

// Go runs fn in the background. The request context's cancellation is
// detached so the effect survives the response being written.
func (s *SideEffects) Go(ctx context.Context, kind, target string, fn func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		s.report(Outcome{Kind: kind, Target: target, Err: fn(ctx)})
	}()
}

// Wait blocks until every started side effect has finished.
func (s *SideEffects) Wait() {
	s.wg.Wait()
}

func (s *SideEffects) report(o Outcome) {
	if o.Err == nil {
		s.logger.Debug("side effect delivered", "kind", o.Kind, "target", o.Target)
		return
	}
	s.logger.Warn("side effect failed", "kind", o.Kind, "target", o.Target, "error", o.Err)
	if s.onFailure != nil {
		s.onFailure(o)
	}
}
