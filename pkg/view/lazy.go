package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	geoerrors "github.com/geo-dev/geo/internal/errors"
)

// DefaultLoadTimeout bounds a single load when no timeout is configured.
const DefaultLoadTimeout = 10 * time.Second

const tracerName = "github.com/geo-dev/geo/pkg/view"

// ErrNilPage is returned when a loader succeeds without producing a page.
var ErrNilPage = errors.New("loader returned a nil page")

// Observer receives the outcome of every load that actually ran.
type Observer interface {
	ObserveLoad(route string, elapsed time.Duration, err error)
}

// Lazy resolves the Page of a route on first activation.
type Lazy struct {
	name    string
	loader  Loader
	timeout time.Duration

	mu       sync.RWMutex
	sf       singleflight.Group
	page     Page
	observer Observer
	logger   *slog.Logger
}

// LazyOption configures a Lazy.
type LazyOption func(*Lazy)

// WithTimeout bounds each load. Non-positive values select DefaultLoadTimeout.
func WithTimeout(d time.Duration) LazyOption {
	return func(l *Lazy) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithObserver reports load outcomes to o.
func WithObserver(o Observer) LazyOption {
	return func(l *Lazy) {
		l.observer = o
	}
}

// NewLazy wraps loader for the named route.
func NewLazy(name string, loader Loader, opts ...LazyOption) *Lazy {
	l := &Lazy{
		name:    name,
		loader:  loader,
		timeout: DefaultLoadTimeout,
		logger:  slog.Default().With("component", "view", "route", name),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the route name the loader belongs to.
func (l *Lazy) Name() string { return l.name }

// SetObserver replaces the load observer. It must be called before the first
// activation.
func (l *Lazy) SetObserver(o Observer) {
	l.mu.Lock()
	l.observer = o
	l.mu.Unlock()
}

// Loaded reports whether the page has been loaded successfully.
func (l *Lazy) Loaded() bool {
	_, ok := l.cached()
	return ok
}

func (l *Lazy) cached() (Page, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.page, l.page != nil
}

// Start activates the route and returns a handle to the pending load.
// Values of ctx, such as the active trace span, are passed to the loader, but
// its cancellation is not.
func (l *Lazy) Start(ctx context.Context) *Future {
	f := &Future{done: make(chan struct{})}
	if page, ok := l.cached(); ok {
		f.page = page
		close(f.done)
		return f
	}

	ch := l.sf.DoChan(l.name, func() (any, error) {
		if page, ok := l.cached(); ok {
			return page, nil
		}
		return l.load(context.WithoutCancel(ctx))
	})
	go func() {
		res := <-ch
		f.page, _ = res.Val.(Page)
		f.err = res.Err
		close(f.done)
	}()
	return f
}

// Resolve activates the route and waits for its page.
func (l *Lazy) Resolve(ctx context.Context) (Page, error) {
	return l.Start(ctx).Wait(ctx)
}

func (l *Lazy) load(ctx context.Context) (Page, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "view.load")
	span.SetAttributes(attribute.String("geo.route", l.name))
	defer span.End()

	start := time.Now()
	page, err := l.loader(ctx)
	if err == nil && page == nil {
		err = ErrNilPage
	}
	elapsed := time.Since(start)

	l.mu.RLock()
	observer := l.observer
	l.mu.RUnlock()
	if observer != nil {
		observer.ObserveLoad(l.name, elapsed, err)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.logger.Warn("view load failed", "elapsed", elapsed, "error", err)
		return nil, geoerrors.New("E106").
			WithDetail(fmt.Sprintf("route %q", l.name)).
			Wrap(err)
	}

	l.mu.Lock()
	l.page = page
	l.mu.Unlock()
	l.logger.Debug("view loaded", "elapsed", elapsed)
	return page, nil
}

// Future is a handle to a pending load.
type Future struct {
	done chan struct{}
	page Page
	err  error
}

// Done is closed once the load has finished.
func (f *Future) Done() <-chan struct{} { return f.done }

// Result returns the outcome of a finished load. Before Done is closed it
// returns nil and ErrPending.
func (f *Future) Result() (Page, error) {
	select {
	case <-f.done:
		return f.page, f.err
	default:
		return nil, ErrPending
	}
}

// Wait blocks until the load finishes or ctx ends, whichever comes first.
func (f *Future) Wait(ctx context.Context) (Page, error) {
	select {
	case <-f.done:
		return f.page, f.err
	default:
	}
	select {
	case <-f.done:
		return f.page, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ErrPending is returned by Future.Result before the load has finished.
var ErrPending = errors.New("view load still pending")
