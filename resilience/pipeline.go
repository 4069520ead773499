package resilience

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonwraymond/callguard/observe"
)

// RequestInterceptor runs before the operation. It may return a replacement
// Call; returning nil keeps the current one.
type RequestInterceptor func(ctx context.Context, call *Call) (*Call, error)

// ResponseInterceptor runs after a successful operation and may transform the
// result value.
type ResponseInterceptor func(ctx context.Context, call *Call, value any) (any, error)

// ErrorInterceptor runs after a failed attempt. It is side-effecting only;
// nothing it does changes the outcome of the guarded call.
type ErrorInterceptor func(ctx context.Context, call *Call, err error)

// Handle identifies a registered interceptor for removal.
type Handle int64

// Pipeline holds the three ordered interceptor chains. Registration order is
// application order; duplicates are permitted. A failing or panicking
// interceptor is logged and skipped, never escalated.
type Pipeline struct {
	mu     sync.Mutex
	nextID Handle
	logger observe.Logger

	request  []entry[RequestInterceptor]
	response []entry[ResponseInterceptor]
	errs     []entry[ErrorInterceptor]
}

type entry[T any] struct {
	id Handle
	fn T
}

// NewPipeline creates an empty pipeline. A nil logger discards warnings.
func NewPipeline(logger observe.Logger) *Pipeline {
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &Pipeline{logger: logger}
}

// OnRequest appends a request interceptor and returns its handle.
func (p *Pipeline) OnRequest(fn RequestInterceptor) Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	p.request = append(p.request, entry[RequestInterceptor]{id: p.nextID, fn: fn})
	return p.nextID
}

// OnResponse appends a response interceptor and returns its handle.
func (p *Pipeline) OnResponse(fn ResponseInterceptor) Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	p.response = append(p.response, entry[ResponseInterceptor]{id: p.nextID, fn: fn})
	return p.nextID
}

// OnError appends an error interceptor and returns its handle.
func (p *Pipeline) OnError(fn ErrorInterceptor) Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	p.errs = append(p.errs, entry[ErrorInterceptor]{id: p.nextID, fn: fn})
	return p.nextID
}

// Remove unregisters the interceptor with the given handle. It reports
// whether anything was removed.
func (p *Pipeline) Remove(h Handle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if removed, rest := removeEntry(p.request, h); removed {
		p.request = rest
		return true
	}
	if removed, rest := removeEntry(p.response, h); removed {
		p.response = rest
		return true
	}
	if removed, rest := removeEntry(p.errs, h); removed {
		p.errs = rest
		return true
	}
	return false
}

func removeEntry[T any](entries []entry[T], h Handle) (bool, []entry[T]) {
	for i, e := range entries {
		if e.id == h {
			return true, append(entries[:i:i], entries[i+1:]...)
		}
	}
	return false, entries
}

// applyRequest runs the request chain. Interceptor failures skip that
// interceptor with a warning; a replacement Call propagates to the rest of
// the chain.
func (p *Pipeline) applyRequest(ctx context.Context, call *Call) *Call {
	p.mu.Lock()
	chain := append([]entry[RequestInterceptor](nil), p.request...)
	p.mu.Unlock()

	for _, e := range chain {
		next, err := p.safeRequest(ctx, e.fn, call)
		if err != nil {
			p.logger.Warn(ctx, "request interceptor failed, skipping",
				observe.Field{Key: "call.api", Value: call.API},
				observe.Field{Key: "error", Value: err.Error()},
			)
			continue
		}
		if next != nil {
			call = next
		}
	}
	return call
}

// applyResponse runs the response chain. A failing interceptor keeps the
// previous value.
func (p *Pipeline) applyResponse(ctx context.Context, call *Call, value any) any {
	p.mu.Lock()
	chain := append([]entry[ResponseInterceptor](nil), p.response...)
	p.mu.Unlock()

	for _, e := range chain {
		next, err := p.safeResponse(ctx, e.fn, call, value)
		if err != nil {
			p.logger.Warn(ctx, "response interceptor failed, keeping previous value",
				observe.Field{Key: "call.api", Value: call.API},
				observe.Field{Key: "error", Value: err.Error()},
			)
			continue
		}
		value = next
	}
	return value
}

// applyError runs the error chain. Interceptor failures are swallowed.
func (p *Pipeline) applyError(ctx context.Context, call *Call, callErr error) {
	p.mu.Lock()
	chain := append([]entry[ErrorInterceptor](nil), p.errs...)
	p.mu.Unlock()

	for _, e := range chain {
		if err := p.safeError(ctx, e.fn, call, callErr); err != nil {
			p.logger.Warn(ctx, "error interceptor failed",
				observe.Field{Key: "call.api", Value: call.API},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
	}
}

func (p *Pipeline) safeRequest(ctx context.Context, fn RequestInterceptor, call *Call) (next *Call, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, err = nil, fmt.Errorf("interceptor panic: %v", r)
		}
	}()
	return fn(ctx, call)
}

func (p *Pipeline) safeResponse(ctx context.Context, fn ResponseInterceptor, call *Call, value any) (next any, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, err = nil, fmt.Errorf("interceptor panic: %v", r)
		}
	}()
	return fn(ctx, call, value)
}

func (p *Pipeline) safeError(ctx context.Context, fn ErrorInterceptor, call *Call, callErr error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("interceptor panic: %v", r)
		}
	}()
	fn(ctx, call, callErr)
	return nil
}
