package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mydev-wallet/pkg/errno"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrRouterClosed = errors.New("relay router closed")

// Request 排队中的请求
type Request struct {
	ID        string
	Payload   Payload
	Submitted time.Time
}

func (r Request) Kind() Kind { return r.Payload.Kind() }

// Response 与请求一一对应，Err 非空时 Data 为 nil
type Response struct {
	ID   string
	Type string // 响应消息类型名
	Data interface{}
	Err  error
}

// Handler 处理一种 Kind 的请求
type Handler func(ctx context.Context, req Request) (interface{}, error)

// State 路由器当前状态: Idle 或 Processing
type State interface {
	isState()
}

type Idle struct{}

type Processing struct {
	Request Request
	Started time.Time
}

func (Idle) isState()       {}
func (Processing) isState() {}

type pending struct {
	ctx  context.Context
	req  Request
	resp chan Response
}

// Router 单飞 FIFO: 请求按提交顺序逐个处理，前一个返回后才开始下一个
type Router struct {
	log      *zap.Logger
	handlers [kindEnd]Handler

	mu     sync.Mutex
	queue  []*pending
	state  State
	closed bool
	wg     sync.WaitGroup

	// 每个请求处理结束后回调，用于指标
	observe func(kind Kind, d time.Duration, err error)
}

type Option func(*Router)

func WithLogger(log *zap.Logger) Option {
	return func(r *Router) {
		if log != nil {
			r.log = log
		}
	}
}

func WithObserver(fn func(kind Kind, d time.Duration, err error)) Option {
	return func(r *Router) { r.observe = fn }
}

func NewRouter(opts ...Option) *Router {
	r := &Router{
		log:   zap.NewNop(),
		state: Idle{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle 注册处理函数，同一 Kind 重复注册会覆盖
func (r *Router) Handle(kind Kind, h Handler) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown request kind %d", errno.ErrInvalidRequest, uint8(kind))
	}
	if h == nil {
		return fmt.Errorf("%w: nil handler for %s", errno.ErrInvalidRequest, kind)
	}
	r.mu.Lock()
	r.handlers[kind] = h
	r.mu.Unlock()
	return nil
}

// Submit 校验并入队，返回只会收到一个 Response 的 channel。
// 数据不合法或没有对应处理函数时直接返回错误，不入队。
// 指针形式的 Payload 先转成值，处理函数总是按值断言。
func (r *Router) Submit(ctx context.Context, payload Payload) (Request, <-chan Response, error) {
	payload = deref(payload)
	if payload == nil || !payload.Kind().Valid() {
		return Request{}, nil, fmt.Errorf("%w: empty payload", errno.ErrInvalidRequest)
	}
	if err := payload.Validate(); err != nil {
		return Request{}, nil, err
	}

	req := Request{
		ID:        uuid.NewString(),
		Payload:   payload,
		Submitted: time.Now(),
	}
	p := &pending{ctx: ctx, req: req, resp: make(chan Response, 1)}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Request{}, nil, ErrRouterClosed
	}
	if r.handlers[payload.Kind()] == nil {
		return Request{}, nil, fmt.Errorf("%w: no handler for %s", errno.ErrRequestRejected, payload.Kind())
	}

	r.queue = append(r.queue, p)
	if _, idle := r.state.(Idle); idle {
		r.startNextLocked()
	}
	return req, p.resp, nil
}

// Do Submit 并等待结果
func (r *Router) Do(ctx context.Context, payload Payload) (interface{}, error) {
	_, ch, err := r.Submit(ctx, payload)
	if err != nil {
		return nil, err
	}
	select {
	case resp := <-ch:
		return resp.Data, resp.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// State 当前状态的快照
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Pending 排队中 (含正在处理) 的请求数
func (r *Router) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

// Close 拒绝新请求，已排队的请求收到 ErrRequestRejected，等待正在处理的请求结束
func (r *Router) Close() {
	r.mu.Lock()
	r.closed = true
	var dropped []*pending
	if len(r.queue) > 1 {
		dropped = r.queue[1:]
		r.queue = r.queue[:1]
	} else if _, idle := r.state.(Idle); idle {
		dropped = r.queue
		r.queue = nil
	}
	r.mu.Unlock()

	for _, p := range dropped {
		p.resp <- Response{ID: p.req.ID, Type: p.req.Kind().ResponseType(), Err: errno.ErrRequestRejected}
	}
	r.wg.Wait()
}

// startNextLocked 调用方持有 r.mu
func (r *Router) startNextLocked() {
	if len(r.queue) == 0 {
		r.state = Idle{}
		return
	}
	p := r.queue[0]
	r.state = Processing{Request: p.req, Started: time.Now()}
	r.wg.Add(1)
	go r.process(p, r.handlers[p.req.Kind()])
}

func (r *Router) process(p *pending, h Handler) {
	defer r.wg.Done()

	kind := p.req.Kind()
	start := time.Now()
	resp := Response{ID: p.req.ID, Type: kind.ResponseType()}

	if err := p.ctx.Err(); err != nil {
		// 提交方已放弃
		resp.Err = err
	} else {
		resp.Data, resp.Err = r.invoke(p.ctx, h, p.req)
	}

	elapsed := time.Since(start)
	if resp.Err != nil {
		r.log.Warn("relay request failed",
			zap.String("id", p.req.ID),
			zap.Stringer("kind", kind),
			zap.Duration("elapsed", elapsed),
			zap.Error(resp.Err),
		)
	} else {
		r.log.Debug("relay request done",
			zap.String("id", p.req.ID),
			zap.Stringer("kind", kind),
			zap.Duration("elapsed", elapsed),
		)
	}
	if r.observe != nil {
		r.observe(kind, elapsed, resp.Err)
	}
	p.resp <- resp

	r.mu.Lock()
	r.queue = r.queue[1:]
	r.startNextLocked()
	r.mu.Unlock()
}

func (r *Router) invoke(ctx context.Context, h Handler, req Request) (data interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: handler panic: %v", errno.InternalServerError, rec)
		}
	}()
	return h(ctx, req)
}
