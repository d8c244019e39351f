package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sugawarayuuta/sonnet"

	"github.com/geo-dev/geo/internal/errors"
	"github.com/geo-dev/geo/pkg/router"
)

// LivePage is a rendered page sent to the client.
type LivePage struct {
	Title  string
	HTML   string
	Status int
}

// LiveRenderer renders navigation results for the live endpoint.
type LiveRenderer interface {
	// RenderNavigation waits for the navigation's view and renders it.
	RenderNavigation(ctx context.Context, nav *router.Navigation) (LivePage, error)

	// RenderError renders the page shown for a failed navigation.
	RenderError(ctx context.Context, path string, err error) LivePage
}

// LiveObserver receives live navigation metrics.
type LiveObserver interface {
	ObserveNavigation(route string, err error)
	ConnOpened()
	ConnClosed()
	RecordWebSocketError(errorType string)
}

// Message types.
const (
	msgNavigate = "navigate"
	msgPing     = "ping"
	msgPage     = "page"
	msgError    = "error"
	msgPong     = "pong"
)

type liveRequest struct {
	Type    string            `json:"type"`
	Seq     uint64            `json:"seq"`
	Href    string            `json:"href,omitempty"`
	Name    string            `json:"name,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
	Replace bool              `json:"replace,omitempty"`
}

type liveResponse struct {
	Type    string            `json:"type"`
	Seq     uint64            `json:"seq"`
	Name    string            `json:"name,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
	Href    string            `json:"href,omitempty"`
	Title   string            `json:"title,omitempty"`
	HTML    string            `json:"html,omitempty"`
	Status  int               `json:"status,omitempty"`
	Replace bool              `json:"replace,omitempty"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
}

// LiveHandler serves live navigation over WebSocket.
type LiveHandler struct {
	navigator *router.Navigator
	renderer  LiveRenderer
	observer  LiveObserver
	config    LiveConfig
	upgrader  websocket.Upgrader
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// LiveOption configures a LiveHandler.
type LiveOption func(*LiveHandler)

// WithLiveConfig replaces the connection settings.
func WithLiveConfig(c LiveConfig) LiveOption {
	return func(h *LiveHandler) { h.config = c }
}

// WithLiveObserver sets the metrics observer.
func WithLiveObserver(o LiveObserver) LiveOption {
	return func(h *LiveHandler) { h.observer = o }
}

// WithLiveLogger sets the logger.
func WithLiveLogger(l *slog.Logger) LiveOption {
	return func(h *LiveHandler) { h.logger = l }
}

// NewLiveHandler creates a live navigation endpoint.
func NewLiveHandler(nav *router.Navigator, renderer LiveRenderer, opts ...LiveOption) *LiveHandler {
	h := &LiveHandler{
		navigator: nav,
		renderer:  renderer,
		config:    DefaultLiveConfig(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "live")
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 16 * 1024,
		CheckOrigin:     h.config.CheckOrigin,
	}
	h.ctx, h.cancel = context.WithCancel(context.Background())
	return h
}

// Shutdown closes every open connection.
func (h *LiveHandler) Shutdown() {
	h.cancel()
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		h.recordError("upgrade")
		return
	}

	ctx, cancel := context.WithCancel(h.ctx)
	c := &liveConn{
		h:      h,
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
	}
	if h.observer != nil {
		h.observer.ConnOpened()
	}
	c.run()
}

func (h *LiveHandler) recordError(kind string) {
	if h.observer != nil {
		h.observer.RecordWebSocketError(kind)
	}
}

// liveConn is one client connection.
type liveConn struct {
	h      *LiveHandler
	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc

	writeMu   sync.Mutex
	latest    atomic.Uint64
	navCancel context.CancelFunc
	wg        sync.WaitGroup
}

func (c *liveConn) run() {
	defer c.close()

	cfg := c.h.config
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	go c.heartbeat()
	go func() {
		<-c.ctx.Done()
		// unblocks ReadMessage on shutdown
		c.conn.SetReadDeadline(time.Now())
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) && c.ctx.Err() == nil {
				c.h.logger.Warn("read error", "error", err)
				c.h.recordError("read")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		var req liveRequest
		if err := sonnet.Unmarshal(msg, &req); err != nil {
			c.h.recordError("decode")
			c.write(liveResponse{Type: msgError, Code: "bad_request", Message: "malformed message", Status: http.StatusBadRequest})
			continue
		}

		switch req.Type {
		case msgNavigate:
			c.navigate(req)
		case msgPing:
			c.write(liveResponse{Type: msgPong, Seq: req.Seq})
		default:
			c.write(liveResponse{Type: msgError, Seq: req.Seq, Code: "bad_request", Message: "unknown message type " + req.Type, Status: http.StatusBadRequest})
		}
	}
}

// navigate supersedes any in-flight navigation and resolves req in the
// background.
func (c *liveConn) navigate(req liveRequest) {
	if c.navCancel != nil {
		c.navCancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.navCancel = cancel
	c.latest.Store(req.Seq)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		resp, ok := c.resolve(ctx, req)
		if !ok {
			return
		}
		c.writeIfCurrent(ctx, req.Seq, resp)
	}()
}

// resolve navigates and renders. It reports false when the navigation was
// abandoned.
func (c *liveConn) resolve(ctx context.Context, req liveRequest) (liveResponse, bool) {
	h := c.h
	history := h.navigator.Table().History()

	var (
		target router.Target
		path   string
	)
	if req.Name != "" {
		target = router.To(req.Name, req.Params)
		path = req.Name
	} else {
		p, ok := history.Location(req.Href)
		if !ok {
			err := errors.New("E100").WithDetailf("%q is outside %s", req.Href, history.Base()).Wrap(router.ErrNoRoute)
			return c.failure(ctx, req, req.Href, err), true
		}
		target = router.At(p)
		path = p
	}

	var opts []router.NavigateOption
	if req.Replace {
		opts = append(opts, router.WithReplace())
	}
	nav, err := h.navigator.Navigate(ctx, target, opts...)
	if err != nil {
		if ctx.Err() != nil {
			return liveResponse{}, false
		}
		return c.failure(ctx, req, path, err), true
	}

	page, err := h.renderer.RenderNavigation(ctx, nav)
	if err != nil {
		if ctx.Err() != nil {
			return liveResponse{}, false
		}
		return c.failure(ctx, req, path, err), true
	}
	name := nav.Match.Entry.Name
	if h.observer != nil {
		h.observer.ObserveNavigation(name, nil)
	}
	status := page.Status
	if status == 0 {
		status = http.StatusOK
	}
	return liveResponse{
		Type:    msgPage,
		Seq:     req.Seq,
		Name:    name,
		Params:  nav.Match.Params,
		Href:    nav.Href,
		Title:   page.Title,
		HTML:    page.HTML,
		Status:  status,
		Replace: nav.Replace,
	}, true
}

func (c *liveConn) failure(ctx context.Context, req liveRequest, path string, err error) liveResponse {
	h := c.h
	if h.observer != nil {
		h.observer.ObserveNavigation("", err)
	}
	page := h.renderer.RenderError(ctx, path, err)
	status := page.Status
	if status == 0 {
		status = http.StatusInternalServerError
		if stderrors.Is(err, router.ErrNoRoute) {
			status = http.StatusNotFound
		}
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("navigation failed", "path", path, "error", err)
	}
	return liveResponse{
		Type:    msgError,
		Seq:     req.Seq,
		Href:    req.Href,
		Title:   page.Title,
		HTML:    page.HTML,
		Status:  status,
		Replace: req.Replace,
		Code:    errors.Code(err),
		Message: err.Error(),
	}
}

func (c *liveConn) writeIfCurrent(ctx context.Context, seq uint64, resp liveResponse) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if ctx.Err() != nil || c.latest.Load() != seq {
		return
	}
	c.writeLocked(resp)
}

func (c *liveConn) write(resp liveResponse) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.writeLocked(resp)
}

func (c *liveConn) writeLocked(resp liveResponse) {
	data, err := sonnet.Marshal(resp)
	if err != nil {
		c.h.logger.Error("encode message", "error", err)
		return
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.h.config.WriteTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.h.recordError("write")
		c.cancel()
	}
}

func (c *liveConn) heartbeat() {
	interval := c.h.config.HeartbeatInterval
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(c.h.config.WriteTimeout)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.cancel()
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *liveConn) close() {
	c.cancel()
	c.wg.Wait()
	c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.conn.Close()
	if c.h.observer != nil {
		c.h.observer.ConnClosed()
	}
}
