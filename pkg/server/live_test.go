package server

import (
	"context"
	stderrors "errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sugawarayuuta/sonnet"

	"github.com/geo-dev/geo/pkg/router"
	"github.com/geo-dev/geo/pkg/vdom"
	"github.com/geo-dev/geo/pkg/view"
)

// textRenderer renders pages as their text content.
type textRenderer struct {
	table *router.Table
}

func (r textRenderer) RenderNavigation(ctx context.Context, nav *router.Navigation) (LivePage, error) {
	page, err := nav.Future.Wait(ctx)
	if err != nil {
		return LivePage{}, err
	}
	vc := view.NewCtx(ctx, nav.Match.Entry.Name, nav.Match.Params, nav.Match.Query, r.table)
	node, err := page(vc)
	if err != nil {
		return LivePage{}, err
	}
	return LivePage{Title: nav.Match.Entry.Title, HTML: node.TextContent(), Status: vc.Status()}, nil
}

func (r textRenderer) RenderError(_ context.Context, path string, err error) LivePage {
	if stderrors.Is(err, router.ErrNoRoute) {
		return LivePage{Title: "Not Found", HTML: "missing " + path, Status: 404}
	}
	return LivePage{Title: "Error", HTML: err.Error(), Status: 500}
}

type recordingObserver struct {
	mu      sync.Mutex
	navs    []string
	opened  int
	closed  int
	wsError []string
}

func (o *recordingObserver) ObserveNavigation(route string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		route = "error"
	}
	o.navs = append(o.navs, route)
}

func (o *recordingObserver) ConnOpened() {
	o.mu.Lock()
	o.opened++
	o.mu.Unlock()
}

func (o *recordingObserver) ConnClosed() {
	o.mu.Lock()
	o.closed++
	o.mu.Unlock()
}

func (o *recordingObserver) RecordWebSocketError(kind string) {
	o.mu.Lock()
	o.wsError = append(o.wsError, kind)
	o.mu.Unlock()
}

func textPage(s string) view.Loader {
	return view.Of(func(c *view.Ctx) (*vdom.VNode, error) {
		return vdom.Text(s + c.Param("id")), nil
	})
}

type liveFixture struct {
	conn     *websocket.Conn
	handler  *LiveHandler
	observer *recordingObserver
	release  chan struct{}
}

func newLiveFixture(t *testing.T) *liveFixture {
	t.Helper()
	release := make(chan struct{})
	table, err := router.New(router.NewWebHistory("/console/"),
		router.Entry{Path: "/", Name: "home", Title: "Home", Load: textPage("home")},
		router.Entry{Path: "/prompts", Name: "prompts", Title: "Prompts", Load: textPage("prompts")},
		router.Entry{Path: "/articles/edit/:id", Name: "article-edit", Title: "Edit", Load: textPage("edit ")},
		router.Entry{Path: "/slow", Name: "slow", Title: "Slow", Load: func(ctx context.Context) (view.Page, error) {
			<-release
			return func(*view.Ctx) (*vdom.VNode, error) { return vdom.Text("slow"), nil }, nil
		}},
	)
	if err != nil {
		t.Fatalf("router.New() error = %v", err)
	}

	obs := &recordingObserver{}
	h := NewLiveHandler(router.NewNavigator(table), textRenderer{table: table}, WithLiveObserver(obs))
	srv := httptest.NewServer(h)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		close(release)
		h.Shutdown()
		srv.Close()
	})
	return &liveFixture{conn: conn, handler: h, observer: obs, release: release}
}

func (f *liveFixture) send(t *testing.T, req liveRequest) {
	t.Helper()
	data, err := sonnet.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := f.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func (f *liveFixture) recv(t *testing.T) liveResponse {
	t.Helper()
	f.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := f.conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var resp liveResponse
	if err := sonnet.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	return resp
}

func TestLiveNavigateByHref(t *testing.T) {
	f := newLiveFixture(t)

	f.send(t, liveRequest{Type: "navigate", Seq: 1, Href: "/console/articles/edit/42/"})
	resp := f.recv(t)

	if resp.Type != "page" || resp.Seq != 1 {
		t.Fatalf("resp = %+v, want page seq 1", resp)
	}
	if resp.Name != "article-edit" || resp.Params["id"] != "42" {
		t.Errorf("route = %s %v", resp.Name, resp.Params)
	}
	if resp.Href != "/console/articles/edit/42" {
		t.Errorf("Href = %q, want canonical", resp.Href)
	}
	if resp.HTML != "edit 42" || resp.Title != "Edit" || resp.Status != 200 {
		t.Errorf("page = %q %q %d", resp.HTML, resp.Title, resp.Status)
	}
}

func TestLiveNavigateByName(t *testing.T) {
	f := newLiveFixture(t)

	f.send(t, liveRequest{Type: "navigate", Seq: 7, Name: "prompts", Replace: true})
	resp := f.recv(t)

	if resp.Type != "page" || resp.Seq != 7 || resp.Name != "prompts" {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Href != "/console/prompts" || !resp.Replace {
		t.Errorf("Href = %q Replace = %v", resp.Href, resp.Replace)
	}
}

func TestLiveNavigateNotFound(t *testing.T) {
	f := newLiveFixture(t)

	tests := []struct {
		name string
		req  liveRequest
	}{
		{"undeclared path", liveRequest{Type: "navigate", Seq: 1, Href: "/console/promts"}},
		{"edit without id", liveRequest{Type: "navigate", Seq: 2, Href: "/console/articles/edit/"}},
		{"outside base", liveRequest{Type: "navigate", Seq: 3, Href: "/elsewhere"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f.send(t, tc.req)
			resp := f.recv(t)
			if resp.Type != "error" || resp.Seq != tc.req.Seq {
				t.Fatalf("resp = %+v, want error seq %d", resp, tc.req.Seq)
			}
			if resp.Status != 404 || resp.Code != "E100" {
				t.Errorf("status = %d code = %q, want 404 E100", resp.Status, resp.Code)
			}
			if resp.Title != "Not Found" {
				t.Errorf("Title = %q", resp.Title)
			}
		})
	}
}

func TestLiveSupersededNavigationIsDropped(t *testing.T) {
	f := newLiveFixture(t)

	f.send(t, liveRequest{Type: "navigate", Seq: 1, Href: "/console/slow"})
	f.send(t, liveRequest{Type: "navigate", Seq: 2, Href: "/console/"})
	f.send(t, liveRequest{Type: "ping", Seq: 3})

	got := map[uint64]string{}
	for i := 0; i < 2; i++ {
		resp := f.recv(t)
		got[resp.Seq] = resp.Type
	}
	if got[2] != "page" || got[3] != "pong" {
		t.Errorf("responses = %v, want page for 2 and pong for 3", got)
	}
	if _, ok := got[1]; ok {
		t.Error("superseded navigation was delivered")
	}

	// Nothing else is pending once the superseded load settles.
	f.send(t, liveRequest{Type: "ping", Seq: 4})
	if resp := f.recv(t); resp.Seq != 4 || resp.Type != "pong" {
		t.Errorf("resp = %+v, want pong 4", resp)
	}
}

func TestLiveBadMessages(t *testing.T) {
	f := newLiveFixture(t)

	if err := f.conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if resp := f.recv(t); resp.Type != "error" || resp.Code != "bad_request" {
		t.Errorf("resp = %+v, want bad_request", resp)
	}

	f.send(t, liveRequest{Type: "teleport", Seq: 9})
	if resp := f.recv(t); resp.Type != "error" || resp.Seq != 9 || resp.Status != 400 {
		t.Errorf("resp = %+v, want 400 for seq 9", resp)
	}
}

func TestLiveObserver(t *testing.T) {
	f := newLiveFixture(t)

	f.send(t, liveRequest{Type: "navigate", Seq: 1, Href: "/console/prompts"})
	f.recv(t)
	f.send(t, liveRequest{Type: "navigate", Seq: 2, Href: "/console/nope"})
	f.recv(t)

	f.observer.mu.Lock()
	navs := append([]string(nil), f.observer.navs...)
	opened := f.observer.opened
	f.observer.mu.Unlock()

	if opened != 1 {
		t.Errorf("opened = %d, want 1", opened)
	}
	if len(navs) != 2 || navs[0] != "prompts" || navs[1] != "error" {
		t.Errorf("navs = %v", navs)
	}
}

func TestLiveShutdownClosesConnections(t *testing.T) {
	f := newLiveFixture(t)

	f.send(t, liveRequest{Type: "ping", Seq: 1})
	f.recv(t)

	f.handler.Shutdown()
	f.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := f.conn.ReadMessage()
	if err == nil {
		t.Fatal("ReadMessage() succeeded after shutdown")
	}
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("err = %v, want normal closure", err)
	}
}
