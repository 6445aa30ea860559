package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tinyland-inc/milky/pkg/bot"
	"github.com/tinyland-inc/milky/pkg/config"
	"github.com/tinyland-inc/milky/pkg/event"
)

const friendFrame = `{"event_type":"message_receive","time":1,"self_id":1001,"data":{` +
	`"message_scene":"friend","peer_id":2002,"message_seq":1,"sender_id":2002,"time":1,` +
	`"segments":[{"type":"text","data":{"text":"hi"}}]}}`

type collected struct {
	bot *bot.Bot
	ev  event.Event
}

func collector() (Handler, chan collected) {
	ch := make(chan collected, 16)
	h := HandlerFunc(func(_ context.Context, b *bot.Bot, ev event.Event) {
		ch <- collected{bot: b, ev: ev}
	})
	return h, ch
}

func waitEvent(t *testing.T, ch chan collected) collected {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return collected{}
	}
}

// eventServer upgrades /event and hands the connection to serve. The
// connection is held open until serve returns or the peer closes it.
func eventServer(t *testing.T, serve func(n int64, c *websocket.Conn)) (*httptest.Server, *int64) {
	t.Helper()
	var conns int64
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/event" {
			http.NotFound(w, r)
			return
		}
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		serve(atomic.AddInt64(&conns, 1), c)
	}))
	t.Cleanup(srv.Close)
	return srv, &conns
}

func testConfig(srvs ...*httptest.Server) *config.Config {
	cfg := &config.Config{
		Reconnect: config.ReconnectConfig{IntervalSeconds: 1},
	}
	for _, srv := range srvs {
		cfg.Clients = append(cfg.Clients, config.ClientConfig{BaseURL: srv.URL})
	}
	return cfg
}

// holdOpen blocks until the peer closes the connection.
func holdOpen(c *websocket.Conn) {
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func TestStart_NoEndpoints(t *testing.T) {
	a := New(&config.Config{}, HandlerFunc(func(context.Context, *bot.Bot, event.Event) {}))
	if err := a.Start(context.Background()); err == nil {
		t.Fatal("expected error with no endpoints")
	}
}

func TestAdapter_FirstEventBindsIdentity(t *testing.T) {
	srv, _ := eventServer(t, func(_ int64, c *websocket.Conn) {
		c.WriteMessage(websocket.TextMessage, []byte(friendFrame))
		holdOpen(c)
	})

	h, events := collector()
	a := New(testConfig(srv), h)
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Shutdown()

	got := waitEvent(t, events)
	if got.bot.SelfID() != 1001 {
		t.Errorf("self_id: got %d, want 1001", got.bot.SelfID())
	}
	fe, ok := got.ev.(*event.FriendMessageEvent)
	if !ok {
		t.Fatalf("got %T, want *FriendMessageEvent", got.ev)
	}
	if !fe.ToMe {
		t.Error("private message must be preprocessed before dispatch")
	}

	if _, ok := a.GetBot(1001); !ok {
		t.Error("identity 1001 not registered")
	}
}

func TestAdapter_UnknownEventDelivered(t *testing.T) {
	srv, _ := eventServer(t, func(_ int64, c *websocket.Conn) {
		c.WriteMessage(websocket.TextMessage, []byte(
			`{"event_type":"quantum_flux","time":1,"self_id":1001,"data":{}}`))
		holdOpen(c)
	})

	h, events := collector()
	a := New(testConfig(srv), h)
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Shutdown()

	got := waitEvent(t, events)
	u, ok := got.ev.(*event.Unknown)
	if !ok {
		t.Fatalf("got %T, want *event.Unknown", got.ev)
	}
	if u.Type() != "quantum_flux" {
		t.Errorf("type: got %q", u.Type())
	}
}

func TestAdapter_BadPayloadDroppedStreamContinues(t *testing.T) {
	srv, conns := eventServer(t, func(_ int64, c *websocket.Conn) {
		// valid json, known tag, bad payload: dropped without reconnect
		c.WriteMessage(websocket.TextMessage, []byte(
			`{"event_type":"message_recall","time":1,"self_id":1001,"data":{"peer_id":"nope"}}`))
		c.WriteMessage(websocket.TextMessage, []byte(friendFrame))
		holdOpen(c)
	})

	h, events := collector()
	a := New(testConfig(srv), h)
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Shutdown()

	got := waitEvent(t, events)
	if _, ok := got.ev.(*event.FriendMessageEvent); !ok {
		t.Fatalf("got %T, want *FriendMessageEvent", got.ev)
	}
	if n := atomic.LoadInt64(conns); n != 1 {
		t.Errorf("connections: got %d, want 1", n)
	}
}

func TestAdapter_MalformedFrameReconnects(t *testing.T) {
	srv, conns := eventServer(t, func(n int64, c *websocket.Conn) {
		if n == 1 {
			c.WriteMessage(websocket.TextMessage, []byte(`{not json`))
			holdOpen(c)
			return
		}
		c.WriteMessage(websocket.TextMessage, []byte(friendFrame))
		holdOpen(c)
	})

	h, events := collector()
	a := New(testConfig(srv), h)
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Shutdown()

	waitEvent(t, events)
	if n := atomic.LoadInt64(conns); n < 2 {
		t.Errorf("connections: got %d, want at least 2", n)
	}
}

func TestAdapter_ShutdownUnbindsIdentity(t *testing.T) {
	srv, _ := eventServer(t, func(_ int64, c *websocket.Conn) {
		c.WriteMessage(websocket.TextMessage, []byte(friendFrame))
		holdOpen(c)
	})

	h, events := collector()
	a := New(testConfig(srv), h)
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	waitEvent(t, events)
	a.Shutdown()

	if _, ok := a.GetBot(1001); ok {
		t.Error("identity still registered after shutdown")
	}
	if len(a.Registry().Bots()) != 0 {
		t.Error("registry not empty after shutdown")
	}
}

func TestAdapter_EndpointsAreIndependent(t *testing.T) {
	// one endpoint that never produces a usable stream
	badSrv, _ := eventServer(t, func(_ int64, c *websocket.Conn) {
		c.WriteMessage(websocket.TextMessage, []byte(`garbage`))
	})
	goodSrv, _ := eventServer(t, func(_ int64, c *websocket.Conn) {
		c.WriteMessage(websocket.TextMessage, []byte(friendFrame))
		holdOpen(c)
	})

	h, events := collector()
	a := New(testConfig(badSrv, goodSrv), h)
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Shutdown()

	got := waitEvent(t, events)
	if got.bot.SelfID() != 1001 {
		t.Errorf("self_id: got %d, want 1001", got.bot.SelfID())
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	b := bot.New(7, config.ClientConfig{BaseURL: "http://localhost"})

	if _, ok := r.Get(7); ok {
		t.Fatal("expected empty registry")
	}
	r.Bind(b)
	got, ok := r.Get(7)
	if !ok || got.SelfID() != 7 {
		t.Fatalf("get: got %v, %v", got, ok)
	}
	if len(r.Bots()) != 1 {
		t.Errorf("bots: got %d, want 1", len(r.Bots()))
	}
	r.Unbind(7)
	if _, ok := r.Get(7); ok {
		t.Error("expected binding removed")
	}
}
