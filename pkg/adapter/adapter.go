package adapter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tinyland-inc/milky/pkg/bot"
	"github.com/tinyland-inc/milky/pkg/config"
	"github.com/tinyland-inc/milky/pkg/event"
	"github.com/tinyland-inc/milky/pkg/logger"
)

const (
	handshakeTimeout    = 30 * time.Second
	shutdownTaskTimeout = 10 * time.Second
)

// Handler receives every decoded event. Handlers run on their own
// goroutines, one per event; order across events is not guaranteed.
type Handler interface {
	HandleEvent(ctx context.Context, b *bot.Bot, ev event.Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, b *bot.Bot, ev event.Event)

func (f HandlerFunc) HandleEvent(ctx context.Context, b *bot.Bot, ev event.Event) {
	f(ctx, b, ev)
}

// Adapter maintains one event-stream connection per configured endpoint.
// Each connection reconnects on its own schedule; one flapping gateway
// never disturbs the others.
type Adapter struct {
	cfg      *config.Config
	handler  Handler
	registry *Registry
	tasks    *taskGroup

	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.Mutex
}

func New(cfg *config.Config, handler Handler) *Adapter {
	return &Adapter{
		cfg:      cfg,
		handler:  handler,
		registry: NewRegistry(),
		tasks:    newTaskGroup(),
	}
}

// Registry exposes the live identity bindings.
func (a *Adapter) Registry() *Registry { return a.registry }

// GetBot returns the bot bound to selfID, if its connection is live.
func (a *Adapter) GetBot(selfID int64) (*bot.Bot, bool) {
	return a.registry.Get(selfID)
}

// Start launches the connection loop for every configured endpoint and
// returns immediately. Use Shutdown to stop.
func (a *Adapter) Start(ctx context.Context) error {
	if len(a.cfg.Clients) == 0 {
		return errors.New("no endpoints configured")
	}

	ctx, a.cancel = context.WithCancel(ctx)

	for _, client := range a.cfg.Clients {
		a.wg.Add(1)
		go func(client config.ClientConfig) {
			defer a.wg.Done()
			a.runClient(ctx, client)
		}(client)
	}
	return nil
}

// Shutdown stops all connections, then waits for in-flight dispatch tasks,
// at most 10 seconds each. Safe to call more than once.
func (a *Adapter) Shutdown() {
	a.mu.Lock()
	if a.closed || a.cancel == nil {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	a.cancel()
	a.wg.Wait()
	a.tasks.Drain(shutdownTaskTimeout)
	logger.InfoC("milky", "Adapter shut down")
}

// runClient dials the endpoint's event stream and keeps it alive, sleeping
// a fixed interval between attempts. Returns only when ctx is cancelled.
func (a *Adapter) runClient(ctx context.Context, client config.ClientConfig) {
	wsURL, err := client.EventURL()
	if err != nil {
		logger.ErrorCF("milky", "Endpoint has no usable event URL", map[string]any{
			"base_url": client.BaseURL,
			"error":    err.Error(),
		})
		return
	}

	interval := time.Duration(a.cfg.Reconnect.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 3 * time.Second
	}
	dialer := &websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := dialer.DialContext(ctx, wsURL, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.WarnCF("milky", "Failed to connect to event stream", map[string]any{
				"base_url": client.BaseURL,
				"error":    err.Error(),
			})
			if !sleepCtx(ctx, interval) {
				return
			}
			continue
		}

		a.readLoop(ctx, conn, client)

		if ctx.Err() != nil {
			return
		}
		if !sleepCtx(ctx, interval) {
			return
		}
	}
}

// readLoop consumes frames from one live connection until the stream
// breaks. The first decoded event establishes which account the stream
// belongs to; the binding is dropped when the loop exits.
func (a *Adapter) readLoop(ctx context.Context, conn *websocket.Conn, client config.ClientConfig) {
	connID := uuid.New().String()[:8]

	var b *bot.Bot
	defer func() {
		conn.Close()
		if b != nil {
			a.registry.Unbind(b.SelfID())
			logger.InfoCF("milky", "Bot disconnected", map[string]any{
				"conn":    connID,
				"self_id": b.SelfID(),
			})
		}
	}()

	// Unblock the read when the adapter shuts down.
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stopped:
		}
	}()

	logger.InfoCF("milky", "Event stream connected", map[string]any{
		"conn":     connID,
		"base_url": client.BaseURL,
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logger.WarnCF("milky", "Event stream closed", map[string]any{
					"conn":  connID,
					"error": err.Error(),
				})
			}
			return
		}

		ev, err := event.Decode(raw)
		if err != nil {
			var derr *event.DecodeError
			if errors.As(err, &derr) && derr.FrameMalformed() {
				logger.ErrorCF("milky", "Malformed frame, reconnecting", map[string]any{
					"conn":  connID,
					"error": err.Error(),
				})
				return
			}
			logger.WarnCF("milky", "Dropping undecodable event", map[string]any{
				"conn":  connID,
				"error": err.Error(),
			})
			continue
		}

		if b == nil {
			b = bot.New(ev.SelfID(), client, bot.WithNicknames(a.cfg.Bot.Nicknames))
			a.registry.Bind(b)
			logger.InfoCF("milky", "Bot connected", map[string]any{
				"conn":    connID,
				"self_id": b.SelfID(),
			})
		}

		a.dispatch(ctx, b, ev)
	}
}

// dispatch runs preprocessing and the handler on a tracked goroutine so a
// slow handler never stalls the read loop.
func (a *Adapter) dispatch(ctx context.Context, b *bot.Bot, ev event.Event) {
	a.tasks.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorCF("milky", "Handler panicked", map[string]any{
					"event": ev.Type(),
					"panic": r,
				})
			}
		}()
		b.Preprocess(ctx, ev)
		a.handler.HandleEvent(ctx, b, ev)
	})
}

// sleepCtx sleeps for d unless ctx ends first. Reports whether the full
// sleep completed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
