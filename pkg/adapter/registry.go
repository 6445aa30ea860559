package adapter

import (
	"sync"

	"github.com/tinyland-inc/milky/pkg/bot"
)

// Registry maps the identity reported by a live event stream to the bot
// bound to that stream. Bindings appear when the first event of a
// connection arrives and disappear when the connection closes, whatever
// the reason for the close.
type Registry struct {
	mu   sync.RWMutex
	bots map[int64]*bot.Bot
}

func NewRegistry() *Registry {
	return &Registry{bots: make(map[int64]*bot.Bot)}
}

func (r *Registry) Bind(b *bot.Bot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bots[b.SelfID()] = b
}

func (r *Registry) Unbind(selfID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bots, selfID)
}

// Get returns the bot bound to selfID, if any.
func (r *Registry) Get(selfID int64) (*bot.Bot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bots[selfID]
	return b, ok
}

// Bots returns the currently bound bots in no particular order.
func (r *Registry) Bots() []*bot.Bot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*bot.Bot, 0, len(r.bots))
	for _, b := range r.bots {
		out = append(out, b)
	}
	return out
}
