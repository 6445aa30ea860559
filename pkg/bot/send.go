package bot

import (
	"context"
	"fmt"

	"github.com/tinyland-inc/milky/pkg/event"
	"github.com/tinyland-inc/milky/pkg/message"
)

// messageEventOf unwraps the scene subtypes down to their shared
// MessageEvent, or nil for non-message events.
func messageEventOf(ev event.Event) *event.MessageEvent {
	switch e := ev.(type) {
	case *event.FriendMessageEvent:
		return &e.MessageEvent
	case *event.GroupMessageEvent:
		return &e.MessageEvent
	case *event.TempMessageEvent:
		return &e.MessageEvent
	case *event.MessageEvent:
		return e
	default:
		return nil
	}
}

// Send replies to the conversation a message event came from: the group for
// group scenes, the peer user otherwise. The message is resolved first, so
// lazy resource and forward references are legal here; a resolution failure
// is reported before anything is transmitted. The returned reply segment
// references the sent message.
func (b *Bot) Send(ctx context.Context, ev event.Event, msg message.Message) (message.Reply, error) {
	me := messageEventOf(ev)
	if me == nil {
		return message.Reply{}, fmt.Errorf("cannot send to %s event", ev.Type())
	}

	resolved, err := message.Resolve(ctx, msg, b, false)
	if err != nil {
		return message.Reply{}, fmt.Errorf("resolving outbound message: %w", err)
	}

	if me.Data.Scene == event.SceneGroup {
		resp, err := b.SendGroupMessage(ctx, me.Data.PeerID, resolved)
		if err != nil {
			return message.Reply{}, err
		}
		return resp.GetReply(), nil
	}

	resp, err := b.SendPrivateMessage(ctx, me.Data.PeerID, resolved)
	if err != nil {
		return message.Reply{}, err
	}
	return resp.GetReply(), nil
}

// SendText is a convenience wrapper around Send for plain text replies.
func (b *Bot) SendText(ctx context.Context, ev event.Event, text string) (message.Reply, error) {
	return b.Send(ctx, ev, message.FromText(text))
}
