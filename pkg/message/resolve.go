package message

import (
	"context"
	"fmt"
)

// ForwardedMessage is one message inside a fetched forward bundle.
type ForwardedMessage struct {
	Name     string  `json:"name"`
	Segments Message `json:"segments"`
}

// ResolverAPI is the slice of the gateway API the resolver needs. *bot.Bot
// satisfies it.
type ResolverAPI interface {
	SelfID() int64
	GetResourceTempURL(ctx context.Context, resourceID string) (string, error)
	GetForwardedMessages(ctx context.Context, forwardID string) ([]ForwardedMessage, error)
}

// Resolve returns a copy of msg with every lazy reference replaced by
// directly sendable content. The input is never mutated. Per segment:
//
//   - image/record/video carrying a resource_id but no uri: reuse the cached
//     temp_url unless refresh is set, otherwise fetch a fresh temp URL.
//   - forward carrying a forward_id: fetch the forwarded messages and rebuild
//     the segment as inline nodes attributed to the resolving bot.
//   - market_face/light_app/xml: receive-only, dropped.
//   - everything else passes through unchanged.
//
// A failure on any segment fails the whole resolve; nothing partial is
// returned.
func Resolve(ctx context.Context, msg Message, api ResolverAPI, refresh bool) (Message, error) {
	out := make(Message, 0, len(msg))
	for i, seg := range msg {
		switch s := seg.(type) {
		case Image:
			if s.ResourceID != "" && s.URI == "" {
				uri, err := resolveResource(ctx, api, s.ResourceID, s.TempURL, refresh)
				if err != nil {
					return nil, fmt.Errorf("resolving segment %d (%s): %w", i, s.Type(), err)
				}
				s.URI = uri
			}
			out = append(out, s)
		case Record:
			if s.ResourceID != "" && s.URI == "" {
				uri, err := resolveResource(ctx, api, s.ResourceID, s.TempURL, refresh)
				if err != nil {
					return nil, fmt.Errorf("resolving segment %d (%s): %w", i, s.Type(), err)
				}
				s.URI = uri
			}
			out = append(out, s)
		case Video:
			if s.ResourceID != "" && s.URI == "" {
				uri, err := resolveResource(ctx, api, s.ResourceID, s.TempURL, refresh)
				if err != nil {
					return nil, fmt.Errorf("resolving segment %d (%s): %w", i, s.Type(), err)
				}
				s.URI = uri
			}
			out = append(out, s)
		case Forward:
			if s.ForwardID == "" {
				out = append(out, s)
				continue
			}
			messages, err := api.GetForwardedMessages(ctx, s.ForwardID)
			if err != nil {
				return nil, fmt.Errorf("resolving segment %d (%s): %w", i, s.Type(), err)
			}
			nodes := make([]ForwardNode, 0, len(messages))
			for _, fm := range messages {
				nodes = append(nodes, ForwardNode{
					UserID:   api.SelfID(),
					Name:     fm.Name,
					Segments: fm.Segments,
				})
			}
			out = append(out, Forward{Messages: nodes})
		case MarketFace, LightApp, XML:
			// receive-only content, cannot be round-tripped into a send
		default:
			out = append(out, seg)
		}
	}
	return out, nil
}

func resolveResource(ctx context.Context, api ResolverAPI, resourceID, tempURL string, refresh bool) (string, error) {
	if tempURL != "" && !refresh {
		return tempURL, nil
	}
	return api.GetResourceTempURL(ctx, resourceID)
}
