// Package bot binds one gateway identity to the API invocation layer and
// exposes the typed action surface application code calls.
package bot

import (
	"context"
	"encoding/json"

	"github.com/tinyland-inc/milky/pkg/api"
	"github.com/tinyland-inc/milky/pkg/config"
)

// Bot is one live identity on one gateway endpoint. Created by the adapter
// when the first event arrives on a connection; never rebound afterwards.
type Bot struct {
	selfID    int64
	client    *api.Client
	nicknames []string
}

// Option configures a Bot at construction time.
type Option func(*Bot)

// WithNicknames sets the nicknames the preprocessing pass recognizes as
// addressing the bot.
func WithNicknames(nicknames []string) Option {
	return func(b *Bot) { b.nicknames = nicknames }
}

// New builds a Bot for the given identity and endpoint.
func New(selfID int64, endpoint config.ClientConfig, opts ...Option) *Bot {
	b := &Bot{
		selfID: selfID,
		client: api.NewClient(endpoint),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SelfID returns the numeric identity this bot is bound to.
func (b *Bot) SelfID() int64 { return b.selfID }

// Client returns the underlying invocation client.
func (b *Bot) Client() *api.Client { return b.client }

// supportedActions is the complete action vocabulary of this client build,
// consulted by CallAction before any network traffic happens.
var supportedActions = map[string]struct{}{
	"send_private_message":        {},
	"send_group_message":          {},
	"recall_private_message":      {},
	"recall_group_message":        {},
	"get_message":                 {},
	"get_resource_temp_url":       {},
	"get_forwarded_messages":      {},
	"get_login_info":              {},
	"get_friend_list":             {},
	"get_friend_info":             {},
	"get_user_profile":            {},
	"get_group_list":              {},
	"get_group_info":              {},
	"get_group_member_list":       {},
	"get_group_member_info":       {},
	"send_friend_nudge":           {},
	"send_group_nudge":            {},
	"get_friend_requests":         {},
	"get_group_notifications":     {},
	"accept_friend_request":       {},
	"reject_friend_request":       {},
	"accept_group_request":        {},
	"reject_group_request":        {},
	"accept_group_invitation":     {},
	"reject_group_invitation":     {},
	"set_group_name":              {},
	"kick_group_member":           {},
	"quit_group":                  {},
	"get_group_announcements":     {},
	"send_group_announcement":     {},
	"delete_group_announcement":   {},
	"get_group_files":             {},
	"get_group_essence_messages":  {},
}

// CallAction invokes an action by name. Unknown names fail immediately with
// *api.UnsupportedActionError; no request is sent.
func (b *Bot) CallAction(ctx context.Context, action string, params api.Params) (json.RawMessage, error) {
	if _, ok := supportedActions[action]; !ok {
		return nil, &api.UnsupportedActionError{Action: action}
	}
	return b.client.Call(ctx, action, params)
}
