package bot

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/tinyland-inc/milky/pkg/event"
	"github.com/tinyland-inc/milky/pkg/logger"
	"github.com/tinyland-inc/milky/pkg/message"
)

// Preprocess enriches a message event before it reaches the application
// handler: it pulls the replied-to message behind a reply reference, detects
// whether the message addresses the bot (reply to the bot, leading/trailing
// mention, nickname prefix), and strips those addressing segments from the
// working copy. ev.OriginalMessage keeps the untouched content. Non-message
// events pass through unchanged.
func (b *Bot) Preprocess(ctx context.Context, ev event.Event) {
	me := messageEventOf(ev)
	if me == nil {
		return
	}
	b.checkReply(ctx, me)
	b.checkMentionMe(me)
	b.checkNickname(me)
}

func (b *Bot) checkReply(ctx context.Context, me *event.MessageEvent) {
	idx := -1
	for i, seg := range me.Message {
		if _, ok := seg.(message.Reply); ok {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	replySeg := me.Message[idx].(message.Reply)

	replied, err := b.GetMessage(ctx, me.Data.Scene, me.Data.PeerID, replySeg.MessageSeq)
	if err != nil {
		logger.WarnCF("milky", "Failed to fetch replied message", map[string]any{
			"message_seq": replySeg.MessageSeq,
			"error":       err.Error(),
		})
		return
	}

	me.Reply = replied
	if replied.SenderID == b.selfID {
		me.ToMe = true
	}

	me.Message = removeAt(me.Message, idx)

	// A reply inserted by most clients is followed by a mention of the
	// replied sender and a space; strip both.
	if idx < len(me.Message) {
		if m, ok := me.Message[idx].(message.Mention); ok && m.UserID == replied.SenderID {
			me.Message = removeAt(me.Message, idx)
		}
	}
	if idx < len(me.Message) {
		if t, ok := me.Message[idx].(message.Text); ok {
			t.Text = strings.TrimLeftFunc(t.Text, unicode.IsSpace)
			if t.Text == "" {
				me.Message = removeAt(me.Message, idx)
			} else {
				me.Message[idx] = t
			}
		}
	}

	ensureNotEmpty(me)
}

func (b *Bot) checkMentionMe(me *event.MessageEvent) {
	ensureNotEmpty(me)

	if me.Data.Scene != event.SceneGroup {
		me.ToMe = true
		return
	}

	mentionsMe := func(seg message.Segment) bool {
		m, ok := seg.(message.Mention)
		return ok && m.UserID == b.selfID
	}

	if mentionsMe(me.Message[0]) {
		me.ToMe = true
		me.Message = me.Message[1:]
		stripLeadingSpace(me)
		// some clients double the mention
		if len(me.Message) > 0 && mentionsMe(me.Message[0]) {
			me.Message = me.Message[1:]
			stripLeadingSpace(me)
		}
	}

	if !me.ToMe && len(me.Message) > 0 {
		i := len(me.Message) - 1
		last := me.Message[i]
		if t, ok := last.(message.Text); ok && strings.TrimSpace(t.Text) == "" && len(me.Message) >= 2 {
			i--
			last = me.Message[i]
		}
		if mentionsMe(last) {
			me.ToMe = true
			me.Message = me.Message[:i]
		}
	}

	ensureNotEmpty(me)
}

func (b *Bot) checkNickname(me *event.MessageEvent) {
	if len(b.nicknames) == 0 || len(me.Message) == 0 {
		return
	}
	t, ok := me.Message[0].(message.Text)
	if !ok {
		return
	}

	quoted := make([]string, 0, len(b.nicknames))
	for _, n := range b.nicknames {
		if n != "" {
			quoted = append(quoted, regexp.QuoteMeta(n))
		}
	}
	if len(quoted) == 0 {
		return
	}

	re, err := regexp.Compile(`(?i)^(` + strings.Join(quoted, "|") + `)([\s,，]*|$)`)
	if err != nil {
		return
	}
	if m := re.FindStringIndex(t.Text); m != nil {
		logger.DebugCF("milky", "Nickname prefix matched", map[string]any{
			"prefix": t.Text[:m[1]],
		})
		me.ToMe = true
		t.Text = t.Text[m[1]:]
		me.Message[0] = t
	}
}

func removeAt(msg message.Message, i int) message.Message {
	return append(msg[:i:i], msg[i+1:]...)
}

func stripLeadingSpace(me *event.MessageEvent) {
	if len(me.Message) == 0 {
		return
	}
	if t, ok := me.Message[0].(message.Text); ok {
		t.Text = strings.TrimLeftFunc(t.Text, unicode.IsSpace)
		if t.Text == "" {
			me.Message = me.Message[1:]
		} else {
			me.Message[0] = t
		}
	}
}

func ensureNotEmpty(me *event.MessageEvent) {
	if len(me.Message) == 0 {
		me.Message = message.Message{message.Text{}}
	}
}
