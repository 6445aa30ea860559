package bot

import (
	"context"
	"testing"

	"github.com/tinyland-inc/milky/pkg/event"
	"github.com/tinyland-inc/milky/pkg/message"
)

func TestPreprocess_PrivateAlwaysToMe(t *testing.T) {
	g := newFakeGateway()
	b := testBot(t, g)

	ev := friendMessageEvent(1001, 2002, message.FromText("hello"))
	b.Preprocess(context.Background(), ev)

	if !ev.ToMe {
		t.Error("private message must be addressed to the bot")
	}
	if got := ev.Message.ExtractPlainText(); got != "hello" {
		t.Errorf("text: got %q, want %q", got, "hello")
	}
}

func TestPreprocess_GroupNotToMe(t *testing.T) {
	g := newFakeGateway()
	b := testBot(t, g)

	ev := groupMessageEvent(1001, 3003, 2002, message.FromText("hello"))
	b.Preprocess(context.Background(), ev)

	if ev.ToMe {
		t.Error("plain group message must not be addressed to the bot")
	}
}

func TestPreprocess_LeadingMentionStripped(t *testing.T) {
	g := newFakeGateway()
	b := testBot(t, g)

	ev := groupMessageEvent(1001, 3003, 2002, message.Message{
		message.Mention{UserID: 1001},
		message.Text{Text: "  do the thing"},
	})
	b.Preprocess(context.Background(), ev)

	if !ev.ToMe {
		t.Fatal("leading mention must address the bot")
	}
	if got := ev.Message.ExtractPlainText(); got != "do the thing" {
		t.Errorf("text: got %q, want %q", got, "do the thing")
	}
	if len(ev.OriginalMessage) != 2 {
		t.Errorf("original message disturbed: %v", ev.OriginalMessage)
	}
}

func TestPreprocess_DoubledMentionStripped(t *testing.T) {
	g := newFakeGateway()
	b := testBot(t, g)

	ev := groupMessageEvent(1001, 3003, 2002, message.Message{
		message.Mention{UserID: 1001},
		message.Mention{UserID: 1001},
		message.Text{Text: "hi"},
	})
	b.Preprocess(context.Background(), ev)

	if !ev.ToMe {
		t.Fatal("expected ToMe")
	}
	if got := ev.Message.ExtractPlainText(); got != "hi" {
		t.Errorf("text: got %q, want %q", got, "hi")
	}
}

func TestPreprocess_MentionOfSomeoneElseIgnored(t *testing.T) {
	g := newFakeGateway()
	b := testBot(t, g)

	ev := groupMessageEvent(1001, 3003, 2002, message.Message{
		message.Mention{UserID: 4242},
		message.Text{Text: "hi"},
	})
	b.Preprocess(context.Background(), ev)

	if ev.ToMe {
		t.Error("mention of another user must not address the bot")
	}
	if len(ev.Message) != 2 {
		t.Errorf("message disturbed: %v", ev.Message)
	}
}

func TestPreprocess_TrailingMention(t *testing.T) {
	g := newFakeGateway()
	b := testBot(t, g)

	ev := groupMessageEvent(1001, 3003, 2002, message.Message{
		message.Text{Text: "ping "},
		message.Mention{UserID: 1001},
	})
	b.Preprocess(context.Background(), ev)

	if !ev.ToMe {
		t.Fatal("trailing mention must address the bot")
	}
	if got := ev.Message.ExtractPlainText(); got != "ping " {
		t.Errorf("text: got %q", got)
	}
}

func TestPreprocess_TrailingMentionBeforeWhitespace(t *testing.T) {
	g := newFakeGateway()
	b := testBot(t, g)

	ev := groupMessageEvent(1001, 3003, 2002, message.Message{
		message.Text{Text: "ping"},
		message.Mention{UserID: 1001},
		message.Text{Text: "  "},
	})
	b.Preprocess(context.Background(), ev)

	if !ev.ToMe {
		t.Fatal("mention before trailing whitespace must address the bot")
	}
	if got := ev.Message.ExtractPlainText(); got != "ping" {
		t.Errorf("text: got %q, want %q", got, "ping")
	}
}

func TestPreprocess_MentionOnlyLeavesEmptyText(t *testing.T) {
	g := newFakeGateway()
	b := testBot(t, g)

	ev := groupMessageEvent(1001, 3003, 2002, message.Message{
		message.Mention{UserID: 1001},
	})
	b.Preprocess(context.Background(), ev)

	if !ev.ToMe {
		t.Fatal("expected ToMe")
	}
	if len(ev.Message) == 0 {
		t.Fatal("message must never end up empty")
	}
	if got := ev.Message.ExtractPlainText(); got != "" {
		t.Errorf("text: got %q, want empty", got)
	}
}

func TestPreprocess_NicknamePrefix(t *testing.T) {
	g := newFakeGateway()
	b := testBot(t, g, WithNicknames([]string{"Milky", "bot"}))

	ev := groupMessageEvent(1001, 3003, 2002, message.FromText("milky, status please"))
	b.Preprocess(context.Background(), ev)

	if !ev.ToMe {
		t.Fatal("nickname prefix must address the bot")
	}
	if got := ev.Message.ExtractPlainText(); got != "status please" {
		t.Errorf("text: got %q, want %q", got, "status please")
	}
}

func TestPreprocess_NicknameInsideTextIgnored(t *testing.T) {
	g := newFakeGateway()
	b := testBot(t, g, WithNicknames([]string{"milky"}))

	ev := groupMessageEvent(1001, 3003, 2002, message.FromText("I like milky tea"))
	b.Preprocess(context.Background(), ev)

	if ev.ToMe {
		t.Error("nickname not at the start must not address the bot")
	}
}

func TestPreprocess_ReplyFetched(t *testing.T) {
	g := newFakeGateway()
	g.responses["get_message"] = `{"status":"ok","retcode":0,"data":{"message":{
		"message_scene":"group","peer_id":3003,"message_seq":9,"sender_id":1001,"time":1,
		"segments":[{"type":"text","data":{"text":"earlier"}}]}}}`
	b := testBot(t, g)

	ev := groupMessageEvent(1001, 3003, 2002, message.Message{
		message.Reply{MessageSeq: 9},
		message.Mention{UserID: 1001},
		message.Text{Text: " agreed"},
	})
	b.Preprocess(context.Background(), ev)

	if ev.Reply == nil {
		t.Fatal("expected replied message attached")
	}
	if ev.Reply.MessageSeq != 9 {
		t.Errorf("reply seq: got %d, want 9", ev.Reply.MessageSeq)
	}
	if !ev.ToMe {
		t.Error("reply to the bot's own message must address the bot")
	}
	if got := ev.Message.ExtractPlainText(); got != "agreed" {
		t.Errorf("text: got %q, want %q", got, "agreed")
	}
}

func TestPreprocess_ReplyToOtherUser(t *testing.T) {
	g := newFakeGateway()
	g.responses["get_message"] = `{"status":"ok","retcode":0,"data":{"message":{
		"message_scene":"group","peer_id":3003,"message_seq":9,"sender_id":4242,"time":1,
		"segments":[{"type":"text","data":{"text":"earlier"}}]}}}`
	b := testBot(t, g)

	ev := groupMessageEvent(1001, 3003, 2002, message.Message{
		message.Reply{MessageSeq: 9},
		message.Text{Text: "sure"},
	})
	b.Preprocess(context.Background(), ev)

	if ev.Reply == nil {
		t.Fatal("expected replied message attached")
	}
	if ev.ToMe {
		t.Error("reply to someone else must not address the bot")
	}
	if got := ev.Message.ExtractPlainText(); got != "sure" {
		t.Errorf("text: got %q, want %q", got, "sure")
	}
}

func TestPreprocess_ReplyFetchFailureKeepsMessage(t *testing.T) {
	g := newFakeGateway()
	g.responses["get_message"] = `{"status":"failed","retcode":1404,"message":"no such message"}`
	b := testBot(t, g)

	ev := groupMessageEvent(1001, 3003, 2002, message.Message{
		message.Reply{MessageSeq: 9},
		message.Text{Text: "sure"},
	})
	b.Preprocess(context.Background(), ev)

	if ev.Reply != nil {
		t.Error("expected no reply attached on fetch failure")
	}
	if len(ev.Message) != 2 {
		t.Errorf("message disturbed on fetch failure: %v", ev.Message)
	}
}

func TestPreprocess_NonMessageEventUntouched(t *testing.T) {
	g := newFakeGateway()
	b := testBot(t, g)

	ev := &event.FriendNudgeEvent{Base: event.Base{Self: 1001}}
	b.Preprocess(context.Background(), ev)

	if g.callCount() != 0 {
		t.Errorf("expected no network traffic, got %d calls", g.callCount())
	}
}
