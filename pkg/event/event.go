// Package event defines the closed set of Milky protocol events and the
// decoder that turns raw gateway frames into typed variants.
package event

import (
	"fmt"

	"github.com/tinyland-inc/milky/pkg/message"
)

// Message scenes.
const (
	SceneFriend = "friend"
	SceneGroup  = "group"
	SceneTemp   = "temp"
)

// Event is one decoded gateway event. Implementations form a closed set;
// anything outside the registered vocabulary decodes to *Unknown.
type Event interface {
	// Type is the stable wire tag (event_type).
	Type() string
	// Category groups events the way handlers usually switch on them:
	// "message", "notice", "request", or "" for Unknown.
	Category() string
	// Timestamp is the Unix time the gateway observed the event.
	Timestamp() int64
	// SelfID is the identity the event was observed on.
	SelfID() int64
	// SessionID is the conversation key: peer id for 1:1 scenes,
	// "peer_sender" for group scenes, "" when the event has no conversation.
	SessionID() string
	// Description is a one-line human-readable summary for logging.
	Description() string
}

// Base carries the fields shared by every event frame.
type Base struct {
	Time int64 `json:"time"`
	Self int64 `json:"self_id"`
}

func (b Base) Timestamp() int64  { return b.Time }
func (b Base) SelfID() int64     { return b.Self }
func (b Base) SessionID() string { return "" }

// IncomingMessage is one received message as carried by message events and
// returned by the get_message action. Immutable once decoded.
type IncomingMessage struct {
	Scene      string          `json:"message_scene"`
	PeerID     int64           `json:"peer_id"`
	MessageSeq int64           `json:"message_seq"`
	SenderID   int64           `json:"sender_id"`
	Time       int64           `json:"time"`
	ClientSeq  int64           `json:"client_seq,omitempty"`
	Segments   message.Message `json:"segments"`
}

// GetReply builds a reply segment referencing this message. The client
// sequence rides along for private chats.
func (m *IncomingMessage) GetReply() message.Reply {
	return message.Reply{MessageSeq: m.MessageSeq, ClientSeq: m.ClientSeq}
}

// MessageEvent is a received message (event_type message_receive). It is
// always specialized into one of the three scene subtypes before dispatch.
type MessageEvent struct {
	Base

	Data IncomingMessage `json:"data"`

	// Message is the working copy handlers read; preprocessing (reply and
	// mention-bot stripping) edits it. OriginalMessage stays untouched.
	Message         message.Message `json:"-"`
	OriginalMessage message.Message `json:"-"`

	// Reply is the referenced message when the first segment was a reply
	// reference and preprocessing fetched it.
	Reply *IncomingMessage `json:"-"`

	// ToMe reports whether the message addresses the bot.
	ToMe bool `json:"-"`
}

func (e *MessageEvent) Type() string     { return "message_receive" }
func (e *MessageEvent) Category() string { return "message" }

func (e *MessageEvent) SessionID() string {
	if e.Data.Scene == SceneGroup {
		return fmt.Sprintf("%d_%d", e.Data.PeerID, e.Data.SenderID)
	}
	return fmt.Sprintf("%d", e.Data.PeerID)
}

func (e *MessageEvent) Description() string {
	return fmt.Sprintf("message %d from %d (%s): %s",
		e.Data.MessageSeq, e.Data.SenderID, e.Data.Scene, e.Message)
}

// ReplyTo builds a reply segment referencing this message.
func (e *MessageEvent) ReplyTo() message.Reply {
	return e.Data.GetReply()
}

// Specialize converts a decoded message event into its scene subtype. It is
// total and side-effect free; a scene outside the closed set is an error,
// never a silent default.
func (e *MessageEvent) Specialize() (Event, error) {
	switch e.Data.Scene {
	case SceneFriend:
		return &FriendMessageEvent{MessageEvent: *e}, nil
	case SceneGroup:
		return &GroupMessageEvent{MessageEvent: *e}, nil
	case SceneTemp:
		return &TempMessageEvent{MessageEvent: *e}, nil
	default:
		return nil, fmt.Errorf("unknown message scene %q", e.Data.Scene)
	}
}

// FriendMessageEvent is a message received in a friend (1:1) scene.
type FriendMessageEvent struct{ MessageEvent }

// GroupMessageEvent is a message received in a group scene.
type GroupMessageEvent struct{ MessageEvent }

// TempMessageEvent is a message received in a temporary session.
type TempMessageEvent struct{ MessageEvent }

// MessageRecallData is the payload of a message_recall event.
type MessageRecallData struct {
	Scene      string `json:"message_scene"`
	PeerID     int64  `json:"peer_id"`
	MessageSeq int64  `json:"message_seq"`
	SenderID   int64  `json:"sender_id,omitempty"`
	OperatorID int64  `json:"operator_id,omitempty"`
}

// MessageRecallEvent reports a recalled message.
type MessageRecallEvent struct {
	Base
	Data MessageRecallData `json:"data"`
}

func (e *MessageRecallEvent) Type() string     { return "message_recall" }
func (e *MessageRecallEvent) Category() string { return "notice" }
func (e *MessageRecallEvent) Description() string {
	return fmt.Sprintf("message %d recalled in %s %d by %d",
		e.Data.MessageSeq, e.Data.Scene, e.Data.PeerID, e.Data.OperatorID)
}

// FriendRequestData is the payload of a friend_request event.
type FriendRequestData struct {
	RequestID  string `json:"request_id"`
	OperatorID int64  `json:"operator_id"`
	Comment    string `json:"comment,omitempty"`
	Via        string `json:"via,omitempty"`
}

// FriendRequestEvent reports an incoming friend request.
type FriendRequestEvent struct {
	Base
	Data FriendRequestData `json:"data"`
}

func (e *FriendRequestEvent) Type() string     { return "friend_request" }
func (e *FriendRequestEvent) Category() string { return "request" }
func (e *FriendRequestEvent) Description() string {
	return fmt.Sprintf("friend request %s from %d: %s",
		e.Data.RequestID, e.Data.OperatorID, e.Data.Comment)
}

// GroupJoinRequestData is the payload of a group_join_request event.
type GroupJoinRequestData struct {
	RequestID   string `json:"request_id"`
	GroupID     int64  `json:"group_id"`
	InitiatorID int64  `json:"initiator_id"`
	Comment     string `json:"comment,omitempty"`
	IsFiltered  bool   `json:"is_filtered,omitempty"`
}

// GroupJoinRequestEvent reports a user asking to join a group.
type GroupJoinRequestEvent struct {
	Base
	Data GroupJoinRequestData `json:"data"`
}

func (e *GroupJoinRequestEvent) Type() string     { return "group_join_request" }
func (e *GroupJoinRequestEvent) Category() string { return "request" }
func (e *GroupJoinRequestEvent) Description() string {
	return fmt.Sprintf("join request %s for group %d from %d",
		e.Data.RequestID, e.Data.GroupID, e.Data.InitiatorID)
}

// GroupInvitedJoinRequestData is the payload of a group_invited_join_request
// event.
type GroupInvitedJoinRequestData struct {
	RequestID    string `json:"request_id"`
	GroupID      int64  `json:"group_id"`
	InitiatorID  int64  `json:"initiator_id"`
	TargetUserID int64  `json:"target_user_id"`
}

// GroupInvitedJoinRequestEvent reports a member inviting someone else into
// a group the bot administers.
type GroupInvitedJoinRequestEvent struct {
	Base
	Data GroupInvitedJoinRequestData `json:"data"`
}

func (e *GroupInvitedJoinRequestEvent) Type() string     { return "group_invited_join_request" }
func (e *GroupInvitedJoinRequestEvent) Category() string { return "request" }
func (e *GroupInvitedJoinRequestEvent) Description() string {
	return fmt.Sprintf("invited join request %s for group %d: %d invites %d",
		e.Data.RequestID, e.Data.GroupID, e.Data.InitiatorID, e.Data.TargetUserID)
}

// GroupInvitationData is the payload of a group_invitation event.
type GroupInvitationData struct {
	RequestID   string `json:"request_id"`
	GroupID     int64  `json:"group_id"`
	InitiatorID int64  `json:"initiator_id"`
}

// GroupInvitationEvent reports the bot being invited into a group.
type GroupInvitationEvent struct {
	Base
	Data GroupInvitationData `json:"data"`
}

func (e *GroupInvitationEvent) Type() string     { return "group_invitation" }
func (e *GroupInvitationEvent) Category() string { return "request" }
func (e *GroupInvitationEvent) Description() string {
	return fmt.Sprintf("invitation %s into group %d from %d",
		e.Data.RequestID, e.Data.GroupID, e.Data.InitiatorID)
}

// FriendNudgeData is the payload of a friend_nudge event.
type FriendNudgeData struct {
	UserID        int64 `json:"user_id"`
	IsSelfSend    bool  `json:"is_self_send,omitempty"`
	IsSelfReceive bool  `json:"is_self_receive,omitempty"`
}

// FriendNudgeEvent reports a nudge (poke) in a friend chat.
type FriendNudgeEvent struct {
	Base
	Data FriendNudgeData `json:"data"`
}

func (e *FriendNudgeEvent) Type() string     { return "friend_nudge" }
func (e *FriendNudgeEvent) Category() string { return "notice" }
func (e *FriendNudgeEvent) SessionID() string {
	return fmt.Sprintf("%d", e.Data.UserID)
}
func (e *FriendNudgeEvent) Description() string {
	return fmt.Sprintf("nudge from friend %d", e.Data.UserID)
}

// GroupNudgeData is the payload of a group_nudge event.
type GroupNudgeData struct {
	GroupID    int64 `json:"group_id"`
	SenderID   int64 `json:"sender_id"`
	ReceiverID int64 `json:"receiver_id"`
}

// GroupNudgeEvent reports a nudge (poke) in a group.
type GroupNudgeEvent struct {
	Base
	Data GroupNudgeData `json:"data"`
}

func (e *GroupNudgeEvent) Type() string     { return "group_nudge" }
func (e *GroupNudgeEvent) Category() string { return "notice" }
func (e *GroupNudgeEvent) SessionID() string {
	return fmt.Sprintf("%d_%d", e.Data.GroupID, e.Data.SenderID)
}
func (e *GroupNudgeEvent) Description() string {
	return fmt.Sprintf("nudge in group %d: %d pokes %d",
		e.Data.GroupID, e.Data.SenderID, e.Data.ReceiverID)
}

// GroupMemberIncreaseData is the payload of a group_member_increase event.
type GroupMemberIncreaseData struct {
	GroupID    int64 `json:"group_id"`
	UserID     int64 `json:"user_id"`
	OperatorID int64 `json:"operator_id,omitempty"`
	InvitorID  int64 `json:"invitor_id,omitempty"`
}

// GroupMemberIncreaseEvent reports a member joining a group.
type GroupMemberIncreaseEvent struct {
	Base
	Data GroupMemberIncreaseData `json:"data"`
}

func (e *GroupMemberIncreaseEvent) Type() string     { return "group_member_increase" }
func (e *GroupMemberIncreaseEvent) Category() string { return "notice" }
func (e *GroupMemberIncreaseEvent) Description() string {
	return fmt.Sprintf("member %d joined group %d", e.Data.UserID, e.Data.GroupID)
}

// GroupMemberDecreaseData is the payload of a group_member_decrease event.
type GroupMemberDecreaseData struct {
	GroupID    int64 `json:"group_id"`
	UserID     int64 `json:"user_id"`
	OperatorID int64 `json:"operator_id,omitempty"`
}

// GroupMemberDecreaseEvent reports a member leaving or being removed from
// a group.
type GroupMemberDecreaseEvent struct {
	Base
	Data GroupMemberDecreaseData `json:"data"`
}

func (e *GroupMemberDecreaseEvent) Type() string     { return "group_member_decrease" }
func (e *GroupMemberDecreaseEvent) Category() string { return "notice" }
func (e *GroupMemberDecreaseEvent) Description() string {
	return fmt.Sprintf("member %d left group %d", e.Data.UserID, e.Data.GroupID)
}

// BotOfflineData is the payload of a bot_offline event.
type BotOfflineData struct {
	Reason string `json:"reason,omitempty"`
}

// BotOfflineEvent reports the gateway losing its upstream login.
type BotOfflineEvent struct {
	Base
	Data BotOfflineData `json:"data"`
}

func (e *BotOfflineEvent) Type() string     { return "bot_offline" }
func (e *BotOfflineEvent) Category() string { return "notice" }
func (e *BotOfflineEvent) Description() string {
	return fmt.Sprintf("bot offline: %s", e.Data.Reason)
}
