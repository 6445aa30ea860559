package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingEventType marks a frame without an event_type tag.
var ErrMissingEventType = errors.New("frame has no event_type")

// DecodeError reports a frame whose payload did not match the expected
// shape for a known event tag. The offending event is dropped; the stream
// continues.
type DecodeError struct {
	Tag string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding event %q: %v", e.Tag, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// FrameMalformed reports whether the whole frame was unusable, as opposed
// to a bad payload under a known tag. A malformed frame means the stream
// itself cannot be trusted.
func (e *DecodeError) FrameMalformed() bool { return e.Tag == "" }

// Unknown preserves an event whose tag is outside the supported vocabulary.
// It is still delivered to the application so undocumented gateway events
// stay observable.
type Unknown struct {
	Base
	Tag  string
	Data json.RawMessage
}

func (e *Unknown) Type() string     { return e.Tag }
func (e *Unknown) Category() string { return "" }
func (e *Unknown) Description() string {
	return fmt.Sprintf("unknown event %q: %s", e.Tag, e.Data)
}

// decoders maps an event_type tag to its constructor. Built at startup;
// this table is the complete supported event vocabulary.
var decoders = map[string]func([]byte) (Event, error){
	"message_receive":            decodeMessageReceive,
	"message_recall":             decodeFrame[MessageRecallEvent],
	"friend_request":             decodeFrame[FriendRequestEvent],
	"group_join_request":         decodeFrame[GroupJoinRequestEvent],
	"group_invited_join_request": decodeFrame[GroupInvitedJoinRequestEvent],
	"group_invitation":           decodeFrame[GroupInvitationEvent],
	"friend_nudge":               decodeFrame[FriendNudgeEvent],
	"group_nudge":                decodeFrame[GroupNudgeEvent],
	"group_member_increase":      decodeFrame[GroupMemberIncreaseEvent],
	"group_member_decrease":      decodeFrame[GroupMemberDecreaseEvent],
	"bot_offline":                decodeFrame[BotOfflineEvent],
}

func decodeFrame[E any, PE interface {
	*E
	Event
}](raw []byte) (Event, error) {
	var ev E
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, err
	}
	return PE(&ev), nil
}

func decodeMessageReceive(raw []byte) (Event, error) {
	var ev MessageEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, err
	}
	// Working copy for handlers; the original stays untouched for anything
	// that needs the pre-stripping content.
	ev.Message = append(ev.Message, ev.Data.Segments...)
	ev.OriginalMessage = append(ev.OriginalMessage, ev.Data.Segments...)
	return ev.Specialize()
}

// Decode turns one raw gateway frame into a typed event. An unrecognized
// event_type degrades to *Unknown rather than failing; a malformed payload
// for a known tag returns a *DecodeError so the caller can log and drop the
// single event without disturbing the stream.
func Decode(raw []byte) (Event, error) {
	var head struct {
		EventType *string         `json:"event_type"`
		Time      int64           `json:"time"`
		Self      int64           `json:"self_id"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, &DecodeError{Tag: "", Err: err}
	}
	if head.EventType == nil {
		return nil, &DecodeError{Tag: "", Err: ErrMissingEventType}
	}
	tag := *head.EventType

	decode, ok := decoders[tag]
	if !ok {
		return &Unknown{
			Base: Base{Time: head.Time, Self: head.Self},
			Tag:  tag,
			Data: head.Data,
		}, nil
	}

	ev, err := decode(raw)
	if err != nil {
		return nil, &DecodeError{Tag: tag, Err: err}
	}
	return ev, nil
}
