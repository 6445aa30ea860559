// Package message implements the Milky rich-content model: a closed set of
// message segments, their wire codec, and the outbound resolution pass that
// turns lazy resource references into sendable payloads.
package message

import (
	"encoding/base64"
	"fmt"
)

// Segment is one unit of rich message content. The set of implementations is
// closed; decoding is driven by the tag table in codec.go.
type Segment interface {
	Type() string

	segment()
}

// Text is a plain text segment.
type Text struct {
	Text string `json:"text"`
}

// Mention is an @-mention of a single user.
type Mention struct {
	UserID int64 `json:"user_id"`
}

// MentionAll mentions every member of a group.
type MentionAll struct{}

// Face is a built-in emoticon.
type Face struct {
	FaceID string `json:"face_id"`
}

// Reply references a prior message by sequence number. ClientSeq is only
// meaningful in private chats, where it is the dedup key.
type Reply struct {
	MessageSeq int64 `json:"message_seq"`
	ClientSeq  int64 `json:"client_seq,omitempty"`
}

// Image carries either an incoming remote resource (resource_id + temp_url)
// or an outgoing uri. The two shapes are never mixed in one value.
type Image struct {
	ResourceID string `json:"resource_id,omitempty"`
	TempURL    string `json:"temp_url,omitempty"`
	URI        string `json:"uri,omitempty"`
	Summary    string `json:"summary,omitempty"`
	SubType    string `json:"sub_type,omitempty"` // "normal" or "sticker"
}

// Record is a voice message.
type Record struct {
	ResourceID string `json:"resource_id,omitempty"`
	TempURL    string `json:"temp_url,omitempty"`
	URI        string `json:"uri,omitempty"`
	Duration   int    `json:"duration,omitempty"` // seconds, incoming only
}

// Video is a video message.
type Video struct {
	ResourceID string `json:"resource_id,omitempty"`
	TempURL    string `json:"temp_url,omitempty"`
	URI        string `json:"uri,omitempty"`
	ThumbURL   string `json:"thumb_url,omitempty"`
}

// ForwardNode is one authored message inside an outgoing forward bundle.
type ForwardNode struct {
	UserID   int64   `json:"user_id"`
	Name     string  `json:"name"`
	Segments Message `json:"segments"`
}

// Forward is a merged-forward bundle: incoming values carry a forward_id
// reference, outgoing values carry inline nodes.
type Forward struct {
	ForwardID string        `json:"forward_id,omitempty"`
	Messages  []ForwardNode `json:"messages,omitempty"`
}

// MarketFace is a marketplace sticker. Receive-only.
type MarketFace struct {
	URL string `json:"url"`
}

// LightApp is a rich application card. Receive-only.
type LightApp struct {
	AppName     string `json:"app_name"`
	JSONPayload string `json:"json_payload"`
}

// XML is a raw XML service message. Receive-only.
type XML struct {
	ServiceID  int    `json:"service_id"`
	XMLPayload string `json:"xml_payload"`
}

func (Text) Type() string       { return "text" }
func (Mention) Type() string    { return "mention" }
func (MentionAll) Type() string { return "mention_all" }
func (Face) Type() string       { return "face" }
func (Reply) Type() string      { return "reply" }
func (Image) Type() string      { return "image" }
func (Record) Type() string     { return "record" }
func (Video) Type() string      { return "video" }
func (Forward) Type() string    { return "forward" }
func (MarketFace) Type() string { return "market_face" }
func (LightApp) Type() string   { return "light_app" }
func (XML) Type() string        { return "xml" }

func (Text) segment()       {}
func (Mention) segment()    {}
func (MentionAll) segment() {}
func (Face) segment()       {}
func (Reply) segment()      {}
func (Image) segment()      {}
func (Record) segment()     {}
func (Video) segment()      {}
func (Forward) segment()    {}
func (MarketFace) segment() {}
func (LightApp) segment()   {}
func (XML) segment()        {}

// LocalURI builds a file:// URI for an outgoing media segment.
func LocalURI(path string) string {
	return "file://" + path
}

// RawURI embeds raw bytes as a base64 data URI for an outgoing media segment.
func RawURI(raw []byte) string {
	return "base64://" + base64.StdEncoding.EncodeToString(raw)
}

// display renders a segment the way logs show it: plain text for text
// segments, a bracketed tag plus data for everything else.
func display(seg Segment) string {
	if t, ok := seg.(Text); ok {
		return t.Text
	}
	el, err := EncodeSegment(seg)
	if err != nil {
		return fmt.Sprintf("[%s]", seg.Type())
	}
	return fmt.Sprintf("[%s: %s]", el.Type, el.Data)
}
