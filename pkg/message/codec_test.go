package message

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDecodeSegment_AllTags(t *testing.T) {
	cases := []struct {
		raw  string
		want Segment
	}{
		{`{"type":"text","data":{"text":"hello"}}`, Text{Text: "hello"}},
		{`{"type":"mention","data":{"user_id":42}}`, Mention{UserID: 42}},
		{`{"type":"mention_all","data":{}}`, MentionAll{}},
		{`{"type":"face","data":{"face_id":"128"}}`, Face{FaceID: "128"}},
		{`{"type":"reply","data":{"message_seq":7,"client_seq":3}}`, Reply{MessageSeq: 7, ClientSeq: 3}},
		{`{"type":"image","data":{"resource_id":"r1","temp_url":"https://x/y","sub_type":"sticker"}}`,
			Image{ResourceID: "r1", TempURL: "https://x/y", SubType: "sticker"}},
		{`{"type":"record","data":{"resource_id":"r2","duration":12}}`, Record{ResourceID: "r2", Duration: 12}},
		{`{"type":"video","data":{"resource_id":"r3","thumb_url":"https://t"}}`, Video{ResourceID: "r3", ThumbURL: "https://t"}},
		{`{"type":"forward","data":{"forward_id":"f1"}}`, Forward{ForwardID: "f1"}},
		{`{"type":"market_face","data":{"url":"https://mf"}}`, MarketFace{URL: "https://mf"}},
		{`{"type":"light_app","data":{"app_name":"app","json_payload":"{}"}}`, LightApp{AppName: "app", JSONPayload: "{}"}},
		{`{"type":"xml","data":{"service_id":2,"xml_payload":"<x/>"}}`, XML{ServiceID: 2, XMLPayload: "<x/>"}},
	}

	for _, tc := range cases {
		var el Element
		if err := json.Unmarshal([]byte(tc.raw), &el); err != nil {
			t.Fatalf("unmarshal element: %v", err)
		}
		got, err := DecodeSegment(el)
		if err != nil {
			t.Fatalf("decode %s: %v", el.Type, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("decode %s: got %#v, want %#v", el.Type, got, tc.want)
		}
	}
}

func TestDecodeSegment_NullData(t *testing.T) {
	got, err := DecodeSegment(Element{Type: "mention_all", Data: json.RawMessage("null")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got.(MentionAll); !ok {
		t.Errorf("got %T, want MentionAll", got)
	}
}

func TestDecodeSegment_UnknownTag(t *testing.T) {
	_, err := DecodeSegment(Element{Type: "hologram", Data: json.RawMessage(`{}`)})
	if err == nil {
		t.Fatal("expected error for unknown tag")
	}
	if !errors.Is(err, ErrUnknownSegment) {
		t.Errorf("expected ErrUnknownSegment, got %v", err)
	}
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if derr.Tag != "hologram" {
		t.Errorf("tag: got %q, want %q", derr.Tag, "hologram")
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	msg := Message{
		Text{Text: "look: "},
		Mention{UserID: 9},
		Image{URI: "file:///tmp/a.png", Summary: "a"},
		Forward{Messages: []ForwardNode{
			{UserID: 1, Name: "one", Segments: Message{Text{Text: "inner"}}},
		}},
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Message
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, msg) {
		t.Errorf("round trip: got %#v, want %#v", got, msg)
	}
}

func TestMessage_UnknownElementFailsWholeMessage(t *testing.T) {
	raw := `[{"type":"text","data":{"text":"ok"}},{"type":"hologram","data":{}}]`
	var msg Message
	err := json.Unmarshal([]byte(raw), &msg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrUnknownSegment) {
		t.Errorf("expected ErrUnknownSegment, got %v", err)
	}
	if msg != nil {
		t.Errorf("expected no partial message, got %v", msg)
	}
}

func TestMessage_ExtractPlainText(t *testing.T) {
	msg := Message{
		Text{Text: "a"},
		Mention{UserID: 1},
		Text{Text: "b"},
		Face{FaceID: "2"},
	}
	if got := msg.ExtractPlainText(); got != "ab" {
		t.Errorf("got %q, want %q", got, "ab")
	}
}

func TestMessage_String(t *testing.T) {
	msg := Message{Text{Text: "hi "}, Face{FaceID: "5"}}
	s := msg.String()
	if !strings.HasPrefix(s, "hi ") {
		t.Errorf("expected text rendered verbatim, got %q", s)
	}
	if !strings.Contains(s, "[face:") {
		t.Errorf("expected bracketed face tag, got %q", s)
	}
}

func TestRawURI(t *testing.T) {
	got := RawURI([]byte("hi"))
	if got != "base64://aGk=" {
		t.Errorf("got %q, want %q", got, "base64://aGk=")
	}
}

func TestLocalURI(t *testing.T) {
	if got := LocalURI("/tmp/a.png"); got != "file:///tmp/a.png" {
		t.Errorf("got %q", got)
	}
}
