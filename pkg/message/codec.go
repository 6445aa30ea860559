package message

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownSegment marks a segment tag outside the supported vocabulary.
var ErrUnknownSegment = errors.New("unknown segment type")

// DecodeError reports a payload that did not match the expected shape for a
// segment tag. An unknown tag fails the whole containing message: a message
// whose vocabulary the client does not understand cannot be represented.
type DecodeError struct {
	Tag string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding segment %q: %v", e.Tag, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Element is the wire form of one segment: a tag plus a data object.
type Element struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// decoders maps a wire tag to its segment constructor. Built at startup;
// every supported segment kind is listed here and nowhere else.
var decoders = map[string]func(json.RawMessage) (Segment, error){
	"text":        decodeInto[Text],
	"mention":     decodeInto[Mention],
	"mention_all": decodeInto[MentionAll],
	"face":        decodeInto[Face],
	"reply":       decodeInto[Reply],
	"image":       decodeInto[Image],
	"record":      decodeInto[Record],
	"video":       decodeInto[Video],
	"forward":     decodeInto[Forward],
	"market_face": decodeInto[MarketFace],
	"light_app":   decodeInto[LightApp],
	"xml":         decodeInto[XML],
}

func decodeInto[S Segment](data json.RawMessage) (Segment, error) {
	var seg S
	if len(data) == 0 || string(data) == "null" {
		return seg, nil
	}
	if err := json.Unmarshal(data, &seg); err != nil {
		return nil, err
	}
	return seg, nil
}

// DecodeSegment decodes one wire element into its typed segment.
func DecodeSegment(el Element) (Segment, error) {
	decode, ok := decoders[el.Type]
	if !ok {
		return nil, &DecodeError{Tag: el.Type, Err: ErrUnknownSegment}
	}
	seg, err := decode(el.Data)
	if err != nil {
		return nil, &DecodeError{Tag: el.Type, Err: err}
	}
	return seg, nil
}

// EncodeSegment encodes a typed segment into its wire element.
func EncodeSegment(seg Segment) (Element, error) {
	data, err := json.Marshal(seg)
	if err != nil {
		return Element{}, fmt.Errorf("encoding segment %q: %w", seg.Type(), err)
	}
	return Element{Type: seg.Type(), Data: data}, nil
}
