package message

import (
	"encoding/json"
	"strings"
)

// Message is an ordered sequence of segments. Order is rendering order and
// duplicates are allowed.
type Message []Segment

// FromText builds a single-segment plain text message.
func FromText(text string) Message {
	return Message{Text{Text: text}}
}

// FromElements decodes a wire segment list. Any unknown or malformed
// element fails the whole message.
func FromElements(elements []Element) (Message, error) {
	msg := make(Message, 0, len(elements))
	for _, el := range elements {
		seg, err := DecodeSegment(el)
		if err != nil {
			return nil, err
		}
		msg = append(msg, seg)
	}
	return msg, nil
}

// ToElements encodes the message into its wire segment list.
func (m Message) ToElements() ([]Element, error) {
	elements := make([]Element, 0, len(m))
	for _, seg := range m {
		el, err := EncodeSegment(seg)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	return elements, nil
}

func (m Message) MarshalJSON() ([]byte, error) {
	elements, err := m.ToElements()
	if err != nil {
		return nil, err
	}
	return json.Marshal(elements)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var elements []Element
	if err := json.Unmarshal(data, &elements); err != nil {
		return err
	}
	msg, err := FromElements(elements)
	if err != nil {
		return err
	}
	*m = msg
	return nil
}

// ExtractPlainText concatenates the text content of all text segments.
func (m Message) ExtractPlainText() string {
	var sb strings.Builder
	for _, seg := range m {
		if t, ok := seg.(Text); ok {
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

// String renders the message for logs: raw text for text segments and
// bracketed tags for everything else.
func (m Message) String() string {
	var sb strings.Builder
	for _, seg := range m {
		sb.WriteString(display(seg))
	}
	return sb.String()
}
