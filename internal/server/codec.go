package server

import (
	"encoding/json"

	"github.com/coder/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/conneroisu/tailplay/internal/convert"
	"github.com/conneroisu/tailplay/internal/preview"
)

// Message types exchanged over /ws.
const (
	TypeWelcome  = "welcome"
	TypeConvert  = "convert"
	TypeResult   = "result"
	TypePreview  = "preview"
	TypeDocument = "document"
	TypeCatalog  = "catalog"
	TypeError    = "error"
)

// SubprotocolMsgPack selects the MessagePack codec when offered by a client.
const SubprotocolMsgPack = "msgpack"

// Message is the envelope of every WebSocket frame. ID correlates a reply
// with the request that caused it.
type Message struct {
	Type     string          `json:"type" msgpack:"type"`
	ID       string          `json:"id,omitempty" msgpack:"id,omitempty"`
	Markup   string          `json:"markup,omitempty" msgpack:"markup,omitempty"`
	Panels   *preview.Panels `json:"panels,omitempty" msgpack:"panels,omitempty"`
	Result   *convert.Result `json:"result,omitempty" msgpack:"result,omitempty"`
	Document string          `json:"document,omitempty" msgpack:"document,omitempty"`
	Count    *int            `json:"count,omitempty" msgpack:"count,omitempty"`
	Error    string          `json:"error,omitempty" msgpack:"error,omitempty"`
}

// Codec handles message encoding/decoding.
type Codec interface {
	// Encode serializes a message to bytes.
	Encode(msg *Message) ([]byte, error)

	// Decode deserializes bytes to a message.
	Decode(data []byte) (*Message, error)

	// Name returns the codec name.
	Name() string

	// FrameType is the WebSocket frame type the codec writes.
	FrameType() websocket.MessageType
}

// JSONCodec implements Codec using JSON text frames.
type JSONCodec struct{}

// Encode encodes a message to JSON.
func (JSONCodec) Encode(msg *Message) ([]byte, error) {
	return json.Marshal(msg)
}

// Decode decodes JSON to a message.
func (JSONCodec) Decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Name returns "json".
func (JSONCodec) Name() string { return "json" }

// FrameType returns websocket.MessageText.
func (JSONCodec) FrameType() websocket.MessageType { return websocket.MessageText }

// MsgPackCodec implements Codec using MessagePack binary frames.
type MsgPackCodec struct{}

// Encode encodes a message to MsgPack.
func (MsgPackCodec) Encode(msg *Message) ([]byte, error) {
	return msgpack.Marshal(msg)
}

// Decode decodes MsgPack to a message.
func (MsgPackCodec) Decode(data []byte) (*Message, error) {
	var msg Message
	if err := msgpack.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Name returns "msgpack".
func (MsgPackCodec) Name() string { return SubprotocolMsgPack }

// FrameType returns websocket.MessageBinary.
func (MsgPackCodec) FrameType() websocket.MessageType { return websocket.MessageBinary }

// codecFor returns the codec for a negotiated subprotocol. Anything other
// than msgpack, including no subprotocol at all, speaks JSON.
func codecFor(subprotocol string) Codec {
	if subprotocol == SubprotocolMsgPack {
		return MsgPackCodec{}
	}
	return JSONCodec{}
}

func countPtr(n int) *int { return &n }
