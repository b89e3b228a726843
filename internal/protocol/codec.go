package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tinylib/msgp/msgp"
)

// Format selects the frame encoding of an envelope
type Format int

const (
	FormatJSON    Format = iota // Text frames
	FormatMsgpack               // Binary frames
)

func (f Format) String() string {
	if f == FormatMsgpack {
		return "msgpack"
	}
	return "json"
}

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrMalformed    = errors.New("malformed frame")
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string  `json:"event"`
	Data  Message `json:"data"`
}

// Encode wraps msg in an envelope in the given format.
func Encode(msg Message, format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.Marshal(outbound{Event: msg.Event(), Data: msg})
	}

	b := msgp.AppendMapHeader(nil, 2)
	b = msgp.AppendString(b, "event")
	b = msgp.AppendString(b, msg.Event())
	b = msgp.AppendString(b, "data")
	return msg.MarshalMsg(b)
}

// EncodeRequest wraps an inbound payload. Clients and tests use it to
// produce frames the server accepts.
func EncodeRequest(req Request, format Format) ([]byte, error) {
	if format == FormatJSON {
		data, err := json.Marshal(req)
		if err != nil {
			return nil, err
		}
		return json.Marshal(envelope{Event: req.Event(), Data: data})
	}

	m, ok := req.(msgp.Marshaler)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, req.Event())
	}
	b := msgp.AppendMapHeader(nil, 2)
	b = msgp.AppendString(b, "event")
	b = msgp.AppendString(b, req.Event())
	b = msgp.AppendString(b, "data")
	return m.MarshalMsg(b)
}

// Decode parses an inbound envelope. JSON frames are not schema checked
// here; see Validator.
func Decode(frame []byte, format Format) (Request, error) {
	if format == FormatJSON {
		return decodeJSON(frame)
	}
	return decodeMsgpack(frame)
}

func newRequest(event string) (Request, error) {
	switch event {
	case EventJoinGame:
		return &JoinGame{}, nil
	case EventPlayerAction:
		return &PlayerAction{}, nil
	case EventLeaveGame:
		return &LeaveGame{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, event)
}

func decodeJSON(frame []byte) (Request, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	req, err := newRequest(env.Event)
	if err != nil {
		return nil, err
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, req); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, env.Event, err)
		}
	}
	return deref(req), nil
}

func decodeMsgpack(frame []byte) (Request, error) {
	sz, bts, err := msgp.ReadMapHeaderBytes(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var event string
	var data []byte
	for ; sz > 0; sz-- {
		var field []byte
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		switch msgp.UnsafeString(field) {
		case "event":
			event, bts, err = msgp.ReadStringBytes(bts)
		case "data":
			rest, skipErr := msgp.Skip(bts)
			data, bts, err = bts[:len(bts)-len(rest)], rest, skipErr
		default:
			bts, err = msgp.Skip(bts)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	req, err := newRequest(event)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		u := req.(msgp.Unmarshaler)
		if _, err := u.UnmarshalMsg(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, event, err)
		}
	}
	return deref(req), nil
}

func deref(req Request) Request {
	switch r := req.(type) {
	case *JoinGame:
		return *r
	case *PlayerAction:
		return *r
	case *LeaveGame:
		return *r
	}
	return req
}
