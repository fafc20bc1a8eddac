package protocol

import (
	"encoding/binary"
	"encoding/json"

	apperrors "airhockey/pkg/errors"
)

// HeaderSize is the length of the big-endian frame length prefix.
const HeaderSize = 4

// DefaultMaxFrameSize bounds the declared payload length when the caller does
// not configure one.
const DefaultMaxFrameSize = 64 * 1024

// Message is one decoded frame. Body is kept raw so it can be parsed into its
// typed form with Parse.
type Message struct {
	Header Header          `json:"header"`
	Body   json.RawMessage `json:"body"`
}

// Encode serializes header and body into one length-prefixed frame.
// A nil body is sent as an empty object.
func Encode(header Header, body any) ([]byte, error) {
	raw := json.RawMessage("{}")
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrMalformedPayload, err)
		}
		raw = b
	}

	payload, err := json.Marshal(Message{Header: header, Body: raw})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedPayload, err)
	}

	frame := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[HeaderSize:], payload)
	return frame, nil
}

// EncodeBody encodes a typed body under its own header.
func EncodeBody(b Body) ([]byte, error) {
	return Encode(b.Header(), b)
}

// Decode consumes one complete frame from the front of buf. When buf does not
// hold a complete frame yet it returns a nil message and buf unchanged.
// maxFrameSize <= 0 means DefaultMaxFrameSize.
func Decode(buf []byte, maxFrameSize int) (*Message, []byte, error) {
	if len(buf) < HeaderSize {
		return nil, buf, nil
	}

	n, err := frameLength(buf, maxFrameSize)
	if err != nil {
		return nil, buf, err
	}
	if len(buf)-HeaderSize < n {
		return nil, buf, nil
	}

	msg, err := parsePayload(buf[HeaderSize : HeaderSize+n])
	if err != nil {
		return nil, buf, err
	}
	return msg, buf[HeaderSize+n:], nil
}

func frameLength(buf []byte, maxFrameSize int) (int, error) {
	if maxFrameSize <= 0 {
		maxFrameSize = DefaultMaxFrameSize
	}
	n := binary.BigEndian.Uint32(buf)
	if uint64(n) > uint64(maxFrameSize) {
		return 0, apperrors.ErrFrameTooLarge.WithDetails("declared %d bytes, limit %d", n, maxFrameSize)
	}
	return int(n), nil
}

func parsePayload(payload []byte) (*Message, error) {
	msg := &Message{}
	if err := json.Unmarshal(payload, msg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedPayload, err)
	}
	if msg.Header == "" {
		return nil, apperrors.ErrMissingField.WithDetails("header")
	}
	if len(msg.Body) == 0 || string(msg.Body) == "null" {
		msg.Body = json.RawMessage("{}")
	}
	return msg, nil
}

// Decoder reassembles frames from a byte stream that arrives in arbitrary
// chunks. It remembers a declared length across calls so a frame split at any
// byte boundary is decoded exactly once.
type Decoder struct {
	buf          []byte
	pending      int
	maxFrameSize int
}

func NewDecoder(maxFrameSize int) *Decoder {
	return &Decoder{pending: -1, maxFrameSize: maxFrameSize}
}

// Feed appends received bytes.
func (d *Decoder) Feed(p []byte) {
	d.buf = append(d.buf, p...)
}

// Next returns the next complete message, or nil when more bytes are needed.
// After an error the decoder must be discarded.
func (d *Decoder) Next() (*Message, error) {
	if d.pending < 0 {
		if len(d.buf) < HeaderSize {
			return nil, nil
		}
		n, err := frameLength(d.buf, d.maxFrameSize)
		if err != nil {
			return nil, err
		}
		d.pending = n
		d.buf = d.buf[HeaderSize:]
	}

	if len(d.buf) < d.pending {
		return nil, nil
	}

	payload := d.buf[:d.pending]
	d.buf = d.buf[d.pending:]
	d.pending = -1
	if len(d.buf) == 0 {
		d.buf = nil
	}

	return parsePayload(payload)
}

// Buffered reports how many bytes of incomplete frames are held.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}
