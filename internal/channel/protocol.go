package channel

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// Subprotocol is negotiated during the websocket handshake.
const Subprotocol = "base64.channel.k8s.io"

// Channel identifies the stream a frame belongs to.
type Channel byte

const (
	Stdin  Channel = '0'
	Stdout Channel = '1'
	Stderr Channel = '2'
	Error  Channel = '3'
	Resize Channel = '4'
)

func (c Channel) String() string {
	switch c {
	case Stdin:
		return "stdin"
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	case Error:
		return "error"
	case Resize:
		return "resize"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptyFrame is returned for zero-length messages.
	ErrEmptyFrame = errors.New("empty frame")
	// ErrUnknownChannel is returned for frames with an unknown channel digit.
	ErrUnknownChannel = errors.New("unknown channel")
)

// Frame is one decoded message.
type Frame struct {
	Channel Channel
	Data    []byte
}

// EncodeFrame builds the wire form of a frame.
func EncodeFrame(ch Channel, data []byte) []byte {
	out := make([]byte, 1+base64.StdEncoding.EncodedLen(len(data)))
	out[0] = byte(ch)
	base64.StdEncoding.Encode(out[1:], data)
	return out
}

// DecodeFrame parses a wire message.
func DecodeFrame(msg []byte) (Frame, error) {
	if len(msg) == 0 {
		return Frame{}, ErrEmptyFrame
	}

	ch := Channel(msg[0])
	if ch.String() == "unknown" {
		return Frame{}, fmt.Errorf("%w: %q", ErrUnknownChannel, msg[0])
	}

	data := make([]byte, base64.StdEncoding.DecodedLen(len(msg)-1))
	n, err := base64.StdEncoding.Decode(data, msg[1:])
	if err != nil {
		return Frame{}, fmt.Errorf("decode %s frame: %w", ch, err)
	}
	return Frame{Channel: ch, Data: data[:n]}, nil
}

// TerminalSize is the payload of resize frames.
type TerminalSize struct {
	Width  uint16 `json:"Width"`
	Height uint16 `json:"Height"`
}

// EncodeResize builds a resize frame.
func EncodeResize(cols, rows int) ([]byte, error) {
	if cols <= 0 || rows <= 0 || cols > 0xffff || rows > 0xffff {
		return nil, fmt.Errorf("invalid terminal size %dx%d", cols, rows)
	}
	payload, err := sonic.Marshal(TerminalSize{Width: uint16(cols), Height: uint16(rows)})
	if err != nil {
		return nil, err
	}
	return EncodeFrame(Resize, payload), nil
}

// DecodeResize parses the payload of a resize frame.
func DecodeResize(data []byte) (TerminalSize, error) {
	var size TerminalSize
	if err := sonic.Unmarshal(data, &size); err != nil {
		return TerminalSize{}, fmt.Errorf("decode resize: %w", err)
	}
	if size.Width == 0 || size.Height == 0 {
		return TerminalSize{}, fmt.Errorf("invalid terminal size %dx%d", size.Width, size.Height)
	}
	return size, nil
}
