// Package dprof implements the profiling daemon's wire protocol and
// on-disk storage: client connections speak a small framed message
// protocol (version handshake, app info, then feature payloads), and
// completed sessions are persisted one file per app instance. Grounded on
// original_source/dprof/libdprof/dprof/ipc/ipc_message.h and
// original_source/dprof/libstorage/dprof/storage.h.
package dprof

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"time"
)

// MessageID tags the kind of payload an IPC frame carries.
type MessageID uint8

const (
	MessageVersion     MessageID = 0x00
	MessageAppInfo     MessageID = 0x01
	MessageFeatureData MessageID = 0x02
	MessageInvalid     MessageID = 0xff
)

// MaxDataSize bounds a single frame's payload.
const MaxDataSize = 1024 * 1024

// DefaultRecvTimeout is the read deadline RecvMessage applies when none is
// given explicitly.
const DefaultRecvTimeout = 500 * time.Millisecond

// ErrMessageTooLarge is returned when a frame declares a payload size
// larger than MaxDataSize.
var ErrMessageTooLarge = errors.New("dprof: message payload exceeds MaxDataSize")

// Message is one IPC frame: a 1-byte id, a 4-byte little-endian payload
// length, then that many payload bytes.
type Message struct {
	ID   MessageID
	Data []byte
}

// SendMessage writes msg's frame to w.
func SendMessage(w io.Writer, msg Message) error {
	var header [5]byte
	header[0] = byte(msg.ID)
	binary.LittleEndian.PutUint32(header[1:], uint32(len(msg.Data)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if len(msg.Data) == 0 {
		return nil
	}
	_, err := w.Write(msg.Data)
	return err
}

// RecvMessage reads one frame from conn, applying timeout as a read
// deadline (timeout <= 0 leaves any existing deadline untouched). Returns
// io.EOF when the peer closed the connection cleanly between frames.
func RecvMessage(conn net.Conn, timeout time.Duration) (Message, error) {
	if timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return Message{}, err
		}
	}

	var header [5]byte
	if _, err := io.ReadFull(conn, header[:]); err != nil {
		return Message{}, err
	}

	id := MessageID(header[0])
	size := binary.LittleEndian.Uint32(header[1:])
	if size > MaxDataSize {
		return Message{}, ErrMessageTooLarge
	}

	data := make([]byte, size)
	if size > 0 {
		if _, err := io.ReadFull(conn, data); err != nil {
			return Message{}, err
		}
	}
	return Message{ID: id, Data: data}, nil
}
