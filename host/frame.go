package host

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// frameHeaderSize is the length prefix in front of every frame
	frameHeaderSize = 4
	// DefaultMaxFrameSize bounds a single message on a stream
	DefaultMaxFrameSize = 1 << 20
)

// writeFrame writes buf prefixed by its big-endian length
func writeFrame(w io.Writer, buf []byte, maxSize int) error {
	if len(buf) > maxSize {
		return fmt.Errorf("frame of %d bytes exceeds the limit of %d", len(buf), maxSize)
	}
	frame := make([]byte, frameHeaderSize+len(buf))
	binary.BigEndian.PutUint32(frame, uint32(len(buf)))
	copy(frame[frameHeaderSize:], buf)
	_, err := w.Write(frame)
	return err
}

// readFrame reads one length-prefixed frame
func readFrame(r io.Reader, maxSize int) ([]byte, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(header[:])
	if uint64(length) > uint64(maxSize) {
		return nil, fmt.Errorf("frame of %d bytes exceeds the limit of %d", length, maxSize)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
