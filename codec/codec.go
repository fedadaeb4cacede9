// Package codec defines the wire envelope for staged index artifacts.
//
// Every artifact written to remote storage is framed as:
//
//	[Magic uint32][Version uint8][Compression uint8][PayloadLen uint32][CRC32C uint32][Payload...]
//
// all integers little-endian. The CRC covers the uncompressed payload, so a
// decode failure distinguishes transport corruption from a format mismatch.
// Codec selection is a breaking-change boundary: bytes written with one
// envelope version may not decode under another.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/veclake/veclake/internal/hash"
)

const (
	// Magic identifies a veclake artifact envelope ("VLK1").
	Magic uint32 = 0x564C4B31
	// Version is the current envelope version.
	Version uint8 = 1

	headerSize = 14
)

var (
	// ErrBadMagic is returned when bytes do not start with the envelope magic.
	ErrBadMagic = errors.New("codec: bad magic")
	// ErrChecksum is returned when the payload checksum does not match.
	ErrChecksum = errors.New("codec: checksum mismatch")
	// ErrUnsupportedCompression is returned for an unknown compression tag.
	ErrUnsupportedCompression = errors.New("codec: unsupported compression")
	// ErrTruncated is returned when the envelope is shorter than its header
	// or declared payload length.
	ErrTruncated = errors.New("codec: truncated envelope")
)

// Artifact is a named byte buffer produced by an index build or decoded
// from remote storage.
type Artifact struct {
	Name    string
	Payload []byte
}

// Size returns the payload size in bytes.
func (a *Artifact) Size() int64 {
	return int64(len(a.Payload))
}

// Encode frames payload with the envelope header, compressing per c.
func Encode(payload []byte, c Compression) ([]byte, error) {
	body, err := compress(payload, c)
	if err != nil {
		return nil, err
	}

	out := make([]byte, headerSize+len(body))
	binary.LittleEndian.PutUint32(out[0:4], Magic)
	out[4] = Version
	out[5] = uint8(c)
	binary.LittleEndian.PutUint32(out[6:10], uint32(len(payload)))
	binary.LittleEndian.PutUint32(out[10:14], hash.CRC32C(payload))
	copy(out[headerSize:], body)
	return out, nil
}

// Decode parses an envelope and returns the verified payload.
func Decode(raw []byte) ([]byte, error) {
	if len(raw) < headerSize {
		return nil, ErrTruncated
	}
	if binary.LittleEndian.Uint32(raw[0:4]) != Magic {
		return nil, ErrBadMagic
	}
	if v := raw[4]; v != Version {
		return nil, fmt.Errorf("codec: unsupported envelope version %d", v)
	}

	c := Compression(raw[5])
	plen := binary.LittleEndian.Uint32(raw[6:10])
	want := binary.LittleEndian.Uint32(raw[10:14])

	payload, err := decompress(raw[headerSize:], c, int(plen))
	if err != nil {
		return nil, err
	}
	if len(payload) != int(plen) {
		return nil, ErrTruncated
	}
	if hash.CRC32C(payload) != want {
		return nil, ErrChecksum
	}
	return payload, nil
}
