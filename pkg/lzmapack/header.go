package lzmapack

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// PrefixSize is the number of size bytes in front of the LZMA stream.
	PrefixSize = 5
	// SizeFieldOffset is the absolute offset of the LZMA header size field.
	SizeFieldOffset = PrefixSize + 5
	// HeaderSize covers the prefix and the whole 13 byte LZMA header.
	HeaderSize = PrefixSize + lzmaHeaderSize

	lzmaHeaderSize = 13
	unknownSize    = 1<<64 - 1
	prefixLimit    = 1 << (8 * PrefixSize)
)

// Header describes the leading bytes of a framed stream.
type Header struct {
	Prefix     uint64 // Low 5 bytes of the original size
	Properties byte
	LC, LP, PB int
	DictCap    uint32
	Size       uint64 // Original size as stored in the LZMA header
}

// SizeKnown returns false if the size field still holds the sentinel of an
// unpatched stream.
func (h *Header) SizeKnown() bool {
	return h.Size != unknownSize
}

// Consistent returns true if prefix and size field agree.
func (h *Header) Consistent() bool {
	return h.SizeKnown() && h.Prefix == h.Size%prefixLimit
}

// PrefixTruncated returns true if size does not fit into the prefix.
func PrefixTruncated(size uint64) bool {
	return size >= prefixLimit
}

func unexpectEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// ReadHeader reads and parses the first HeaderSize bytes of r.
func ReadHeader(r io.Reader) (*Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, newError(ErrInvalidHeader, "read header", unexpectEOF(err))
	}
	return ParseHeader(buf[:])
}

// ParseHeader parses the frame header at the start of data without touching
// the compressed payload.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, newError(ErrInvalidHeader, "parse header",
			fmt.Errorf("need %d bytes, got %d", HeaderSize, len(data)))
	}

	h := &Header{
		Prefix:     readPrefix(data),
		Properties: data[PrefixSize],
		DictCap:    binary.LittleEndian.Uint32(data[PrefixSize+1:]),
		Size:       binary.LittleEndian.Uint64(data[SizeFieldOffset:]),
	}

	props := int(h.Properties)
	if props >= 9*5*5 {
		return nil, newError(ErrInvalidHeader, "parse header",
			fmt.Errorf("properties byte %#02x out of range", h.Properties))
	}
	h.PB = props / (9 * 5)
	props -= h.PB * 9 * 5
	h.LP = props / 9
	h.LC = props - h.LP*9
	return h, nil
}

func readPrefix(data []byte) uint64 {
	var le [8]byte
	copy(le[:], data[:PrefixSize])
	return binary.LittleEndian.Uint64(le[:])
}

// PutPrefix stores the low 5 bytes of size at the start of frame.
func PutPrefix(frame []byte, size uint64) error {
	if len(frame) < PrefixSize {
		return newError(ErrInvalidHeader, "put prefix",
			fmt.Errorf("frame too short: %d bytes", len(frame)))
	}
	var le [8]byte
	binary.LittleEndian.PutUint64(le[:], size)
	copy(frame, le[:PrefixSize])
	return nil
}

// PatchSize overwrites the LZMA header size field of frame with size.
func PatchSize(frame []byte, size uint64) error {
	if len(frame) < HeaderSize {
		return newError(ErrInvalidHeader, "patch size",
			fmt.Errorf("frame too short: %d bytes", len(frame)))
	}
	binary.LittleEndian.PutUint64(frame[SizeFieldOffset:], size)
	return nil
}
