// Package lzmapack frames LZMA streams with the original size of the data.
//
// A framed stream is a 5 byte little-endian prefix holding the low 5 bytes of
// the uncompressed size, followed by a standard LZMA stream whose header size
// field carries the full 8 byte size instead of the "unknown" sentinel.
package lzmapack

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/ulikunitz/xz/lzma"
)

// Decoding output is preallocated up to this many bytes.
const maxPrealloc = 256 << 20

// sourceReader counts the bytes handed to the encoder and remembers read
// errors so they can be told apart from codec errors.
type sourceReader struct {
	r   io.Reader
	n   int64
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.n += int64(n)
	if err != nil && err != io.EOF {
		s.err = err
	}
	return n, err
}

// Encode compresses everything r yields. size must be the exact number of
// bytes r will produce, it is written into the frame header.
func Encode(r io.Reader, size int64, opts Options) ([]byte, error) {
	if size < 0 {
		return nil, newError(ErrSizeMismatch, "encode", fmt.Errorf("negative size %d", size))
	}

	cfg, err := opts.writerConfig()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(make([]byte, PrefixSize))
	w, err := cfg.NewWriter(&buf)
	if err != nil {
		return nil, newError(ErrCodecInit, "new writer", err)
	}

	src := &sourceReader{r: r}
	if _, err := io.Copy(w, src); err != nil {
		if src.err != nil {
			return nil, newError(ErrRead, "read input", src.err)
		}
		return nil, newError(ErrWrite, "compress", err)
	}
	if err := w.Close(); err != nil {
		return nil, newError(ErrWrite, "finish stream", err)
	}
	if src.n != size {
		return nil, newError(ErrSizeMismatch, "encode",
			fmt.Errorf("declared %d bytes, read %d", size, src.n))
	}

	frame := buf.Bytes()
	if len(frame) <= PrefixSize {
		return nil, newError(ErrEmptyOutput, "encode", nil)
	}
	if err := PatchSize(frame, uint64(size)); err != nil {
		return nil, err
	}
	if err := PutPrefix(frame, uint64(size)); err != nil {
		return nil, err
	}
	return frame, nil
}

// Decode reads a framed stream from the start of r and returns the
// decompressed data. The prefix is skipped, the size comes from the LZMA
// header.
func Decode(r io.ReadSeeker) ([]byte, error) {
	if _, err := r.Seek(PrefixSize, io.SeekStart); err != nil {
		return nil, newError(ErrRead, "skip prefix", err)
	}
	stream, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, newError(ErrRead, "read input", err)
	}
	return decodeStream(stream)
}

func decodeStream(stream []byte) ([]byte, error) {
	if len(stream) < lzmaHeaderSize {
		return nil, newError(ErrInvalidHeader, "decode",
			fmt.Errorf("stream too short: %d bytes", len(stream)))
	}
	declared := binary.LittleEndian.Uint64(stream[SizeFieldOffset-PrefixSize:])

	lr, err := lzma.NewReader(bytes.NewReader(stream))
	if err != nil {
		return nil, newError(ErrCodecInit, "new reader", err)
	}

	var out bytes.Buffer
	if declared != unknownSize && declared <= maxPrealloc {
		out.Grow(int(declared))
	}
	if _, err := out.ReadFrom(lr); err != nil {
		return nil, newError(ErrRead, "decompress", err)
	}
	if out.Len() == 0 && declared != 0 {
		return nil, newError(ErrEmptyOutput, "decode", nil)
	}
	return out.Bytes(), nil
}

// DecodeReader is Decode for streams that cannot seek, such as pipes. The
// prefix is read and dropped, the checks are the same as in Decode.
func DecodeReader(r io.Reader) ([]byte, error) {
	if _, err := io.CopyN(ioutil.Discard, r, PrefixSize); err != nil {
		return nil, newError(ErrInvalidHeader, "skip prefix", unexpectEOF(err))
	}
	stream, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, newError(ErrRead, "read input", err)
	}
	return decodeStream(stream)
}

// NewReader returns a reader decompressing the framed stream r. Unlike
// Decode it does not need to seek, the prefix is read and dropped.
func NewReader(r io.Reader) (io.Reader, error) {
	if _, err := io.CopyN(ioutil.Discard, r, PrefixSize); err != nil {
		return nil, newError(ErrInvalidHeader, "skip prefix", unexpectEOF(err))
	}
	lr, err := lzma.NewReader(r)
	if err != nil {
		return nil, newError(ErrCodecInit, "new reader", err)
	}
	return lr, nil
}

// Compress frames and compresses data.
func Compress(data []byte, opts Options) ([]byte, error) {
	return Encode(bytes.NewReader(data), int64(len(data)), opts)
}

// Decompress is the inverse of Compress.
func Decompress(data []byte) ([]byte, error) {
	return Decode(bytes.NewReader(data))
}
