package main

import (
	"bytes"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz/lzma"

	"github.com/ei-projects/lzmapack/pkg/lzmapack"
)

var testOptions = lzmapack.Options{Level: lzmapack.DefaultLevel, DictCap: 1 << 16}

func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, data, 0600))
	return path
}

func TestCompressDecompressFile(t *testing.T) {
	dir := t.TempDir()
	data := bytes.Repeat([]byte("lorem ipsum dolor sit amet "), 4096)
	input := writeTestFile(t, dir, "plain", data)
	packed := filepath.Join(dir, "packed")
	unpacked := filepath.Join(dir, "unpacked")

	rep, err := compressFile(input, packed, testOptions)
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), rep.inSize)
	require.True(t, rep.outSize < rep.inSize)
	rep.log()

	frame, err := ioutil.ReadFile(packed)
	require.NoError(t, err)
	require.Equal(t, rep.outSize, int64(len(frame)))
	hdr, err := lzmapack.ParseHeader(frame)
	require.NoError(t, err)
	require.Equal(t, uint64(len(data)), hdr.Size)
	require.True(t, hdr.Consistent())

	rep, err = decompressFile(packed, unpacked)
	require.NoError(t, err)
	require.Equal(t, int64(len(frame)), rep.inSize)
	require.Equal(t, int64(len(data)), rep.outSize)

	result, err := ioutil.ReadFile(unpacked)
	require.NoError(t, err)
	require.Equal(t, data, result)
}

func TestOutputIsTruncated(t *testing.T) {
	dir := t.TempDir()
	input := writeTestFile(t, dir, "plain", []byte("tiny"))
	packed := filepath.Join(dir, "packed")
	output := writeTestFile(t, dir, "output", bytes.Repeat([]byte{0xAA}, 1<<16))

	_, err := compressFile(input, packed, testOptions)
	require.NoError(t, err)
	_, err = decompressFile(packed, output)
	require.NoError(t, err)

	result, err := ioutil.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, []byte("tiny"), result)
}

func TestEmptyFile(t *testing.T) {
	dir := t.TempDir()
	input := writeTestFile(t, dir, "empty", nil)
	packed := filepath.Join(dir, "packed")
	unpacked := filepath.Join(dir, "unpacked")

	_, err := compressFile(input, packed, testOptions)
	require.NoError(t, err)
	_, err = decompressFile(packed, unpacked)
	require.NoError(t, err)

	st, err := os.Stat(unpacked)
	require.NoError(t, err)
	require.Equal(t, int64(0), st.Size())
}

func TestStdio(t *testing.T) {
	oldStdin, oldStdout := stdin, stdout
	defer func() { stdin, stdout = oldStdin, oldStdout }()

	data := bytes.Repeat([]byte{1, 2, 3, 4}, 1000)
	var packed bytes.Buffer
	stdin, stdout = bytes.NewReader(data), &packed
	rep, err := compressFile(stdioPath, stdioPath, testOptions)
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), rep.inSize)
	require.Equal(t, int64(packed.Len()), rep.outSize)

	var unpacked bytes.Buffer
	stdin, stdout = bytes.NewReader(packed.Bytes()), &unpacked
	_, err = decompressFile(stdioPath, stdioPath)
	require.NoError(t, err)
	require.Equal(t, data, unpacked.Bytes())
}

func TestFileErrors(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")

	_, err := compressFile(missing, filepath.Join(dir, "out"), testOptions)
	require.True(t, errors.Is(err, lzmapack.ErrOpen), "got %v", err)
	require.True(t, os.IsNotExist(errors.Unwrap(err)), "got %v", err)

	_, err = decompressFile(missing, filepath.Join(dir, "out"))
	require.True(t, errors.Is(err, lzmapack.ErrOpen), "got %v", err)

	input := writeTestFile(t, dir, "plain", []byte("data"))
	_, err = compressFile(input, filepath.Join(dir, "no", "such", "dir"), testOptions)
	require.True(t, errors.Is(err, lzmapack.ErrOpen), "got %v", err)

	garbage := writeTestFile(t, dir, "garbage", []byte("not compressed"))
	_, err = decompressFile(garbage, filepath.Join(dir, "out"))
	require.Error(t, err)
}

func TestStdinEmptyOutput(t *testing.T) {
	oldStdin, oldStdout := stdin, stdout
	defer func() { stdin, stdout = oldStdin, oldStdout }()

	// Prefix plus an LZMA stream with unknown size and no content.
	var packed bytes.Buffer
	packed.Write(make([]byte, lzmapack.PrefixSize))
	wc := lzma.WriterConfig{DictCap: 1 << 16, EOSMarker: true}
	w, err := wc.NewWriter(&packed)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	dir := t.TempDir()
	file := writeTestFile(t, dir, "packed", packed.Bytes())
	_, err = decompressFile(file, filepath.Join(dir, "out"))
	require.True(t, errors.Is(err, lzmapack.ErrEmptyOutput), "got %v", err)

	var out bytes.Buffer
	stdin, stdout = bytes.NewReader(packed.Bytes()), &out
	_, err = decompressFile(stdioPath, stdioPath)
	require.True(t, errors.Is(err, lzmapack.ErrEmptyOutput), "got %v", err)
	require.Equal(t, 0, out.Len())
}
