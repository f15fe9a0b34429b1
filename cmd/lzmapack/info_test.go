package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ei-projects/lzmapack/pkg/lzmapack"
)

func TestHexDump(t *testing.T) {
	data := []byte("0123456789abcdef\x00\x01xyz")
	expected := "" +
		"00000000  30 31 32 33 34 35 36 37  38 39 61 62 63 64 65 66  |0123456789abcdef|\n" +
		"00000010  00 01 78 79 7A                                    |..xyz|\n" +
		"00000015\n"
	require.Equal(t, expected, getHexDump(data))
	require.Equal(t, "00000000\n", getHexDump(nil))
}

func TestPrintInfo(t *testing.T) {
	dir := t.TempDir()
	data := make([]byte, 4000)
	for i := range data {
		data[i] = byte(i*i + i/3)
	}
	frame, err := lzmapack.Compress(data, testOptions)
	require.NoError(t, err)
	path := writeTestFile(t, dir, "packed", frame)

	var out bytes.Buffer
	require.NoError(t, printInfo(&out, path, true))
	text := out.String()
	require.Contains(t, text, "Prefix size: 4,000\n")
	require.Contains(t, text, "Stored size: 4,000 (3.9 KiB)\n")
	require.Contains(t, text, "lc=3 lp=0 pb=2 (0x5d)")
	require.Contains(t, text, "Dictionary:  64 KiB\n")
	require.Contains(t, text, "Consistent:  true\n")
	require.True(t, strings.HasSuffix(text, "00000020\n"), text)

	short := writeTestFile(t, dir, "short", []byte{1, 2, 3})
	require.Error(t, printInfo(&out, short, false))
	require.Error(t, printInfo(&out, filepath.Join(dir, "missing"), false))
}
