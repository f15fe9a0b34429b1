package main

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ei-projects/lzmapack/pkg/lzmapack"
)

const stdioPath = "-"

// Replaced in tests
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

var printer = message.NewPrinter(language.English)

type report struct {
	op      string
	input   string
	inSize  int64
	outSize int64
	elapsed time.Duration
}

func (r *report) log() {
	ratio := 0.0
	if r.inSize > 0 {
		ratio = 100 * float64(r.outSize) / float64(r.inSize)
	}
	log.Infof("%s %s: %s -> %s (%.1f%%) in %s", r.op, r.input,
		humanize.IBytes(uint64(r.inSize)), humanize.IBytes(uint64(r.outSize)),
		ratio, r.elapsed.Round(time.Millisecond))
	log.Debugf("%s bytes in, %s bytes out",
		printer.Sprintf("%d", r.inSize), printer.Sprintf("%d", r.outSize))
}

func fail(kind error, op string, err error) error {
	return &lzmapack.Error{Kind: kind, Op: op, Err: err}
}

func writeOutput(path string, data []byte) error {
	if path == stdioPath {
		if _, err := stdout.Write(data); err != nil {
			return fail(lzmapack.ErrWrite, "write stdout", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fail(lzmapack.ErrOpen, "create output", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fail(lzmapack.ErrWrite, "write output", err)
	}
	if err := f.Close(); err != nil {
		return fail(lzmapack.ErrWrite, "close output", err)
	}
	return nil
}

func compressFile(input, output string, opts lzmapack.Options) (*report, error) {
	startTime := time.Now()

	var src io.Reader
	var size int64
	if input == stdioPath {
		// The frame needs the size up front.
		data, err := ioutil.ReadAll(stdin)
		if err != nil {
			return nil, fail(lzmapack.ErrRead, "read stdin", err)
		}
		src, size = bytes.NewReader(data), int64(len(data))
	} else {
		f, err := os.Open(input)
		if err != nil {
			return nil, fail(lzmapack.ErrOpen, "open input", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return nil, fail(lzmapack.ErrRead, "stat input", err)
		}
		src, size = f, info.Size()
	}

	if lzmapack.PrefixTruncated(uint64(size)) {
		log.Warnf("%s is %s, the 5 byte size prefix only keeps the low 40 bits",
			input, humanize.IBytes(uint64(size)))
	}
	log.Debugf("Compressing %s bytes with level %d, dictionary %s",
		printer.Sprintf("%d", size), opts.Level, humanize.IBytes(uint64(opts.EffectiveDictCap())))

	frame, err := lzmapack.Encode(src, size, opts)
	if err != nil {
		return nil, err
	}
	if err := writeOutput(output, frame); err != nil {
		return nil, err
	}

	return &report{
		op:      "Compressed",
		input:   input,
		inSize:  size,
		outSize: int64(len(frame)),
		elapsed: time.Since(startTime),
	}, nil
}

func decompressFile(input, output string) (*report, error) {
	startTime := time.Now()

	var data []byte
	var inSize int64
	if input == stdioPath {
		cr := &countingReader{r: stdin}
		var err error
		if data, err = lzmapack.DecodeReader(cr); err != nil {
			return nil, err
		}
		inSize = cr.n
	} else {
		f, err := os.Open(input)
		if err != nil {
			return nil, fail(lzmapack.ErrOpen, "open input", err)
		}
		defer f.Close()

		if data, err = lzmapack.Decode(f); err != nil {
			return nil, err
		}
		if inSize, err = f.Seek(0, io.SeekCurrent); err != nil {
			return nil, fail(lzmapack.ErrRead, "seek input", err)
		}
	}

	if err := writeOutput(output, data); err != nil {
		return nil, err
	}

	return &report{
		op:      "Decompressed",
		input:   input,
		inSize:  inSize,
		outSize: int64(len(data)),
		elapsed: time.Since(startTime),
	}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
