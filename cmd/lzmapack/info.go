package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ei-projects/lzmapack/pkg/lzmapack"
)

const dumpSize = 32

var infoCmd = &cobra.Command{
	Use:   "info [--dump] <file>",
	Short: "Print the size header of a compressed file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dump, _ := cmd.Flags().GetBool("dump")
		if err := printInfo(cmd.OutOrStdout(), args[0], dump); err != nil {
			log.Fatalf("%s", err)
		}
	},
}

func init() {
	infoCmd.Flags().Bool("dump", false, "Also print a hex dump of the first bytes")
}

func encodeASCII(src []byte) string {
	var sb strings.Builder
	for _, b := range src {
		if b < 32 || b > 126 {
			sb.WriteByte('.')
		} else {
			sb.WriteByte(b)
		}
	}
	return sb.String()
}

// getHexDump formats data the way hexdump -C does.
func getHexDump(data []byte) string {
	var sb strings.Builder
	offset := 0
	for offset < len(data) {
		chunkLen := len(data) - offset
		if chunkLen > 16 {
			chunkLen = 16
		}
		var chunk strings.Builder
		for i := 0; i < chunkLen; i++ {
			if i > 0 && i%8 == 0 {
				chunk.WriteByte(' ')
			}
			fmt.Fprintf(&chunk, "%02X ", data[offset+i])
		}
		fmt.Fprintf(&sb, "%08X  %-49s |%s|\n", offset,
			chunk.String(), encodeASCII(data[offset:offset+chunkLen]))
		offset += chunkLen
	}
	fmt.Fprintf(&sb, "%08X\n", offset)
	return sb.String()
}

func printInfo(w io.Writer, path string, dump bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fail(lzmapack.ErrOpen, "open input", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fail(lzmapack.ErrRead, "stat input", err)
	}

	head := make([]byte, dumpSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fail(lzmapack.ErrRead, "read header", err)
	}
	head = head[:n]

	hdr, err := lzmapack.ParseHeader(head)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "File:        %s (%s bytes)\n", path, printer.Sprintf("%d", st.Size()))
	fmt.Fprintf(w, "Prefix size: %s\n", printer.Sprintf("%d", hdr.Prefix))
	if hdr.SizeKnown() {
		fmt.Fprintf(w, "Stored size: %s (%s)\n",
			printer.Sprintf("%d", hdr.Size), humanize.IBytes(hdr.Size))
	} else {
		fmt.Fprintf(w, "Stored size: unknown\n")
	}
	fmt.Fprintf(w, "Properties:  lc=%d lp=%d pb=%d (%#02x)\n", hdr.LC, hdr.LP, hdr.PB, hdr.Properties)
	fmt.Fprintf(w, "Dictionary:  %s\n", humanize.IBytes(uint64(hdr.DictCap)))
	fmt.Fprintf(w, "Consistent:  %v\n", hdr.Consistent())
	if hdr.SizeKnown() && hdr.Size > 0 {
		fmt.Fprintf(w, "Ratio:       %.1f%%\n", 100*float64(st.Size())/float64(hdr.Size))
	}
	if dump {
		fmt.Fprintf(w, "\n%s", getHexDump(head))
	}
	return nil
}
