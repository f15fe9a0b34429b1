package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version string = "master" // Replaced by linker
var log = logrus.New()

var cfg = defaultConfig()

var rootCmd = &cobra.Command{
	Use:   "lzmapack [-d] <input> <output>",
	Short: "Compress or decompress a file with size-framed LZMA",
	Long: "Compress or decompress a file with LZMA. The original size is stored in\n" +
		"a 5 byte prefix and in the size field of the LZMA header.\n" +
		"Use - as input or output for stdin or stdout.",
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		c, err := loadConfig(path)
		if err != nil {
			return err
		}
		if err := c.applyFlags(cmd.Flags()); err != nil {
			return err
		}
		cfg = c
		log.SetLevel(cfg.logLevel)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		input, output, ok := pickFiles(args)
		if !ok {
			cmd.Usage()
			return
		}

		var rep *report
		var err error
		if decompress, _ := cmd.Flags().GetBool("decompress"); decompress {
			rep, err = decompressFile(input, output)
		} else {
			rep, err = compressFile(input, output, cfg.options)
		}
		if err != nil {
			log.Fatalf("%s", err)
		}
		rep.log()
	},
}

// pickFiles accepts two or three positional arguments. A third one is
// ignored, as older versions of the tool did.
func pickFiles(args []string) (input, output string, ok bool) {
	if len(args) < 2 || len(args) > 3 {
		return "", "", false
	}
	if len(args) == 3 {
		log.Debugf("Ignoring extra argument %q", args[2])
	}
	return args[0], args[1], true
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version of lzmapack",
	Args:  cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		println(version)
	},
}

func init() {
	rootCmd.Flags().BoolP("decompress", "d", false, "Decompress instead of compress")
	rootCmd.Flags().IntP("level", "l", cfg.options.Level, "Compression level (0-9)")
	rootCmd.Flags().String("dict-size", "32MiB", "LZMA dictionary size")
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug messages")

	rootCmd.AddCommand(infoCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%s", err)
	}
}
