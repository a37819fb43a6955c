// casm compresses and decompresses binary modules through the CASM
// abbreviation engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/seanpm2001/decompressor-prototype/intcomp"
	"github.com/seanpm2001/decompressor-prototype/log"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

var (
	Version = "dev"
	Commit  = "none"
)

// cliFlags is the YAML-loadable flag surface; command-line flags override
// file values.
type cliFlags struct {
	CountCutoff       uint64 `json:"countCutoff"`
	WeightCutoff      uint64 `json:"weightCutoff"`
	LengthLimit       int    `json:"lengthLimit"`
	MaxAssignments    int    `json:"maxAssignments"`
	MinimizeBlockSize bool   `json:"minimizeBlockSize"`
	UseHuffman        bool   `json:"useHuffman"`
	UseCismModel      bool   `json:"useCismModel"`
	AbbrevFormat      string `json:"abbrevFormat"`
	Trace             string `json:"trace"`
	Verbosity         string `json:"verbosity"`
}

func defaultCliFlags() cliFlags {
	d := intcomp.DefaultFlags()
	return cliFlags{
		CountCutoff:    d.CountCutoff,
		WeightCutoff:   d.WeightCutoff,
		LengthLimit:    d.LengthLimit,
		MaxAssignments: d.MaxAssignments,
		AbbrevFormat:   d.AbbrevFormat.String(),
		Verbosity:      "info",
	}
}

func (c *cliFlags) compressionFlags() (intcomp.CompressionFlags, error) {
	format, err := stream.ParseIntTypeFormat(c.AbbrevFormat)
	if err != nil {
		return intcomp.CompressionFlags{}, err
	}
	return intcomp.CompressionFlags{
		CountCutoff:        c.CountCutoff,
		WeightCutoff:       c.WeightCutoff,
		LengthLimit:        c.LengthLimit,
		MaxAssignments:     c.MaxAssignments,
		MinimizeBlockSize:  c.MinimizeBlockSize,
		UseHuffmanEncoding: c.UseHuffman,
		UseCismModel:       c.UseCismModel,
		AbbrevFormat:       format,
	}, nil
}

func main() {
	flags := defaultCliFlags()
	var configPath, inPath, outPath string

	rootCmd := &cobra.Command{
		Use:     "casm",
		Short:   "CASM module compressor",
		Version: fmt.Sprintf("%s (%s)", Version, Commit),
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file with compression flags")
	pf.StringVarP(&inPath, "input", "i", "", "input path")
	pf.StringVarP(&outPath, "output", "o", "", "output path")
	pf.Uint64Var(&flags.CountCutoff, "count-cutoff", flags.CountCutoff, "minimum occurrences for an abbreviation candidate")
	pf.Uint64Var(&flags.WeightCutoff, "weight-cutoff", flags.WeightCutoff, "minimum weight for an abbreviation candidate")
	pf.IntVar(&flags.LengthLimit, "length-limit", flags.LengthLimit, "maximum abbreviation path length")
	pf.IntVar(&flags.MaxAssignments, "max-assignments", flags.MaxAssignments, "maximum number of path abbreviations")
	pf.BoolVar(&flags.MinimizeBlockSize, "minimize-block-size", flags.MinimizeBlockSize, "use variable-size block prefixes")
	pf.BoolVar(&flags.UseHuffman, "use-huffman", flags.UseHuffman, "encode abbreviation indices with a prefix code")
	pf.BoolVar(&flags.UseCismModel, "use-cism-model", flags.UseCismModel, "emit the decoder as cism overrides")
	pf.StringVar(&flags.AbbrevFormat, "abbrev-format", flags.AbbrevFormat, "wire format of abbreviation indices")
	pf.StringVar(&flags.Trace, "trace", "", "comma-separated modules to trace (interp,intcomp,all)")
	pf.StringVar(&flags.Verbosity, "verbosity", flags.Verbosity, "log level (trace,debug,info,warn,error)")

	setup := func(cmd *cobra.Command) (intcomp.CompressionFlags, error) {
		if configPath != "" {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return intcomp.CompressionFlags{}, err
			}
			fromFile := flags
			if err := yaml.Unmarshal(data, &fromFile); err != nil {
				return intcomp.CompressionFlags{}, fmt.Errorf("config %s: %w", configPath, err)
			}
			// Explicit command-line flags win over file values.
			applyFileDefaults(cmd, &flags, &fromFile)
		}
		log.InitLogger(flags.Verbosity)
		if flags.Trace != "" {
			log.InitLogger("trace")
			log.EnableModules(flags.Trace)
		}
		return flags.compressionFlags()
	}

	rootCmd.AddCommand(compressCmd(&inPath, &outPath, setup))
	rootCmd.AddCommand(decompressCmd(&inPath, &outPath, setup))
	rootCmd.AddCommand(statsCmd(&inPath, &outPath, setup))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "casm: %v\n", err)
		os.Exit(1)
	}
}

// applyFileDefaults copies file values for every flag the user did not set
// explicitly on the command line.
func applyFileDefaults(cmd *cobra.Command, flags, fromFile *cliFlags) {
	changed := func(name string) bool { return cmd.Flags().Changed(name) }
	if !changed("count-cutoff") {
		flags.CountCutoff = fromFile.CountCutoff
	}
	if !changed("weight-cutoff") {
		flags.WeightCutoff = fromFile.WeightCutoff
	}
	if !changed("length-limit") {
		flags.LengthLimit = fromFile.LengthLimit
	}
	if !changed("max-assignments") {
		flags.MaxAssignments = fromFile.MaxAssignments
	}
	if !changed("minimize-block-size") {
		flags.MinimizeBlockSize = fromFile.MinimizeBlockSize
	}
	if !changed("use-huffman") {
		flags.UseHuffman = fromFile.UseHuffman
	}
	if !changed("use-cism-model") {
		flags.UseCismModel = fromFile.UseCismModel
	}
	if !changed("abbrev-format") {
		flags.AbbrevFormat = fromFile.AbbrevFormat
	}
}

func openStreams(inPath, outPath string) (*os.File, *os.File, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return nil, nil, err
	}
	out, err := os.Create(outPath)
	if err != nil {
		in.Close()
		return nil, nil, err
	}
	return in, out, nil
}

func compressCmd(inPath, outPath *string, setup func(*cobra.Command) (intcomp.CompressionFlags, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "compress",
		Short: "Compress a module to CASM form",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := setup(cmd)
			if err != nil {
				return err
			}
			in, out, err := openStreams(*inPath, *outPath)
			if err != nil {
				return err
			}
			defer in.Close()
			defer out.Close()
			compressor := intcomp.NewIntCompressor(flags)
			if err := compressor.Compress(in, out); err != nil {
				return err
			}
			log.Info("compressed", "input", *inPath, "output", *outPath,
				"abbreviations", len(compressor.Assignments()))
			return nil
		},
	}
}

func decompressCmd(inPath, outPath *string, setup func(*cobra.Command) (intcomp.CompressionFlags, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "decompress",
		Short: "Restore a module from CASM form",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := setup(cmd)
			if err != nil {
				return err
			}
			in, out, err := openStreams(*inPath, *outPath)
			if err != nil {
				return err
			}
			defer in.Close()
			defer out.Close()
			if err := intcomp.NewDecompressor(flags).Decompress(in, out); err != nil {
				return err
			}
			log.Info("decompressed", "input", *inPath, "output", *outPath)
			return nil
		},
	}
}
