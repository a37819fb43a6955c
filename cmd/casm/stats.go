package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/seanpm2001/decompressor-prototype/filt"
	"github.com/seanpm2001/decompressor-prototype/intcomp"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

// statsCmd runs the collect and selection phases only and reports the
// abbreviation table: the trie as a text tree on stdout, optionally a bar
// chart of selection weights as an HTML page.
func statsCmd(inPath, outPath *string, setup func(*cobra.Command) (intcomp.CompressionFlags, error)) *cobra.Command {
	var chartPath string
	var top int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report abbreviation selection for a module without compressing",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := setup(cmd)
			if err != nil {
				return err
			}
			in, err := os.Open(*inPath)
			if err != nil {
				return err
			}
			defer in.Close()

			input, err := intcomp.ReadModule(stream.NewQueue(), in, filt.NewSymbolTable())
			if err != nil {
				return err
			}
			root := intcomp.NewCountRoot()
			intcomp.CollectUsage(input, root, flags.LengthLimit)
			assignments := intcomp.AssignAbbreviations(root, input, flags)

			fmt.Printf("abbreviations: %d\n", len(assignments))
			for _, nd := range assignments {
				fmt.Printf("  %3d: %s\n", nd.AbbrevIndex(), describeAssignment(nd))
			}
			fmt.Println(root.ToTree().String())

			if chartPath != "" {
				return writeWeightChart(chartPath, assignments, top)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&chartPath, "chart", "", "write an HTML bar chart of selection weights")
	cmd.Flags().IntVar(&top, "top", 32, "number of abbreviations to chart")
	return cmd
}

func describeAssignment(nd *intcomp.CountNode) string {
	if nd.Kind() == intcomp.KindInt {
		return fmt.Sprintf("path %v count=%d weight=%d uses=%d",
			nd.Path(), nd.Count(), nd.Weight(), nd.Uses())
	}
	return fmt.Sprintf("%s uses=%d", nd.Kind(), nd.Uses())
}

func writeWeightChart(path string, assignments []*intcomp.CountNode, top int) error {
	sorted := append([]*intcomp.CountNode(nil), assignments...)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].Weight() > sorted[b].Weight() })
	if top > 0 && len(sorted) > top {
		sorted = sorted[:top]
	}

	var labels []string
	var weights, uses []opts.BarData
	for _, nd := range sorted {
		label := nd.Kind().String()
		if nd.Kind() == intcomp.KindInt {
			label = fmt.Sprintf("%v", nd.Path())
		}
		labels = append(labels, label)
		weights = append(weights, opts.BarData{Value: nd.Weight()})
		uses = append(uses, opts.BarData{Value: nd.Uses()})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Abbreviation selection"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("weight", weights).
		AddSeries("uses", uses)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return bar.Render(f)
}
