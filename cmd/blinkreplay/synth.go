package main

import (
	"fmt"
	"io"
	"os"

	"github.com/esimov/blinkfade/trace"
	"github.com/spf13/cobra"
)

var (
	synthEARs   []float64
	synthRepeat int
	synthOut    string
)

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Generate a synthetic landmark trace from an EAR schedule",
	Example: `  # open, two closed frames, no face, open; repeated 20 times
  blinkreplay synth --ears 0.3,0.1,0.1,-1,0.3 --repeat 20 -o blinks.jsonl`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if len(synthEARs) == 0 {
			return fmt.Errorf("the EAR schedule is empty")
		}
		if synthRepeat < 1 {
			return fmt.Errorf("invalid repeat count %d", synthRepeat)
		}

		ears := make([]float64, 0, len(synthEARs)*synthRepeat)
		for i := 0; i < synthRepeat; i++ {
			ears = append(ears, synthEARs...)
		}

		var w io.Writer = cmd.OutOrStdout()
		if synthOut != "" && synthOut != "-" {
			f, err := os.Create(synthOut)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		tw := trace.NewWriter(w)
		for _, rec := range trace.Synthesize(ears) {
			if err := tw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	synthCmd.Flags().Float64SliceVar(&synthEARs, "ears", nil, "EAR per frame, negative for a frame without a face")
	synthCmd.Flags().IntVar(&synthRepeat, "repeat", 1, "number of times the schedule is repeated")
	synthCmd.Flags().StringVarP(&synthOut, "out", "o", "-", "output file, - for stdout")
}
