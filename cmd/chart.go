package cmd

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewer/internal/chart"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Generate a random chart to practice describing",
	Long: "Generate a random bar, line, pie or scatter chart. The data is printed " +
		"as a table. The PNG stays in memory; --json includes it base64-encoded.",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetUint64("seed")
		kindName, _ := cmd.Flags().GetString("kind")
		asJSON, _ := cmd.Flags().GetBool("json")

		gen := chart.NewRandom()
		if cmd.Flags().Changed("seed") {
			gen = chart.NewSeeded(seed)
		}

		var (
			res *chart.Result
			err error
		)
		if kindName != "" {
			kind, kerr := chart.ParseKind(kindName)
			if kerr != nil {
				return kerr
			}
			res, err = gen.GenerateKind(kind)
		} else {
			res, err = gen.Generate()
		}
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				*chart.Result
				PNG string `json:"png_base64"`
			}{res, base64.StdEncoding.EncodeToString(res.Image)})
		}

		fmt.Fprintln(w, res.Caption)
		fmt.Fprintln(w)
		fmt.Fprint(w, res.Data.Describe())
		fmt.Fprintf(w, "\nPNG rendered in memory (%d bytes)\n", len(res.Image))
		return nil
	},
}

func init() {
	chartCmd.Flags().Uint64("seed", 0, "Seed for a reproducible chart")
	chartCmd.Flags().StringP("kind", "k", "", "Chart kind: bar, line, pie or scatter (default: random)")
	chartCmd.Flags().Bool("json", false, "Print the chart data as JSON with the PNG base64-encoded")
}
