package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the selectable roles, levels and topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cat)
		}

		fmt.Fprintf(w, "Roles:   %s\n", strings.Join(cat.Roles, ", "))
		fmt.Fprintf(w, "Levels:  %s\n", strings.Join(cat.Levels, ", "))
		fmt.Fprintf(w, "Topics:  %s\n", strings.Join(cat.Topics, ", "))
		fmt.Fprintf(w, "Chart:   %s\n", cat.ChartTopic)
		return nil
	},
}

func init() {
	catalogCmd.Flags().Bool("yaml", false, "Print the catalog as a YAML document usable with --catalog")
}
