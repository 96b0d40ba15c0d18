package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tidyset/internal/dataset"
	"github.com/KaramelBytes/tidyset/internal/utils"
)

var (
	clFlags   cleanFlags
	clOutput  string
	clReport  string
	clFormat  string
	clPreview int
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Clean a CSV/TSV/XLSX file and print a report of every step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		g := effectiveConfig()

		ccfg, err := clFlags.cleanerConfig(cmd)
		if err != nil {
			return err
		}
		opt, err := clFlags.readOptions()
		if err != nil {
			return err
		}
		format := g.ReportFormat
		if cmd.Flags().Changed("format") {
			format = clFormat
		}
		preview := g.PreviewRows
		if cmd.Flags().Changed("preview") {
			preview = clPreview
		}

		output := clOutput
		if output == "" {
			output = utils.DerivedPath(path, g.OutputDir, cleanedSuffix)
		}
		res, err := cleanFile(ccfg, opt, path, output)
		if err != nil {
			return err
		}
		if clReport != "" {
			if err := res.record().Save(clReport); err != nil {
				return fmt.Errorf("save report: %w", err)
			}
		}
		if clFlags.quiet {
			return nil
		}

		out := cmd.OutOrStdout()
		text, err := renderReport(res.report, format)
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)
		if preview > 0 {
			fmt.Fprintln(out, "\n[PREVIEW]")
			fmt.Fprint(out, dataset.Preview(res.out, preview))
		}
		fmt.Fprintf(out, "\n✓ Wrote cleaned data to %s\n", output)
		if clReport != "" {
			fmt.Fprintf(out, "✓ Saved report to %s\n", clReport)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	clFlags.bind(cleanCmd)
	cleanCmd.Flags().StringVarP(&clOutput, "output", "o", "", "cleaned CSV path (default: <input>.cleaned.csv next to the input or under output_dir)")
	cleanCmd.Flags().StringVarP(&clReport, "report", "r", "", "save the run record; extension picks the format (.json, .yaml, .md)")
	cleanCmd.Flags().StringVar(&clFormat, "format", "markdown", "report format on stdout: markdown|json|yaml (overrides config)")
	cleanCmd.Flags().IntVar(&clPreview, "preview", 0, "number of cleaned rows to preview, 0 disables (overrides config)")
}
