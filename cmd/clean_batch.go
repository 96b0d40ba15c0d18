package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/tidyset/internal/utils"
)

var (
	cbFlags  cleanFlags
	cbOutDir string
	cbJobs   int
)

type batchJob struct {
	input   string
	cleaned string
	report  string
}

var cleanBatchCmd = &cobra.Command{
	Use:   "clean-batch <files...>",
	Short: "Clean many CSV/TSV/XLSX files concurrently, writing a cleaned CSV and JSON report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		g := effectiveConfig()

		ccfg, err := cbFlags.cleanerConfig(cmd)
		if err != nil {
			return err
		}
		opt, err := cbFlags.readOptions()
		if err != nil {
			return err
		}
		outDir := g.OutputDir
		if cbOutDir != "" {
			outDir = cbOutDir
		}
		jobs := g.Jobs
		if cmd.Flags().Changed("jobs") {
			jobs = cbJobs
		}
		if jobs < 1 {
			jobs = 1
		}

		// Output names are handed out up front, in input order, so collision
		// suffixes do not depend on scheduling.
		plan := make([]batchJob, 0, len(files))
		reserved := map[string]struct{}{}
		for _, f := range files {
			cleaned := utils.UniquePath(utils.DerivedPath(f, outDir, cleanedSuffix), cleanedSuffix, reserved)
			reserved[cleaned] = struct{}{}
			plan = append(plan, batchJob{input: f, cleaned: cleaned, report: reportPathFor(cleaned)})
		}

		out := cmd.OutOrStdout()
		var mu sync.Mutex
		printf := func(format string, a ...any) {
			if cbFlags.quiet {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(out, format, a...)
		}

		total := len(plan)
		eg, ctx := errgroup.WithContext(cmd.Context())
		eg.SetLimit(jobs)
		for i, j := range plan {
			i, j := i, j
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				printf("[%d/%d] Cleaning %s...\n", i+1, total, filepath.Base(j.input))
				res, err := cleanFile(ccfg, opt, j.input, j.cleaned)
				if err != nil {
					return err
				}
				if err := res.record().Save(j.report); err != nil {
					return fmt.Errorf("save report for %s: %w", j.input, err)
				}
				printf("✓ %s -> %s (%d duplicate(s) removed, %d column(s) converted)\n",
					filepath.Base(j.input), j.cleaned, res.report.DuplicatesRemoved, len(res.report.TypeConversions))
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
		printf("✓ Cleaned %d file(s)\n", total)
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, drops
// duplicates and sorts.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func init() {
	rootCmd.AddCommand(cleanBatchCmd)
	cbFlags.bind(cleanBatchCmd)
	cleanBatchCmd.Flags().StringVar(&cbOutDir, "out-dir", "", "directory for cleaned files and reports (default: next to each input or output_dir)")
	cleanBatchCmd.Flags().IntVar(&cbJobs, "jobs", 4, "files cleaned concurrently (overrides config)")
}
