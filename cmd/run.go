package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/auditops/cadence/pkg/node"
	"github.com/auditops/cadence/pkg/pipeline"
	"github.com/auditops/cadence/pkg/report"
	"github.com/auditops/cadence/pkg/tabular"
)

// ErrRunFailed is returned when a pipeline run does not succeed
var ErrRunFailed = errors.New("cadence run failed")

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	runNode    string
	runARMT    string
	runOutflow string
	runMaster  string
	runOut     string
	runPeriod  string
)

//nolint:gochecknoglobals // Cobra commands are typically global
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the cadence pipeline once for a single node",
	Long: `Runs the full cadence pipeline for one node variant against the three
input workbooks and writes the finalized cadence workbook to the output
directory.`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runNode, "node", "", "node variant to process (BLR, IAS, GDN)")
	runCmd.Flags().StringVar(&runARMT, "armt", "", "path to the ARMT workbook")
	runCmd.Flags().StringVar(&runOutflow, "outflow", "", "path to the outflow workbook")
	runCmd.Flags().StringVar(&runMaster, "master", "", "path to the previous-month master cadence workbook")
	runCmd.Flags().StringVar(&runOut, "out", "./output", "output directory")
	runCmd.Flags().StringVar(&runPeriod, "period", "", "period label (default: current month)")

	for _, flag := range []string{"node", "armt", "outflow", "master"} {
		if err := runCmd.MarkFlagRequired(flag); err != nil {
			panic(err)
		}
	}
}

func readWorkbook(path string) (*tabular.Table, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided input file path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := tabular.ReadWorkbook(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return table, nil
}

func runOnce(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	registry := node.NewRegistry()
	cfg, err := registry.Get(runNode)
	if err != nil {
		return err
	}

	period := strings.TrimSpace(runPeriod)
	if period == "" {
		period = time.Now().UTC().Format("January 2006")
	}

	armt, err := readWorkbook(runARMT)
	if err != nil {
		return err
	}
	outflow, err := readWorkbook(runOutflow)
	if err != nil {
		return err
	}
	master, err := readWorkbook(runMaster)
	if err != nil {
		return err
	}

	pipe, err := pipeline.New(logger, cfg, nil)
	if err != nil {
		return err
	}

	result := pipe.Run(cmd.Context(), pipeline.Inputs{ARMT: armt, Outflow: outflow, Master: master}, period)

	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}

	summary, err := renderer.Render(result)
	if err != nil {
		return err
	}
	fmt.Print(summary)

	if !result.Success {
		return fmt.Errorf("%w: %s", ErrRunFailed, result.Error)
	}

	if err := os.MkdirAll(runOut, 0o755); err != nil {
		return err
	}

	path := filepath.Join(runOut, fmt.Sprintf("%s_Cadence_%s.xlsx", cfg.Name, period))
	f, err := os.Create(path) //nolint:gosec // User-provided output directory
	if err != nil {
		return err
	}
	defer f.Close()

	if err := tabular.WriteWorkbook(f, result.Cadence); err != nil {
		return fmt.Errorf("failed to write cadence workbook: %w", err)
	}

	logger.WithField("path", path).Info("Cadence workbook written")

	return nil
}
