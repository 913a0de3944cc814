package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"clanpulse/internal/report"
	"clanpulse/internal/snapshot"
	"clanpulse/internal/stats"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	reportOut    string
	reportPeriod string
	reportCharts bool
	reportJSON   bool
	reportOpen   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the clan dashboard as markdown",
	Long: `Loads the snapshot once, computes every dashboard section and writes the result
as markdown (or JSON with --json). Without --out the report goes to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		period := cfg.DefaultPeriod
		if reportPeriod != "" {
			p, err := stats.ParsePeriod(reportPeriod)
			if err != nil {
				return err
			}
			period = p
		}

		snap, err := snapshot.Load(cfg.SnapshotPath())
		if err != nil {
			return err
		}
		r, err := report.Build(cmd.Context(), snap, snap.Context(period))
		if err != nil {
			return err
		}

		var out []byte
		if reportJSON {
			if out, err = json.MarshalIndent(r, "", "  "); err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}
		} else {
			charts := reportCharts || cfg.EnableMermaidCharts
			out = []byte(report.Markdown(r, report.Options{Charts: charts}))
		}

		if reportOut == "" {
			if reportOpen {
				reportOut = filepath.Join(cfg.ReportsDir, defaultReportName(r, reportJSON))
			} else {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
		}

		if err := os.MkdirAll(filepath.Dir(reportOut), 0755); err != nil {
			return fmt.Errorf("failed to create output folder: %w", err)
		}
		if err := os.WriteFile(reportOut, out, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Info().Str("path", reportOut).Str("period", string(period)).Msg("Report written")

		if reportOpen {
			if err := browser.OpenFile(reportOut); err != nil {
				log.Warn().Err(err).Msg("Failed to open report")
			}
		}
		return nil
	},
}

func defaultReportName(r *report.Report, asJSON bool) string {
	ext := "md"
	if asJSON {
		ext = "json"
	}
	return fmt.Sprintf("%s-%s.%s", r.BuiltAt.Format(time.DateOnly), r.Context.Period, ext)
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output file (default stdout)")
	reportCmd.Flags().StringVarP(&reportPeriod, "period", "p", "", "reporting window: 7d or 30d (default DEFAULT_PERIOD)")
	reportCmd.Flags().BoolVar(&reportCharts, "charts", false, "include mermaid charts")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "write the report as JSON")
	reportCmd.Flags().BoolVar(&reportOpen, "open", false, "open the written report with the system viewer")
	rootCmd.AddCommand(reportCmd)
}
