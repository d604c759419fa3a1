package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang-stock-analyst/internal/analyzer/config"
	"golang-stock-analyst/internal/analyzer/report"
	"golang-stock-analyst/pkg/common"
	"golang-stock-analyst/pkg/logger"

	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	symbols []string
	format  string
	save    bool
	output  string
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [SYMBOL...]",
		Short: "Analyzes one or more stocks and prints the report",
		Example: `  stock-analyzer analyze AAPL
  stock-analyzer analyze -s MSFT --format markdown --save
  stock-analyzer analyze 0700.HK -o reports/tencent.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.symbols = append(opts.symbols, args...)
			return runAnalyze(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.symbols, "symbol", "s", nil, "Ticker symbol to analyze (repeatable)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", common.ReportFormatText, "Report format: text or markdown")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Save the report to <SYMBOL>_analysis_<timestamp>.<txt|md>")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save the report to this file (single symbol only)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions) error {
	if len(opts.symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	if opts.format != common.ReportFormatText && opts.format != common.ReportFormatMarkdown {
		return fmt.Errorf("unsupported format %q, use text or markdown", opts.format)
	}
	if opts.output != "" && len(opts.symbols) > 1 {
		return fmt.Errorf("--output can only be used with a single symbol")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	appLogger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = appLogger.Sync() }()

	analysisSvc, err := newAnalysisService(cfg, appLogger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var failed int
	for _, symbol := range opts.symbols {
		result, err := analysisSvc.Analyze(ctx, symbol)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "Failed to analyze %s: %v\n", symbol, err)
			continue
		}

		content, err := report.Render(result, opts.format)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, content)

		if opts.save || opts.output != "" {
			path, err := report.Save(result, opts.format, opts.output)
			if err != nil {
				return err
			}
			appLogger.Info("Report saved", logger.StringField("symbol", result.Symbol), logger.StringField("path", path))
			fmt.Fprintf(out, "Report saved to %s\n", path)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", failed, len(opts.symbols))
	}
	return nil
}
