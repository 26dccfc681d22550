package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"

	"github.com/angelmondragon/orderlens/internal/analytics"
	"github.com/angelmondragon/orderlens/internal/analytics/types"
	"github.com/angelmondragon/orderlens/internal/ingest"
	"github.com/angelmondragon/orderlens/internal/report"
	"github.com/angelmondragon/orderlens/pkg/config"
	"github.com/angelmondragon/orderlens/pkg/enums"
	"github.com/angelmondragon/orderlens/pkg/logger"
)

type globalFlags struct {
	file     string
	format   string
	output   string
	lang     string
	logLevel string
	mapping  types.ColumnMapping
}

type app struct {
	parser   *ingest.Parser
	service  analytics.Service
	renderer *report.Renderer
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{mapping: types.DefaultColumnMapping()}

	cmd := &cobra.Command{
		Use:           "orderlens",
		Short:         "Order analytics and projections for order exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.file, "file", "f", "", "Order table to read (CSV or XLSX)")
	pf.StringVar(&flags.format, "format", "", "Table format (csv, xlsx); inferred from the file name when empty")
	pf.StringVarP(&flags.output, "output", "o", "text", "Output format (text, json)")
	pf.StringVar(&flags.lang, "lang", "en", "Language used to format numbers")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.mapping.OrderNumber, "col-order", flags.mapping.OrderNumber, "Header of the order number column")
	pf.StringVar(&flags.mapping.SKU, "col-sku", flags.mapping.SKU, "Header of the SKU column")
	pf.StringVar(&flags.mapping.Quantity, "col-quantity", flags.mapping.Quantity, "Header of the quantity column")
	pf.StringVar(&flags.mapping.Date, "col-date", flags.mapping.Date, "Header of the date column")
	_ = cmd.MarkPersistentFlagRequired("file")

	cmd.AddCommand(periodsCmd(flags), compareCmd(flags), predictCmd(flags), sheetsCmd(flags))
	return cmd
}

func newApp(flags *globalFlags, stderr io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	tag, err := language.Parse(flags.lang)
	if err != nil {
		return nil, fmt.Errorf("invalid --lang %q: %w", flags.lang, err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "orderlens-cli",
		Level:       logger.ParseLevel(flags.logLevel),
		Output:      stderr,
	})
	return &app{
		parser:   ingest.NewParser(logg, nil),
		service:  analytics.NewService(analytics.Options{Logger: logg, Defaults: cfg.Analytics}),
		renderer: report.New(report.Options{Language: tag}),
	}, nil
}

// load reads and parses the --file table and prints its skipped rows to stderr.
func (a *app) load(ctx context.Context, flags *globalFlags, stderr io.Writer) ([]types.OrderRecord, error) {
	format := enums.FileFormatFromName(flags.file)
	if flags.format != "" {
		parsed, err := enums.ParseFileFormat(flags.format)
		if err != nil {
			return nil, err
		}
		format = parsed
	}

	f, err := os.Open(flags.file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res, err := a.parser.Parse(ctx, f, ingest.Options{Format: format, Mapping: flags.mapping})
	if err != nil {
		return nil, err
	}
	a.renderer.Diagnostics(stderr, res.Diagnostics)
	return res.Records, nil
}

func emit(w io.Writer, output string, value any, text func(io.Writer) error) error {
	switch strings.ToLower(output) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case "text", "":
		return text(w)
	default:
		return fmt.Errorf("unsupported --output %q", output)
	}
}

func periodsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "periods",
		Short: "List the weeks, months, quarters and years present in the file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			records, err := a.load(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			resp, err := a.service.Periods(cmd.Context(), records)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), flags.output, resp, func(w io.Writer) error {
				return a.renderer.Periods(w, resp)
			})
		},
	}
}

func compareCmd(flags *globalFlags) *cobra.Command {
	var (
		periodType string
		type2      string
		period1    string
		period2    string
		custom     types.CustomRange
		topSKUs    int
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two periods; defaults to the last two months in the file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			records, err := a.load(ctx, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			sel, err := selectionFromFlags(ctx, a.service, records, periodType, type2, period1, period2, custom)
			if err != nil {
				return err
			}
			rep, err := a.service.Compare(ctx, types.CompareRequest{Records: records, Selection: *sel, TopSKUs: topSKUs})
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), flags.output, rep, func(w io.Writer) error {
				return a.renderer.Comparison(w, rep)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&periodType, "type", "", "Period type (week, month, quarter, year, custom)")
	f.StringVar(&type2, "type2", "", "Period type of the second period when it differs from --type")
	f.StringVar(&period1, "period1", "", "First period key, e.g. 2024-02 or 2024-Q1")
	f.StringVar(&period2, "period2", "", "Second period key")
	f.StringVar(&custom.Start1, "start1", "", "Custom range: first period start")
	f.StringVar(&custom.End1, "end1", "", "Custom range: first period end")
	f.StringVar(&custom.Start2, "start2", "", "Custom range: second period start")
	f.StringVar(&custom.End2, "end2", "", "Custom range: second period end")
	f.IntVar(&topSKUs, "top", 0, "Number of top SKUs per period")
	return cmd
}

// selectionFromFlags builds the compared selection. Without --type the dataset's default
// selection is used; with a type but no keys, the last two keys of that granularity. --type2
// needs explicit keys.
func selectionFromFlags(ctx context.Context, svc analytics.Service, records []types.OrderRecord, periodType, type2, period1, period2 string, custom types.CustomRange) (*types.PeriodSelection, error) {
	periods, err := svc.Periods(ctx, records)
	if err != nil {
		return nil, err
	}
	if periodType == "" {
		if periods.Initial == nil {
			return nil, fmt.Errorf("the file spans fewer than two months; pass --type with explicit periods")
		}
		return periods.Initial, nil
	}

	pt, err := enums.ParsePeriodType(periodType)
	if err != nil {
		return nil, err
	}
	sel := &types.PeriodSelection{Type: pt, Period1: period1, Period2: period2}
	if pt == enums.PeriodCustom {
		sel.CustomRange = &custom
		return sel, nil
	}
	if type2 != "" {
		pt2, err := enums.ParsePeriodType(type2)
		if err != nil {
			return nil, err
		}
		if period1 == "" || period2 == "" {
			return nil, fmt.Errorf("--type2 needs both --period1 and --period2")
		}
		sel.Type2 = pt2
		return sel, nil
	}
	if period1 == "" && period2 == "" {
		keys := periods.Available.For(pt)
		if len(keys) < 2 {
			return nil, fmt.Errorf("the file has fewer than two %s periods", pt)
		}
		sel.Period1, sel.Period2 = keys[len(keys)-2], keys[len(keys)-1]
	}
	return sel, nil
}

func predictCmd(flags *globalFlags) *cobra.Command {
	var (
		growth  float64
		horizon int
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Project order volume and packaging needs forward",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			records, err := a.load(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			rep, err := a.service.Predict(cmd.Context(), types.PredictRequest{Records: records, GrowthRate: growth, Horizon: horizon})
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), flags.output, rep, func(w io.Writer) error {
				return a.renderer.Predictions(w, rep)
			})
		},
	}

	cmd.Flags().Float64Var(&growth, "growth", 0, "Monthly growth factor (1.0 is flat); defaults to the configured rate")
	cmd.Flags().IntVar(&horizon, "months", 0, "Months to project (1-12); defaults to the configured horizon")
	return cmd
}

// sheetsCmd lists the sheets of an XLSX file. Only the first one is read by the other commands.
func sheetsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sheets",
		Short: "List the sheets of an XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := excelize.OpenFile(flags.file)
			if err != nil {
				return fmt.Errorf("open workbook: %w", err)
			}
			defer f.Close()
			for i, name := range f.GetSheetList() {
				marker := ""
				if i == 0 {
					marker = " (read)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s%s\n", i+1, name, marker)
			}
			return nil
		},
	}
}
