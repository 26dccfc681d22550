// Package report renders analytics results as plain-text tables for the command line.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/angelmondragon/orderlens/internal/analytics/types"
)

// Options configures a Renderer. An empty RunID gets a random one.
type Options struct {
	Language language.Tag
	RunID    string
}

// Renderer writes reports. Counts are printed with the grouping of its language.
type Renderer struct {
	p     *message.Printer
	runID string
}

func New(opts Options) *Renderer {
	tag := opts.Language
	if tag == language.Und {
		tag = language.English
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Renderer{p: message.NewPrinter(tag), runID: runID}
}

// RunID identifies the rendered reports in headers.
func (r *Renderer) RunID() string {
	return r.runID
}

// Percent renders a percent change rounded to one decimal with an explicit sign.
func Percent(value float64) string {
	d := decimal.NewFromFloat(value).Round(1)
	if d.IsPositive() {
		return "+" + d.StringFixed(1) + "%"
	}
	if d.IsZero() {
		return "0.0%"
	}
	return d.StringFixed(1) + "%"
}

// Fixed renders value rounded to places decimals.
func Fixed(value float64, places int32) string {
	return decimal.NewFromFloat(value).StringFixed(places)
}

func (r *Renderer) count(n int) string {
	return r.p.Sprintf("%d", n)
}

func (r *Renderer) header(w io.Writer, title string) {
	fmt.Fprintf(w, "%s (run %s)\n", title, r.runID)
}

// Periods lists the periods a dataset can be compared on.
func (r *Renderer) Periods(w io.Writer, resp *types.PeriodsResponse) error {
	r.header(w, "Available periods")
	fmt.Fprintf(w, "Records: %s\n\n", r.count(resp.Records))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GRANULARITY\tCOUNT\tKEYS")
	rows := []struct {
		name string
		keys []string
	}{
		{"week", resp.Available.Weeks},
		{"month", resp.Available.Months},
		{"quarter", resp.Available.Quarters},
		{"year", resp.Available.Years},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", row.name, len(row.keys), strings.Join(row.keys, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if resp.Initial != nil {
		fmt.Fprintf(w, "\nDefault comparison: %s %s vs %s\n", resp.Initial.Type, resp.Initial.Period1, resp.Initial.Period2)
	} else {
		fmt.Fprintln(w, "\nDefault comparison: none (fewer than two months of data)")
	}
	return nil
}

// Comparison renders a two-period comparison.
func (r *Renderer) Comparison(w io.Writer, rep *types.ComparisonReport) error {
	p1, p2 := rep.Period1, rep.Period2
	r.header(w, "Order comparison")
	fmt.Fprintf(w, "%s vs %s\n\n", p1.DisplayLabel, p2.DisplayLabel)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "METRIC\t%s\t%s\tCHANGE\n", p1.DisplayLabel, p2.DisplayLabel)
	fmt.Fprintf(tw, "Total orders\t%s\t%s\t%s\n", r.count(p1.Metrics.TotalOrders), r.count(p2.Metrics.TotalOrders), Percent(rep.Deltas.TotalOrders))
	fmt.Fprintf(tw, "Total items\t%s\t%s\t%s\n", r.count(p1.Metrics.TotalItems), r.count(p2.Metrics.TotalItems), Percent(rep.Deltas.TotalItems))
	fmt.Fprintf(tw, "Average order size\t%s\t%s\t%s\n", Fixed(p1.Metrics.AverageOrderSize, 2), Fixed(p2.Metrics.AverageOrderSize, 2), Percent(rep.Deltas.AverageOrderSize))
	fmt.Fprintf(tw, "Unique SKUs\t%s\t%s\t%s\n", r.count(p1.Metrics.UniqueSKUs), r.count(p2.Metrics.UniqueSKUs), Percent(rep.Deltas.UniqueSKUs))
	fmt.Fprintf(tw, "Customers\t%s\t%s\t%s\n", r.count(p1.Customers.TotalCustomers), r.count(p2.Customers.TotalCustomers), Percent(rep.CustomerGrowth))
	fmt.Fprintf(tw, "Largest order\t%s\t%s\t\n", r.count(p1.OrderStats.MaxSize), r.count(p2.OrderStats.MaxSize))
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, period := range []types.PeriodReport{p1, p2} {
		fmt.Fprintf(w, "\nTop SKUs, %s\n", period.DisplayLabel)
		if len(period.TopSKUs) == 0 {
			fmt.Fprintln(w, "  (no orders)")
			continue
		}
		for i, sku := range period.TopSKUs {
			fmt.Fprintf(w, "  %d. %s  %s\n", i+1, sku.SKU, r.count(sku.Quantity))
		}
	}

	if len(rep.Products) > 0 {
		fmt.Fprintln(w, "\nProducts")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SKU\tQTY 1\tQTY 2\tLINES 1\tLINES 2")
		for _, row := range rep.Products {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", row.SKU, r.count(row.Period1Quantity), r.count(row.Period2Quantity), r.count(row.Period1Lines), r.count(row.Period2Lines))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "\nOrder sizes and packaging")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "BUCKET\t%s\t%s\n", p1.DisplayLabel, p2.DisplayLabel)
	d1, d2 := p1.Distribution, p2.Distribution
	fmt.Fprintf(tw, "1-2 items\t%d\t%d\n", d1.OneToTwo, d2.OneToTwo)
	fmt.Fprintf(tw, "3-5 items\t%d\t%d\n", d1.ThreeToFive, d2.ThreeToFive)
	fmt.Fprintf(tw, "6-10 items\t%d\t%d\n", d1.SixToTen, d2.SixToTen)
	fmt.Fprintf(tw, "11+ items\t%d\t%d\n", d1.ElevenPlus, d2.ElevenPlus)
	k1, k2 := p1.Packaging.Requirement, p2.Packaging.Requirement
	fmt.Fprintf(tw, "Envelopes\t%d\t%d\n", k1.Envelopes, k2.Envelopes)
	fmt.Fprintf(tw, "6-month boxes\t%d\t%d\n", k1.SixMonthBoxes, k2.SixMonthBoxes)
	fmt.Fprintf(tw, "12-month boxes\t%d\t%d\n", k1.TwelveMonthBoxes, k2.TwelveMonthBoxes)
	if err := tw.Flush(); err != nil {
		return err
	}

	r.diagnostics(w, "Rows excluded from the comparison", rep.Skipped)
	return nil
}

// Predictions renders the observed months followed by the projection. Projected rows are
// marked with an asterisk.
func (r *Renderer) Predictions(w io.Writer, rep *types.PredictionReport) error {
	r.header(w, "Order projection")
	fmt.Fprintf(w, "Growth %sx per month over %d months\n", Fixed(rep.GrowthRate, 2), rep.Horizon)
	fmt.Fprintf(w, "Orders: %s  Average order size: %s  Month over month: %s\n\n",
		r.count(rep.Summary.TotalOrders), Fixed(rep.Summary.AverageOrderSize, 2), Percent(rep.Summary.MonthOverMonthGrowth))

	if len(rep.History) == 0 && len(rep.Predictions) == 0 {
		fmt.Fprintln(w, "No dated orders to project from.")
		return nil
	}

	skus := rep.SKUs
	if len(skus) == 0 {
		skus = collectSKUs(rep)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "MONTH\tORDERS\tENVELOPES\t6M BOXES\t12M BOXES\t%s\t\n", strings.Join(skus, "\t"))
	write := func(row types.Prediction) {
		month := row.Month
		if !row.Historical {
			month += "*"
		}
		cells := []string{
			month,
			r.count(row.TotalOrders),
			r.count(row.Packaging.Envelopes),
			r.count(row.Packaging.SixMonthBoxes),
			r.count(row.Packaging.TwelveMonthBoxes),
		}
		for _, sku := range skus {
			cells = append(cells, r.count(row.SKUQuantities[sku]))
		}
		fmt.Fprintf(tw, "%s\t\n", strings.Join(cells, "\t"))
	}
	for _, row := range rep.History {
		write(row)
	}
	for _, row := range rep.Predictions {
		write(row)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(rep.SKUAverages) > 0 {
		fmt.Fprintln(w, "\nMonthly SKU averages")
		for _, sku := range skus {
			if avg, ok := rep.SKUAverages[sku]; ok {
				fmt.Fprintf(w, "  %s  %s\n", sku, Fixed(avg, 1))
			}
		}
	}
	return nil
}

// Diagnostics lists skipped input rows.
func (r *Renderer) Diagnostics(w io.Writer, diags []types.Diagnostic) {
	r.diagnostics(w, "Skipped rows", diags)
}

func (r *Renderer) diagnostics(w io.Writer, title string, diags []types.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s: %s\n", title, r.count(len(diags)))
	for _, d := range diags {
		fmt.Fprintf(w, "  row %d: %s\n", d.Row, d.Reason)
	}
}

func collectSKUs(rep *types.PredictionReport) []string {
	seen := map[string]struct{}{}
	for _, rows := range [][]types.Prediction{rep.History, rep.Predictions} {
		for _, row := range rows {
			for sku := range row.SKUQuantities {
				seen[sku] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for sku := range seen {
		out = append(out, sku)
	}
	sort.Strings(out)
	return out
}
