package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"salesdash/internal/calculator"
	"salesdash/internal/exporter"
	"salesdash/internal/i18n"
	"salesdash/internal/importer"
	"salesdash/internal/model"
	"salesdash/internal/parser"
)

var (
	file   = flag.String("file", "", "销售报表 (.csv / .xlsx / .xls)；为空时使用内置数据")
	lang   = flag.String("lang", "ru", "输出语言 (ru / en)")
	export = flag.String("export", "", "同时导出到文件 (.csv / .xlsx)")
)

func main() {
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(os.Stdout, *file, model.ParseLanguage(*lang), *export); err != nil {
		logger.Error("report failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(w io.Writer, path string, language model.Language, exportPath string) error {
	records, err := loadRecords(path)
	if err != nil {
		return err
	}

	kpis := calculator.CalculateKPIs(records)
	printReport(w, records, kpis, language)

	if exportPath == "" {
		return nil
	}
	format, err := exporter.ParseFormat(strings.TrimPrefix(filepath.Ext(exportPath), "."))
	if err != nil {
		return err
	}
	out, err := os.Create(exportPath)
	if err != nil {
		return err
	}
	defer out.Close()
	return exporter.Export(out, format, records, kpis, language)
}

func loadRecords(path string) ([]model.SalesRecord, error) {
	if path == "" {
		return parser.DefaultRecords(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	grid, err := importer.DecodeFile(path, data)
	if err != nil {
		return nil, err
	}

	records := parser.NormalizeUpload(grid)
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), importer.ErrNoRecords)
	}
	return records, nil
}

func printReport(w io.Writer, records []model.SalesRecord, kpis model.KPIMetrics, language model.Language) {
	t := i18n.Labels(language)

	fmt.Fprintf(w, "%s\n\n", t.AppTitle)
	for _, ind := range calculator.Indicators(kpis, language) {
		value := i18n.FormatNumber(ind.Value)
		if ind.Unit == t.Currency {
			value = i18n.FormatCurrency(ind.Value)
		} else if ind.Unit != "" {
			value += " " + ind.Unit
		}
		fmt.Fprintf(w, "  %-28s %s\n", ind.Name, value)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", t.ColSource, t.ColLeads, t.ColSuccessful, t.ColEfficiency, t.ColRevenue, t.ColAvgCheck)
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s%%\t%s\t%s\t\n",
			r.Source,
			i18n.FormatNumber(r.Leads),
			i18n.FormatNumber(r.Successful),
			i18n.FormatNumber(r.Efficiency),
			i18n.FormatCurrency(r.Revenue),
			i18n.FormatCurrency(r.AvgCheck))
	}
	tw.Flush()
}
