package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"inventory-tracker/internal/i18n"
	"inventory-tracker/internal/report"

	"github.com/spf13/cobra"
)

func init() {
	var itemsFile, format, outFile string

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Render an inventory report from an items file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "pdf" && format != "html" {
				return fmt.Errorf("unknown format %q, want pdf or html", format)
			}
			if outFile == "" && format == "pdf" {
				outFile = report.Filename(time.Now())
			}

			var out io.Writer = os.Stdout
			if outFile != "" && outFile != "-" {
				f, err := os.Create(outFile)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", outFile, err)
				}
				defer f.Close()
				out = f
			}

			if err := runReport(itemsFile, format, localeFlag, time.Now(), out); err != nil {
				return err
			}
			if outFile != "" && outFile != "-" {
				fmt.Fprintln(os.Stderr, "wrote", outFile)
			}
			return nil
		},
	}
	reportCmd.Flags().StringVarP(&itemsFile, "items", "i", "", "JSON items file, - for stdin (required)")
	reportCmd.Flags().StringVarP(&format, "format", "f", "pdf", "Report format: pdf or html")
	reportCmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file; pdf defaults to inventory-YYYY-MM-DD.pdf, html to stdout")
	_ = reportCmd.MarkFlagRequired("items")
	rootCmd.AddCommand(reportCmd)
}

func runReport(itemsFile, format, locale string, now time.Time, out io.Writer) error {
	render := report.RenderPDF
	switch format {
	case "pdf":
	case "html":
		render = report.RenderHTML
	default:
		return fmt.Errorf("unknown format %q, want pdf or html", format)
	}

	items, err := loadItems(itemsFile)
	if err != nil {
		return err
	}

	bundle, err := i18n.NewBundle()
	if err != nil {
		return err
	}

	return render(out, report.Build(items, now), bundle.Translator(locale))
}
