package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ai-first-exchange/aifx/core/fsx"
	"github.com/ai-first-exchange/aifx/core/govern"
	"github.com/ai-first-exchange/aifx/core/validate"
)

// batchOutput is the JSON surface of a validate run: tool identity plus the
// aggregate report.
type batchOutput struct {
	Tool    string           `json:"tool"`
	Version string           `json:"version"`
	Totals  validate.Totals  `json:"totals"`
	Results []govern.Verdict `json:"results"`
}

func runValidate(arguments []string) int {
	flagSet := flag.NewFlagSet("validate", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var jsonOutput bool
	var jsonPath string
	var showChecks bool
	var showWarnings bool
	var quiet bool
	var helpFlag bool

	flagSet.BoolVar(&jsonOutput, "json", false, "emit the batch report as JSON")
	flagSet.StringVar(&jsonPath, "json-path", "", "write the batch report JSON to a file")
	flagSet.BoolVar(&showChecks, "show-checks", false, "print every check outcome per package")
	flagSet.BoolVar(&showWarnings, "show-warnings", false, "print warnings for passing packages")
	flagSet.BoolVar(&quiet, "quiet", false, "suppress per-package output, print totals only")
	flagSet.BoolVar(&helpFlag, "help", false, "show help")

	if err := flagSet.Parse(arguments); err != nil {
		fmt.Fprintln(os.Stderr, "aifx validate:", err)
		return exitInvalidInput
	}
	if helpFlag {
		printValidateUsage()
		return exitOK
	}
	remaining := flagSet.Args()
	if len(remaining) != 1 {
		fmt.Fprintln(os.Stderr, "aifx validate: expected exactly one package file or directory")
		return exitInvalidInput
	}

	report, err := validate.All(remaining[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "aifx validate:", err)
		return exitInvalidInput
	}

	output := batchOutput{
		Tool:    "aifx",
		Version: version,
		Totals:  report.Totals,
		Results: report.Results,
	}

	if jsonPath != "" {
		encoded, encodeErr := json.MarshalIndent(output, "", "  ")
		if encodeErr != nil {
			fmt.Fprintln(os.Stderr, "aifx validate: encode report:", encodeErr)
			return exitInvalidInput
		}
		encoded = append(encoded, '\n')
		if writeErr := fsx.WriteFileAtomic(jsonPath, encoded, 0o644); writeErr != nil {
			fmt.Fprintln(os.Stderr, "aifx validate: write report:", writeErr)
			return exitInvalidInput
		}
	}

	if jsonOutput {
		encoded, encodeErr := json.Marshal(output)
		if encodeErr != nil {
			fmt.Fprintln(os.Stderr, "aifx validate: encode report:", encodeErr)
			return exitInvalidInput
		}
		fmt.Println(string(encoded))
	} else {
		printHumanReport(report, showChecks, showWarnings, quiet)
	}

	if report.Totals.Fail > 0 {
		return exitValidationFailed
	}
	return exitOK
}

func printHumanReport(report validate.Report, showChecks, showWarnings, quiet bool) {
	if !quiet {
		for _, verdict := range report.Results {
			printVerdict(verdict, showChecks, showWarnings)
		}
		if len(report.Results) > 1 {
			fmt.Println(renderSummaryTable(report))
		}
	}
	fmt.Printf("total %d, pass %d, fail %d\n", report.Totals.Count, report.Totals.Pass, report.Totals.Fail)
}

func printVerdict(verdict govern.Verdict, showChecks, showWarnings bool) {
	status := "[PASS]"
	if !verdict.Valid {
		status = "[FAIL]"
	}
	fmt.Printf("%s %s\n", status, verdict.Package)
	for _, message := range verdict.Errors {
		fmt.Printf("  error: %s\n", message)
	}
	if !verdict.Valid || showWarnings {
		for _, message := range verdict.Warnings {
			fmt.Printf("  warning: %s\n", message)
		}
	}
	if showChecks {
		for _, check := range verdict.Checks {
			marker := "ok"
			if !check.OK {
				marker = "FAILED"
			}
			fmt.Printf("  check %-32s %s\n", check.Key, marker)
		}
	}
}

func renderSummaryTable(report validate.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Package", "Status", "Errors", "Warnings"})
	for _, verdict := range report.Results {
		status := "pass"
		if !verdict.Valid {
			status = "fail"
		}
		tw.AppendRow(table.Row{
			verdict.Package,
			status,
			strconv.Itoa(len(verdict.Errors)),
			strconv.Itoa(len(verdict.Warnings)),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func printValidateUsage() {
	fmt.Println(strings.TrimSpace(`
Usage: aifx validate <path> [flags]

Validate one package file or every package under a directory.

Flags:
  --json            emit the batch report as JSON on stdout
  --json-path FILE  also write the batch report JSON to FILE
  --show-checks     print every check outcome per package
  --show-warnings   print warnings for passing packages
  --quiet           print totals only
`))
}
