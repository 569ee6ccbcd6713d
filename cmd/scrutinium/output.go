//nolint:wrapcheck
package main

import (
	"fmt"
	"os"

	"github.com/farcloser/primordium/format"

	scrutinium "github.com/farcloser/scrutinium"
	"github.com/farcloser/scrutinium/report"
)

func outputResults(manifestPath string, diags *scrutinium.Diagnostics, formatName string) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	data := []*format.Data{summaryData(manifestPath, diags)}

	for _, diag := range diags.Results {
		data = append(data, diagnosticData(diag))
	}

	return formatter.PrintAll(data, os.Stdout)
}

func summaryData(manifestPath string, diags *scrutinium.Diagnostics) *format.Data {
	var errorCount, warningCount, infoCount int

	for _, diag := range diags.Results {
		for _, finding := range diag.Findings {
			switch finding.Level {
			case report.LevelError:
				errorCount++
			case report.LevelWarning:
				warningCount++
			case report.LevelInfo:
				infoCount++
			}
		}
	}

	return &format.Data{
		Object: manifestPath,
		Meta: map[string]any{
			"summary": fmt.Sprintf("%d records (%d errors, %d warnings, %d infos)",
				len(diags.Results), errorCount, warningCount, infoCount),
		},
	}
}

func diagnosticData(diag *report.Diagnostic) *format.Data {
	object := diag.Path
	if object == "" {
		object = diag.Kind.String()
	}

	findings := make([]any, 0, len(diag.Findings))

	for _, finding := range diag.Findings {
		line := fmt.Sprintf("[%s] %s: %s", finding.Level, finding.Code, finding.Message)
		if len(finding.Cells) > 0 {
			line += fmt.Sprintf(" (row %d)", finding.Cells[0].Row)
		}

		findings = append(findings, line)
	}

	return &format.Data{
		Object: object,
		Meta: map[string]any{
			"kind":     diag.Kind.String(),
			"level":    diag.Level().String(),
			"findings": findings,
		},
	}
}

func hasErrors(diags *scrutinium.Diagnostics) bool {
	for _, diag := range diags.Results {
		if diag.Level() == report.LevelError {
			return true
		}
	}

	return false
}
