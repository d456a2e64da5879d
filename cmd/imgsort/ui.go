package main

import (
	"fmt"
	"io"

	"imgsort/internal/organize"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// printSuccess prints a success message
func printSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, successStyle.Render("✓ "+message))
}

// printError prints an error message
func printError(w io.Writer, message string) {
	fmt.Fprintln(w, errorStyle.Render("✗ "+message))
}

// printWarning prints a warning message
func printWarning(w io.Writer, message string) {
	fmt.Fprintln(w, warningStyle.Render("! "+message))
}

// printInfo prints an informational message
func printInfo(w io.Writer, message string) {
	fmt.Fprintln(w, infoStyle.Render(message))
}

// printReport prints one line per moved group followed by the failure, if any.
func printReport(w io.Writer, report *organize.Report, err error) {
	if report == nil || len(report.Groups) == 0 {
		if err == nil {
			printWarning(w, "nothing to move")
		}
	} else {
		if report.DryRun {
			printWarning(w, "dry run, no files were moved")
		}
		for _, msg := range report.Messages() {
			printInfo(w, msg)
		}
		if err == nil {
			printSuccess(w, fmt.Sprintf("%d files handled (batch %s)", report.Total(), report.BatchID))
		}
	}
	if err != nil {
		printError(w, err.Error())
	}
}
