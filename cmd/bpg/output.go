package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Styles for --human output.
var (
	styleTitle  = color.New(color.FgHiWhite, color.Bold)
	styleSubtle = color.New(color.FgHiBlack)
	styleGood   = color.New(color.FgGreen)
	styleBad    = color.New(color.FgRed)
	styleWarn   = color.New(color.FgYellow)
)

// ListTitleMaxLen bounds titles in list tables.
const ListTitleMaxLen = 40

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...any) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "%s %s\n", styleBad.Sprint("error:"), msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// warnHuman prints a warning to stderr in human mode only.
func warnHuman(format string, args ...any) {
	if humanOutput {
		fmt.Fprintf(os.Stderr, "%s %s\n", styleWarn.Sprint("warning:"), fmt.Sprintf(format, args...))
	}
}

// statusIcon returns a check or cross mark.
func statusIcon(ok bool) string {
	if ok {
		return styleGood.Sprint("✓")
	}
	return styleBad.Sprint("✗")
}

// printTable prints an aligned table with a dimmed header.
func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerLine, sepLine := "", ""
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	styleSubtle.Println(strings.TrimRight(headerLine, " "))
	styleSubtle.Println(strings.TrimRight(sepLine, " "))

	for _, row := range rows {
		line := ""
		for i, cell := range row {
			if i < len(widths) {
				line += fmt.Sprintf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Println(strings.TrimRight(line, " "))
	}
}

// truncateString shortens s to maxLen runes, adding "..." when cut.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
