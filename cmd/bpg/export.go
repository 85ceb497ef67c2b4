package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/blueprint/internal/clipboard"
	"github.com/matsen/blueprint/internal/interact"
)

var (
	exportClipboard bool
	exportOutput    string
)

func init() {
	exportCmd.Flags().BoolVar(&exportClipboard, "clipboard", false, "Copy to the system clipboard (requires --edit)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the graph as {nodes, connections} JSON",
	Long: `Export the graph as pretty-printed JSON with "nodes" and "connections".

With --clipboard the JSON goes to the system clipboard (pbcopy, wl-copy,
xclip, xsel, or clip) instead of stdout.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	a := mustOpenApp()
	defer a.Close()

	if exportClipboard {
		if err := a.sess.CopyToClipboard(); err != nil {
			switch {
			case errors.Is(err, interact.ErrReadOnly):
				a.exit(ExitAuthError, "copying to the clipboard requires --edit")
			case errors.Is(err, clipboard.ErrClipboardUnavailable):
				a.exit(ExitError, "%v\n\nInstall pbcopy, wl-copy, xclip, or xsel, or use -o instead.", err)
			default:
				a.exit(ExitError, "%v", err)
			}
		}
		if humanOutput {
			fmt.Println("Copied graph to clipboard")
		} else {
			outputJSON(StatusResponse{Status: "copied"})
		}
		return nil
	}

	data, err := a.sess.Export()
	if err != nil {
		a.exit(ExitError, "encoding graph: %v", err)
	}
	if exportOutput == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOutput, append(data, '\n'), 0644); err != nil {
		a.exit(ExitError, "writing %s: %v", exportOutput, err)
	}
	if humanOutput {
		fmt.Printf("Wrote %s\n", exportOutput)
	} else {
		outputJSON(StatusResponse{Status: "exported", Path: exportOutput})
	}
	return nil
}
