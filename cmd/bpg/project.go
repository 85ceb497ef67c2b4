package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/blueprint/internal/project"
	"github.com/matsen/blueprint/internal/storage"
)

func init() {
	rootCmd.AddCommand(projectCmd)

	projectAddCmd.Flags().StringP("title", "t", "", "Display title (required)")
	projectAddCmd.Flags().StringP("category", "c", "", "Category, e.g. BP_RPG")
	projectAddCmd.Flags().StringSlice("tags", nil, "Tags")
	projectAddCmd.Flags().String("date", "", "Date label, e.g. 2025.11")
	projectAddCmd.Flags().String("image", "", "Preview image URL or path")
	projectAddCmd.Flags().StringP("description", "d", "", "Description")
	projectAddCmd.Flags().String("details", "", "Details (newline separated)")
	projectAddCmd.Flags().String("link", "", "External link")
	projectAddCmd.MarkFlagRequired("title")
	projectCmd.AddCommand(projectAddCmd)

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectOpenCmd)
	projectCmd.AddCommand(projectRmCmd)
	projectCmd.AddCommand(projectImportCmd)
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage the project catalog",
	Long: `Commands for the project catalog. Catalog entries are what gets dropped
onto the canvas and what project-link nodes open.`,
}

var projectAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add a project to the catalog (requires --edit)",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectAdd,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectOpenCmd = &cobra.Command{
	Use:   "open <node-id | project-id>",
	Short: "Activate a project-link node, or open a project directly",
	Long: `Open a project the way double-activating a project-link node does.

Given a node id, the node is activated on the canvas; given a project id,
the catalog entry is opened directly. Unknown projects open nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectOpen,
}

var projectRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a project from the catalog (requires --edit)",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectRm,
}

var projectImportCmd = &cobra.Command{
	Use:   "import <projects.toml | projects.jsonl>",
	Short: "Add catalog projects from a file (requires --edit)",
	Long: `Add catalog projects from a TOML file of [[project]] tables, or from a
JSONL file with one project per line. Projects whose id is already in the
catalog are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectImport,
}

// ProjectImportResult is the response for the project import command.
type ProjectImportResult struct {
	Added   int      `json:"added"`
	Skipped []string `json:"skipped"`
}

// mustOpenCatalog opens the store for catalog-only commands.
func mustOpenCatalog() (*storage.Repository, func()) {
	root := mustFindRepository()
	kv := mustOpenStore(root)
	return storage.NewRepository(kv), func() { kv.Close() }
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	mustRequireEdit()
	f := cmd.Flags()
	p := project.Summary{ID: args[0]}
	p.Title, _ = f.GetString("title")
	p.Category, _ = f.GetString("category")
	p.Tags, _ = f.GetStringSlice("tags")
	p.Date, _ = f.GetString("date")
	p.Image, _ = f.GetString("image")
	p.Description, _ = f.GetString("description")
	p.Details, _ = f.GetString("details")
	p.Link, _ = f.GetString("link")

	repo, done := mustOpenCatalog()
	defer done()

	if err := repo.AddProject(p); err != nil {
		done()
		exitWithError(ExitDataError, "invalid project: %v", err)
	}

	if humanOutput {
		fmt.Printf("Added project %s: %s\n", p.ID, p.Title)
	} else {
		outputJSON(map[string]any{"status": "added", "project": p})
	}
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	repo, done := mustOpenCatalog()
	defer done()

	catalog, err := repo.Projects()
	if err != nil {
		done()
		exitWithError(ExitDataError, "reading catalog: %v", err)
	}
	if catalog == nil {
		catalog = []project.Summary{}
	}

	if humanOutput {
		if len(catalog) == 0 {
			fmt.Println("No projects")
			return nil
		}
		rows := make([][]string, 0, len(catalog))
		for _, p := range catalog {
			rows = append(rows, []string{p.ID, truncateString(p.Title, ListTitleMaxLen), p.Category, strings.Join(p.Tags, ",")})
		}
		printTable([]string{"ID", "TITLE", "CATEGORY", "TAGS"}, rows)
	} else {
		outputJSON(catalog)
	}
	return nil
}

func runProjectOpen(cmd *cobra.Command, args []string) error {
	a := mustOpenApp()
	defer a.Close()

	if n, ok := a.sess.Graph().Nodes.Get(args[0]); ok {
		if !n.IsProjectLink() {
			a.exit(ExitDataError, "node %s is a %s node, not a project link", n.ID, n.Type)
		}
		a.sess.OpenProject(n.ProjectID)
	} else {
		a.sess.OpenProject(args[0])
	}

	if len(a.opened) == 0 {
		a.exit(ExitNotFound, "no catalog project for %q", args[0])
	}
	p := a.opened[0]
	if humanOutput {
		styleTitle.Println(p.Title)
		if p.Category != "" || p.Date != "" {
			styleSubtle.Printf("%s %s\n", p.Category, p.Date)
		}
		if p.Description != "" {
			fmt.Printf("\n%s\n", p.Description)
		}
		if p.Details != "" {
			fmt.Printf("\n%s\n", p.Details)
		}
		if p.Link != "" {
			fmt.Printf("\n%s\n", p.Link)
		}
	} else {
		outputJSON(p)
	}
	return nil
}

func runProjectRm(cmd *cobra.Command, args []string) error {
	mustRequireEdit()
	repo, done := mustOpenCatalog()
	defer done()

	if err := repo.RemoveProject(args[0]); err != nil {
		done()
		code := ExitDataError
		if errors.Is(err, project.ErrProjectNotFound) {
			code = ExitNotFound
		}
		exitWithError(code, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Removed project %s\n", args[0])
	} else {
		outputJSON(StatusResponse{Status: "removed"})
	}
	return nil
}

func runProjectImport(cmd *cobra.Command, args []string) error {
	mustRequireEdit()
	items, err := storage.ReadCatalogFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	repo, done := mustOpenCatalog()
	defer done()

	res := ProjectImportResult{Skipped: []string{}}
	for _, p := range items {
		if err := repo.AddProject(p); err != nil {
			if !errors.Is(err, project.ErrDuplicateID) {
				warnHuman("skipping %q: %v", p.ID, err)
			}
			res.Skipped = append(res.Skipped, p.ID)
			continue
		}
		res.Added++
	}

	if humanOutput {
		fmt.Printf("Imported %d project(s), skipped %d\n", res.Added, len(res.Skipped))
	} else {
		outputJSON(res)
	}
	return nil
}
