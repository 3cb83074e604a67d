package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

// newApp builds the command tree. Command output goes to out.
func newApp(out io.Writer) *cli.Command {
	tableFlag := &cli.StringFlag{
		Name:    "table",
		Aliases: []string{"t"},
		Usage:   "table key",
		Value:   "employees",
		Sources: cli.EnvVars("GRIDCTL_TABLE"),
	}
	inFlag := &cli.StringFlag{
		Name:  "in",
		Usage: "load the table from this CSV instead of its seed rows",
	}
	viewFlags := []cli.Flag{
		tableFlag,
		inFlag,
		&cli.StringFlag{Name: "columns", Usage: "comma-separated visible column keys"},
		&cli.StringFlag{Name: "search", Usage: "case-insensitive search term"},
		&cli.StringFlag{Name: "sort", Usage: "column[:asc|desc]"},
		&cli.BoolFlag{Name: "lenient-dates", Usage: "keep unparseable dates as text"},
	}

	return &cli.Command{
		Name:  "gridctl",
		Usage: "Import, export and view grid tables from the command line",
		Commands: []*cli.Command{
			{
				Name:  "tables",
				Usage: "List registered tables",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					for _, def := range grid.All() {
						fmt.Fprintf(out, "%s\t%s\n", def.Info.Key, def.Info.Label)
					}
					return nil
				},
			},
			{
				Name:  "import",
				Usage: "Validate a CSV file and print the import result",
				Flags: []cli.Flag{
					tableFlag,
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "CSV file to import", Required: true},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write accepted rows to this CSV file"},
					&cli.BoolFlag{Name: "json", Usage: "print the result as JSON"},
					&cli.BoolFlag{Name: "lenient-dates", Usage: "keep unparseable dates as text"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runImport(out, cmd)
				},
			},
			{
				Name:  "export",
				Usage: "Write the filtered, sorted table as CSV",
				Flags: append(viewFlags,
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default stdout)"},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runExport(out, cmd)
				},
			},
			{
				Name:  "view",
				Usage: "Print one page of the table",
				Flags: append(viewFlags,
					&cli.IntFlag{Name: "page", Usage: "zero-based page index"},
					&cli.IntFlag{Name: "page-size", Usage: "rows per page", Value: grid.DefaultPageSize},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runView(out, cmd)
				},
			},
		},
	}
}

// ============================================================================
// Commands
// ============================================================================

func runImport(out io.Writer, cmd *cli.Command) error {
	def, err := lookupTable(cmd.String("table"))
	if err != nil {
		return err
	}

	f, err := os.Open(cmd.String("file"))
	if err != nil {
		return err
	}
	defer f.Close()

	im := grid.NewImporter(def.ImportFields)
	im.StrictDates = !cmd.Bool("lenient-dates")

	result, err := im.Import(f)
	if err != nil {
		return fmt.Errorf("%s: %w", grid.FormatUserError(err), err)
	}

	if path := cmd.String("out"); path != "" {
		data, err := grid.ExportCSV(result.AcceptedRows, def.Columns)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			AcceptedCount int                `json:"acceptedCount"`
			Errors        []grid.ImportError `json:"errors"`
		}{result.AcceptedCount, result.Errors})
	}

	fmt.Fprintf(out, "Imported %d rows\n", result.AcceptedCount)
	for _, e := range result.Errors {
		fmt.Fprintf(out, "Row %d: %s\n", e.Row, e.Message)
	}
	return nil
}

func runExport(out io.Writer, cmd *cli.Command) error {
	g, err := loadGrid(cmd, grid.DefaultPageSize)
	if err != nil {
		return err
	}

	data, err := g.ExportView()
	if err != nil {
		return err
	}

	if path := cmd.String("out"); path != "" {
		return os.WriteFile(path, data, 0o644)
	}
	_, err = out.Write(data)
	return err
}

func runView(out io.Writer, cmd *cli.Command) error {
	g, err := loadGrid(cmd, int(cmd.Int("page-size")))
	if err != nil {
		return err
	}
	g.SetPage(int(cmd.Int("page")))
	v := g.View()

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	labels := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		labels[i] = c.Label
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))
	for _, r := range v.Rows {
		fmt.Fprintln(tw, strings.Join(r.Cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if strings.TrimSpace(v.SearchTerm) != "" {
		fmt.Fprintf(out, "Found %d results\n", v.FilteredCount)
	}
	if v.Pagination.TotalPages > 0 {
		fmt.Fprintf(out, "Page %d of %d\n", v.Pagination.Page+1, v.Pagination.TotalPages)
	}
	return nil
}

// ============================================================================
// Helpers
// ============================================================================

func lookupTable(key string) (grid.TableDefinition, error) {
	def, ok := grid.Get(key)
	if !ok {
		return grid.TableDefinition{}, fmt.Errorf("%w: %s", grid.ErrUnknownTable, key)
	}
	return def, nil
}

// loadGrid builds a grid from the shared view flags.
func loadGrid(cmd *cli.Command, pageSize int) (*grid.Grid, error) {
	def, err := lookupTable(cmd.String("table"))
	if err != nil {
		return nil, err
	}

	in := cmd.String("in")
	if in != "" {
		def.Seed = nil
	}

	g, err := grid.NewGrid(def, grid.GridConfig{
		PageSize:    pageSize,
		StrictDates: !cmd.Bool("lenient-dates"),
	})
	if err != nil {
		return nil, err
	}

	if in != "" {
		f, err := os.Open(in)
		if err != nil {
			return nil, err
		}
		result, err := g.ImportCSV(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", in, err)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "skipped row %d: %s\n", e.Row, e.Message)
		}
	}

	if cols := cmd.String("columns"); cols != "" {
		g.SetVisibleColumns(splitList(cols))
	}
	g.SetSearchTerm(cmd.String("search"))
	if s := cmd.String("sort"); s != "" {
		col, dir, _ := strings.Cut(s, ":")
		g.SetSort(strings.TrimSpace(col), grid.ParseSortDirection(strings.TrimSpace(dir)))
	}
	return g, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
