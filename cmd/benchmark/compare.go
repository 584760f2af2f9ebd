package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Compare two result files saved with graph --out",
		ArgsUsage: "<before> <after>",
		Action:    runCompare,
	}
}

func runCompare(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return errors.New("compare needs exactly two result files")
	}
	before, err := loadResultSet(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	after, err := loadResultSet(cmd.Args().Get(1))
	if err != nil {
		return err
	}
	renderComparison(os.Stdout, before, after)
	return nil
}

type comparisonRow struct {
	name          string
	before, after time.Duration
	// change is after relative to before, negative when faster.
	change float64
}

func compareResults(before, after *resultSet) []comparisonRow {
	var rows []comparisonRow
	for _, a := range after.Results {
		b, ok := before.find(a.Name)
		if !ok {
			continue
		}
		row := comparisonRow{name: a.Name, before: b.Duration, after: a.Duration}
		if b.Duration > 0 {
			row.change = float64(a.Duration-b.Duration) / float64(b.Duration)
		}
		rows = append(rows, row)
	}
	return rows
}

func renderComparison(w io.Writer, before, after *resultSet) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"test", "before", "after", "change"})
	table.SetCaption(true, fmt.Sprintf("%s (%s) vs %s (%s)",
		humanize.Time(before.CreatedAt), before.GoVersion,
		humanize.Time(after.CreatedAt), after.GoVersion,
	))
	for _, row := range compareResults(before, after) {
		table.Append([]string{
			row.name,
			fmt.Sprint(row.before),
			fmt.Sprint(row.after),
			fmt.Sprintf("%+.1f%%", 100*row.change),
		})
	}
	table.Render()
}
