// Package report renders an aggregation matrix for people to read.
package report

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"collapse/internal/core"
)

// Renderer consumes a finished report.
type Renderer interface {
	Render(ctx context.Context, r core.Report) error
}

// TextRenderer prints one block per category: a month header, the average
// severity line and the event count line.
type TextRenderer struct {
	out io.Writer
}

func NewTextRenderer(out io.Writer) *TextRenderer {
	return &TextRenderer{out: out}
}

func (t *TextRenderer) Render(ctx context.Context, r core.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(t.out, "Nombre d'événements stockés dans la base de données : %d\n", r.TotalEvents); err != nil {
		return fmt.Errorf("write total: %w", err)
	}

	for _, c := range r.Categories {
		row, ok := r.Matrix[c]
		if !ok {
			return fmt.Errorf("render %s: category missing from matrix", c)
		}
		if err := t.renderCategory(c, row); err != nil {
			return fmt.Errorf("render %s: %w", c, err)
		}
	}
	return nil
}

func (t *TextRenderer) renderCategory(c core.Category, row []core.Cell) error {
	info := core.Display(c)
	if _, err := fmt.Fprintf(t.out, "\n%s [%s]\n", info.Title, info.Color); err != nil {
		return err
	}

	w := tabwriter.NewWriter(t.out, 0, 0, 1, ' ', tabwriter.AlignRight)

	header := make([]string, 0, len(row)+1)
	averages := make([]string, 0, len(row)+1)
	counts := make([]string, 0, len(row)+1)
	header = append(header, "")
	averages = append(averages, "Gravité Moyenne")
	counts = append(counts, "Événements")

	for i, cell := range row {
		header = append(header, core.MonthAbbreviations[i])
		averages = append(averages, strconv.FormatFloat(cell.AverageSeverity, 'f', 2, 64))
		counts = append(counts, strconv.Itoa(cell.EventCount))
	}

	for _, line := range [][]string{header, averages, counts} {
		if _, err := fmt.Fprintln(w, strings.Join(line, "\t")+"\t"); err != nil {
			return err
		}
	}
	return w.Flush()
}
