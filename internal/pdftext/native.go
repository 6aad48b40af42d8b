package pdftext

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	rpdf "rsc.io/pdf"
)

// Native extracts text in-process with rsc.io/pdf. It reconstructs lines from glyph
// positions, so its output is rougher than pdftotext's but needs no external tool.
type Native struct {
	Pages PageRange
}

// NewNative returns a Native backend for pages.
func NewNative(pages PageRange) *Native {
	return &Native{Pages: pages.normalized()}
}

// Text returns the text of the configured pages of path, one reconstructed line per row.
func (n *Native) Text(ctx context.Context, path string) (text string, err error) {
	// rsc.io/pdf panics on malformed objects and content streams.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = &ExtractError{Type: Unreadable, Path: path, Err: fmt.Errorf("%v", rec)}
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return "", &ExtractError{Type: Unreadable, Path: path, Err: err}
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", &ExtractError{Type: Unreadable, Path: path, Err: err}
	}
	r, err := rpdf.NewReader(f, fi.Size())
	if err != nil {
		return "", &ExtractError{Type: Unreadable, Path: path, Err: err}
	}

	pages := n.Pages.normalized()
	var b strings.Builder
	for i := pages.First; i <= pages.Last && i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, line := range Lines(page.Content().Text) {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\f')
	}
	return b.String(), nil
}

// Lines groups positioned text runs into reading-order lines: top to bottom, then left to
// right, with a space where the horizontal gap between runs is wide.
//
// Runs are bucketed into rows against the first (highest) run of each row, so a
// superscript sitting slightly above the baseline stays on its line.
func Lines(runs []rpdf.Text) []string {
	if len(runs) == 0 {
		return nil
	}
	sorted := make([]rpdf.Text, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var rows [][]rpdf.Text
	for _, t := range sorted {
		if n := len(rows); n > 0 && sameRow(rows[n-1][0], t) {
			rows[n-1] = append(rows[n-1], t)
			continue
		}
		rows = append(rows, []rpdf.Text{t})
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		lines = append(lines, joinRow(row))
	}
	return lines
}

func joinRow(row []rpdf.Text) string {
	var b strings.Builder
	prev := row[0]
	b.WriteString(prev.S)
	for _, t := range row[1:] {
		if t.X-(prev.X+prev.W) > 0.15*math.Max(t.FontSize, 1) {
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
		prev = t
	}
	return b.String()
}

func sameRow(a, b rpdf.Text) bool {
	tol := 0.5 * math.Max(math.Max(a.FontSize, b.FontSize), 1)
	return math.Abs(a.Y-b.Y) <= tol
}
