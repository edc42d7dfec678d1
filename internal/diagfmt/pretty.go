package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"hidl/internal/diag"
	"hidl/internal/source"
)

const tabWidth = 4

type palette struct {
	sev    map[diag.Severity]lipgloss.Style
	code   lipgloss.Style
	path   lipgloss.Style
	gutter lipgloss.Style
	caret  map[diag.Severity]lipgloss.Style
	note   lipgloss.Style
}

func newPalette(w io.Writer, color bool) palette {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return palette{
		sev: map[diag.Severity]lipgloss.Style{
			diag.SevError:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
			diag.SevWarning: r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
			diag.SevInfo:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		},
		code:   r.NewStyle().Foreground(lipgloss.Color("8")),
		path:   r.NewStyle().Bold(true),
		gutter: r.NewStyle().Foreground(lipgloss.Color("12")),
		caret: map[diag.Severity]lipgloss.Style{
			diag.SevError:   r.NewStyle().Foreground(lipgloss.Color("9")),
			diag.SevWarning: r.NewStyle().Foreground(lipgloss.Color("11")),
			diag.SevInfo:    r.NewStyle().Foreground(lipgloss.Color("12")),
		},
		note: r.NewStyle().Foreground(lipgloss.Color("14")),
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Диагностики без файла печатаются с префиксом "hidl:".
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(w, opts.Color)
	var sb strings.Builder
	for _, d := range bag.Items() {
		sb.WriteString(p.path.Render(location(fs, d.Primary, opts.PathMode)))
		sb.WriteString(": ")
		sb.WriteString(p.sev[d.Severity].Render(d.Severity.String()))
		sb.WriteString(" ")
		sb.WriteString(p.code.Render(d.Code.ID()))
		sb.WriteString(": ")
		sb.WriteString(d.Message)
		sb.WriteString("\n")
		writeSnippet(&sb, fs, d.Primary, int(opts.Context), p, p.caret[d.Severity])

		if opts.ShowNotes {
			for _, n := range d.Notes {
				sb.WriteString("  ")
				sb.WriteString(p.note.Render("note"))
				if n.Span.HasFile() {
					sb.WriteString(": ")
					sb.WriteString(location(fs, n.Span, opts.PathMode))
				}
				sb.WriteString(": ")
				sb.WriteString(n.Msg)
				sb.WriteString("\n")
				writeSnippet(&sb, fs, n.Span, 0, p, p.note)
			}
		}
	}
	_, _ = io.WriteString(w, sb.String())
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	f := fileOf(fs, sp)
	if f == nil {
		return "hidl"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", displayPath(fs, f, mode), start.Line, start.Col)
}

func fileOf(fs *source.FileSet, sp source.Span) *source.File {
	if fs == nil || !sp.HasFile() {
		return nil
	}
	return fs.Get(sp.File)
}

// writeSnippet печатает строки [line-context, line] и подчёркивание под span.
// Многострочный span подчёркивается до конца первой строки.
func writeSnippet(sb *strings.Builder, fs *source.FileSet, sp source.Span, context int, p palette, caretStyle lipgloss.Style) {
	f := fileOf(fs, sp)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	first := max(int(start.Line)-context, 1)
	gutterWidth := len(fmt.Sprint(start.Line))

	for ln := first; ln <= int(start.Line); ln++ {
		text := f.GetLine(uint32(ln))
		fmt.Fprintf(sb, " %s %s\n", p.gutter.Render(fmt.Sprintf("%*d |", gutterWidth, ln)), expandTabs(text))
	}

	line := f.GetLine(start.Line)
	startCol := int(start.Col) - 1
	endCol := len(line)
	if end.Line == start.Line {
		endCol = int(end.Col) - 1
	}
	startCol = min(max(startCol, 0), len(line))
	endCol = min(max(endCol, startCol), len(line))

	pad := runewidth.StringWidth(expandTabs(line[:startCol]))
	width := max(runewidth.StringWidth(expandTabs(line[startCol:endCol])), 1)
	marker := "^" + strings.Repeat("~", width-1)

	fmt.Fprintf(sb, " %s %s%s\n",
		p.gutter.Render(fmt.Sprintf("%*s |", gutterWidth, "")),
		strings.Repeat(" ", pad),
		caretStyle.Render(marker))
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
