package diagfmt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"symtab/internal/diag"
	"symtab/internal/source"
)

type palette struct {
	err, warn, info, note, loc, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		note:   color.New(color.FgBlue, color.Bold),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.loc, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	p := newPalette(opts.Color)
	bw := bufio.NewWriter(w)
	for _, d := range bag.Items() {
		sevColor := p.severity(d.Severity)
		fmt.Fprintf(bw, "%s: %s %s: %s\n",
			p.loc.Sprint(location(d.Primary, fs, opts.PathMode)),
			sevColor.Sprint(d.Severity.String()),
			sevColor.Sprint(d.Code.ID()),
			d.Message)
		if opts.ShowSource {
			writeSnippet(bw, d.Primary, fs, p)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, note := range d.Notes {
			fmt.Fprintf(bw, "  %s %s: %s\n",
				p.note.Sprint("note:"),
				location(note.Span, fs, opts.PathMode),
				note.Msg)
		}
	}
	return bw.Flush()
}

func location(span source.Span, fs *source.FileSet, mode PathMode) string {
	f := fs.Get(span.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, mode), start.Line, start.Col)
}

func formatPath(path string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if !filepath.IsAbs(path) {
			return filepath.ToSlash(path)
		}
		if cwd, err := os.Getwd(); err == nil {
			if rel, err := filepath.Rel(cwd, path); err == nil {
				return filepath.ToSlash(rel)
			}
		}
	case PathModeBasename:
		return filepath.Base(path)
	}
	return path
}

// writeSnippet prints the first line of span with a caret underline. Tabs are
// expanded to keep the underline aligned with wide runes.
func writeSnippet(bw *bufio.Writer, span source.Span, fs *source.FileSet, p palette) {
	f := fs.Get(span.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)
	line := strings.ReplaceAll(f.GetLine(start.Line), "\t", "    ")
	raw := f.GetLine(start.Line)

	col := int(start.Col) - 1
	if col > len(raw) {
		col = len(raw)
	}
	prefix := strings.ReplaceAll(raw[:col], "\t", "    ")
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		last := int(end.Col) - 1
		if last > len(raw) {
			last = len(raw)
		}
		width = max(runewidth.StringWidth(raw[col:last]), 1)
	}

	gutter := fmt.Sprintf("%4d | ", start.Line)
	bw.WriteString(p.gutter.Sprint(gutter))
	bw.WriteString(line)
	bw.WriteByte('\n')
	bw.WriteString(p.gutter.Sprint(strings.Repeat(" ", len(gutter)-2) + "| "))
	bw.WriteString(strings.Repeat(" ", runewidth.StringWidth(prefix)))
	bw.WriteString(p.caret.Sprint("^" + strings.Repeat("~", width-1)))
	bw.WriteByte('\n')
}
