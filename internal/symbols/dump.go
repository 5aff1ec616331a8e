package symbols

import (
	"bufio"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Glyphs control the box drawing used by Dump.
type Glyphs struct {
	Indent string // one nesting level
	Branch string // prefix of every line
	Top    string // header box top
	Bottom string // footer box bottom
}

var (
	// UnicodeGlyphs draw the tree with box drawing characters.
	UnicodeGlyphs = Glyphs{
		Indent: "│   ",
		Branch: "├── ",
		Top:    "┌─────────────────────────────┐",
		Bottom: "└─────────────────────────────┘",
	}
	// ASCIIGlyphs are safe for logs and terminals without UTF-8.
	ASCIIGlyphs = Glyphs{
		Indent: "|   ",
		Branch: "|-- ",
		Top:    "+-----------------------------+",
		Bottom: "+-----------------------------+",
	}
)

// DumpOptions configures Dump.
type DumpOptions struct {
	Color bool
	// Align pads symbol names of one scope to a common display width.
	Align  bool
	Glyphs *Glyphs // nil means UnicodeGlyphs
	// NoHeader omits the title and the surrounding box.
	NoHeader bool
}

type dumpPalette struct {
	scope, name, typ, category *color.Color
}

func newDumpPalette(enabled bool) dumpPalette {
	p := dumpPalette{
		scope:    color.New(color.FgCyan, color.Bold),
		name:     color.New(color.Reset),
		typ:      color.New(color.FgYellow),
		category: color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.scope, p.name, p.typ, p.category} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Dump renders the tree rooted at root depth-first: the scope label, then its
// symbols in lookup precedence (newest first) as `name [type] (Category)`,
// then its children, most recently created first, one level deeper.
// Dump never mutates the table.
func (t *Table) Dump(w io.Writer, root ScopeID, opts DumpOptions) error {
	t.mustScope(root)
	glyphs := UnicodeGlyphs
	if opts.Glyphs != nil {
		glyphs = *opts.Glyphs
	}
	palette := newDumpPalette(opts.Color)
	bw := bufio.NewWriter(w)

	if !opts.NoHeader {
		bw.WriteString("\nSYMBOL TABLE HIERARCHY:\n")
		bw.WriteString(glyphs.Top)
		bw.WriteByte('\n')
	}

	type frame struct {
		id    ScopeID
		depth int
	}
	stack := []frame{{id: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := t.mustScope(top.id)

		indent := strings.Repeat(glyphs.Indent, top.depth)
		bw.WriteString(indent)
		bw.WriteString(glyphs.Branch)
		bw.WriteString("Scope: ")
		bw.WriteString(palette.scope.Sprint(s.Label))
		bw.WriteByte('\n')

		t.dumpSymbols(bw, s, indent+glyphs.Indent+glyphs.Branch, palette, opts.Align)

		// oldest pushed first so the newest child is printed first
		for _, child := range s.Children {
			stack = append(stack, frame{id: child, depth: top.depth + 1})
		}
	}

	if !opts.NoHeader {
		bw.WriteString(glyphs.Bottom)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func (t *Table) dumpSymbols(bw *bufio.Writer, s *Scope, prefix string, palette dumpPalette, align bool) {
	if len(s.Symbols) == 0 {
		return
	}
	names := make([]string, len(s.Symbols))
	width := 0
	for i, id := range s.Symbols {
		names[i] = t.Strings.MustLookup(t.Symbols.data[id].Name)
		if w := runewidth.StringWidth(names[i]); w > width {
			width = w
		}
	}
	for i := len(s.Symbols) - 1; i >= 0; i-- {
		sym := &t.Symbols.data[s.Symbols[i]]
		name := names[i]
		if align {
			name = runewidth.FillRight(name, width)
		}
		bw.WriteString(prefix)
		bw.WriteString(palette.name.Sprint(name))
		bw.WriteString(" [")
		bw.WriteString(palette.typ.Sprint(sym.Type))
		bw.WriteString("] (")
		bw.WriteString(palette.category.Sprint(sym.Category.String()))
		bw.WriteString(")\n")
	}
}

// DumpString is Dump into a string.
func (t *Table) DumpString(root ScopeID, opts DumpOptions) string {
	var sb strings.Builder
	// strings.Builder never fails
	_ = t.Dump(&sb, root, opts)
	return sb.String()
}
