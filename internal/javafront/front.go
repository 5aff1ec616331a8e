package javafront

import (
	"context"
	"fmt"
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"
	javasitter "github.com/smacker/go-tree-sitter/java"

	"symtab/internal/diag"
	"symtab/internal/source"
	"symtab/internal/symbols"
	"symtab/internal/trace"
)

// maxSyntaxReports caps syntax diagnostics per file; tree-sitter error
// recovery tends to cascade.
const maxSyntaxReports = 20

// Options configures Analyze.
type Options struct {
	Reporter      diag.Reporter
	WarnShadow    bool
	WarnRedeclare bool
	// Prelude overrides DefaultPrelude; an empty non-nil slice disables it.
	Prelude []string
	// DestroyBlocks tears block-level scopes down as soon as they are left.
	// Type and method scopes always survive the walk.
	DestroyBlocks bool
}

// Stats counts what one Analyze call did.
type Stats struct {
	Scopes       int
	Declared     int
	Resolved     int
	Unresolved   int
	// Inherited counts misses inside a type with supertypes; such names may
	// be members of a supertype and are not reported.
	Inherited    int
	SyntaxErrors int
}

// Result is the outcome of analyzing one file.
type Result struct {
	Table   *symbols.Table
	Prelude symbols.ScopeID // NoScopeID when the prelude is disabled
	Global  symbols.ScopeID
	Stats   Stats
}

// Analyze parses file and records its declarations in table.
func Analyze(ctx context.Context, table *symbols.Table, file *source.File, opts Options) (*Result, error) {
	if table == nil || file == nil {
		return nil, fmt.Errorf("javafront: nil table or file")
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "javafront.analyze", trace.CurrentSpan(ctx))

	parser := sitter.NewParser()
	parser.SetLanguage(javasitter.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, file.Content)
	if err != nil {
		span.End("parse failed")
		return nil, fmt.Errorf("parse %s: %w", file.Path, err)
	}
	root := tree.RootNode()

	w := &walker{
		ctx:      ctx,
		src:      file.Content,
		file:     file.ID,
		table:    table,
		reporter: opts.Reporter,
		opts:     opts,
		res: symbols.NewResolver(table, symbols.NoScopeID, symbols.ResolverOptions{
			Reporter:      opts.Reporter,
			WarnShadow:    opts.WarnShadow,
			WarnRedeclare: opts.WarnRedeclare,
		}),
	}
	result := &Result{Table: table}

	prelude := opts.Prelude
	if prelude == nil {
		prelude = DefaultPrelude
	}
	if len(prelude) > 0 {
		result.Prelude = w.enter(PreludeLabel, source.Span{})
		for _, name := range prelude {
			w.declare(symbols.Decl{
				Name:     name,
				Type:     "java.lang." + name,
				Category: symbols.CategoryClass,
				Kind:     symbols.ScopeGlobal,
			})
		}
		for _, m := range objectMethods {
			w.declare(symbols.Decl{
				Name:     m.name,
				Type:     m.typ,
				Category: symbols.CategoryMethod,
				Kind:     symbols.ScopeGlobal,
			})
		}
	}
	result.Global = w.enter("global", w.span(root))

	if root.HasError() {
		w.reportSyntaxErrors(root)
	}
	walkErr := w.program(root)

	w.res.Leave(result.Global, false)
	if result.Prelude.IsValid() {
		w.res.Leave(result.Prelude, false)
	}
	result.Stats = w.stats

	span.WithExtra("scopes", strconv.Itoa(w.stats.Scopes)).
		WithExtra("declared", strconv.Itoa(w.stats.Declared)).
		WithExtra("unresolved", strconv.Itoa(w.stats.Unresolved)).
		End(file.Path)
	return result, walkErr
}

type walker struct {
	ctx      context.Context
	src      []byte
	file     source.FileID
	table    *symbols.Table
	res      *symbols.Resolver
	reporter diag.Reporter
	opts     Options
	stats    Stats
	syntax   int

	// supertypes is the number of enclosing types that extend or implement
	// something, including anonymous classes.
	supertypes int
}

// pendingType is a type declaration whose members are declared but whose
// bodies have not been walked yet.
type pendingType struct {
	node  *sitter.Node
	body  *sitter.Node
	scope symbols.ScopeID
}

// pendingMethod is a method or constructor scope waiting for its body walk.
type pendingMethod struct {
	node  *sitter.Node
	scope symbols.ScopeID
}

func (w *walker) program(root *sitter.Node) error {
	var types []pendingType
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "import_declaration":
			w.declareImport(child)
		case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
			if p, ok := w.declareType(child, symbols.ScopeGlobal); ok {
				types = append(types, p)
			}
		}
	}
	for _, p := range types {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		w.walkType(p)
	}
	return nil
}

// declareImport binds the last segment of a single-type import.
func (w *walker) declareImport(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "asterisk" {
			return
		}
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "scoped_identifier" && child.Type() != "identifier" {
			continue
		}
		name := child
		if n := child.ChildByFieldName("name"); n != nil {
			name = n
		}
		w.declare(symbols.Decl{
			Name:     w.text(name),
			Type:     w.text(child),
			Category: symbols.CategoryClass,
			Kind:     symbols.ScopeGlobal,
			Span:     w.span(name),
		})
		return
	}
}

// declareType declares a type in the current scope and allocates its scope.
func (w *walker) declareType(node *sitter.Node, kind symbols.ScopeKind) (pendingType, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		w.reportUnnamed(node)
		return pendingType{}, false
	}
	name := w.text(nameNode)
	scope := w.table.CreateScope(name, w.res.CurrentScope())
	w.stats.Scopes++
	w.declare(symbols.Decl{
		Name:     name,
		Type:     typeKeyword(node.Type()),
		Category: symbols.CategoryClass,
		Kind:     kind,
		Defines:  scope,
		Span:     w.span(nameNode),
	})
	return pendingType{node: node, body: node.ChildByFieldName("body"), scope: scope}, true
}

// walkType declares all members first, then walks initializers and bodies.
func (w *walker) walkType(p pendingType) {
	if !w.res.Reenter(p.scope) {
		return
	}
	defer w.res.Leave(p.scope, false)
	if hasSupertypes(p.node) {
		w.supertypes++
		defer func() { w.supertypes-- }()
	}

	body := p.body
	if p.node.Type() == "record_declaration" {
		if params := p.node.ChildByFieldName("parameters"); params != nil {
			w.declareParams(params, symbols.CategoryVariable, symbols.ScopeClass)
		}
	}
	if body == nil {
		return
	}

	var (
		initializers []*sitter.Node
		methods      []pendingMethod
		nested       []pendingType
		blocks       []*sitter.Node
	)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "field_declaration", "constant_declaration":
			initializers = append(initializers, w.declareVariables(member, symbols.ScopeClass)...)
		case "enum_body_declarations":
			// enum constants precede these members inside the same body
			for j := 0; j < int(member.NamedChildCount()); j++ {
				inner := member.NamedChild(j)
				if m, ok := w.declareMember(inner, &initializers, &nested); ok {
					methods = append(methods, m)
				}
			}
		case "enum_constant":
			if n := member.ChildByFieldName("name"); n != nil {
				w.declare(symbols.Decl{
					Name:     w.text(n),
					Type:     w.table.Label(p.scope),
					Category: symbols.CategoryVariable,
					Kind:     symbols.ScopeClass,
					Span:     w.span(n),
				})
			}
		case "static_initializer", "block":
			blocks = append(blocks, member)
		default:
			if m, ok := w.declareMember(member, &initializers, &nested); ok {
				methods = append(methods, m)
			}
		}
	}

	for _, init := range initializers {
		w.walk(init)
	}
	for _, block := range blocks {
		w.walk(block)
	}
	for _, m := range methods {
		w.walkMethod(m)
	}
	for _, n := range nested {
		w.walkType(n)
	}
}

func (w *walker) declareMember(member *sitter.Node, initializers *[]*sitter.Node, nested *[]pendingType) (pendingMethod, bool) {
	switch member.Type() {
	case "field_declaration", "constant_declaration":
		*initializers = append(*initializers, w.declareVariables(member, symbols.ScopeClass)...)
	case "method_declaration", "constructor_declaration", "compact_constructor_declaration":
		return w.declareMethod(member)
	case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
		if p, ok := w.declareType(member, symbols.ScopeClass); ok {
			*nested = append(*nested, p)
		}
	}
	return pendingMethod{}, false
}

func (w *walker) declareMethod(node *sitter.Node) (pendingMethod, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		w.reportUnnamed(node)
		return pendingMethod{}, false
	}
	name := w.text(nameNode)
	typ := w.table.Label(w.res.CurrentScope()) // constructors return their class
	if t := node.ChildByFieldName("type"); t != nil {
		typ = w.text(t)
	}
	scope := w.table.CreateScope(name, w.res.CurrentScope())
	w.stats.Scopes++
	w.declare(symbols.Decl{
		Name:     name,
		Type:     typ,
		Category: symbols.CategoryMethod,
		Kind:     symbols.ScopeClass,
		Defines:  scope,
		Span:     w.span(nameNode),
	})
	return pendingMethod{node: node, scope: scope}, true
}

// walkMethod declares parameters and walks the body directly in the method
// scope; only nested blocks get scopes of their own.
func (w *walker) walkMethod(m pendingMethod) {
	if !w.res.Reenter(m.scope) {
		return
	}
	defer w.res.Leave(m.scope, false)

	if params := m.node.ChildByFieldName("parameters"); params != nil {
		w.declareParams(params, symbols.CategoryParameter, symbols.ScopeMethod)
	}
	if body := m.node.ChildByFieldName("body"); body != nil {
		w.walkChildren(body)
	}
}

func (w *walker) declareParams(params *sitter.Node, cat symbols.Category, kind symbols.ScopeKind) {
	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(i)
		switch param.Type() {
		case "formal_parameter", "catch_formal_parameter":
			w.declareParam(param, param.ChildByFieldName("name"), w.typeOf(param), cat, kind)
		case "spread_parameter":
			// Type... name
			var typ string
			var decl *sitter.Node
			for j := 0; j < int(param.NamedChildCount()); j++ {
				child := param.NamedChild(j)
				switch {
				case child.Type() == "modifiers":
				case child.Type() == "variable_declarator":
					decl = child.ChildByFieldName("name")
				case typ == "":
					typ = w.text(child) + "..."
				}
			}
			w.declareParam(param, decl, typ, cat, kind)
		case "identifier":
			w.declareParam(param, param, "var", cat, kind)
		}
	}
}

func (w *walker) declareParam(owner, name *sitter.Node, typ string, cat symbols.Category, kind symbols.ScopeKind) {
	if name == nil {
		w.reportUnnamed(owner)
		return
	}
	if dims := owner.ChildByFieldName("dimensions"); dims != nil {
		typ += w.text(dims)
	}
	w.declare(symbols.Decl{
		Name:     w.text(name),
		Type:     typ,
		Category: cat,
		Kind:     kind,
		Span:     w.span(name),
	})
}

// declareVariables declares every declarator of a field or local variable
// declaration and returns the initializer expressions. Locals pass their
// initializers to walk before the name is declared; fields defer them until
// all members exist.
func (w *walker) declareVariables(node *sitter.Node, kind symbols.ScopeKind) []*sitter.Node {
	typ := w.typeOf(node)
	var inits []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		declarator := node.NamedChild(i)
		if declarator.Type() != "variable_declarator" {
			continue
		}
		nameNode := declarator.ChildByFieldName("name")
		if nameNode == nil {
			w.reportUnnamed(declarator)
			continue
		}
		value := declarator.ChildByFieldName("value")
		if kind == symbols.ScopeLocal && value != nil {
			w.walk(value)
		} else if value != nil {
			inits = append(inits, value)
		}
		declTyp := typ
		if dims := declarator.ChildByFieldName("dimensions"); dims != nil {
			declTyp += w.text(dims)
		}
		w.declare(symbols.Decl{
			Name:     w.text(nameNode),
			Type:     declTyp,
			Category: symbols.CategoryVariable,
			Kind:     kind,
			Span:     w.span(nameNode),
		})
	}
	return inits
}

// walk dispatches on statements and expressions inside method bodies and
// initializers.
func (w *walker) walk(node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "identifier":
		w.resolve(node, symbols.CategoryMaskAny)

	case "local_variable_declaration":
		w.declareVariables(node, symbols.ScopeLocal)

	case "block", "switch_block":
		label := "block"
		if node.Type() == "switch_block" {
			label = "switch"
		}
		w.scoped(label, node, func() { w.walkChildren(node) })

	case "for_statement":
		// init, condition and update may repeat; the body is always last
		w.scoped("for", node, func() {
			for i := 0; i < int(node.NamedChildCount())-1; i++ {
				w.walk(node.NamedChild(i))
			}
			w.walkBody(node)
		})

	case "enhanced_for_statement":
		w.walk(node.ChildByFieldName("value"))
		w.scoped("for", node, func() {
			w.declareParam(node, node.ChildByFieldName("name"), w.typeOf(node), symbols.CategoryVariable, symbols.ScopeLocal)
			w.walkBody(node)
		})

	case "catch_clause":
		w.scoped("catch", node, func() {
			for i := 0; i < int(node.NamedChildCount()); i++ {
				child := node.NamedChild(i)
				if child.Type() == "catch_formal_parameter" {
					w.declareParam(child, child.ChildByFieldName("name"), w.catchType(child), symbols.CategoryParameter, symbols.ScopeLocal)
				}
			}
			w.walkBody(node)
		})

	case "lambda_expression":
		w.scoped("lambda", node, func() {
			if params := node.ChildByFieldName("parameters"); params != nil {
				if params.Type() == "identifier" {
					w.declareParam(params, params, "var", symbols.CategoryParameter, symbols.ScopeLocal)
				} else {
					w.declareParams(params, symbols.CategoryParameter, symbols.ScopeLocal)
				}
			}
			w.walkBody(node)
		})

	case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
		if p, ok := w.declareType(node, symbols.ScopeLocal); ok {
			w.walkType(p)
		}

	case "method_invocation":
		if object := node.ChildByFieldName("object"); object != nil {
			w.walk(object)
		} else if name := node.ChildByFieldName("name"); name != nil {
			w.resolve(name, symbols.CategoryMethod.Mask())
		}
		w.walkField(node, "arguments")

	case "field_access":
		w.walkField(node, "object")

	case "object_creation_expression":
		w.walkField(node, "arguments")
		if body := findChild(node, "class_body"); body != nil {
			scope := w.table.CreateScope("anonymous", w.res.CurrentScope())
			w.stats.Scopes++
			w.walkType(pendingType{node: node, body: body, scope: scope})
		}

	case "method_reference":
		if node.NamedChildCount() > 0 {
			w.walk(node.NamedChild(0))
		}

	case "switch_label":
		// enum constants in case labels are not in lexical scope
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if child := node.NamedChild(i); child.Type() != "identifier" {
				w.walk(child)
			}
		}

	case "labeled_statement":
		// the label is not a binding; walk the statement only
		for i := 1; i < int(node.NamedChildCount()); i++ {
			w.walk(node.NamedChild(i))
		}

	case "break_statement", "continue_statement", "line_comment", "block_comment",
		"type_identifier", "scoped_type_identifier", "generic_type", "array_type",
		"integral_type", "floating_point_type", "boolean_type", "void_type",
		"scoped_identifier", "marker_annotation", "annotation", "modifiers":

	default:
		w.walkChildren(node)
	}
}

func (w *walker) walkChildren(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		w.walk(node.NamedChild(i))
	}
}

func (w *walker) walkField(node *sitter.Node, field string) {
	w.walk(node.ChildByFieldName(field))
}

// walkBody walks a body without opening a second scope when it is a block.
func (w *walker) walkBody(node *sitter.Node) {
	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	if body.Type() == "block" {
		w.walkChildren(body)
		return
	}
	w.walk(body)
}

func (w *walker) scoped(label string, node *sitter.Node, fn func()) {
	scope := w.enter(label, w.span(node))
	fn()
	w.res.Leave(scope, w.opts.DestroyBlocks)
}

func (w *walker) enter(label string, span source.Span) symbols.ScopeID {
	w.stats.Scopes++
	return w.res.Enter(label, span)
}

func (w *walker) declare(decl symbols.Decl) {
	decl.Name = normalizeIdent(decl.Name)
	if decl.Name == "" {
		// recovered MISSING identifiers have no text
		return
	}
	if _, ok := w.res.Declare(decl); ok {
		w.stats.Declared++
	}
}

func (w *walker) resolve(node *sitter.Node, mask symbols.CategoryMask) {
	name := normalizeIdent(w.text(node))
	if name == "" {
		return
	}
	if w.supertypes > 0 {
		if _, ok := w.table.LookupCategory(w.res.CurrentScope(), name, mask); !ok {
			w.stats.Inherited++
			return
		}
	}
	if _, ok := w.res.ResolveCategory(name, mask, w.span(node)); ok {
		w.stats.Resolved++
		return
	}
	w.stats.Unresolved++
}

func (w *walker) reportSyntaxErrors(node *sitter.Node) {
	if w.syntax >= maxSyntaxReports {
		return
	}
	switch {
	case node.IsMissing():
		w.syntax++
		w.stats.SyntaxErrors++
		diag.ReportError(w.reporter, diag.SynMissingNode, w.span(node),
			fmt.Sprintf("missing %s", node.Type())).Emit()
		return
	case node.Type() == "ERROR":
		w.syntax++
		w.stats.SyntaxErrors++
		diag.ReportError(w.reporter, diag.SynSyntaxError, w.span(node), "syntax error").Emit()
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child != nil && (child.HasError() || child.IsMissing()) {
			w.reportSyntaxErrors(child)
		}
	}
}

func (w *walker) reportUnnamed(node *sitter.Node) {
	diag.ReportWarning(w.reporter, diag.SynUnnamedDecl, w.span(node),
		fmt.Sprintf("%s without a name was skipped", node.Type())).Emit()
}

func (w *walker) typeOf(node *sitter.Node) string {
	if t := node.ChildByFieldName("type"); t != nil {
		return w.text(t)
	}
	return "var"
}

func (w *walker) catchType(param *sitter.Node) string {
	if t := findChild(param, "catch_type"); t != nil {
		return w.text(t)
	}
	return "Throwable"
}

func (w *walker) text(node *sitter.Node) string {
	return node.Content(w.src)
}

func (w *walker) span(node *sitter.Node) source.Span {
	return source.Span{File: w.file, Start: node.StartByte(), End: node.EndByte()}
}

func findChild(node *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == typ {
			return child
		}
	}
	return nil
}

// hasSupertypes reports whether a type declaration names a superclass or
// interfaces. Anonymous class bodies always extend the instantiated type.
func hasSupertypes(node *sitter.Node) bool {
	switch node.Type() {
	case "object_creation_expression":
		return true
	case "class_declaration":
		return findChild(node, "superclass") != nil || findChild(node, "super_interfaces") != nil
	case "interface_declaration":
		return findChild(node, "extends_interfaces") != nil
	case "enum_declaration", "record_declaration":
		return findChild(node, "super_interfaces") != nil
	}
	return false
}

func typeKeyword(nodeType string) string {
	switch nodeType {
	case "interface_declaration":
		return "interface"
	case "enum_declaration":
		return "enum"
	case "record_declaration":
		return "record"
	default:
		return "class"
	}
}
