package reducers

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
)

// CSharpSignatures reduces C# sources to their public and internal API:
// type declarations and member signatures without bodies. The tree-sitter
// parse is the primary path; when it yields nothing a line-pattern pass is
// tried, and a prefix of the source is the last resort.
type CSharpSignatures struct {
	FallbackLines int
}

func (c CSharpSignatures) Reduce(content string) string {
	if out, ok := stripWithParser([]byte(content)); ok {
		return out
	}
	if out, ok := stripWithPatterns(content); ok {
		return out
	}
	return TruncateLines(content, c.FallbackLines)
}

type containerKind int

const (
	containerNamespace containerKind = iota
	containerType
	containerInterface
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Children dropped from every emitted header.
var noiseNodes = map[string]struct{}{
	"attribute_list": {},
	"comment":        {},
}

var accessModifiers = map[string]struct{}{
	"public":    {},
	"internal":  {},
	"protected": {},
	"private":   {},
}

type signatureEmitter struct {
	source []byte
	lines  []string
	kept   int
}

func stripWithParser(source []byte) (string, bool) {
	if len(source) == 0 {
		return "", false
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(csharp.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		return "", false
	}
	defer tree.Close()

	e := &signatureEmitter{source: source}
	e.visitContainer(tree.RootNode(), 0, containerNamespace)
	if e.kept == 0 {
		return "", false
	}
	return strings.Join(e.lines, "\n"), true
}

func (e *signatureEmitter) visitContainer(node *sitter.Node, depth int, kind containerKind) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		e.visitMember(node.NamedChild(i), depth, kind)
	}
}

func (e *signatureEmitter) visitMember(node *sitter.Node, depth int, parent containerKind) {
	switch node.Type() {
	case "namespace_declaration", "file_scoped_namespace_declaration":
		// The namespace line goes, its members stay at the same depth
		if body := childOfType(node, "declaration_list"); body != nil {
			e.visitContainer(body, depth, containerNamespace)
			return
		}
		e.visitContainer(node, depth, containerNamespace)

	case "class_declaration", "struct_declaration", "record_declaration",
		"record_struct_declaration", "interface_declaration":
		e.emitType(node, depth, parent)

	case "enum_declaration":
		if e.isVisible(node, parent, true) {
			e.emit(depth, strings.TrimSuffix(e.header(node, node.EndByte()), ";"))
		}

	case "delegate_declaration":
		if e.isVisible(node, parent, true) {
			e.emit(depth, terminate(e.header(node, node.EndByte())))
		}

	case "field_declaration", "event_field_declaration":
		if e.isVisible(node, parent, false) {
			e.emit(depth, terminate(e.header(node, node.EndByte())))
		}

	case "method_declaration", "constructor_declaration", "destructor_declaration",
		"operator_declaration", "conversion_operator_declaration":
		if node.Type() == "destructor_declaration" || e.isVisible(node, parent, false) {
			e.emit(depth, terminate(e.header(node, bodyStart(node))))
		}

	case "property_declaration", "indexer_declaration", "event_declaration":
		if e.isVisible(node, parent, false) {
			e.emitProperty(node, depth)
		}
	}
}

func (e *signatureEmitter) emitType(node *sitter.Node, depth int, parent containerKind) {
	if !e.isVisible(node, parent, true) {
		return
	}

	body := childOfType(node, "declaration_list")
	if body == nil {
		// Positional records without a body
		e.emit(depth, terminate(e.header(node, node.EndByte())))
		return
	}

	e.emit(depth, e.header(node, body.StartByte()))
	e.lines = append(e.lines, indentSource(depth)+"{")

	kind := containerType
	if node.Type() == "interface_declaration" {
		kind = containerInterface
	}
	e.visitContainer(body, depth+1, kind)

	e.lines = append(e.lines, indentSource(depth)+"}")
}

// emitProperty rewrites accessor bodies to bare accessor declarations and
// expression bodies to a get-only accessor list.
func (e *signatureEmitter) emitProperty(node *sitter.Node, depth int) {
	if accessors := childOfType(node, "accessor_list"); accessors != nil {
		e.emit(depth, e.header(node, accessors.StartByte())+" "+e.accessorList(accessors))
		return
	}
	if arrow := childOfType(node, "arrow_expression_clause"); arrow != nil {
		e.emit(depth, e.header(node, arrow.StartByte())+" { get; }")
		return
	}
	e.emit(depth, terminate(e.header(node, node.EndByte())))
}

func (e *signatureEmitter) accessorList(list *sitter.Node) string {
	var accessors []string
	for i := 0; i < int(list.NamedChildCount()); i++ {
		accessor := list.NamedChild(i)
		if accessor.Type() != "accessor_declaration" {
			continue
		}
		accessors = append(accessors, terminate(e.header(accessor, bodyStart(accessor))))
	}
	if len(accessors) == 0 {
		return "{ }"
	}
	return "{ " + strings.Join(accessors, " ") + " }"
}

// header returns the node text up to end with attributes and comments removed
// and whitespace collapsed.
func (e *signatureEmitter) header(node *sitter.Node, end uint32) string {
	var b strings.Builder
	pos := node.StartByte()
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.StartByte() >= end {
			break
		}
		if _, noise := noiseNodes[child.Type()]; noise {
			b.Write(e.source[pos:child.StartByte()])
			pos = child.EndByte()
		}
	}
	if pos < end {
		b.Write(e.source[pos:end])
	}
	return collapseWhitespace(b.String())
}

func (e *signatureEmitter) emit(depth int, line string) {
	if line == "" || line == ";" {
		return
	}
	e.lines = append(e.lines, indentSource(depth)+line)
	e.kept++
}

// isVisible applies the public-or-internal policy. Without an access
// modifier, interface members are public, top-level types are internal and
// everything else is private.
func (e *signatureEmitter) isVisible(node *sitter.Node, parent containerKind, isType bool) bool {
	modifiers := e.modifiers(node)
	if _, ok := modifiers["public"]; ok {
		return true
	}
	if _, ok := modifiers["internal"]; ok {
		return true
	}
	if _, ok := modifiers["private"]; ok {
		return false
	}
	if _, ok := modifiers["protected"]; ok {
		return false
	}
	// Explicit interface implementations carry no modifier but are part of the API
	if childOfType(node, "explicit_interface_specifier") != nil {
		return true
	}
	switch parent {
	case containerInterface:
		return true
	case containerNamespace:
		return isType
	default:
		return false
	}
}

func (e *signatureEmitter) modifiers(node *sitter.Node) map[string]struct{} {
	modifiers := make(map[string]struct{})
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "modifier":
			for _, word := range strings.Fields(child.Content(e.source)) {
				modifiers[strings.ToLower(word)] = struct{}{}
			}
		default:
			if _, ok := accessModifiers[child.Type()]; ok {
				modifiers[child.Type()] = struct{}{}
			}
		}
	}
	return modifiers
}

func childOfType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// bodyStart returns where the executable body of a member begins, or the
// node end when it has none.
func bodyStart(node *sitter.Node) uint32 {
	for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
		child := node.NamedChild(i)
		switch child.Type() {
		case "block", "arrow_expression_clause":
			return child.StartByte()
		}
	}
	return node.EndByte()
}

func terminate(signature string) string {
	signature = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(signature), ";"))
	if signature == "" {
		return ""
	}
	return signature + ";"
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func indentSource(depth int) string {
	return strings.Repeat("    ", depth)
}
