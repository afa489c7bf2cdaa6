package reducers

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// StructuralSummarizer lists the keys of JSON or YAML documents with their
// value types instead of the values themselves. Keys are visited breadth-first
// in document order.
type StructuralSummarizer struct {
	MaxDepth      int
	MaxEntries    int
	FallbackLines int
}

type structureItem struct {
	path      string
	node      *yaml.Node
	depth     int
	noDescend bool
}

func (s StructuralSummarizer) Reduce(content string) string {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil || doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return TruncateLines(content, s.FallbackLines)
	}
	root := doc.Content[0]

	var queue []structureItem
	var lines []string

	switch root.Kind {
	case yaml.MappingNode:
		queue = appendMappingChildren(queue, root, "", 1, false)
	case yaml.SequenceNode:
		lines = append(lines, "(root): "+typeTag(root))
		queue = appendFirstElement(queue, root, "", 1)
	default:
		return TruncateLines(content, s.FallbackLines)
	}

	for len(queue) > 0 {
		if s.MaxEntries > 0 && len(lines) >= s.MaxEntries {
			lines = append(lines, fmt.Sprintf("... (%d more keys omitted)", len(queue)))
			break
		}

		item := queue[0]
		queue = queue[1:]

		lines = append(lines, item.path+": "+typeTag(item.node))
		if item.noDescend || item.depth >= s.MaxDepth {
			continue
		}

		switch item.node.Kind {
		case yaml.MappingNode:
			queue = appendMappingChildren(queue, item.node, item.path, item.depth+1, false)
		case yaml.SequenceNode:
			queue = appendFirstElement(queue, item.node, item.path, item.depth+1)
		}
	}

	return strings.Join(lines, "\n")
}

func appendMappingChildren(queue []structureItem, node *yaml.Node, prefix string, depth int, noDescend bool) []structureItem {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if prefix != "" {
			key = prefix + "." + key
		}
		queue = append(queue, structureItem{path: key, node: node.Content[i+1], depth: depth, noDescend: noDescend})
	}
	return queue
}

// appendFirstElement summarizes only the first element of a sequence, one
// level deep.
func appendFirstElement(queue []structureItem, node *yaml.Node, prefix string, depth int) []structureItem {
	if len(node.Content) == 0 {
		return queue
	}
	first := node.Content[0]
	if first.Kind == yaml.MappingNode {
		return appendMappingChildren(queue, first, prefix+"[0]", depth, true)
	}
	return append(queue, structureItem{path: prefix + "[0]", node: first, depth: depth, noDescend: true})
}

func typeTag(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "object"
	case yaml.SequenceNode:
		return fmt.Sprintf("array[%d]", len(node.Content))
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!str":
			return "string"
		case "!!int", "!!float":
			return "number"
		case "!!bool":
			return "bool"
		case "!!null":
			return "null"
		}
	}
	return "value"
}
