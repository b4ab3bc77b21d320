package output

import (
	"path"
	"sort"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// noteColumn aligns file notes.
	noteColumn = 40
)

type treeNode struct {
	name     string
	note     string
	dir      bool
	children map[string]*treeNode
}

func (n *treeNode) child(name string, dir bool) *treeNode {
	c, ok := n.children[name]
	if !ok {
		c = &treeNode{name: name, dir: dir, children: make(map[string]*treeNode)}
		n.children[name] = c
	}
	return c
}

// sorted returns the children, directories first, then by name.
func (n *treeNode) sorted() []*treeNode {
	out := make([]*treeNode, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].dir != out[j].dir {
			return out[i].dir
		}
		return out[i].name < out[j].name
	})
	return out
}

// RenderArtifactTree renders slash-separated repository keys below root.
// Directory chains with a single child, such as a group path, are joined
// on one line. Notes are dimmed and aligned.
func RenderArtifactTree(root string, files map[string]string) string {
	if len(files) == 0 {
		return ""
	}

	top := &treeNode{name: root, dir: true, children: make(map[string]*treeNode)}
	for key, note := range files {
		parts := strings.Split(path.Clean(key), "/")
		n := top
		for i, part := range parts {
			n = n.child(part, i < len(parts)-1)
		}
		n.note = note
	}

	var sb strings.Builder
	sb.WriteString(StyleNoun.Render(root))
	sb.WriteString("\n")
	renderChildren(&sb, top, "")
	return sb.String()
}

func renderChildren(sb *strings.Builder, n *treeNode, prefix string) {
	children := n.sorted()
	for i, c := range children {
		last := i == len(children)-1
		connector, indent := treeEdge, treeVert
		if last {
			connector, indent = treeLast, treeSpace
		}

		// Collapse a directory chain with single children.
		name := c.name
		for c.dir && len(c.children) == 1 {
			only := c.sorted()[0]
			if !only.dir {
				break
			}
			name += "/" + only.name
			c = only
		}
		if c.dir {
			name += "/"
		}

		line := prefix + connector + name
		if c.note != "" {
			line += strings.Repeat(" ", max(noteColumn-len([]rune(line)), 2)) + StyleDim.Render(c.note)
		}
		sb.WriteString(line)
		sb.WriteString("\n")

		renderChildren(sb, c, prefix+indent)
	}
}
