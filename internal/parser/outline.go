package parser

import (
	"strings"

	"github.com/dgallion1/aitrpg/internal/doctree"
)

// outline nests sections by heading level while text blocks accumulate under
// the most recent heading.
type outline struct {
	root  *doctree.DocNode
	stack []*doctree.DocNode
	text  strings.Builder
}

func newOutline(title string) *outline {
	root := &doctree.DocNode{Title: title}
	return &outline{root: root, stack: []*doctree.DocNode{root}}
}

func (o *outline) heading(level int, title string) {
	o.flush()
	n := &doctree.DocNode{Title: title, Level: level}
	for len(o.stack) > 1 && o.stack[len(o.stack)-1].Level >= level {
		o.stack = o.stack[:len(o.stack)-1]
	}
	parent := o.stack[len(o.stack)-1]
	parent.Children = append(parent.Children, n)
	o.stack = append(o.stack, n)
}

func (o *outline) block(t string) {
	t = strings.TrimSpace(t)
	if t == "" {
		return
	}
	if o.text.Len() > 0 {
		o.text.WriteString("\n\n")
	}
	o.text.WriteString(t)
}

func (o *outline) flush() {
	t := strings.TrimSpace(o.text.String())
	o.text.Reset()
	if t == "" {
		return
	}
	top := o.stack[len(o.stack)-1]
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
}

// finish moves the collected sections onto tree. Text that appeared before
// the first heading is kept as a leading untitled node.
func (o *outline) finish(tree *doctree.DocTree) {
	o.flush()
	if o.root.Text != "" {
		tree.Children = append(tree.Children, &doctree.DocNode{Text: o.root.Text})
	}
	tree.Children = append(tree.Children, o.root.Children...)
}
