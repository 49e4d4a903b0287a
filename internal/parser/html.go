package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/aitrpg/internal/doctree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLParser builds sections from h1-h6 elements of an HTML page.
type HTMLParser struct{}

var htmlHeadingLevels = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tree := &doctree.DocTree{
		Title:  stem(filename, ".html", ".htm"),
		Format: doctree.FormatHTML,
	}
	if t := find(doc, atom.Title); t != nil {
		if s := textContent(t); s != "" {
			tree.Title = s
		}
	}

	o := newOutline(tree.Title)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level, ok := htmlHeadingLevels[n.DataAtom]; ok {
				o.heading(level, textContent(n))
				return
			}
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Nav, atom.Footer, atom.Header:
				return
			case atom.P, atom.Li, atom.Td, atom.Blockquote, atom.Pre:
				o.block(textContent(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := find(doc, atom.Body); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	o.finish(tree)

	return tree, nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(buf.String())
}

// find returns the first element with the given tag in document order.
func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}
