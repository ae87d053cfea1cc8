package render

import (
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"
)

type attr struct {
	name, value string
}

// Node is a retained SVG element. Attribute order is insertion order so
// serialisation is deterministic.
type Node struct {
	Tag      string
	Text     string
	Children []*Node
	attrs    []attr
}

func NewNode(tag string) *Node {
	return &Node{Tag: tag}
}

// Set assigns an attribute, replacing an existing value in place.
func (n *Node) Set(name, value string) *Node {
	for i := range n.attrs {
		if n.attrs[i].name == name {
			n.attrs[i].value = value
			return n
		}
	}
	n.attrs = append(n.attrs, attr{name: name, value: value})
	return n
}

// SetFloat assigns a numeric attribute rounded to three decimals.
func (n *Node) SetFloat(name string, v float64) *Node {
	return n.Set(name, formatNum(v))
}

func (n *Node) Get(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// Attrs returns a copy of the attributes as a map.
func (n *Node) Attrs() map[string]string {
	out := make(map[string]string, len(n.attrs))
	for _, a := range n.attrs {
		out[a.name] = a.value
	}
	return out
}

func (n *Node) Append(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Find returns the first descendant (depth first) whose class attribute contains class.
func (n *Node) Find(class string) *Node {
	for _, c := range n.Children {
		if hasClass(c, class) {
			return c
		}
		if f := c.Find(class); f != nil {
			return f
		}
	}
	return nil
}

func hasClass(n *Node, class string) bool {
	v, ok := n.Get("class")
	if !ok {
		return false
	}
	for _, f := range strings.Fields(v) {
		if f == class {
			return true
		}
	}
	return false
}

// WriteTo serialises the subtree as markup.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	n.write(cw)
	return cw.n, cw.err
}

func (n *Node) String() string {
	var b strings.Builder
	_, _ = n.WriteTo(&b)
	return b.String()
}

func (n *Node) write(w *countingWriter) {
	w.str("<" + n.Tag)
	for _, a := range n.attrs {
		w.str(" " + a.name + `="`)
		w.escape(a.value)
		w.str(`"`)
	}
	if n.Text == "" && len(n.Children) == 0 {
		w.str("/>")
		return
	}
	w.str(">")
	if n.Text != "" {
		w.escape(n.Text)
	}
	for _, c := range n.Children {
		c.write(w)
	}
	w.str("</" + n.Tag + ">")
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) str(s string) {
	if c.err != nil {
		return
	}
	m, err := io.WriteString(c.w, s)
	c.n += int64(m)
	c.err = err
}

func (c *countingWriter) escape(s string) {
	if c.err != nil {
		return
	}
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	c.str(b.String())
}

func formatNum(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
