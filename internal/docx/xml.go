package docx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

const (
	nsMain = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRels = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// xnode is a namespace-light XML element: children keep their order and
// character data is accumulated per element.
type xnode struct {
	space    string
	name     string
	attrs    []xml.Attr
	children []*xnode
	text     string
}

func parseXML(r io.Reader) (*xnode, error) {
	dec := xml.NewDecoder(r)
	var stack []*xnode
	var root *xnode
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xnode{space: t.Name.Space, name: t.Name.Local, attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) > 0 {
				p := stack[len(stack)-1]
				p.children = append(p.children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced end element %s", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("empty XML document")
	}
	return root, nil
}

// attr returns the value of the first attribute with the given local name
// in the main namespace, or with no namespace.
func (x *xnode) attr(local string) (string, bool) {
	for _, a := range x.attrs {
		if a.Name.Local == local && (a.Name.Space == nsMain || a.Name.Space == "") {
			return a.Value, true
		}
	}
	return "", false
}

func (x *xnode) val() string {
	v, _ := x.attr("val")
	return v
}

// attrNS returns an attribute by namespace and local name.
func (x *xnode) attrNS(space, local string) string {
	for _, a := range x.attrs {
		if a.Name.Local == local && a.Name.Space == space {
			return a.Value
		}
	}
	return ""
}

// child returns the first child with the given local name.
func (x *xnode) child(name string) *xnode {
	if x == nil {
		return nil
	}
	for _, c := range x.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// all returns the children with the given local name.
func (x *xnode) all(name string) []*xnode {
	var out []*xnode
	for _, c := range x.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// on reports whether a toggle property such as w:b is switched on.
func (x *xnode) on() bool {
	v, ok := x.attr("val")
	if !ok {
		return true
	}
	switch v {
	case "0", "false", "off":
		return false
	}
	return true
}
