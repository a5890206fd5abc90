package docx

import (
	"fmt"
	"sort"

	"github.com/alnah/go-docx2html/internal/dom"
)

// Style is one w:style definition from styles.xml.
type Style struct {
	ID      string
	Name    string
	Type    string // paragraph, character, table or numbering
	BasedOn string

	// Own holds the properties set by this style alone; Full adds the
	// properties inherited through the basedOn chain.
	Own  *dom.Style
	Full *dom.Style
}

// StyleSheet indexes the styles of a document by id.
type StyleSheet struct {
	styles           map[string]*Style
	defaultParagraph string
}

// Lookup returns the style with the given id.
func (s *StyleSheet) Lookup(id string) (*Style, bool) {
	if s == nil {
		return nil, false
	}
	st, ok := s.styles[id]
	return st, ok
}

// DefaultParagraph returns the id of the default paragraph style, or "".
func (s *StyleSheet) DefaultParagraph() string {
	if s == nil {
		return ""
	}
	return s.defaultParagraph
}

// IDs returns every style id in sorted order.
func (s *StyleSheet) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.styles))
	for id := range s.styles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NewStyleSheet builds a style sheet from already parsed styles and
// resolves inheritance. It is used by tests and by parseStyles.
func NewStyleSheet(defaultParagraph string, styles ...*Style) (*StyleSheet, error) {
	s := &StyleSheet{styles: make(map[string]*Style, len(styles)), defaultParagraph: defaultParagraph}
	for _, st := range styles {
		if st.Own == nil {
			st.Own = dom.NewStyle()
		}
		st.Full = nil
		s.styles[st.ID] = st
	}
	for _, st := range styles {
		if err := s.resolve(st, nil); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *StyleSheet) resolve(st *Style, visiting map[string]bool) error {
	if st.Full != nil {
		return nil
	}
	if st.BasedOn == "" {
		st.Full = st.Own.Clone()
		return nil
	}
	parent, ok := s.styles[st.BasedOn]
	if !ok {
		// Word tolerates dangling basedOn references.
		st.Full = st.Own.Clone()
		return nil
	}
	if visiting == nil {
		visiting = make(map[string]bool)
	}
	if visiting[st.ID] {
		return fmt.Errorf("style %q: basedOn cycle", st.ID)
	}
	visiting[st.ID] = true
	if err := s.resolve(parent, visiting); err != nil {
		return err
	}
	st.Full = parent.Full.Clone()
	st.Full.Update(st.Own)
	return nil
}

// parseStyles reads the w:styles root of styles.xml.
func parseStyles(root *xnode) (*StyleSheet, error) {
	var styles []*Style
	def := ""
	for _, x := range root.all("style") {
		id, _ := x.attr("styleId")
		if id == "" {
			continue
		}
		st := &Style{ID: id}
		st.Type, _ = x.attr("type")
		if n := x.child("name"); n != nil {
			st.Name = n.val()
		}
		if b := x.child("basedOn"); b != nil {
			st.BasedOn = b.val()
		}
		own, _ := parseProps(x.child("pPr"))
		runProps, _ := parseProps(x.child("rPr"))
		own.Update(runProps)
		st.Own = own
		if d, _ := x.attr("default"); (d == "1" || d == "true") && st.Type == "paragraph" {
			def = id
		}
		styles = append(styles, st)
	}
	return NewStyleSheet(def, styles...)
}
