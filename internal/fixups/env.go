package fixups

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-docx2html/internal/docx"
	"github.com/alnah/go-docx2html/internal/dom"
	"github.com/alnah/go-docx2html/internal/pipeline"
)

// Options are the config-derived settings the passes read.
type Options struct {
	Title          string
	Lang           string
	StylesheetHref string
	Notice         string // Markdown; empty disables the notice
	TOCTitle       string
	TOCMaxDepth    int
	NumberSections bool
	Redirects      map[string]string // obsolete section id -> current id ("" allowed)
	Styles         map[string]string // extra Word style id -> "tag.class" / "@lhs" / "@rhs"
	CodeLanguage   string
	CodeStyle      string            // chroma style inlined in the head; "" links no rules
	LinkPhrases    map[string]string // phrase -> section title
}

// Env carries what the passes need besides the tree itself.
type Env struct {
	Source  *docx.Source
	Options Options
	Logger  zerolog.Logger

	styleMap StyleMap
}

// NewEnv validates opts and returns an environment for one conversion.
func NewEnv(src *docx.Source, opts Options, logger zerolog.Logger) (*Env, error) {
	if src == nil {
		src = &docx.Source{}
	}
	if src.Styles == nil {
		src.Styles, _ = docx.NewStyleSheet("")
	}
	if src.Numbering == nil {
		src.Numbering = docx.NewNumbering(nil, nil)
	}
	if opts.TOCMaxDepth <= 0 {
		opts.TOCMaxDepth = 3
	}
	if opts.TOCTitle == "" {
		opts.TOCTitle = "Contents"
	}
	if opts.Lang == "" {
		opts.Lang = "en"
	}
	if opts.CodeLanguage == "" {
		opts.CodeLanguage = "javascript"
	}
	sm := DefaultStyleMap()
	for id, spec := range opts.Styles {
		t, err := ParseTarget(spec)
		if err != nil {
			return nil, fmt.Errorf("styles.%s: %w", id, err)
		}
		sm[id] = t
	}
	return &Env{Source: src, Options: opts, Logger: logger, styleMap: sm}, nil
}

type passFunc func(env *Env, doc *dom.Document) error

// passes lists every fixup in execution order.
var passes = []struct {
	name string
	fn   passFunc
}{
	{"symbols", symbols},
	{"remove_picts", removePicts},
	{"strip_empty_paragraphs", stripEmptyParagraphs},
	{"add_numbering", addNumbering},
	{"formatting", formatting},
	{"lists", lists},
	{"strip_toc", stripTOC},
	{"paragraph_classes", paragraphClasses},
	{"remove_empty_headings", removeEmptyHeadings},
	{"element_spacing", elementSpacing},
	{"hr", bubbleHR},
	{"sections", sections},
	{"section_ids", sectionIDs},
	{"section_redirects", sectionRedirects},
	{"tables", tables},
	{"table_formatting", tableFormatting},
	{"figures", figures},
	{"pre", pre},
	{"highlight_code", highlightCode},
	{"notes", notes},
	{"footnotes", footnotes},
	{"simplify_formatting", simplifyFormatting},
	{"list_paragraphs", listParagraphs},
	{"grammar_pre", grammarPre},
	{"grammar_post", grammarPost},
	{"remove_margin_style", removeMarginStyle},
	{"links", links},
	{"generate_toc", generateTOC},
	{"sticky", sticky},
	{"notice", notice},
	{"html_head", htmlHead},
	{"check_transient", checkTransient},
}

// Names returns the pass names in execution order.
func Names() []string {
	out := make([]string, len(passes))
	for i, p := range passes {
		out[i] = p.name
	}
	return out
}

// Default returns the full ordered pass registry bound to env.
func Default(env *Env) (*pipeline.Registry, error) {
	reg, err := pipeline.NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, p := range passes {
		fn := p.fn
		if err := reg.Register(pipeline.Pass{
			Name:  p.name,
			Apply: func(doc *dom.Document) error { return fn(env, doc) },
		}); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Target is what a Word paragraph style becomes.
type Target struct {
	Tag     string // "" keeps p (or li for list items)
	Class   string
	Grammar string // "lhs" or "rhs" for syntax paragraphs
}

// ParseTarget reads "tag", "tag.class", ".class", "@lhs", "@rhs" or "".
func ParseTarget(spec string) (Target, error) {
	switch {
	case spec == "":
		return Target{}, nil
	case spec == "@lhs" || spec == "@rhs":
		return Target{Tag: "div", Grammar: spec[1:]}, nil
	case strings.HasPrefix(spec, "@"):
		return Target{}, fmt.Errorf("unknown grammar role %q", spec)
	}
	tag, class, _ := strings.Cut(spec, ".")
	if strings.ContainsAny(tag, " <>\"'") || strings.ContainsAny(class, " <>\"'") {
		return Target{}, fmt.Errorf("invalid target %q", spec)
	}
	return Target{Tag: tag, Class: class}, nil
}

// StyleMap maps Word style ids to targets.
type StyleMap map[string]Target

// DefaultStyleMap returns the built-in mapping.
func DefaultStyleMap() StyleMap {
	sm := StyleMap{
		"Normal":            {},
		"ListParagraph":     {},
		"BodyText":          {},
		"Alg2":              {},
		"Alg3":              {},
		"Alg4":              {},
		"Algorithm":         {},
		"Title":             {Tag: "h1"},
		"ANNEX":             {Tag: "h1"},
		"Introduction":      {Tag: "h1"},
		"Note":              {Tag: "p", Class: "Note"},
		"Example":           {Tag: "p", Class: "Note"},
		"SyntaxRule":        {Tag: "div", Grammar: "lhs"},
		"SyntaxRule2":       {Tag: "div", Grammar: "lhs"},
		"SyntaxDefinition":  {Tag: "div", Grammar: "rhs"},
		"SyntaxDefinition2": {Tag: "div", Grammar: "rhs"},
		"bibliography":      {Tag: "p", Class: "bibliography-entry"},
		"RefNorm":           {Tag: "p", Class: "formal-reference"},
		"Terms":             {Tag: "p", Class: "Terms"},
		"M20":               {Tag: "div", Class: "math-display"},
		"MathDefinition4":   {Tag: "div", Class: "display"},
		"Caption":           {Tag: "p", Class: "caption"},
		"Figuretitle":       {Tag: "p", Class: "caption"},
		"Tabletitle":        {Tag: "p", Class: "caption"},
	}
	for i := 1; i <= 6; i++ {
		sm[fmt.Sprintf("Heading%d", i)] = Target{Tag: fmt.Sprintf("h%d", i)}
	}
	return sm
}

// isHeadingStyle reports whether the Word style id maps to a heading.
func (e *Env) isHeadingStyle(id string) bool {
	t, ok := e.styleMap[id]
	return ok && tagLevel(t.Tag) > 0
}
