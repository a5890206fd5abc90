package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

// Transient attribute names written by the builder.
const (
	AttrStyle       = "data-docx-style"
	AttrBookmark    = "data-docx-bookmark"
	AttrRef         = "data-docx-ref"
	AttrFootnoteRef = "data-docx-footnote-ref"
	AttrFootnote    = "data-docx-footnote"
	// AttrSymbol marks a w:sym character as "font:code" until the symbols
	// pass maps it to Unicode.
	AttrSymbol = "data-docx-sym"
	// AttrPicture marks the div holding the images and text boxes of a
	// w:drawing, w:pict or w:object; its value is the element name.
	AttrPicture = "data-docx-pict"
)

// maxPartSize bounds the uncompressed size of any XML part read from the
// archive.
const maxPartSize = 64 << 20

// Source is what the passes need to know about the input besides its tree.
type Source struct {
	Path      string
	Styles    *StyleSheet
	Numbering *Numbering
	// Media holds the embedded images the tree references, keyed by the
	// relative src written on their img elements.
	Media map[string][]byte
}

// archive gives access to the parts of an opened .docx file.
type archive struct {
	files map[string]*zip.File
}

func newArchive(zr *zip.Reader) *archive {
	a := &archive{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		a.files[strings.TrimPrefix(f.Name, "/")] = f
	}
	return a
}

// part parses an XML part. A missing optional part returns nil, nil.
func (a *archive) part(name string, required bool) (*xnode, error) {
	if _, ok := a.files[name]; !ok && !required {
		return nil, nil
	}
	data, err := a.file(name)
	if err != nil {
		return nil, err
	}
	x, err := parseXML(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return x, nil
}

// relations are the relationships of one part that the builder follows.
type relations struct {
	links  map[string]string // id -> external target
	images map[string]string // id -> archive part name of an embedded image
}

const imageRelType = "/image"

// relationships reads the relationships of a part. External targets are
// what hyperlinks and linked images point at; internal image targets are
// resolved to archive part names.
func (a *archive) relationships(partName string) (*relations, error) {
	rels := &relations{links: map[string]string{}, images: map[string]string{}}
	dir, file := path.Split(partName)
	x, err := a.part(dir+"_rels/"+file+".rels", false)
	if err != nil || x == nil {
		return rels, err
	}
	for _, r := range x.all("Relationship") {
		id, _ := r.attr("Id")
		target, _ := r.attr("Target")
		if mode, _ := r.attr("TargetMode"); mode == "External" {
			rels.links[id] = target
			continue
		}
		if typ, _ := r.attr("Type"); strings.HasSuffix(typ, imageRelType) {
			name := path.Clean(path.Join(dir, target))
			if strings.HasPrefix(target, "/") {
				name = path.Clean(strings.TrimPrefix(target, "/"))
			}
			rels.images[id] = name
		}
	}
	return rels, nil
}

// file reads a binary part, bounded like the XML parts.
func (a *archive) file(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
	}
	if f.UncompressedSize64 > maxPartSize {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrPartTooBig, name, f.UncompressedSize64)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, maxPartSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(data) > maxPartSize {
		return nil, fmt.Errorf("%w: %s", ErrPartTooBig, name)
	}
	return data, nil
}
