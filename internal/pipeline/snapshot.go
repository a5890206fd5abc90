package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/alnah/go-docx2html/internal/dom"
	"github.com/alnah/go-docx2html/internal/fileutil"
)

// snapshotSink writes NN-name.html and NN-name.diff after each pass. The raw
// tree is written as 00-raw.html. A nil sink does nothing. Write errors are
// logged and otherwise ignored.
type snapshotSink struct {
	dir       string
	serialize Serializer
	logger    zerolog.Logger
	prev      string
}

func newSnapshotSink(dir string, serialize Serializer, logger zerolog.Logger) *snapshotSink {
	if dir == "" || !fileutil.DirExists(dir) {
		return nil
	}
	logger.Debug().Str("dir", dir).Msg("writing pass snapshots")
	return &snapshotSink{dir: dir, serialize: serialize, logger: logger}
}

func (s *snapshotSink) start(doc *dom.Document) {
	if s == nil {
		return
	}
	s.prev = s.serialize(doc)
	s.write("00-raw.html", s.prev)
}

func (s *snapshotSink) record(index int, name string, doc *dom.Document) {
	if s == nil {
		return
	}
	cur := s.serialize(doc)
	base := fmt.Sprintf("%02d-%s", index, name)
	s.write(base+".html", cur)
	s.write(base+".diff", lineDiff(s.prev, cur))
	s.prev = cur
}

func (s *snapshotSink) write(name, content string) {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		s.logger.Warn().Err(err).Str("file", path).Msg("snapshot not written")
	}
}

// lineDiff returns a line-oriented diff: unchanged lines prefixed with two
// spaces, removed lines with "- ", added lines with "+ ". Identical inputs
// yield an empty string.
func lineDiff(before, after string) string {
	if before == after {
		return ""
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteByte('\n')
			}
		}
	}
	return out.String()
}
