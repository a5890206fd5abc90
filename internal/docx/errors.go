package docx

import "errors"

// Sentinel errors returned by Build.
var (
	ErrBuild       = errors.New("cannot build document tree")
	ErrMissingPart = errors.New("missing archive part")
	ErrPartTooBig  = errors.New("archive part too large")
	ErrUnsupported = errors.New("unsupported content")
)
