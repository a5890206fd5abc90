package assets

import (
	"fmt"
	"strings"
)

// maxNameLength bounds asset names; file names beyond it are a config mistake.
const maxNameLength = 64

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty, too long, or contains path
// separators, dots, or NUL.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > maxNameLength:
		return fmt.Errorf("%w: %d chars (max %d)", ErrInvalidAssetName, len(name), maxNameLength)
	case strings.ContainsAny(name, "/\\.\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// IsAssetName reports whether ref names an asset rather than a file path.
func IsAssetName(ref string) bool {
	return ValidateAssetName(ref) == nil
}
