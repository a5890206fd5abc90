package assets

// Built-in asset names.
const (
	DefaultStyleName  = "spec"
	DefaultNoticeName = "unofficial"
)

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a CSS file by name using the default embedded loader.
// The name should not include the .css extension or path components.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadNotice loads a Markdown notice by name using the default embedded loader.
func LoadNotice(name string) (string, error) {
	return defaultLoader.LoadNotice(name)
}
