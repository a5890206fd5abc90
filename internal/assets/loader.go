package assets

// AssetLoader defines the contract for loading stylesheets and notices.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadNotice loads a Markdown notice by name (without .md extension).
	// Returns ErrNoticeNotFound if the notice doesn't exist.
	LoadNotice(name string) (string, error)
}
