// Package assets provides stylesheets and notices for converted documents.
// Assets can be loaded from embedded files or a custom directory.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in styles (spec, plain) and the
// unofficial-rendering notice.
//
// FilesystemLoader allows users to provide custom assets from a directory,
// with path traversal protection and symlink resolution.
//
// AssetResolver is the loader used by the converter. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader if the asset is
// not found.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css    # stylesheets (e.g., spec.css)
//	└── notices/
//	    └── {name}.md     # Markdown notices (e.g., unofficial.md)
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
