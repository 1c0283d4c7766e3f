package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	// ErrUnknownElement marks lookups with symbols not present in the
	// catalog. These are deliberately loud: no placeholder element is ever
	// substituted.
	ErrUnknownElement = errors.New("unknown element")

	// ErrBadCatalog marks structurally invalid catalog data.
	ErrBadCatalog = errors.New("invalid catalog data")
)
