// Package metadata abstracts the collection of album and track text from the
// user, decoupling the rip pipeline from any particular input surface.
package metadata

import "context"

// Album holds the externally supplied album-level fields.
type Album struct {
	Artist string
	Title  string
	Year   string
	Genre  string
}

// Provider supplies metadata for a disc: given the track count, it returns
// the album fields plus exactly trackCount names. Returning a different
// number of names is a contract violation the workflow treats as fatal.
type Provider interface {
	Collect(ctx context.Context, trackCount int) (Album, []string, error)
}
