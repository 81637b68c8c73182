package quadtree // Declares that this file belongs to the "quadtree" package

import "errors" // Standard error wrapping, same as the rest of this package

// ErrOutOfDomain is returned when an inserted or queried point falls outside
// the tree's configured domain frame.
var ErrOutOfDomain = errors.New("quadtree: point outside domain")

// ErrInvalidDirection signals a programming defect in the direction algebra
// (e.g. concatenating two opposite cardinals). Per spec this is a caller
// error, not a recoverable one, so helpers panic with it instead of
// returning it.
var ErrInvalidDirection = errors.New("quadtree: invalid direction combination")
