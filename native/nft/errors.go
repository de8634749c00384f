package nft

import "errors"

// Errors returned by the Operation Engine. Flat and unwrapped, following the
// teacher's native/creator and core/errors convention of package-level
// sentinel errors rather than an error-code struct hierarchy (spec.md §7:
// "errors are never retried or logged; they are returned to the caller
// atomically with no state change").
var (
	ErrNoPermission  = errors.New("nft: no permission")
	ErrUnknown       = errors.New("nft: unknown class or instance")
	ErrAlreadyExists = errors.New("nft: instance already exists")
	ErrInUse         = errors.New("nft: class already in use")
	ErrWrongOwner    = errors.New("nft: wrong owner")
	ErrBadWitness    = errors.New("nft: bad witness")
	ErrFrozen        = errors.New("nft: frozen")
	ErrWrongDelegate = errors.New("nft: wrong delegate")
	ErrNoDelegate    = errors.New("nft: no delegate")
	ErrBadMetadata   = errors.New("nft: metadata exceeds string limit")
	ErrOverflow      = errors.New("nft: arithmetic overflow")
)
