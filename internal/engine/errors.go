package engine

import "errors"

var (
	// ErrUnknownModule indicates a requested module is not configured and
	// not discoverable from the manifest.
	ErrUnknownModule = errors.New("unknown module")
)
