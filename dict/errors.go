package dict

import "github.com/pkg/errors"

var (
	// ErrDuplicateKey is returned by Insert when the key is already stored.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrReservedKey is returned by Insert when the key collides with a
	// sentinel value of the engine.
	ErrReservedKey = errors.New("reserved key")
)
