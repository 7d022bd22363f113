// README: Common identifier and value types shared across modules.
package types

import "github.com/google/uuid"

type ID string

// NewID returns a fresh opaque identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

type Point struct {
	Lat float64
	Lng float64
}
