package helpers

import "github.com/google/uuid"

// UUIDGenerator issues random (v4) identifiers in canonical string form.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
