package habits

import "github.com/google/uuid"

// IDGenerator produces habit ids.
type IDGenerator interface {
	New() string
}

// UUIDGenerator generates random UUIDv4 ids.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string {
	return uuid.NewString()
}
