package ids

import (
	"github.com/google/uuid"
	"go.uber.org/fx"
)

// Generator mints identifiers for newly created entities.
type Generator interface {
	NewID() string
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

func NewGenerator() Generator {
	return uuidGenerator{}
}

var Module = fx.Module("ids",
	fx.Provide(NewGenerator),
)
