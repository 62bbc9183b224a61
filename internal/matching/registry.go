package matching

import (
	"context"
	"fmt"

	"factory-matching/internal/models"
)

// FactorySource supplies the factory catalogue. Repository backends satisfy it.
type FactorySource interface {
	List(ctx context.Context) ([]models.Factory, error)
}

// Registry is an immutable snapshot of the active factory catalogue.
// It is safe for concurrent use.
type Registry struct {
	factories []models.Factory
}

// NewRegistry snapshots the active factories in catalogue order.
func NewRegistry(factories []models.Factory) *Registry {
	active := make([]models.Factory, 0, len(factories))
	for _, f := range factories {
		if f.IsActive() {
			active = append(active, f.Clone())
		}
	}
	return &Registry{factories: active}
}

// LoadRegistry reads the catalogue from source and snapshots it.
func LoadRegistry(ctx context.Context, source FactorySource) (*Registry, error) {
	factories, err := source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list factories: %w", err)
	}
	return NewRegistry(factories), nil
}

// ListAll returns deep copies of the factories in insertion order.
func (r *Registry) ListAll() []models.Factory {
	if r == nil {
		return nil
	}
	out := make([]models.Factory, 0, len(r.factories))
	for _, f := range r.factories {
		out = append(out, f.Clone())
	}
	return out
}

// Len reports the number of active factories.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.factories)
}
