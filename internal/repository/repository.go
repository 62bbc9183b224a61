// Package repository persists factories and consultations.
package repository

import (
	"context"
	"errors"
	"sort"

	"factory-matching/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// FactoryRepository stores the factory catalogue. List returns every factory,
// active or not, ordered by ID.
type FactoryRepository interface {
	List(ctx context.Context) ([]models.Factory, error)
	ListByRegion(ctx context.Context, region string) ([]models.Factory, error)
	Get(ctx context.Context, id string) (*models.Factory, error)
	Save(ctx context.Context, f models.Factory) error
}

// ConsultationRepository stores consultation leads. List returns them newest first.
type ConsultationRepository interface {
	List(ctx context.Context) ([]models.Consultation, error)
	Get(ctx context.Context, id string) (*models.Consultation, error)
	Save(ctx context.Context, c models.Consultation) error
	Delete(ctx context.Context, id string) error
}

func sortFactories(factories []models.Factory) {
	sort.SliceStable(factories, func(i, j int) bool {
		return factories[i].ID < factories[j].ID
	})
}

func sortConsultations(items []models.Consultation) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
