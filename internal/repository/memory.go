package repository

import (
	"context"
	"sync"

	"factory-matching/internal/models"
)

// MemoryStore keeps both collections in process memory.
type MemoryStore struct {
	mu            sync.RWMutex
	factories     map[string]models.Factory
	consultations map[string]models.Consultation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		factories:     make(map[string]models.Factory),
		consultations: make(map[string]models.Consultation),
	}
}

// Factories returns the factory view of the store.
func (m *MemoryStore) Factories() FactoryRepository { return memoryFactories{m} }

// Consultations returns the consultation view of the store.
func (m *MemoryStore) Consultations() ConsultationRepository { return memoryConsultations{m} }

type memoryFactories struct{ m *MemoryStore }

func (r memoryFactories) List(ctx context.Context) ([]models.Factory, error) {
	return r.ListByRegion(ctx, "")
}

func (r memoryFactories) ListByRegion(_ context.Context, region string) ([]models.Factory, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]models.Factory, 0, len(r.m.factories))
	for _, f := range r.m.factories {
		if region == "" || f.Region == region {
			out = append(out, f.Clone())
		}
	}
	sortFactories(out)
	return out, nil
}

func (r memoryFactories) Get(_ context.Context, id string) (*models.Factory, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	f, ok := r.m.factories[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := f.Clone()
	return &c, nil
}

func (r memoryFactories) Save(_ context.Context, f models.Factory) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.factories[f.ID] = f.Clone()
	return nil
}

type memoryConsultations struct{ m *MemoryStore }

func (r memoryConsultations) List(_ context.Context) ([]models.Consultation, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]models.Consultation, 0, len(r.m.consultations))
	for _, c := range r.m.consultations {
		out = append(out, cloneConsultation(c))
	}
	sortConsultations(out)
	return out, nil
}

func (r memoryConsultations) Get(_ context.Context, id string) (*models.Consultation, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	c, ok := r.m.consultations[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneConsultation(c)
	return &out, nil
}

func (r memoryConsultations) Save(_ context.Context, c models.Consultation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.consultations[c.ID] = cloneConsultation(c)
	return nil
}

func (r memoryConsultations) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.consultations[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.consultations, id)
	return nil
}

func cloneConsultation(c models.Consultation) models.Consultation {
	notes := make([]models.ConsultationNote, len(c.Notes))
	copy(notes, c.Notes)
	c.Notes = notes
	return c
}
