package service

import (
	"context"
	"strings"

	"github.com/tempohq/tempo/internal/domain"
)

// ProjectStore defines the project data access interface consumed by
// ProjectService. Both the Postgres repository and the memory store
// implement it.
type ProjectStore interface {
	Create(ctx context.Context, p domain.NewProject) (string, error)
	List(ctx context.Context) ([]domain.Project, error)
	Subscribe(callback func([]domain.Project)) func()
	Update(ctx context.Context, id string, u domain.ProjectUpdate) error
	Delete(ctx context.Context, id string) error
}

// ProjectService validates and defaults project operations before they reach
// the store.
type ProjectService struct {
	store ProjectStore
}

// NewProjectService creates a new ProjectService.
func NewProjectService(store ProjectStore) *ProjectService {
	return &ProjectService{store: store}
}

// Create validates the name, applies the default color and icon where
// omitted and stores the project. Returns the assigned id.
func (s *ProjectService) Create(ctx context.Context, p domain.NewProject) (string, error) {
	if strings.TrimSpace(p.Name) == "" {
		return "", &domain.ValidationError{Field: "name", Message: "must not be empty"}
	}
	if p.Color == "" {
		p.Color = domain.DefaultProjectColor
	}
	if p.Icon == "" {
		p.Icon = domain.DefaultProjectIcon
	}
	return s.store.Create(ctx, p)
}

// List returns all projects, most recently updated first.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.store.List(ctx)
}

// Subscribe registers a live feed over the project list and returns its
// cancel function.
func (s *ProjectService) Subscribe(callback func([]domain.Project)) func() {
	return s.store.Subscribe(callback)
}

// Update merges the given fields into the project.
func (s *ProjectService) Update(ctx context.Context, id string, u domain.ProjectUpdate) error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return &domain.ValidationError{Field: "name", Message: "must not be empty"}
	}
	return s.store.Update(ctx, id, u)
}

// Delete removes the project and all of its meetings.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
