package bike

import "context"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every bike in the catalog. Store failures are returned as-is
// so callers can answer with an error instead of a partial list.
func (s *Service) List(ctx context.Context) ([]Bike, error) {
	return s.repo.List(ctx)
}
