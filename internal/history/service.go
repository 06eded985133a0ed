package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record saves one translation for an authenticated user.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, mode, original, translation string) (*Entry, error) {
	entry := &Entry{
		ID:          uuid.New(),
		UserID:      userID,
		Mode:        mode,
		Original:    original,
		Translation: translation,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*Entry, int64, error) {
	return s.repo.ListByUser(ctx, userID, page, pageSize)
}

func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	return s.repo.Delete(ctx, id, userID)
}
