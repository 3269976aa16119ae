package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Conte777/TrackFlow/internal/domain/visit/deps"
	"github.com/Conte777/TrackFlow/internal/domain/visit/entities"
)

type visitRepository struct {
	db *gorm.DB
}

// NewRepository creates a new visit repository
func NewRepository(db *gorm.DB) deps.VisitRepository {
	return &visitRepository{db: db}
}

// Create inserts a visit
func (r *visitRepository) Create(ctx context.Context, v *entities.Visit) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}
	return nil
}
