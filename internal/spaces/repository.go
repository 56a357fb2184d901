package spaces

import (
	"context"
	"errors"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Space, error)
	ListActive(ctx context.Context, limit, offset int) ([]Space, int64, error)
	Upsert(ctx context.Context, space *Space) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id string) (*Space, error) {
	var space Space
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&space).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("space %s not found", id)
		}
		return nil, apperrors.Wrap(err, "failed to load space %s", id)
	}
	return &space, nil
}

func (r *repository) ListActive(ctx context.Context, limit, offset int) ([]Space, int64, error) {
	var spaces []Space
	var total int64

	if limit <= 0 {
		limit = 20
	}

	base := r.db.WithContext(ctx).Model(&Space{}).Where("is_active = ?", true)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count spaces")
	}

	err := base.Order("name ASC").Offset(offset).Limit(limit).Find(&spaces).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list spaces")
	}
	return spaces, total, nil
}

// Upsert is used by the seeder to load catalog fixtures.
func (r *repository) Upsert(ctx context.Context, space *Space) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(space).Error
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert space %s", space.ID)
	}
	return nil
}
