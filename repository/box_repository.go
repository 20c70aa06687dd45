package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jay330-commits/IXTABOX-APP-sub002/models"
)

type BoxRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.StorageBox, error)
}

type gormBoxRepo struct {
	db *gorm.DB
}

func NewGormBoxRepo(db *gorm.DB) BoxRepository {
	return &gormBoxRepo{db: db}
}

func (r *gormBoxRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StorageBox, error) {
	var box models.StorageBox
	if err := r.db.WithContext(ctx).First(&box, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &box, nil
}
