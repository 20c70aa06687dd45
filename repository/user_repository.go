package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Jay330-commits/IXTABOX-APP-sub002/models"
)

type UserRepository interface {
	// FindOrCreateGuest is idempotent on email: concurrent entry points
	// resolving the same payer converge on one row via the unique index.
	FindOrCreateGuest(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type gormUserRepo struct {
	db *gorm.DB
}

func NewGormUserRepo(db *gorm.DB) UserRepository {
	return &gormUserRepo{db: db}
}

func (r *gormUserRepo) FindOrCreateGuest(ctx context.Context, user *models.User) (*models.User, error) {
	user.Guest = true
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(user).Error
	if err != nil && !IsUniqueViolation(err) {
		return nil, err
	}

	var out models.User
	if err := r.db.WithContext(ctx).Where("email = ?", user.Email).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *gormUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
