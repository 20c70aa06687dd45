package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jay330-commits/IXTABOX-APP-sub002/apperrors"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/models"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/repository"
)

// ResolveInput carries every identity hint a caller may have. Precedence:
// authenticated session, then the email the client supplied at confirmation
// time, then the billing email the gateway reported, then metadata
// fallbacks.
type ResolveInput struct {
	SessionUserID *uuid.UUID
	SuppliedEmail string
	BillingEmail  string
	MetadataEmail string
	Name          string
	Phone         string
	Address       string
}

type IdentityService interface {
	Resolve(ctx context.Context, in ResolveInput) (uuid.UUID, error)
}

type identityService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewIdentityService(users repository.UserRepository, logger *zap.Logger) IdentityService {
	return &identityService{users: users, logger: logger}
}

func (s *identityService) Resolve(ctx context.Context, in ResolveInput) (uuid.UUID, error) {
	// An authenticated session wins outright; nothing is created.
	if in.SessionUserID != nil {
		return *in.SessionUserID, nil
	}

	email := firstNonEmpty(in.SuppliedEmail, in.BillingEmail, in.MetadataEmail)
	if email == "" {
		return uuid.Nil, apperrors.ErrMissingContact
	}

	guest, err := s.users.FindOrCreateGuest(ctx, &models.User{
		Email:   email,
		Name:    in.Name,
		Phone:   in.Phone,
		Address: in.Address,
	})
	if err != nil {
		return uuid.Nil, err
	}

	if guest.Guest {
		s.logger.Info("Resolved payment to guest user",
			zap.String("user_id", guest.ID.String()),
		)
	}
	return guest.ID, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
