package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lk2023060901/myai/internal/auth/biz"
	"github.com/lk2023060901/myai/internal/auth/models"
	"github.com/lk2023060901/myai/internal/pkg/database"
	"github.com/lk2023060901/myai/internal/pkg/oauth2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepo stores users and linked OAuth accounts through gorm.
type UserRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) *UserRepo {
	return &UserRepo{db: db}
}

var _ biz.UserRepo = (*UserRepo)(nil)

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*biz.User, error) {
	var po models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, biz.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toBizUser(&po), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*biz.User, error) {
	var po models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&po).Error; err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, biz.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toBizUser(&po), nil
}

func (r *UserRepo) Create(ctx context.Context, user *biz.User) error {
	po := toUserPO(user)
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		if database.IsDuplicateKeyError(err) {
			return biz.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = po.ID
	return nil
}

// Update writes the mutable columns. Select keeps nil values, so cleared
// names and pictures are stored as NULL.
func (r *UserRepo) Update(ctx context.Context, user *biz.User) error {
	po := toUserPO(user)
	err := r.db.WithContext(ctx).
		Model(&models.User{ID: user.ID}).
		Select("name", "picture", "is_active", "password_hash").
		Updates(po).Error
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *UserRepo) UpsertOAuthUser(ctx context.Context, identity *oauth2.Identity) (*biz.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found := false
		if identity.Email != "" {
			err := tx.Where("email = ?", identity.Email).First(&user).Error
			switch {
			case err == nil:
				found = true
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}
		}
		if !found {
			email := identity.Email
			if email == "" {
				email = fmt.Sprintf("%s:%s@example.com", identity.Provider, identity.Subject)
			}
			user = models.User{
				Email:    email,
				Name:     nullable(identity.Name),
				Picture:  nullable(identity.Picture),
				IsActive: true,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		}

		var acct models.OAuthAccount
		err := tx.Where("provider = ? AND provider_user_id = ?", identity.Provider, identity.Subject).First(&acct).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			acct = models.OAuthAccount{Provider: identity.Provider, ProviderUserID: identity.Subject, UserID: user.ID}
		}
		acct.Email = nullable(identity.Email)
		acct.Name = nullable(identity.Name)
		acct.Picture = nullable(identity.Picture)
		acct.AccessToken = nullable(identity.AccessToken)
		acct.RefreshToken = nullable(identity.RefreshToken)
		if identity.ExpiresAt > 0 {
			acct.ExpiresAt = &identity.ExpiresAt
		}
		if identity.Raw != nil {
			raw, err := json.Marshal(identity.Raw)
			if err != nil {
				return err
			}
			acct.Raw = raw
		}
		if err := tx.Omit(clause.Associations).Save(&acct).Error; err != nil {
			return err
		}

		// Fill profile gaps from the provider without overwriting user edits.
		changed := false
		if user.Name == nil && identity.Name != "" {
			user.Name, changed = nullable(identity.Name), true
		}
		if user.Picture == nil && identity.Picture != "" {
			user.Picture, changed = nullable(identity.Picture), true
		}
		if changed {
			return tx.Model(&user).Select("name", "picture").Updates(&user).Error
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert oauth user: %w", err)
	}
	return toBizUser(&user), nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toUserPO(u *biz.User) *models.User {
	return &models.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         nullable(u.Name),
		Picture:      nullable(u.Picture),
		IsActive:     u.IsActive,
		PasswordHash: nullable(u.PasswordHash),
	}
}

func toBizUser(po *models.User) *biz.User {
	return &biz.User{
		ID:           po.ID,
		Email:        po.Email,
		Name:         deref(po.Name),
		Picture:      deref(po.Picture),
		IsActive:     po.IsActive,
		PasswordHash: deref(po.PasswordHash),
	}
}
