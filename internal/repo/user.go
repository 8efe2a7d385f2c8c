package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/harishn/shopapi/internal/models"
)

var ErrNotFound = errors.New("record not found")

type UserRepo struct {
	DB *gorm.DB
}

// FindByEmail does an exact, case-sensitive match.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

// SetSessionHash overwrites the stored refresh hash unconditionally.
// Used on login (new session) and logout (hash=nil).
func (r *UserRepo) SetSessionHash(ctx context.Context, userID uint, hash *string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("hashed_refresh_token", hash).Error
}

// RotateSessionHash replaces the stored refresh hash only if it still equals
// oldHash. A zero matched count means a concurrent rotation or logout won the
// race and the caller's token is no longer the active one.
func (r *UserRepo) RotateSessionHash(ctx context.Context, userID uint, oldHash, newHash string) (int64, error) {
	result := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND hashed_refresh_token = ?", userID, oldHash).
		Update("hashed_refresh_token", newHash)
	return result.RowsAffected, result.Error
}

func (r *UserRepo) ClearSessionHashByEmail(ctx context.Context, email string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("hashed_refresh_token", nil).Error
}
