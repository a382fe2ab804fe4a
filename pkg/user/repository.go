package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"gorm.io/gorm"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) create(ctx context.Context, u *model.User) error {
	ctx = context.WithoutCancel(ctx)
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("user %q already exists", u.Email)
	}
	return err
}

// createMinimal inserts one user per email in a single statement. Only the email is known for users
// invited before signing up.
func (r repository) createMinimal(ctx context.Context, emails []string) ([]*model.User, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	users := make([]*model.User, len(emails))
	for i, email := range emails {
		users[i] = &model.User{Email: email}
	}

	ctx = context.WithoutCancel(ctx)
	err := r.db.WithContext(ctx).Create(&users).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, errdef.NewDuplicated("one of %d users already exists", len(emails))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %d users: %v", len(emails), err)
	}
	return users, nil
}

func (r repository) findById(ctx context.Context, id uint) (*model.User, error) {
	var u *model.User
	err := r.db.
		WithContext(ctx).
		First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find user with id %d", id)
	}
	return u, err
}

func (r repository) findByEmail(ctx context.Context, email string) (*model.User, error) {
	var u *model.User
	err := r.db.
		WithContext(ctx).
		Where("email = ?", email).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find user with email %q", email)
	}
	return u, err
}

func (r repository) findByEmails(ctx context.Context, emails []string) ([]*model.User, error) {
	var users []*model.User
	if len(emails) == 0 {
		return users, nil
	}

	err := r.db.
		WithContext(ctx).
		Where("email IN ?", emails).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find users by email: %v", err)
	}
	return users, nil
}

func (r repository) updateProfile(ctx context.Context, user *model.User) error {
	ctx = context.WithoutCancel(ctx)
	err := r.db.
		WithContext(ctx).
		Model(user).
		Select("Name", "Phone", "IsCompleted").
		Updates(user).Error
	if err != nil {
		return fmt.Errorf("failed to update user profile: %v", err)
	}
	return nil
}
