package user

import (
	"context"
	"strings"

	"github.com/rsvp-platform/event-manager/pkg/model"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(repository userRepository) *Service {
	return &Service{repository: repository}
}

type userRepository interface {
	create(ctx context.Context, u *model.User) error
	createMinimal(ctx context.Context, emails []string) ([]*model.User, error)
	findById(ctx context.Context, id uint) (*model.User, error)
	findByEmail(ctx context.Context, email string) (*model.User, error)
	findByEmails(ctx context.Context, emails []string) ([]*model.User, error)
	updateProfile(ctx context.Context, user *model.User) error
}

type Service struct {
	repository userRepository
}

func (s Service) Create(ctx context.Context, user *model.User) error {
	user.Email = NormalizeEmail(user.Email)
	return s.repository.create(ctx, user)
}

func (s Service) FindById(ctx context.Context, id uint) (*model.User, error) {
	return s.repository.findById(ctx, id)
}

func (s Service) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repository.findByEmail(ctx, NormalizeEmail(email))
}

// FindByEmails returns the users registered with any of the given emails. Emails without a user
// are silently left out of the result.
func (s Service) FindByEmails(ctx context.Context, emails []string) ([]*model.User, error) {
	return s.repository.findByEmails(ctx, emails)
}

// CreateMinimal creates users knowing only their email. Their profile is incomplete until they
// update it.
func (s Service) CreateMinimal(ctx context.Context, emails []string) ([]*model.User, error) {
	return s.repository.createMinimal(ctx, emails)
}

// UpdateProfile stores the user's name and phone. A profile is complete once it has a name.
func (s Service) UpdateProfile(ctx context.Context, user *model.User, name, phone string) (*model.User, error) {
	user.Name = strings.TrimSpace(name)
	user.Phone = strings.TrimSpace(phone)
	user.IsCompleted = user.Name != ""

	if err := s.repository.updateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// NormalizeEmail trims surrounding whitespace and lower cases the email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
