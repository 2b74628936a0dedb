package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"lon-tracker/internal/repository"
)

// ============================================
// User Service
// ============================================

type UserService interface {
	GetByID(ctx context.Context, id string) (*repository.User, error)
	GetAll(ctx context.Context) ([]*repository.User, error)
	Search(ctx context.Context, query string) ([]*repository.User, error)
	UpdateProfile(ctx context.Context, userID string, update *ProfileUpdate) (*repository.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// ProfileUpdate carries the optional profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Name     *string
	Phone    *string
	Function *string
	Company  *string
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, id string) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) GetAll(ctx context.Context) ([]*repository.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *userService) Search(ctx context.Context, query string) ([]*repository.User, error) {
	if query == "" {
		return []*repository.User{}, nil
	}
	return s.userRepo.Search(ctx, query)
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, update *ProfileUpdate) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if update.Name != nil && *update.Name != "" {
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = update.Phone
	}
	if update.Function != nil {
		user.Function = update.Function
	}
	if update.Company != nil {
		user.Company = update.Company
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return ErrInvalidInput
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.userRepo.Update(ctx, user)
}
