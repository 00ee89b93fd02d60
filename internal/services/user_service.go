package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type userService struct {
	repo    repositories.UserRepository
	reports repositories.EmailReportRepository
	auth    AuthService
}

func NewUserService(repo repositories.UserRepository, reports repositories.EmailReportRepository, auth AuthService) UserService {
	return &userService{repo: repo, reports: reports, auth: auth}
}

// Register creates the user and ensures their digest schedule exists. The
// schedule ensure is a warn-don't-fail side effect: a user without a schedule
// is still a valid user.
func (s *userService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("password is required")
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.reports.EnsureForUser(ctx, user.ID); err != nil {
		log.Printf("[user][register] warning: failed to create report schedule for userID=%d: %v", user.ID, err)
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.FindByUsername(ctx, username)
}
