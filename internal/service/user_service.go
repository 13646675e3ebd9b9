package service

import (
	"context"
	"fmt"

	"finaily/internal/models"
	"finaily/internal/repository"
)

// UpdateProfileParams carries the optional profile fields of a PATCH request.
// Nil means "leave unchanged".
type UpdateProfileParams struct {
	DisplayName       *string
	PreferredLanguage *string
}

type UserService struct {
	Repo      repository.Repository
	Languages []string
}

// GetOrCreate returns the profile row for a token subject, provisioning it on
// first sight.
func (s *UserService) GetOrCreate(ctx context.Context, id, email string) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{
		ID:                id,
		Email:             email,
		PreferredLanguage: s.defaultLanguage(),
	}
	if err := s.Repo.InsertUser(ctx, user); err != nil {
		return nil, fmt.Errorf("user provision: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the set fields and returns the updated row.
func (s *UserService) UpdateProfile(ctx context.Context, id string, params UpdateProfileParams) (*models.User, error) {
	updates := map[string]any{}
	if params.DisplayName != nil {
		updates["display_name"] = *params.DisplayName
	}
	if params.PreferredLanguage != nil {
		if !s.supportedLanguage(*params.PreferredLanguage) {
			return nil, ErrUnsupportedLanguage
		}
		updates["preferred_language"] = *params.PreferredLanguage
	}
	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}

	user, err := s.Repo.UpdateUser(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("user update: %w", err)
	}
	return user, nil
}

func (s *UserService) supportedLanguage(lang string) bool {
	for _, supported := range s.languages() {
		if lang == supported {
			return true
		}
	}
	return false
}

func (s *UserService) defaultLanguage() string {
	return s.languages()[0]
}

func (s *UserService) languages() []string {
	if len(s.Languages) == 0 {
		return []string{"ko", "en"}
	}
	return s.Languages
}
