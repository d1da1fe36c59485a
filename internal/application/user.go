package app

import (
	"context"
	"strings"

	"damage-estimator/internal/domain/entity"
	"damage-estimator/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) update(ctx context.Context, userID, chatID int64, fn func(u *entity.User)) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	fn(user)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.SetState(state)
	})
}

// BeginEstimate начинает сценарий оценки с выбора марки
func (s *UserService) BeginEstimate(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.SelectBrand("")
		u.SetState(entity.StateAwaitingBrand)
	})
}

func (s *UserService) SelectBrand(ctx context.Context, userID, chatID int64, brand string) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.SelectBrand(strings.TrimSpace(brand))
		u.SetState(entity.StateAwaitingModel)
	})
}

func (s *UserService) SelectModel(ctx context.Context, userID, chatID int64, model string) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.SelectModel(strings.TrimSpace(model))
		u.SetState(entity.StateAwaitingPhoto)
	})
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	if _, err := s.repo.Get(ctx, userID, chatID); err != nil {
		return nil, err
	}
	if err := s.repo.Reset(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID, chatID)
}
