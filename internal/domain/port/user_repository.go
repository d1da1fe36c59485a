package port

import (
	"context"

	"damage-estimator/internal/domain/entity"
)

// UserRepository интерфейс хранилища пользователей бота
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет состояние и выбранный автомобиль
	Save(ctx context.Context, user *entity.User) error

	// Reset сбрасывает выбор автомобиля и возвращает в главное меню
	Reset(ctx context.Context, userID int64) error
}
