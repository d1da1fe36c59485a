package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingBrand UserState = "awaiting_brand" // Ожидание марки автомобиля
	StateAwaitingModel UserState = "awaiting_model" // Ожидание модели автомобиля
	StateAwaitingPhoto UserState = "awaiting_photo" // Ожидание фото повреждений
	StateProcessing    UserState = "processing"     // Обработка изображения
)

// User представляет пользователя бота
type User struct {
	ID     int64     // Telegram User ID
	ChatID int64     // Telegram Chat ID
	State  UserState // Текущее состояние пользователя
	Brand  string    // Выбранная марка
	Model  string    // Выбранная модель
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// SelectBrand запоминает марку и сбрасывает ранее выбранную модель
func (u *User) SelectBrand(brand string) {
	u.Brand = brand
	u.Model = ""
}

// SelectModel запоминает модель
func (u *User) SelectModel(model string) {
	u.Model = model
}

// Reset очищает выбор автомобиля и возвращает в главное меню
func (u *User) Reset() {
	u.Brand = ""
	u.Model = ""
	u.State = StateMainMenu
}
