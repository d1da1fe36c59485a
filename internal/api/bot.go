package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	app "damage-estimator/internal/application"
	"damage-estimator/internal/domain/entity"
	"damage-estimator/internal/domain/port"
)

const (
	msgStart = `👋 Привет! Я оцениваю стоимость ремонта кузова по фото.

🚗 Выберите марку и модель, отправьте фото повреждений, и я посчитаю ремонт и замену деталей.

📋 Команды:
/estimate - начать оценку
/help - справка
/cancel - отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /estimate
2️⃣ Выберите марку и модель автомобиля
3️⃣ Отправьте фото повреждённого места
4️⃣ Получите расчёт: ремонт или замена по каждой детали и итог

💡 Рекомендации:
• Снимайте при хорошем освещении
• В кадре должна быть видна вся деталь
• Фото должно быть чётким

📋 Команды:
/estimate - начать оценку
/cancel - отменить операцию`

	msgChooseBrand     = "🚗 Выберите марку автомобиля."
	msgTypeBrand       = "🚗 Напишите марку автомобиля."
	msgChooseModel     = "🚙 Выберите модель %s."
	msgTypeModel       = "🚙 Напишите модель %s."
	msgUnknownBrand    = "❓ Такой марки нет в прайсе. Выберите марку с клавиатуры."
	msgUnknownModel    = "❓ Такой модели нет в прайсе. Выберите модель с клавиатуры."
	msgAwaitingPhoto   = "📸 %s %s. Отправьте фото повреждений."
	msgCancelled       = "❌ Операция отменена. Отправьте /estimate для новой оценки."
	msgStartEstimate   = "📋 Отправьте /estimate, чтобы начать оценку."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущее фото ещё обрабатывается."
	msgNoDamages       = "✅ Повреждения не обнаружены."
	msgPoorPhoto       = "⚠️ Фото не подходит для анализа: слишком тёмное, пересвеченное или размытое. Попробуйте сделать другое фото."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."

	keyboardColumns = 3
)

// botAPI часть Telegram API, которой пользуется обработчик сообщений
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	tg        *tgbotapi.BotAPI
	api       botAPI
	users     *app.UserService
	estimates *app.EstimateService
	catalog   port.PriceCatalog
	http      *http.Client
	wg        sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, estimates *app.EstimateService, catalog port.PriceCatalog) (*Bot, error) {
	tg, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Info().Str("account", tg.Self.UserName).Msg("telegram bot authorized")

	b := newBot(tg, users, estimates, catalog)
	b.tg = tg
	return b, nil
}

func newBot(api botAPI, users *app.UserService, estimates *app.EstimateService, catalog port.PriceCatalog) *Bot {
	return &Bot{
		api:       api,
		users:     users,
		estimates: estimates,
		catalog:   catalog,
		http:      http.DefaultClient,
	}
}

// Run обрабатывает сообщения до отмены контекста. Каждое обновление в своей горутине.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tg.GetUpdatesChan(u)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.tg.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleMessage(ctx, msg)
			}(update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("get user")
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	b.handleText(ctx, msg, user)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		if _, err := b.users.Cancel(ctx, user.ID, chatID); err != nil {
			log.Error().Err(err).Msg("reset user")
		}
		b.sendMessage(chatID, msgStart, tgbotapi.NewRemoveKeyboard(true))

	case "help":
		b.sendMessage(chatID, msgHelp, nil)

	case "estimate":
		if _, err := b.users.BeginEstimate(ctx, user.ID, chatID); err != nil {
			log.Error().Err(err).Msg("begin estimate")
			return
		}
		b.askBrand(ctx, chatID)

	case "cancel":
		if _, err := b.users.Cancel(ctx, user.ID, chatID); err != nil {
			log.Error().Err(err).Msg("cancel")
		}
		b.sendMessage(chatID, msgCancelled, tgbotapi.NewRemoveKeyboard(true))

	default:
		b.sendMessage(chatID, msgUnknownCommand, nil)
	}
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch user.State {
	case entity.StateAwaitingBrand:
		brands := b.brands(ctx)
		if len(brands) > 0 && !slices.Contains(brands, text) {
			b.sendMessage(chatID, msgUnknownBrand, keyboard(brands))
			return
		}
		if text == "" {
			b.askBrand(ctx, chatID)
			return
		}
		if _, err := b.users.SelectBrand(ctx, user.ID, chatID, text); err != nil {
			log.Error().Err(err).Msg("select brand")
			return
		}
		b.askModel(ctx, chatID, text)

	case entity.StateAwaitingModel:
		models := b.models(ctx, user.Brand)
		if len(models) > 0 && !slices.Contains(models, text) {
			b.sendMessage(chatID, msgUnknownModel, keyboard(models))
			return
		}
		if text == "" {
			b.askModel(ctx, chatID, user.Brand)
			return
		}
		if _, err := b.users.SelectModel(ctx, user.ID, chatID, text); err != nil {
			log.Error().Err(err).Msg("select model")
			return
		}
		b.sendMessage(chatID, fmt.Sprintf(msgAwaitingPhoto, user.Brand, text), tgbotapi.NewRemoveKeyboard(true))

	case entity.StateAwaitingPhoto:
		b.sendMessage(chatID, fmt.Sprintf(msgAwaitingPhoto, user.Brand, user.Model), nil)

	case entity.StateProcessing:
		b.sendMessage(chatID, msgBusy, nil)

	default:
		b.sendMessage(chatID, msgStartEstimate, nil)
	}
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID

	switch user.State {
	case entity.StateAwaitingPhoto:
	case entity.StateProcessing:
		b.sendMessage(chatID, msgBusy, nil)
		return
	default:
		b.sendMessage(chatID, msgStartEstimate, nil)
		return
	}

	// Устанавливаем состояние "обработка"
	if _, err := b.users.SetState(ctx, user.ID, chatID, entity.StateProcessing); err != nil {
		log.Error().Err(err).Msg("set processing state")
		return
	}
	defer func() {
		if _, err := b.users.SetState(ctx, user.ID, chatID, entity.StateAwaitingPhoto); err != nil {
			log.Error().Err(err).Msg("restore photo state")
		}
	}()

	b.sendMessage(chatID, msgProcessing, nil)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		log.Error().Err(err).Str("file_id", photo.FileID).Msg("download photo")
		b.sendMessage(chatID, msgProcessingError, nil)
		return
	}

	out, err := b.estimates.ProcessPhoto(ctx, user.Brand, user.Model, imageData)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("process photo")
		if errors.Is(err, app.ErrPoorPhoto) {
			b.sendMessage(chatID, msgPoorPhoto, nil)
			return
		}
		b.sendMessage(chatID, msgProcessingError, nil)
		return
	}

	if !out.Estimate.HasDamages() {
		b.sendMessage(chatID, msgNoDamages, nil)
		return
	}

	if len(out.Highlighted) > 0 {
		b.sendPhoto(chatID, out.Highlighted)
	}
	b.sendMessage(chatID, formatReport(out.Estimate), nil)
}

func (b *Bot) askBrand(ctx context.Context, chatID int64) {
	brands := b.brands(ctx)
	if len(brands) == 0 {
		b.sendMessage(chatID, msgTypeBrand, tgbotapi.NewRemoveKeyboard(true))
		return
	}
	b.sendMessage(chatID, msgChooseBrand, keyboard(brands))
}

func (b *Bot) askModel(ctx context.Context, chatID int64, brand string) {
	models := b.models(ctx, brand)
	if len(models) == 0 {
		b.sendMessage(chatID, fmt.Sprintf(msgTypeModel, brand), tgbotapi.NewRemoveKeyboard(true))
		return
	}
	b.sendMessage(chatID, fmt.Sprintf(msgChooseModel, brand), keyboard(models))
}

func (b *Bot) brands(ctx context.Context) []string {
	if b.catalog == nil {
		return nil
	}
	brands, err := b.catalog.Brands(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("list brands")
		return nil
	}
	return brands
}

func (b *Bot) models(ctx context.Context, brand string) []string {
	if b.catalog == nil {
		return nil
	}
	models, err := b.catalog.Models(ctx, brand)
	if err != nil {
		log.Warn().Err(err).Str("brand", brand).Msg("list models")
		return nil
	}
	return models
}

// keyboard раскладывает варианты по строкам клавиатуры
func keyboard(options []string) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for chunk := range slices.Chunk(options, keyboardColumns) {
		row := make([]tgbotapi.KeyboardButton, 0, len(chunk))
		for _, o := range chunk {
			row = append(row, tgbotapi.NewKeyboardButton(o))
		}
		rows = append(rows, row)
	}

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.OneTimeKeyboard = true
	return kb
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение; markup может быть nil
func (b *Bot) sendMessage(chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("send message")
	}
}

func (b *Bot) sendPhoto(chatID int64, data []byte) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "damages.jpg", Bytes: data})
	if _, err := b.api.Send(photo); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("send photo")
	}
}
