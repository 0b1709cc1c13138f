package bot

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/tazhate/tripbot/config"
	"github.com/tazhate/tripbot/internal/domain"
	"github.com/tazhate/tripbot/internal/service"
	"go.uber.org/zap"
)

const (
	webhookPath  = "/bot"
	secretHeader = "X-Telegram-Bot-Api-Secret-Token"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	cfg    *config.Config
	svc    service.Services
	log    *zap.Logger
	secret string

	handle   func(ctx context.Context, update tgbotapi.Update)
	inflight sync.WaitGroup
}

func New(cfg *config.Config, svc service.Services, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log = log.Named("bot")
	log.Info("authorized", zap.String("username", api.Self.UserName))

	secret := cfg.WebhookSecret
	if secret == "" {
		secret = strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	bot := &Bot{
		api:    api,
		cfg:    cfg,
		svc:    svc,
		log:    log,
		secret: secret,
	}
	bot.handle = bot.handleUpdate

	bot.setCommands()

	return bot, nil
}

func (b *Bot) setCommands() {
	commands := []tgbotapi.BotCommand{
		{Command: "voos", Description: "✈️ Lembretes de voo"},
		{Command: "novo", Description: "➕ Novo lembrete"},
		{Command: "notificacoes", Description: "🔔 Notificações"},
		{Command: "mala", Description: "🧳 Checklist da mala"},
		{Command: "roteiro", Description: "📅 Roteiro"},
		{Command: "cambio", Description: "💱 Conversor de moeda"},
		{Command: "ajuda", Description: "❓ Ajuda"},
	}

	cfg := tgbotapi.NewSetMyCommands(commands...)
	if _, err := b.api.Request(cfg); err != nil {
		b.log.Warn("set commands", zap.Error(err))
	}
}

// Webhook reports whether updates arrive over the webhook.
func (b *Bot) Webhook() bool {
	return b.cfg.WebhookURL != ""
}

func (b *Bot) SetupWebhook() error {
	webhookURL := strings.TrimRight(b.cfg.WebhookURL, "/") + webhookPath

	params := tgbotapi.Params{"url": webhookURL, "secret_token": b.secret}
	if _, err := b.api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}

	info, err := b.api.GetWebhookInfo()
	if err != nil {
		return fmt.Errorf("get webhook info: %w", err)
	}

	if info.LastErrorDate != 0 {
		b.log.Warn("webhook last error", zap.String("message", info.LastErrorMessage))
	}

	b.log.Info("webhook set", zap.String("url", webhookURL))
	return nil
}

// WebhookHandler decodes a Telegram update from the request body. Requests
// without the secret token registered with the webhook are rejected.
func (b *Bot) WebhookHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(secretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(b.secret)) != 1 {
			b.log.Warn("webhook update with bad secret token", zap.String("remote", r.RemoteAddr))
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		update, err := b.api.HandleUpdate(r)
		if err != nil {
			b.log.Warn("bad webhook update", zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.dispatch(context.WithoutCancel(r.Context()), *update)
	})
}

// Start receives updates by long polling until ctx is done. In webhook mode
// it only registers the webhook and waits.
func (b *Bot) Start(ctx context.Context) error {
	if b.Webhook() {
		if err := b.SetupWebhook(); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	}

	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		b.log.Warn("delete webhook", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	b.log.Info("long polling started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(ctx, update)
		}
	}
}

// dispatch handles update in its own goroutine, tracked until Wait.
func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		b.handle(ctx, update)
	}()
}

// Wait blocks until every dispatched update has been handled. Call it once
// no new updates can arrive.
func (b *Bot) Wait() {
	b.inflight.Wait()
}

// Notify sends a flight notification to every family chat.
func (b *Bot) Notify(ctx context.Context, n domain.Notification) error {
	text := notificationText(n)

	var errs []error
	for _, chatID := range b.cfg.FamilyChats() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.SendMessage(chatID, text); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}

// notificationText renders n as Telegram HTML.
func notificationText(n domain.Notification) string {
	return fmt.Sprintf("🔔 <b>%s</b>\n%s", html.EscapeString(n.Title), html.EscapeString(n.Body))
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard
	_, err := b.api.Send(msg)
	return err
}

// editMessage replaces a message's text and keyboard in place.
func (b *Bot) editMessage(chatID int64, msgID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = keyboard
	edit.DisableWebPagePreview = true
	if _, err := b.api.Send(edit); err != nil {
		b.log.Debug("edit message", zap.Error(err))
	}
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.log.Debug("answer callback", zap.Error(err))
	}
}
