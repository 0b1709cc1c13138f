package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/tazhate/tripbot/internal/domain"
	"github.com/tazhate/tripbot/internal/service"
	"go.uber.org/zap"
)

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	chatID := msg.Chat.ID

	if !b.cfg.IsAllowedUser(msg.From.ID) {
		b.SendMessage(chatID, "⛔ Acesso negado")
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Free text goes to the travel assistant
	b.api.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
	reply, err := b.svc.Assistant.Chat(ctx, sessionID(chatID), text)
	if err != nil {
		if errors.Is(err, service.ErrNotConfigured) {
			b.SendMessage(chatID, "Assistente não configurado. /ajuda para os comandos")
			return
		}
		b.SendMessage(chatID, "Desculpe, ocorreu um erro. Tente novamente.")
		return
	}
	// Answers are markdown-ish; send as plain text
	b.api.Send(tgbotapi.NewMessage(chatID, reply))
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	msgID := callback.Message.MessageID

	if !b.cfg.IsAllowedUser(callback.From.ID) {
		b.answer(callback.ID, "⛔ Acesso negado")
		return
	}

	action, arg, _ := strings.Cut(callback.Data, ":")

	switch action {
	case "menu":
		b.answer(callback.ID, "")
		b.handleMenu(ctx, chatID, msgID, arg)

	case "perm":
		var p domain.Permission
		if arg == "grant" {
			p = b.svc.Permission.Request()
		} else {
			p = b.svc.Permission.Deny()
		}
		b.answer(callback.ID, "")
		b.editMessage(chatID, msgID, permissionText(p), permissionKeyboard(p))

	case "lead":
		r, ok := b.svc.Reminders.Get(arg)
		if !ok {
			b.answer(callback.ID, "Lembrete não encontrado")
			return
		}
		b.answer(callback.ID, "")
		kb := leadTimeKeyboard(r.ID, r.ReminderMinutes)
		b.editMessage(chatID, msgID, fmt.Sprintf("⏱ Avisar quanto tempo antes do voo <b>%s</b>?", html.EscapeString(r.FlightNumber)), &kb)

	case "setlead":
		// setlead:id:minutes
		id, m, ok := strings.Cut(arg, ":")
		if !ok {
			return
		}
		minutes := atoi(m)
		if err := b.svc.Reminders.Update(id, domain.ReminderPatch{ReminderMinutes: &minutes}); err != nil {
			b.answer(callback.ID, "❌ "+err.Error())
			return
		}
		b.answer(callback.ID, "✅ Aviso "+leadTimeLabel(minutes)+" antes")
		kb := leadTimeKeyboard(id, minutes)
		b.editMessage(chatID, msgID, fmt.Sprintf("⏱ Aviso %s antes do voo", leadTimeLabel(minutes)), &kb)

	case "del":
		r, ok := b.svc.Reminders.Get(arg)
		if !ok {
			b.answer(callback.ID, "Lembrete não encontrado")
			return
		}
		b.answer(callback.ID, "")
		kb := confirmDeleteKeyboard(r.ID)
		b.editMessage(chatID, msgID, fmt.Sprintf("Apagar o lembrete <b>%s: %s</b>?", r.Type.Label(), html.EscapeString(r.FlightNumber)), &kb)

	case "confirm_del":
		b.svc.Reminders.Delete(arg)
		b.answer(callback.ID, "🗑 Lembrete apagado")
		b.showFlights(chatID, msgID)

	case "bag":
		// bag:category:key
		cat, key, ok := strings.Cut(arg, ":")
		if !ok {
			return
		}
		if _, err := b.svc.Luggage.Toggle(key); err != nil {
			b.answer(callback.ID, "Item desconhecido")
			return
		}
		b.answer(callback.ID, "")
		text, kb := b.luggageView(atoi(cat))
		b.editMessage(chatID, msgID, text, kb)

	case "bagcat":
		index := atoi(arg)
		if index < 0 || index >= len(b.svc.LuggageData) {
			return
		}
		b.answer(callback.ID, "")
		text, kb := b.luggageView(index)
		b.editMessage(chatID, msgID, text, kb)

	case "trip":
		// trip:day:key
		day, key, ok := strings.Cut(arg, ":")
		if !ok {
			return
		}
		if _, err := b.svc.Itinerary.Toggle(key); err != nil {
			b.answer(callback.ID, "Evento desconhecido")
			return
		}
		b.answer(callback.ID, "")
		text, kb := b.itineraryView(atoi(day))
		b.editMessage(chatID, msgID, text, kb)

	case "tripday":
		index := atoi(arg)
		if index < 0 || index >= len(b.svc.ItineraryData) {
			return
		}
		b.answer(callback.ID, "")
		text, kb := b.itineraryView(index)
		b.editMessage(chatID, msgID, text, kb)

	case "info":
		b.answer(callback.ID, "🔎 Buscando informações…")
		b.sendPlaceInfo(ctx, chatID, arg)

	case "items":
		b.answer(callback.ID, "")
		kb := tripItemsKeyboard()
		b.editMessage(chatID, msgID, b.tripItemsText(domain.TripCategory(arg)), &kb)

	default:
		b.answer(callback.ID, "")
	}
}

func (b *Bot) handleMenu(ctx context.Context, chatID int64, msgID int, item string) {
	switch item {
	case "voos":
		b.showFlights(chatID, msgID)
	case "perm":
		p := b.svc.Permission.Permission()
		b.editMessage(chatID, msgID, permissionText(p), permissionKeyboard(p))
	case "mala":
		text, kb := b.luggageView(0)
		b.editMessage(chatID, msgID, text, kb)
	case "roteiro":
		text, kb := b.itineraryView(0)
		b.editMessage(chatID, msgID, text, kb)
	case "itens":
		kb := tripItemsKeyboard()
		b.editMessage(chatID, msgID, "🗂 <b>Documentos e reservas</b>", &kb)
	case "cambio":
		rate := b.svc.Currency.LiveRate(ctx)
		kb := mainMenuKeyboard()
		b.editMessage(chatID, msgID,
			fmt.Sprintf("💱 1 BRL = %.2f CLP\n<i>%s</i>\n\nUso: /cambio 10000 CLP", rate.BRLToCLP, html.EscapeString(rate.Source)), &kb)
	}
}

func (b *Bot) showFlights(chatID int64, msgID int) {
	reminders := b.svc.Reminders.Sorted()
	text := "✈️ <b>Lembretes de voo</b>\n\n" + b.svc.Reminders.FormatReminderList(reminders, time.Now())
	b.editMessage(chatID, msgID, text, reminderListKeyboard(reminders))
}

func (b *Bot) sendPlaceInfo(ctx context.Context, chatID int64, key string) {
	var day, event int
	if _, err := fmt.Sscanf(key, "%d-%d", &day, &event); err != nil ||
		day < 0 || day >= len(b.svc.ItineraryData) ||
		event < 0 || event >= len(b.svc.ItineraryData[day].Events) {
		b.SendMessage(chatID, "Evento desconhecido")
		return
	}
	ev := b.svc.ItineraryData[day].Events[event]

	info, err := b.svc.Assistant.PlaceInfo(ctx, ev.Description, ev.Location)
	if err != nil {
		if !errors.Is(err, service.ErrNotConfigured) {
			b.log.Warn("place info", zap.String("event", key), zap.Error(err))
		}
		b.SendMessage(chatID, "Não foi possível buscar informações. Tente novamente.")
		return
	}

	var sb strings.Builder
	sb.WriteString("ℹ️ " + ev.Description + "\n\n" + info.Text)
	if len(info.Links) > 0 {
		sb.WriteString("\n\nFontes:")
		for _, l := range info.Links {
			sb.WriteString("\n• " + l.Title + ": " + l.URI)
		}
	}
	b.api.Send(tgbotapi.NewMessage(chatID, sb.String()))
}
