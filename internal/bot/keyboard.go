package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/tazhate/tripbot/internal/domain"
)

// Main menu keyboard
func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✈️ Voos", "menu:voos"),
			tgbotapi.NewInlineKeyboardButtonData("🔔 Notificações", "menu:perm"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧳 Mala", "menu:mala"),
			tgbotapi.NewInlineKeyboardButtonData("📅 Roteiro", "menu:roteiro"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗂 Documentos", "menu:itens"),
			tgbotapi.NewInlineKeyboardButtonData("💱 Câmbio", "menu:cambio"),
		),
	)
}

func permissionKeyboard(p domain.Permission) *tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	switch p {
	case domain.PermissionUnavailable:
		return nil
	case domain.PermissionGranted:
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("🔕 Desativar", "perm:deny"))
	case domain.PermissionDenied:
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("🔔 Reativar", "perm:grant"))
	default:
		row = append(row,
			tgbotapi.NewInlineKeyboardButtonData("✅ Permitir", "perm:grant"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Bloquear", "perm:deny"),
		)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(row)
	return &kb
}

// Reminder list keyboard, one delete button per reminder
func reminderListKeyboard(reminders []domain.FlightReminder) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, r := range reminders {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("⏱ %s %s", r.Type.Emoji(), r.FlightNumber),
				"lead:"+r.ID,
			),
			tgbotapi.NewInlineKeyboardButtonData("🗑", "del:"+r.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔄 Atualizar", "menu:voos"),
	))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// Lead time choice for one reminder
func leadTimeKeyboard(id string, current int) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, m := range domain.LeadTimeOptions {
		label := leadTimeLabel(m)
		if m == current {
			label = "• " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("setlead:%s:%d", id, m)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row[:3], row[3:])
}

func confirmDeleteKeyboard(id string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Sim, apagar", "confirm_del:"+id),
			tgbotapi.NewInlineKeyboardButtonData("◀️ Cancelar", "menu:voos"),
		),
	)
}

// Luggage keyboard: toggles for one category plus category navigation
func luggageKeyboard(categories []domain.ChecklistCategory, index int, checked map[string]bool) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	cat := categories[index]
	for s, sub := range cat.Subcategories {
		for i, item := range sub.Items {
			key := domain.LuggageKey(index, s, i)
			mark := "⬜"
			if checked[key] {
				mark = "✅"
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(mark+" "+truncate(item.Name, 30), fmt.Sprintf("bag:%d:%s", index, key)),
			))
		}
	}
	rows = append(rows, navRow("bagcat", index, len(categories)))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// Itinerary keyboard: toggles for one day plus day navigation
func itineraryKeyboard(days []domain.ItineraryDay, index int, checked map[string]bool) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for e, ev := range days[index].Events {
		key := domain.ItineraryKey(index, e)
		mark := "⬜"
		if checked[key] {
			mark = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark+" "+ev.Time+" "+truncate(ev.Description, 26), fmt.Sprintf("trip:%d:%s", index, key)),
			tgbotapi.NewInlineKeyboardButtonData("ℹ️", fmt.Sprintf("info:%s", key)),
		))
	}
	rows = append(rows, navRow("tripday", index, len(days)))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func tripItemsKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range domain.TripCategories {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(c.Title(), "items:"+string(c)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row[:2], row[2:])
}

func navRow(prefix string, index, total int) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	if index > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️", fmt.Sprintf("%s:%d", prefix, index-1)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", index+1, total), fmt.Sprintf("%s:%d", prefix, index)))
	if index < total-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("➡️", fmt.Sprintf("%s:%d", prefix, index+1)))
	}
	return row
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
