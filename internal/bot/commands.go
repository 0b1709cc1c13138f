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

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		b.cmdStart(msg)
	case "ajuda", "help":
		b.cmdHelp(chatID)
	case "voos":
		b.cmdFlights(chatID)
	case "novo":
		b.cmdNew(chatID, args)
	case "editar":
		b.cmdEdit(chatID, args)
	case "apagar":
		b.cmdDelete(chatID, args)
	case "notificacoes":
		b.cmdPermission(chatID)
	case "mala":
		b.cmdLuggage(chatID)
	case "roteiro":
		b.cmdItinerary(chatID, args)
	case "itens":
		b.cmdTripItems(chatID, args)
	case "cambio":
		b.cmdCurrency(ctx, chatID, args)
	case "status":
		b.cmdFlightStatus(ctx, chatID, args)
	case "agenda":
		b.cmdCalendarSync(ctx, chatID)
	case "reset":
		b.svc.Assistant.Reset(sessionID(chatID))
		b.SendMessage(chatID, b.svc.Assistant.Greeting())
	default:
		b.SendMessage(chatID, "Comando desconhecido. /ajuda para a lista de comandos")
	}
}

func (b *Bot) cmdStart(msg *tgbotapi.Message) {
	name := html.EscapeString(msg.From.FirstName)
	b.SendMessageWithKeyboard(msg.Chat.ID,
		fmt.Sprintf("👋 Olá, %s!\n\nSou o assistente da viagem a Santiago. Cuido dos lembretes de voo, da mala e do roteiro.\n\n/ajuda — lista de comandos", name),
		mainMenuKeyboard())
}

func (b *Bot) cmdHelp(chatID int64) {
	text := `<b>Comandos:</b>

<b>Voos</b>
/voos — lembretes de voo
/novo partida LA606 25/12/2025 14:30 [minutos] — novo lembrete
/editar ID voo=… data=… hora=… min=… tipo=… — editar
/apagar ID — apagar lembrete
/notificacoes — permitir ou bloquear avisos
/status LA606 — status do voo em tempo real
/agenda — sincronizar com o calendário

<b>Viagem</b>
/mala — checklist da mala
/roteiro [dia] — roteiro e progresso
/itens [categoria] — documentos, reservas, ingressos, contatos
/cambio 10000 [CLP|BRL] — converter moeda

<b>Assistente</b>
/reset — nova conversa

💡 Mande qualquer pergunta sobre a viagem e o assistente responde`

	b.SendMessage(chatID, text)
}

func (b *Bot) cmdFlights(chatID int64) {
	reminders := b.svc.Reminders.Sorted()
	text := "✈️ <b>Lembretes de voo</b>\n\n" + b.svc.Reminders.FormatReminderList(reminders, time.Now())
	if p := b.svc.Permission.Permission(); !p.Granted() {
		text += "\n⚠️ Notificações desativadas. /notificacoes"
	}

	if len(reminders) == 0 {
		b.SendMessage(chatID, text+"\n\n/novo para adicionar")
		return
	}
	b.SendMessageWithKeyboard(chatID, text, *reminderListKeyboard(reminders))
}

func (b *Bot) cmdNew(chatID int64, args string) {
	draft, err := parseNewReminder(args, b.cfg.Timezone)
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}

	r, err := b.svc.Reminders.Add(draft)
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}

	text := fmt.Sprintf("✅ Lembrete criado\n\n%s <b>%s: %s</b>\n%s\nAviso %s antes",
		r.Type.Emoji(), r.Type.Label(), html.EscapeString(r.FlightNumber),
		r.DateTime.In(b.cfg.Timezone).Format(dateLayout+" "+timeLayout),
		leadTimeLabel(r.ReminderMinutes))
	b.SendMessageWithKeyboard(chatID, text, leadTimeKeyboard(r.ID, r.ReminderMinutes))
}

func (b *Bot) cmdEdit(chatID int64, args string) {
	ref, _, _ := strings.Cut(args, " ")
	current, ok := b.svc.Reminders.Find(ref)
	if !ok {
		b.SendMessage(chatID, "Lembrete não encontrado. /voos para ver os IDs")
		return
	}

	patch, err := parseEditReminder(args, current, b.cfg.Timezone)
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}
	if err := b.svc.Reminders.Update(current.ID, patch); err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}

	b.SendMessage(chatID, "✏️ Lembrete atualizado. O aviso será enviado novamente no novo horário.")
}

func (b *Bot) cmdDelete(chatID int64, args string) {
	r, ok := b.svc.Reminders.Find(args)
	if !ok {
		b.SendMessage(chatID, "Lembrete não encontrado. /voos para ver os IDs")
		return
	}
	b.SendMessageWithKeyboard(chatID,
		fmt.Sprintf("Apagar o lembrete <b>%s: %s</b>?", r.Type.Label(), html.EscapeString(r.FlightNumber)),
		confirmDeleteKeyboard(r.ID))
}

func (b *Bot) cmdPermission(chatID int64) {
	p := b.svc.Permission.Permission()
	kb := permissionKeyboard(p)
	if kb == nil {
		b.SendMessage(chatID, permissionText(p))
		return
	}
	b.SendMessageWithKeyboard(chatID, permissionText(p), *kb)
}

func permissionText(p domain.Permission) string {
	switch p {
	case domain.PermissionGranted:
		return "🔔 Notificações ativadas. Você será avisado antes de cada voo."
	case domain.PermissionDenied:
		return "🔕 Notificações bloqueadas. Os lembretes não serão enviados."
	case domain.PermissionUnavailable:
		return "Notificações não estão disponíveis neste servidor."
	}
	return "Permitir o envio de avisos antes dos voos?"
}

func (b *Bot) cmdLuggage(chatID int64) {
	text, kb := b.luggageView(0)
	b.SendMessageWithKeyboard(chatID, text, *kb)
}

func (b *Bot) luggageView(index int) (string, *tgbotapi.InlineKeyboardMarkup) {
	p := b.svc.Luggage.Progress()
	text := service.FormatProgress(p, p.LuggageQuote()) + "\n\n" +
		b.svc.Luggage.FormatLuggageCategory(b.svc.LuggageData, index)
	return text, luggageKeyboard(b.svc.LuggageData, index, b.svc.Luggage.Checked())
}

func (b *Bot) cmdItinerary(chatID int64, args string) {
	index := 0
	if args != "" {
		index = atoi(args) - 1
	}
	if index < 0 || index >= len(b.svc.ItineraryData) {
		b.SendMessage(chatID, fmt.Sprintf("Dia inválido, escolha de 1 a %d", len(b.svc.ItineraryData)))
		return
	}
	text, kb := b.itineraryView(index)
	b.SendMessageWithKeyboard(chatID, text, *kb)
}

func (b *Bot) itineraryView(index int) (string, *tgbotapi.InlineKeyboardMarkup) {
	p := b.svc.Itinerary.Progress()
	text := service.FormatProgress(p, p.ItineraryQuote()) + "\n\n" +
		b.svc.Itinerary.FormatItineraryDay(b.svc.ItineraryData, index)
	return text, itineraryKeyboard(b.svc.ItineraryData, index, b.svc.Itinerary.Checked())
}

func (b *Bot) cmdTripItems(chatID int64, args string) {
	if args == "" {
		b.SendMessageWithKeyboard(chatID, "🗂 <b>Documentos e reservas</b>", tripItemsKeyboard())
		return
	}
	b.SendMessage(chatID, b.tripItemsText(domain.TripCategory(strings.ToLower(args))))
}

func (b *Bot) tripItemsText(category domain.TripCategory) string {
	if !category.Valid() {
		return "Categoria inválida: documentos, reservas, ingressos ou contatos"
	}
	items, err := b.svc.TripItems.ListByCategory(category)
	if err != nil {
		b.log.Error("list trip items", zap.Error(err))
		return "❌ Erro ao carregar itens"
	}
	return fmt.Sprintf("🗂 <b>%s</b>\n\n%s", category.Title(), b.svc.TripItems.FormatTripItems(items))
}

func (b *Bot) cmdCurrency(ctx context.Context, chatID int64, args string) {
	if args == "" {
		rate := b.svc.Currency.LiveRate(ctx)
		b.SendMessage(chatID, fmt.Sprintf("💱 1 BRL = %.2f CLP\n<i>%s</i>\n\nUso: /cambio 10000 CLP ou /cambio 50 BRL", rate.BRLToCLP, html.EscapeString(rate.Source)))
		return
	}

	amount, from, _ := parseConversion(args)
	cur, ok := service.ParseCurrency(from)
	if !ok {
		b.SendMessage(chatID, "Moeda inválida, use CLP ou BRL")
		return
	}

	out, err := b.svc.Currency.Convert(amount, cur)
	if err != nil || out == "" {
		b.SendMessage(chatID, "Informe um valor maior que zero")
		return
	}

	to := service.BRL
	if cur == service.BRL {
		to = service.CLP
	}
	b.SendMessage(chatID, fmt.Sprintf("💱 %.2f %s = <b>%s %s</b>", amount, cur, out, to))
}

func (b *Bot) cmdFlightStatus(ctx context.Context, chatID int64, args string) {
	if args == "" {
		b.SendMessage(chatID, "Uso: /status LA606")
		return
	}
	info, err := b.svc.Assistant.FlightStatus(ctx, args)
	if err != nil {
		if errors.Is(err, service.ErrNotConfigured) {
			b.SendMessage(chatID, "Assistente não configurado")
			return
		}
		b.SendMessage(chatID, "Não foi possível encontrar informações para este voo. Verifique o número e tente novamente.")
		return
	}
	b.SendMessage(chatID, service.FormatFlightInfo(info))
}

func (b *Bot) cmdCalendarSync(ctx context.Context, chatID int64) {
	res, err := b.svc.Calendar.Sync(ctx)
	if err != nil {
		if errors.Is(err, service.ErrCalendarNotConfigured) {
			b.SendMessage(chatID, "Calendário não configurado")
			return
		}
		b.log.Error("calendar sync", zap.Error(err))
		b.SendMessage(chatID, "❌ Erro ao sincronizar o calendário")
		return
	}
	b.SendMessage(chatID, service.FormatSyncResult(res))
}

func sessionID(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}
