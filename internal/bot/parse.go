package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tazhate/tripbot/internal/domain"
	"github.com/tazhate/tripbot/internal/service"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04"
)

// parseNewReminder reads "<partida|chegada> <voo> <DD/MM/AAAA> <HH:MM> [minutos]".
// Date and time are wall clock in tz. A missing lead time defaults to 180.
func parseNewReminder(args string, tz *time.Location) (domain.ReminderDraft, error) {
	fields := strings.Fields(args)
	if len(fields) < 4 || len(fields) > 5 {
		return domain.ReminderDraft{}, fmt.Errorf("formato: /novo partida LA606 25/12/2025 14:30 [minutos]")
	}

	typ, ok := domain.ParseFlightType(fields[0])
	if !ok {
		return domain.ReminderDraft{}, fmt.Errorf("tipo deve ser partida ou chegada")
	}

	at, err := time.ParseInLocation(dateLayout+" "+timeLayout, fields[2]+" "+fields[3], tz)
	if err != nil {
		return domain.ReminderDraft{}, fmt.Errorf("data/hora inválida, use DD/MM/AAAA HH:MM")
	}

	minutes := domain.DefaultLeadTime
	if len(fields) == 5 {
		minutes, err = strconv.Atoi(fields[4])
		if err != nil || minutes < 0 {
			return domain.ReminderDraft{}, fmt.Errorf("minutos inválidos: %s", fields[4])
		}
	}

	return domain.ReminderDraft{
		Type:            typ,
		FlightNumber:    strings.ToUpper(fields[1]),
		DateTime:        at,
		ReminderMinutes: minutes,
	}, nil
}

// parseEditReminder reads "<id> chave=valor ..." with keys tipo, voo, data,
// hora and min. data and hora are merged with current's local time.
func parseEditReminder(args string, current domain.FlightReminder, tz *time.Location) (domain.ReminderPatch, error) {
	var patch domain.ReminderPatch
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return patch, fmt.Errorf("formato: /editar ID voo=LA607 data=26/12/2025 hora=09:15 min=120 tipo=chegada")
	}

	local := current.DateTime.In(tz)
	date, clock := local.Format(dateLayout), local.Format(timeLayout)
	timeChanged := false

	for _, f := range fields[1:] {
		key, value, ok := strings.Cut(f, "=")
		if !ok || value == "" {
			return patch, fmt.Errorf("campo inválido: %s", f)
		}
		switch strings.ToLower(key) {
		case "tipo":
			typ, ok := domain.ParseFlightType(value)
			if !ok {
				return patch, fmt.Errorf("tipo deve ser partida ou chegada")
			}
			patch.Type = &typ
		case "voo":
			flight := strings.ToUpper(value)
			patch.FlightNumber = &flight
		case "data":
			date, timeChanged = value, true
		case "hora":
			clock, timeChanged = value, true
		case "min", "minutos":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return patch, fmt.Errorf("minutos inválidos: %s", value)
			}
			patch.ReminderMinutes = &n
		default:
			return patch, fmt.Errorf("campo desconhecido: %s", key)
		}
	}

	if timeChanged {
		at, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, tz)
		if err != nil {
			return patch, fmt.Errorf("data/hora inválida, use DD/MM/AAAA HH:MM")
		}
		patch.DateTime = &at
	}
	return patch, nil
}

// parseConversion reads "<valor> [CLP|BRL]". The currency defaults to CLP.
func parseConversion(args string) (float64, string, bool) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, "", false
	}
	from := "CLP"
	if len(fields) > 1 {
		from = fields[len(fields)-1]
		fields = fields[:len(fields)-1]
	}
	return service.ParseAmount(strings.Join(fields, "")), from, true
}

func leadTimeLabel(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d min", minutes)
	case minutes%60 == 0:
		if minutes == 60 {
			return "1 hora"
		}
		return fmt.Sprintf("%d horas", minutes/60)
	}
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
