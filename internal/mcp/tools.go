package mcp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

var noArgs = InputSchema{Type: "object", Properties: map[string]Property{}}

var reminderProps = map[string]Property{
	"type":            {Type: "string", Description: "departure ou arrival", Enum: []string{"departure", "arrival"}},
	"flightNumber":    {Type: "string", Description: "Número do voo, ex. LA800"},
	"dateTime":        {Type: "string", Description: "Data e hora do voo, RFC 3339 ou YYYY-MM-DDTHH:MM no fuso da viagem"},
	"reminderMinutes": {Type: "number", Description: "Minutos de antecedência do aviso (padrão 180)"},
}

var tools = []Tool{
	{
		Name:        "tripbot_list_reminders",
		Description: "Lista os lembretes de voo em ordem de horário.",
		InputSchema: noArgs,
	},
	{
		Name:        "tripbot_add_reminder",
		Description: "Cria um lembrete de voo.",
		InputSchema: InputSchema{
			Type:       "object",
			Properties: reminderProps,
			Required:   []string{"type", "flightNumber", "dateTime"},
		},
	},
	{
		Name:        "tripbot_update_reminder",
		Description: "Altera um lembrete de voo. Campos omitidos não mudam e o aviso volta a ficar pendente.",
		InputSchema: InputSchema{
			Type:       "object",
			Properties: withID(reminderProps, "ID do lembrete"),
			Required:   []string{"id"},
		},
	},
	{
		Name:        "tripbot_delete_reminder",
		Description: "Apaga um lembrete de voo pelo ID.",
		InputSchema: InputSchema{
			Type:       "object",
			Properties: map[string]Property{"id": {Type: "string", Description: "ID do lembrete"}},
			Required:   []string{"id"},
		},
	},
	{
		Name:        "tripbot_luggage",
		Description: "Mostra a lista de mala com o progresso atual.",
		InputSchema: noArgs,
	},
	{
		Name:        "tripbot_itinerary",
		Description: "Mostra o roteiro dia a dia com os eventos já feitos.",
		InputSchema: noArgs,
	},
	{
		Name:        "tripbot_trip_items",
		Description: "Lista documentos, reservas, ingressos e contatos salvos.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"category": {Type: "string", Description: "Filtra por categoria",
					Enum: []string{"documentos", "reservas", "ingressos", "contatos"}},
			},
		},
	},
	{
		Name:        "tripbot_convert_currency",
		Description: "Converte entre pesos chilenos e reais.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"amount": {Type: "string", Description: "Valor, ex. 10.000 ou 12,50"},
				"from":   {Type: "string", Description: "Moeda de origem", Enum: []string{"CLP", "BRL"}},
			},
			Required: []string{"amount", "from"},
		},
	},
	{
		Name:        "tripbot_flight_status",
		Description: "Consulta o status ao vivo de um voo.",
		InputSchema: InputSchema{
			Type:       "object",
			Properties: map[string]Property{"flightNumber": {Type: "string", Description: "Número do voo"}},
			Required:   []string{"flightNumber"},
		},
	},
}

func withID(props map[string]Property, desc string) map[string]Property {
	out := map[string]Property{"id": {Type: "string", Description: desc}}
	for k, v := range props {
		out[k] = v
	}
	return out
}

// callTool maps a tool to its REST call. It reports whether the result is an
// error.
func (s *Server) callTool(ctx context.Context, name string, args map[string]interface{}) (string, bool) {
	str := func(k string) string {
		if v, ok := args[k]; ok && v != nil {
			return fmt.Sprintf("%v", v)
		}
		return ""
	}

	switch name {
	case "tripbot_list_reminders":
		return s.api(ctx, http.MethodGet, "/api/reminders", nil)
	case "tripbot_add_reminder":
		return s.api(ctx, http.MethodPost, "/api/reminders", args)
	case "tripbot_update_reminder":
		id := str("id")
		if id == "" {
			return "id is required", true
		}
		body := make(map[string]interface{}, len(args))
		for k, v := range args {
			if k != "id" {
				body[k] = v
			}
		}
		return s.api(ctx, http.MethodPut, "/api/reminders/"+url.PathEscape(id), body)
	case "tripbot_delete_reminder":
		id := str("id")
		if id == "" {
			return "id is required", true
		}
		return s.api(ctx, http.MethodDelete, "/api/reminders/"+url.PathEscape(id), nil)
	case "tripbot_luggage":
		return s.api(ctx, http.MethodGet, "/api/luggage", nil)
	case "tripbot_itinerary":
		return s.api(ctx, http.MethodGet, "/api/itinerary", nil)
	case "tripbot_trip_items":
		path := "/api/trip-items"
		if c := str("category"); c != "" {
			path += "?category=" + url.QueryEscape(c)
		}
		return s.api(ctx, http.MethodGet, path, nil)
	case "tripbot_convert_currency":
		q := url.Values{"amount": {str("amount")}, "from": {str("from")}}
		return s.api(ctx, http.MethodGet, "/api/currency/convert?"+q.Encode(), nil)
	case "tripbot_flight_status":
		n := str("flightNumber")
		if n == "" {
			return "flightNumber is required", true
		}
		return s.api(ctx, http.MethodGet, "/api/flights/"+url.PathEscape(n)+"/status", nil)
	}
	return "Unknown tool: " + name, true
}
