package tripdata

import "github.com/tazhate/tripbot/internal/domain"

// Itinerary is the day-by-day plan of the Santiago trip.
var Itinerary = []domain.ItineraryDay{
	{
		Day: "Dia 1", Date: "10/12 (quarta-feira)", Title: "Chegada",
		Events: []domain.ItineraryEvent{
			{Time: "16:25", Description: "Saída SP (GRU)", Location: at(-23.4356, -46.4731)},
			{Time: "20:40", Description: "Chegada Santiago (SCL)", Location: at(-33.3930, -70.7858)},
			{Time: "21:30", Description: "Check-in no hotel", Location: at(-33.4239, -70.6070)},
			{Time: "22:00", Description: "Jantar leve próximo ao hotel", Location: at(-33.4239, -70.6070)},
			{Time: "23:00", Description: "Descanso"},
		},
	},
	{
		Day: "Dia 2", Date: "11/12 (quinta-feira)", Title: "Santiago Centro",
		Events: []domain.ItineraryEvent{
			{Time: "08:00", Description: "Café da manhã no hotel", Location: at(-33.4239, -70.6070)},
			{Time: "09:00", Description: "Plaza de Armas & Catedral Metropolitana", Location: at(-33.4379, -70.6504)},
			{Time: "10:30", Description: "Museu Interativo Mirador (diversão para Joe)", Location: at(-33.5188, -70.6094)},
			{Time: "13:00", Description: "Almoço no Mercado Central", Location: at(-33.4332, -70.6508)},
			{Time: "14:30", Description: "Tarde no Cerro Santa Lucía", Location: at(-33.4397, -70.6425)},
			{Time: "17:30", Description: "Retorno ao hotel / descanso"},
			{Time: "19:30", Description: "Jantar no Pátio Bellavista", Location: at(-33.4326, -70.6335)},
			{Time: "21:30", Description: "Retorno ao hotel"},
		},
	},
	{
		Day: "Dia 3", Date: "12/12 (sexta-feira)", Title: "Safari Santiago",
		Events: []domain.ItineraryEvent{
			{Time: "07:30", Description: "Café da manhã", Location: at(-33.4239, -70.6070)},
			{Time: "08:30", Description: "Saída para Safari Santiago", Location: at(-33.4239, -70.6070)},
			{Time: "09:00", Description: "Chegada e início do passeio", Location: at(-34.1539, -70.8359)},
			{Time: "12:30", Description: "Almoço no Safari"},
			{Time: "15:30", Description: "Área kids / interação com animais"},
			{Time: "17:30", Description: "Retorno ao hotel", Location: at(-33.4239, -70.6070)},
			{Time: "19:30", Description: "Jantar leve próximo ao hotel"},
		},
	},
	{
		Day: "Dia 4", Date: "13/12 (sábado)", Title: "Valparaíso & Viña del Mar",
		Events: []domain.ItineraryEvent{
			{Time: "07:00", Description: "Café da manhã", Location: at(-33.4239, -70.6070)},
			{Time: "07:30", Description: "Saída para Valparaíso"},
			{Time: "09:30", Description: "Caminhada pelos murais e casas coloridas", Location: at(-33.0458, -71.6197)},
			{Time: "12:30", Description: "Almoço com vista para o mar"},
			{Time: "14:00", Description: "Passeio pela orla e praias de Viña del Mar", Location: at(-33.0246, -71.5518)},
			{Time: "17:00", Description: "Retorno para Santiago", Location: at(-33.4239, -70.6070)},
			{Time: "19:30", Description: "Jantar leve / descanso no hotel"},
		},
	},
	{
		Day: "Dia 5", Date: "14/12 (domingo)", Title: "Parque Bicentenário + Sky Costanera",
		Events: []domain.ItineraryEvent{
			{Time: "08:00", Description: "Café da manhã", Location: at(-33.4239, -70.6070)},
			{Time: "09:00", Description: "Manhã no Parque Bicentenário", Location: at(-33.4075, -70.5960)},
			{Time: "12:30", Description: "Almoço no bairro Vitacura", Location: at(-33.4000, -70.5667)},
			{Time: "14:00", Description: "Sky Costanera (mirante)", Location: at(-33.4170, -70.6067)},
			{Time: "17:30", Description: "Retorno / descanso"},
			{Time: "19:30", Description: "Jantar no Costanera Center", Location: at(-33.4170, -70.6067)},
		},
	},
	{
		Day: "Dia 6", Date: "15/12 (segunda-feira)", Title: "Cerro San Cristóbal + Teleférico",
		Events: []domain.ItineraryEvent{
			{Time: "08:00", Description: "Café da manhã", Location: at(-33.4239, -70.6070)},
			{Time: "09:00", Description: "Funicular e teleférico até o Cerro San Cristóbal", Location: at(-33.4299, -70.6339)},
			{Time: "10:00", Description: "Vista panorâmica da cidade"},
			{Time: "11:00", Description: "Piquenique no parque"},
			{Time: "13:00", Description: "Almoço leve / descanso"},
			{Time: "14:30", Description: "Compras no Costanera Center ou Pátio Bellavista", Location: at(-33.4170, -70.6067)},
			{Time: "19:30", Description: "Jantar / retorno ao hotel"},
		},
	},
	{
		Day: "Dia 7", Date: "16/12 (terça-feira)", Title: "Dia Livre + Compras",
		Events: []domain.ItineraryEvent{
			{Time: "08:00", Description: "Café da manhã", Location: at(-33.4239, -70.6070)},
			{Time: "09:00", Description: "Bairro Lastarria (café e cultura)", Location: at(-33.4382, -70.6387)},
			{Time: "11:30", Description: "Tempo livre para lembrancinhas e compras"},
			{Time: "13:00", Description: "Almoço"},
			{Time: "14:30", Description: "Parque Arauco (shopping com espaço kids)", Location: at(-33.3995, -70.5488)},
			{Time: "18:30", Description: "Retorno ao hotel / descanso"},
			{Time: "19:30", Description: "Jantar leve"},
		},
	},
	{
		Day: "Dia 8", Date: "17/12 (quarta-feira)", Title: "Último dia inteiro",
		Events: []domain.ItineraryEvent{
			{Time: "08:00", Description: "Café da manhã", Location: at(-33.4239, -70.6070)},
			{Time: "09:00", Description: "Passeio no Parque Forestal ou retorno ao centro", Location: at(-33.4357, -70.6406)},
			{Time: "12:30", Description: "Almoço tranquilo"},
			{Time: "14:00", Description: "Tarde livre para revisitar algum ponto preferido"},
			{Time: "17:30", Description: "Retorno ao hotel / descanso"},
			{Time: "19:30", Description: "Jantar especial de despedida"},
		},
	},
	{
		Day: "Dia 9", Date: "18/12 (quinta-feira)", Title: "Retorno ao Brasil",
		Events: []domain.ItineraryEvent{
			{Time: "08:00", Description: "Café da manhã", Location: at(-33.4239, -70.6070)},
			{Time: "09:00", Description: "Passeio leve (parque próximo ao hotel ou café)"},
			{Time: "11:00", Description: "Check-out do hotel"},
			{Time: "11:30", Description: "Almoço antecipado"},
			{Time: "13:00", Description: "Transfer para o aeroporto", Location: at(-33.3930, -70.7858)},
			{Time: "--:--", Description: "Voo de volta para o Brasil"},
		},
	},
}

func at(lat, lng float64) *domain.Location {
	return &domain.Location{Lat: lat, Lng: lng}
}
