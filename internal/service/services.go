package service

import "github.com/tazhate/tripbot/internal/domain"

// Services are the application services shared by the bot and the HTTP API.
type Services struct {
	Reminders  *ReminderService
	Permission *PermissionService
	Luggage    *ProgressService
	Itinerary  *ProgressService
	TripItems  *TripItemService
	Currency   *CurrencyService
	Assistant  *AssistantService
	Calendar   *CalendarService

	LuggageData   []domain.ChecklistCategory
	ItineraryData []domain.ItineraryDay
}
