package models

// TimeSlot — слот времени записи на мойку из статического каталога.
// BaseAvailable — доступность по каталогу (слот не занят другим клиентом),
// Available — вычисляемая доступность с учётом буфера до начала слота.
type TimeSlot struct {
	ID            string `json:"id"`        // Идентификатор слота
	Time          string `json:"time"`      // Время в 12-часовом формате, например "09:00 AM"
	Period        string `json:"period"`    // Часть дня: Morning, Afternoon, Evening
	BaseAvailable bool   `json:"-"`         // Доступность по каталогу
	Available     bool   `json:"available"` // Вычисляемая доступность
}

// Части дня для группировки слотов в каталоге.
const (
	PeriodMorning   = "Morning"
	PeriodAfternoon = "Afternoon"
	PeriodEvening   = "Evening"
)
