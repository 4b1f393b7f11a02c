package models

// EmergencyContact экстренный контакт пользователя.
// У одного пользователя не может быть двух контактов с одинаковым телефоном.
type EmergencyContact struct {
	ID           int    `json:"id"`           // Идентификатор записи
	Username     string `json:"-"`            // Владелец контакта
	Name         string `json:"name"`         // Имя контакта
	Phone        string `json:"phone"`        // Телефон в проверенном формате
	Relationship string `json:"relationship"` // Кем приходится (мать, друг и т.д.)
}

// DummyContact принимает данные контакта из JSON-запроса.
// Формат телефона проверяется отдельно, по правилу из конфига.
type DummyContact struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	Phone        string `json:"phone" validate:"required"`
	Relationship string `json:"relationship" validate:"required,min=1,max=50"`
}
