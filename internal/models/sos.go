package models

import "time"

// SOSEvent SOS-событие пользователя. Журнал только дописывается,
// отменить можно лишь последнее событие.
type SOSEvent struct {
	ID        int       `json:"id"`        // Идентификатор события
	Username  string    `json:"-"`         // Кто поднял тревогу
	Message   string    `json:"message"`   // Текст сообщения
	Timestamp time.Time `json:"timestamp"` // Серверное время создания, UTC
}

// DummySOS принимает текст SOS-сообщения из JSON-запроса.
type DummySOS struct {
	Message string `json:"message" validate:"required"`
}

// Alert уведомление, построенное для одного экстренного контакта.
// Ошибка доставки фиксируется в самом уведомлении и не влияет
// ни на событие, ни на доставку остальным контактам.
type Alert struct {
	To           string `json:"to"`              // Имя получателя
	Phone        string `json:"phone"`           // Телефон получателя
	Relationship string `json:"relationship"`    // Связь с пользователем
	AlertMessage string `json:"alert_message"`   // Готовый текст оповещения
	Delivered    bool   `json:"delivered"`       // Удалась ли отправка
	Error        string `json:"error,omitempty"` // Текст ошибки доставки
}
