package models

// VerificationEmail сообщение очереди email_verification_queue.
// Публикуется после коммита регистрации, письмо отправляет notification-sender.
type VerificationEmail struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// PasswordResetEmail сообщение очереди password_reset_queue.
type PasswordResetEmail struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// SOSAlertMessage сообщение очереди sos_alert_queue: одно уведомление
// одному контакту. SMS-шлюза нет, notification-sender дублирует алерт
// письмом на дежурный ящик.
type SOSAlertMessage struct {
	Username string `json:"username"`
	Alert    Alert  `json:"alert"`
}
