package models

// HealthProfile профиль здоровья пользователя, не больше одного на аккаунт.
// Запись целиком заменяется при каждом обновлении (upsert), частичных
// изменений полей нет.
type HealthProfile struct {
	Username         string   `json:"-"`
	Age              int      `json:"age"`
	BloodGroup       string   `json:"blood_group"`
	HealthConditions []string `json:"health_conditions"`
	Allergies        []string `json:"allergies"`
}

// DummyProfile принимает данные профиля из JSON-запроса.
type DummyProfile struct {
	Age              int      `json:"age" validate:"required,gt=0,lt=150"`
	BloodGroup       string   `json:"blood_group" validate:"required"`
	HealthConditions []string `json:"health_conditions"`
	Allergies        []string `json:"allergies"`
}
