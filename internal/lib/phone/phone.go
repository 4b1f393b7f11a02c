// Package phone проверяет формат телефонов экстренных контактов.
//
// Правило задаётся конфигом один раз на процесс: либо общий международный
// формат (опциональный плюс, 10-15 цифр), либо фиксированный код страны.
package phone

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/magabrotheeeer/sos-alert/internal/config"
)

// Validator скомпилированное правило проверки телефона.
type Validator struct {
	re *regexp.Regexp
}

// NewValidator строит Validator из секции phone конфига.
// Для format "country" обязателен country_code вида "+7".
func NewValidator(cfg config.Phone) (*Validator, error) {
	const op = "phone.NewValidator"
	switch cfg.Format {
	case "", "international":
		return &Validator{re: regexp.MustCompile(`^\+?\d{10,15}$`)}, nil
	case "country":
		code := strings.TrimPrefix(cfg.CountryCode, "+")
		if code == "" || !regexp.MustCompile(`^\d{1,3}$`).MatchString(code) {
			return nil, fmt.Errorf("%s: invalid country code %q", op, cfg.CountryCode)
		}
		re, err := regexp.Compile(`^\+` + code + `\d{10}$`)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &Validator{re: re}, nil
	default:
		return nil, fmt.Errorf("%s: unknown phone format %q", op, cfg.Format)
	}
}

// Valid сообщает, соответствует ли номер правилу.
func (v *Validator) Valid(number string) bool {
	return v.re.MatchString(number)
}
