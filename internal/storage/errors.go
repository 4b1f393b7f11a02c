// Package storage объявляет общие ошибки слоя хранения.
// Реализации (PostgreSQL и in-memory) возвращают эти сентинелы,
// хендлеры транслируют их в HTTP-статусы.
package storage

import "errors"

var (
	// ErrNotFound запись не существует или принадлежит другому пользователю.
	ErrNotFound = errors.New("not found")
	// ErrUserExists пользователь с таким username уже зарегистрирован.
	ErrUserExists = errors.New("user already exists")
	// ErrContactExists у пользователя уже есть контакт с этим телефоном.
	ErrContactExists = errors.New("contact already exists")
)
