package model

import "errors"

var (
	// ErrNotFound : запись отсутствует в хранилище
	ErrNotFound = errors.New("запись не найдена")
	// ErrAlreadyExists : нарушение уникальности при вставке
	ErrAlreadyExists = errors.New("запись уже существует")
)

// ErrObjectNotFound : объекта нет в объектном хранилище
var ErrObjectNotFound = errors.New("объект не найден в хранилище")
