package repository

import "errors"

// Ошибки хранилища, которые сервисы переводят в коды apperr
var (
	ErrAlreadyExists    = errors.New("already exists")
	ErrCenterNotEmpty   = errors.New("learning center still has users")
	ErrSlotUnavailable  = errors.New("slot not available or already booked")
	ErrDuplicateBooking = errors.New("student already has a session at this time")
	ErrAlreadyRated     = errors.New("session already rated")
	// ErrTxConflict конфликт транзакций (serialization failure / deadlock), можно повторить
	ErrTxConflict = errors.New("transaction conflict")
)
