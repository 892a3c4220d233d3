package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDeal — базовая (sentinel) ошибка отказа по правилам валидации.
	ErrInvalidDeal = errors.New("deal validation failed")

	// ErrDealExists — хранилище отвергло запись: dealId уже занят (гонка check-then-insert).
	ErrDealExists = errors.New("deal already exists")
)

// SingleImportRejectedError — одиночная сделка не прошла валидацию, записи не было.
type SingleImportRejectedError struct {
	Rejected RejectedDeal
}

func (e *SingleImportRejectedError) Error() string {
	return fmt.Sprintf("deal %q rejected: %s", e.Rejected.DealID, strings.Join(e.Rejected.ValidationMsgs, "; "))
}

// Is — errors.Is(err, ErrInvalidDeal) == true.
func (e *SingleImportRejectedError) Is(target error) bool { return target == ErrInvalidDeal }

// BatchImportRejectedError — в пакете есть отклонённые сделки.
// Accepted уже записаны в хранилище и не откатываются.
type BatchImportRejectedError struct {
	Rejected []RejectedDeal
	Accepted []*Deal
	// StoreFailures — сколько из Rejected отклонены сбоем хранилища, а не правилами.
	StoreFailures int
}

func (e *BatchImportRejectedError) Error() string {
	return fmt.Sprintf("batch rejected: %d rejected, %d saved", len(e.Rejected), len(e.Accepted))
}

// Is — errors.Is(err, ErrInvalidDeal) == true.
func (e *BatchImportRejectedError) Is(target error) bool { return target == ErrInvalidDeal }
