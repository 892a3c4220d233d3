package ports

import "context"

// Logger — минимальный контракт логгера для внешних слоёв.
type Logger interface {
	Debugf(ctx context.Context, format string, args ...any) // Debugf — детали по отдельным сделкам.
	Infof(ctx context.Context, format string, args ...any)  // Infof — информационные сообщения.
	Warnf(ctx context.Context, format string, args ...any)  // Warnf — предупреждения (отказы валидации).
	Errorf(ctx context.Context, format string, args ...any) // Errorf — ошибки (сбои хранилища).
}
