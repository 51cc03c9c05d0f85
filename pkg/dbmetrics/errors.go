package dbmetrics

import (
	"errors"

	"github.com/lib/pq"
)

// pgSerializationFailure код ошибки PostgreSQL при конфликте сериализации
const pgSerializationFailure = "40001"

// ErrSerializationFailure помечает конфликт сериализации в цепочке ошибок.
// PostgreSQL выдаёт 40001 не только на COMMIT, но и на уровне отдельного
// запроса, поэтому репозитории оборачивают такие ошибки этим маркером -
// иначе ошибка драйвера теряется при обёртывании на верхних слоях и
// менеджер транзакций не повторяет транзакцию.
var ErrSerializationFailure = errors.New("dbmetrics: serialization failure")

// IsSerializationFailure проверяет, является ли ошибка конфликтом сериализации:
// либо помеченная ErrSerializationFailure, либо ошибка драйвера с кодом 40001
func IsSerializationFailure(err error) bool {
	if errors.Is(err, ErrSerializationFailure) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgSerializationFailure
	}
	return false
}
