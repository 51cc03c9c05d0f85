package approval

import "errors"

var (
	// ErrApprovalNotFound возвращается, когда запись решения не найдена
	ErrApprovalNotFound = errors.New("approval.repository: approval not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("approval.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("approval.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("approval.repository: failed to scan row")
)
