package get_resource_availability

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("get_resource_availability: resource not found")

	// ErrInvalidInterval возвращается при некорректном интервале
	ErrInvalidInterval = errors.New("get_resource_availability: invalid time interval")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_resource_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_resource_availability: internal error")
)
