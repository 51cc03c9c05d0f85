package dbmetrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "raw driver error with code 40001",
			err:  &pq.Error{Code: "40001"},
			want: true,
		},
		{
			name: "driver error buried in wrap chain",
			err:  fmt.Errorf("commit transaction: %w", &pq.Error{Code: "40001"}),
			want: true,
		},
		{
			name: "marker survives message-only wrapping of the driver error",
			err: fmt.Errorf("internal error: %w",
				fmt.Errorf("%w: execute query: %v", ErrSerializationFailure, &pq.Error{Code: "40001"})),
			want: true,
		},
		{
			name: "other driver error",
			err:  &pq.Error{Code: "23P01"},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSerializationFailure(tt.err))
		})
	}
}
