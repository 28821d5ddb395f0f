package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = errors.New("sentinel")

func TestDomainError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with cause",
			err:  InputError("missing column", errSentinel),
			want: "[input] missing column: sentinel",
		},
		{
			name: "without cause",
			err:  ValidationError("keyword is empty", nil),
			want: "[validation] keyword is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestDomainError_UnwrapAndTypeOf(t *testing.T) {
	err := fmt.Errorf("run: %w", SerializationError("encode xlsx", errSentinel))

	assert.ErrorIs(t, err, errSentinel)
	assert.Equal(t, ErrorTypeSerialization, TypeOf(err))
	assert.Equal(t, ErrorType(""), TypeOf(errSentinel))
}
