package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTokenFromAuthHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"scheme is case insensitive", "bearer abc", "abc", nil},
		{"no scheme", "abc.def.ghi", "", ErrInvalidAuthorizationHeader},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", ErrInvalidAuthorizationHeader},
		{"empty token", "Bearer   ", "", ErrEmptyToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
