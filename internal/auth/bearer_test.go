package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"standard", "Bearer abc123", "abc123", false},
		{"lowercase scheme", "bearer abc123", "abc123", false},
		{"mixed case scheme", "BeArEr abc123", "abc123", false},
		{"missing token", "Bearer", "", true},
		{"empty header", "", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"extra parts", "Bearer abc 123", "", true},
		{"token only", "abc123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitBearer(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedCredential)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
