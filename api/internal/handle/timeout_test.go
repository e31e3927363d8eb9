package handle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClampTimeout(t *testing.T) {
	limit := 60 * time.Second
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", limit},
		{"abc", limit},
		{"0", limit},
		{"-5", limit},
		{"10", 10 * time.Second},
		{"60", limit},
		{"31536000", limit},
		{"9999999999999", limit},
		{"99999999999999999999", limit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clampTimeout(tt.in, limit), tt.in)
	}
}
