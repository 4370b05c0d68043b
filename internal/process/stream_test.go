package process

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeLine(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{
			name: "valid utf8 passes through",
			raw:  []byte("plain ascii"),
			want: "plain ascii",
		},
		{
			name: "multibyte utf8 passes through",
			raw:  []byte("héllo ✓"),
			want: "héllo ✓",
		},
		{
			name: "latin1 byte re-decoded",
			raw:  []byte{'c', 'a', 'f', 0xE9},
			want: "café",
		},
		{
			name: "stray high bytes become text",
			raw:  []byte{0xFF, 0xFE, 'o', 'k'},
			want: "ÿþok",
		},
		{
			name: "empty line",
			raw:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, decodeLine(tt.raw))
		})
	}
}
