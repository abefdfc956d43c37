package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeStatic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12345", "12-345"},
		{"123456", "123-456"},
		{"12-345", "12-345"},
		{"123-456", "123-456"},
		{" 12 34 5 ", "12-345"},
		{"static 123456", "123-456"},
		{"1234", ""},
		{"1234567", ""},
		{"", ""},
		{"abcde", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, NormalizeStatic(tc.in), "input %q", tc.in)
	}
}
