package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name string
		post string
		want []string
	}{
		{"empty post", "", []string{}},
		{"no mentions", "hello world", []string{}},
		{"two mentions in order", "hi @bob and @carol", []string{"bob", "carol"}},
		{"duplicates retained", "@a @a", []string{"a", "a"}},
		{"word characters only", "ping @user_1, @user-2", []string{"user_1", "user"}},
		{"mention at end", "thanks @Zed99", []string{"Zed99"}},
		{"bare at sign", "meet @ noon", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMentions(tt.post))
		})
	}
}
