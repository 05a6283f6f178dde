package server

import (
	"context"
	"testing"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		size int
		want []string
	}{
		{"fits in one chunk", "Hi there!", 16, []string{"Hi there!"}},
		{"splits evenly", "abcdef", 2, []string{"ab", "cd", "ef"}},
		{"uneven tail", "Hello", 2, []string{"He", "ll", "o"}},
		{"chunking disabled", "Hello", 0, []string{"Hello"}},
		{"empty reply still yields one chunk", "", 4, []string{""}},
		{"multibyte runes stay intact", "héllo wörld", 3, []string{"hél", "lo ", "wör", "ld"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunkText(tt.in, tt.size))
		})
	}
}

func TestUserText(t *testing.T) {
	msg := a2a.NewMessage(a2a.MessageRoleUser,
		a2a.TextPart{Text: "hello "},
		a2a.DataPart{Data: map[string]any{"ignored": true}},
		a2a.TextPart{Text: "world"},
	)
	assert.Equal(t, "hello world", userText(msg))
}

func TestGreeterIgnoresInput(t *testing.T) {
	respond := Greeter("Hi there!")
	reply, err := respond(context.Background(), "anything at all")
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", reply)
}

func TestEcho(t *testing.T) {
	reply, err := Echo(context.Background(), "repeat me")
	require.NoError(t, err)
	assert.Equal(t, "repeat me", reply)
}
