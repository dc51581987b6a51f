package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_IsAnonymous(t *testing.T) {
	tests := []struct {
		id   Identity
		want bool
	}{
		{"", true},
		{"   ", true},
		{Anonymous, true},
		{" anonymous ", true},
		{"alice", false},
		{"Anonymous", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.id.IsAnonymous(), "identity %q", tt.id)
	}
}

func TestNote_BelongsTo(t *testing.T) {
	note := Note{Owner: "alice"}

	assert.True(t, note.BelongsTo("alice"))
	assert.False(t, note.BelongsTo("bob"))
}
