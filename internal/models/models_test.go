package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		input string
		want  Verdict
	}{
		{"RESPOND", VerdictRespond},
		{"IGNORE", VerdictIgnore},
		{"STOP", VerdictStop},
		{"respond", VerdictRespond},
		{"  Respond.", VerdictRespond},
		{"RESPOND - the user is asking a direct question", VerdictRespond},
		{"I think I should IGNORE this one", VerdictIgnore},
		{"", VerdictNone},
		{"maybe", VerdictNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseVerdict(tt.input), "input=%q", tt.input)
	}
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "RESPOND", VerdictRespond.String())
	assert.Equal(t, "IGNORE", VerdictIgnore.String())
	assert.Equal(t, "STOP", VerdictStop.String())
	assert.Equal(t, "NONE", VerdictNone.String())
}

func TestDeterministicIDs(t *testing.T) {
	// Same inputs always hash to the same id
	assert.Equal(t, MessageID("100", "agent-1"), MessageID("100", "agent-1"))
	assert.Equal(t, RoomID("conv-1"), RoomID("conv-1"))
	assert.Equal(t, UserID("u1"), UserID("u1"))

	// Different inputs never collide on the obvious axes
	assert.NotEqual(t, MessageID("100", "agent-1"), MessageID("101", "agent-1"))
	assert.NotEqual(t, MessageID("100", "agent-1"), MessageID("100", "agent-2"))
	assert.NotEqual(t, RoomID("conv-1"), UserID("conv-1"))
}
