package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandArgs(t *testing.T) {
	assert.Equal(t, "abc def", commandArgs("/cancel  abc def "))
	assert.Equal(t, "abc", commandArgs("/roster@staff_bot abc"))
	assert.Empty(t, commandArgs("/pending"))
	assert.Equal(t, "plain text", commandArgs(" plain text"))
}

func TestParseCancelArgs(t *testing.T) {
	id, reason := parseCancelArgs("g-1   client asked to move ")
	assert.Equal(t, "g-1", id)
	assert.Equal(t, "client asked to move", reason)

	id, reason = parseCancelArgs("g-1")
	assert.Equal(t, "g-1", id)
	assert.Empty(t, reason)
}

func TestParseEditArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		want    editArgs
		wantErr bool
	}{
		{
			name: "title only",
			args: "s1 Intro call",
			want: editArgs{SlotID: "s1", Title: "Intro call"},
		},
		{
			name: "title and description",
			args: "s1 Intro call | bring the contract",
			want: editArgs{SlotID: "s1", Title: "Intro call", Description: "bring the contract"},
		},
		{
			name: "new member",
			args: "s1 Intro | | boris@staff.test",
			want: editArgs{SlotID: "s1", Title: "Intro", Member: "boris@staff.test"},
		},
		{name: "no title", args: "s1", wantErr: true},
		{name: "empty", args: "", wantErr: true},
		{name: "empty member", args: "s1 Intro | x | ", wantErr: true},
		{name: "too many parts", args: "s1 Intro | a | b | c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEditArgs(tt.args)
			if tt.wantErr {
				assert.ErrorIs(t, err, errUsage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRosterTarget(t *testing.T) {
	slotID, at, err := parseRosterTarget("0f8fad5b-d9cb-469f-a165-70867728950e", "UTC")
	require.NoError(t, err)
	assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", slotID)
	assert.True(t, at.IsZero())

	slotID, at, err = parseRosterTarget("2025-03-10 13:00", "Europe/Moscow")
	require.NoError(t, err)
	assert.Empty(t, slotID)
	assert.True(t, at.Equal(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)))

	_, _, err = parseRosterTarget("", "UTC")
	assert.ErrorIs(t, err, errUsage)

	_, _, err = parseRosterTarget("tomorrow morning", "UTC")
	assert.ErrorIs(t, err, errUsage)
}
