package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cases := map[string]Command{
		"create":         {Kind: CmdCreate},
		"  C ":           {Kind: CmdCreate},
		"destroy":        {Kind: CmdDestroy},
		"new":            {Kind: CmdNewGame},
		"save":           {Kind: CmdSave},
		"l":              {Kind: CmdLoad},
		"level 2":        {Kind: CmdLevel, Level: 2},
		"speed 1.5 0.25": {Kind: CmdSpeed, Creation: 1.5, Destruction: 0.25},
		"status":         {Kind: CmdStatus},
		"history":        {Kind: CmdHistory},
		"prune 3":        {Kind: CmdPrune, Keep: 3},
		"exit":           {Kind: CmdQuit},
	}
	for line, want := range cases {
		got, err := ParseCommand(line)
		require.NoError(t, err, line)
		assert.Equal(t, want, got, line)
	}
}

func TestParseCommandErrors(t *testing.T) {
	for _, line := range []string{
		"",
		"jump",
		"level",
		"level two",
		"speed 1",
		"speed -1 0",
		"create now",
		"prune 0",
		"prune",
	} {
		_, err := ParseCommand(line)
		assert.Error(t, err, "%q", line)
	}
}
