package system

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandKind names an operator command read from the console.
type CommandKind int

const (
	CmdCreate CommandKind = iota
	CmdDestroy
	CmdNewGame
	CmdSave
	CmdLoad
	CmdLevel
	CmdSpeed
	CmdStatus
	CmdHistory
	CmdPrune
	CmdQuit
)

// Command is a parsed console line.
type Command struct {
	Kind        CommandKind
	Level       int
	Creation    float32
	Destruction float32
	Keep        int
}

// ParseCommand parses one console line.
//
//	create | destroy | new | save | load | level N | speed C D | status
//	history | prune N | quit
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	args := fields[1:]
	want := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s: want %d arguments, got %d", fields[0], n, len(args))
		}
		return nil
	}

	switch fields[0] {
	case "create", "c":
		return Command{Kind: CmdCreate}, want(0)
	case "destroy", "x":
		return Command{Kind: CmdDestroy}, want(0)
	case "new", "n":
		return Command{Kind: CmdNewGame}, want(0)
	case "save", "s":
		return Command{Kind: CmdSave}, want(0)
	case "load", "l":
		return Command{Kind: CmdLoad}, want(0)
	case "status":
		return Command{Kind: CmdStatus}, want(0)
	case "history", "h":
		return Command{Kind: CmdHistory}, want(0)
	case "quit", "exit", "q":
		return Command{Kind: CmdQuit}, want(0)
	case "level":
		if err := want(1); err != nil {
			return Command{}, err
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("level: %w", err)
		}
		return Command{Kind: CmdLevel, Level: n}, nil
	case "prune":
		if err := want(1); err != nil {
			return Command{}, err
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("prune: %w", err)
		}
		if n < 1 {
			return Command{}, fmt.Errorf("prune: keep at least one save")
		}
		return Command{Kind: CmdPrune, Keep: n}, nil
	case "speed":
		if err := want(2); err != nil {
			return Command{}, err
		}
		c, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return Command{}, fmt.Errorf("speed: creation: %w", err)
		}
		d, err := strconv.ParseFloat(args[1], 32)
		if err != nil {
			return Command{}, fmt.Errorf("speed: destruction: %w", err)
		}
		if c < 0 || d < 0 {
			return Command{}, fmt.Errorf("speed: negative rate")
		}
		return Command{Kind: CmdSpeed, Creation: float32(c), Destruction: float32(d)}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q", fields[0])
}
