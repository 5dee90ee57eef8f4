package engine

import (
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/world"
)

type CommandType string

const (
	CmdLook      CommandType = "look"
	CmdInventory CommandType = "inventory"
	CmdStats     CommandType = "stats"
	CmdHelp      CommandType = "help"
	CmdQuit      CommandType = "quit"
	CmdNone      CommandType = "" // No command, used for fallback
)

const helpText = `Describe your actions naturally, e.g. "go north", "take the dagger",
"talk to the hermit", "attack the goblin with my sword".

Shortcuts:
  look / l       describe your surroundings
  inventory / i  list what you carry
  stats          show health, gold and experience
  quit / exit    save and leave the game`

// parseCommand parses the input string and returns the command type if
// recognized. If not recognized, returns CmdNone.
func parseCommand(input string) CommandType {
	known := map[string]CommandType{
		"look":      CmdLook,
		"l":         CmdLook,
		"inventory": CmdInventory,
		"i":         CmdInventory,
		"stats":     CmdStats,
		"help":      CmdHelp,
		"?":         CmdHelp,
		"quit":      CmdQuit,
		"exit":      CmdQuit,
		"q":         CmdQuit,
	}
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if trimmed == "" {
		return CmdNone
	}
	cmd, ok := known[trimmed]
	if !ok {
		return CmdNone
	}
	return cmd
}

// CommandResult is an early evaluation of player input.
type CommandResult struct {
	Handled bool   // True if the command was fully resolved and no oracle call is needed
	Quit    bool   // True if the player asked to save and exit
	Message string // Text to display
}

// TryHandleCommand looks for shortcut commands and resolves them without
// the oracle when possible. These are pure reads; no delta is involved.
func TryHandleCommand(gs *world.State, input string) *CommandResult {
	switch parseCommand(input) {
	case CmdLook:
		return &CommandResult{Handled: true, Message: gs.DescribeLocation()}
	case CmdInventory:
		return &CommandResult{Handled: true, Message: gs.DescribeInventory()}
	case CmdStats:
		return &CommandResult{Handled: true, Message: gs.DescribeStats()}
	case CmdHelp:
		return &CommandResult{Handled: true, Message: helpText}
	case CmdQuit:
		return &CommandResult{Handled: true, Quit: true, Message: "Saving game..."}
	default:
		return &CommandResult{Handled: false}
	}
}
