package handlers

import (
	"fmt"

	"github.com/nahidhasan98/diff-notifier/internal/errors"
)

// Actions understood by the command line
const (
	ActionDiff   = "diff"
	ActionCore   = "core"
	ActionPlugin = "plugin"
	ActionPair   = "pair"
)

// Usage describes the command line
const Usage = `usage: notifier <action> [args]

actions:
  diff [base] [head]   notify about the changes between base and head
  core [base] [head]   same as diff
  plugin <path>        notify about the plugin updates listed in a JSON file
  pair                 link a WhatsApp device by scanning a QR code`

// Invocation is a parsed command line
type Invocation struct {
	Action string
	Base   string
	Head   string
	Path   string
}

// ParseArgs parses the arguments following the program name
func ParseArgs(args []string) (Invocation, error) {
	if len(args) == 0 {
		return Invocation{}, errors.Usage("Missing action name")
	}

	inv := Invocation{Action: args[0]}
	rest := args[1:]

	switch inv.Action {
	case ActionDiff, ActionCore:
		if len(rest) > 2 {
			return Invocation{}, errors.Usage(fmt.Sprintf("%s takes at most two revisions", inv.Action))
		}
		if len(rest) > 0 {
			inv.Base = rest[0]
		}
		if len(rest) > 1 {
			inv.Head = rest[1]
		}

	case ActionPlugin:
		if len(rest) != 1 || rest[0] == "" {
			return Invocation{}, errors.Usage("Missing JSON file path")
		}
		inv.Path = rest[0]

	case ActionPair:
		if len(rest) != 0 {
			return Invocation{}, errors.Usage("pair takes no arguments")
		}

	default:
		return Invocation{}, errors.Usage(fmt.Sprintf("Unknown action: %s", inv.Action))
	}

	return inv, nil
}
