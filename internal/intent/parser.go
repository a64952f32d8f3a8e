package intent

import (
	"strconv"
	"strings"
)

var stakeVerbs = map[string]Op{
	"stake":   OpAdd,
	"add":     OpAdd,
	"buy":     OpAdd,
	"ape":     OpAdd,
	"unstake": OpRemove,
	"remove":  OpRemove,
	"sell":    OpRemove,
}

// Parse classifies free-form message text into an Intent. It is deliberately
// forgiving about casing, leading command markers and extra whitespace, and it
// never fails: anything unrecognized comes back as Unknown.
func Parse(text string) Intent {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return Unknown{Text: text}
	}

	verb := strings.ToLower(strings.TrimPrefix(fields[0], "/"))

	switch verb {
	case "help", "start", "?":
		return Help{}
	case "privacy":
		return Privacy{}
	case "whoami", "me":
		return Whoami{}
	case "confirm", "yes":
		return Confirm{}
	}

	op, ok := stakeVerbs[verb]
	if !ok {
		return Unknown{Text: text}
	}

	return parseStake(op, fields[1:], text)
}

func parseStake(op Op, args []string, raw string) Intent {
	st := Stake{Op: op}

	if len(args) == 0 {
		if op == OpRemove {
			// bare "unstake" means everything on the default subnet
			st.All = true
			return st
		}
		return Unknown{Text: raw}
	}

	amount := strings.ToLower(args[0])
	if amount == "all" || amount == "everything" {
		if op != OpRemove {
			return Unknown{Text: raw}
		}
		st.All = true
	} else {
		v, err := strconv.ParseFloat(amount, 64)
		if err != nil || v < 0 {
			return Unknown{Text: raw}
		}
		if v == 0 && op == OpRemove {
			st.All = true
		}
		st.Amount = v
	}

	if len(args) >= 2 {
		netuid, err := strconv.Atoi(args[1])
		if err != nil || netuid < 0 {
			return Unknown{Text: raw}
		}
		st.Netuid = netuid
		st.HasNetuid = true
	}

	return st
}
