package common

import (
	"github.com/logrusorgru/aurora"
)

// Inline ANSI helpers for the one-line printer paths. Table output carries
// its own severity styling in ui/; these are for text rendered through plain
// fmt verbs.

func AlertColor(str string) string {
	return aurora.Red(str).String()
}

func InfoColor(str string) string {
	return aurora.Green(str).String()
}

// NameWithColor colors an address description by resolution outcome. The
// address book hands back the literal "unknown" for addresses it cannot
// name, which renders red; every resolved name renders green.
func NameWithColor(name string) string {
	if name == "unknown" {
		return AlertColor(name)
	}
	return InfoColor(name)
}
