package console

import (
	"strconv"
	"strings"
)

// Command is one parsed input line. Verb is lowercased and canonical; Args
// keep their case since tags, slots and stat keys are case-sensitive.
type Command struct {
	Verb string
	Args []string
}

var verbAliases = map[string]string{
	// Acquire
	"a":     "acquire",
	"buy":   "acquire",
	"get":   "acquire",
	"take":  "acquire",
	"learn": "acquire",

	// Remove
	"r":       "remove",
	"sell":    "remove",
	"drop":    "remove",
	"discard": "remove",
	"forget":  "remove",

	// Offers
	"o":      "offer",
	"draft":  "offer",
	"roll":   "offer",
	"p":      "pick",
	"choose": "pick",

	// Slots
	"e":      "equip",
	"wear":   "equip",
	"u":      "unequip",
	"unwear": "unequip",

	// Listings
	"inv":       "owned",
	"i":         "owned",
	"inventory": "owned",
	"catalog":   "actions",
	"ls":        "actions",
	"stat":      "stats",
	"values":    "stats",

	// Run
	"begin": "start",
	"new":   "start",
}

// Verbs whose first argument names an action.
var actionVerbs = map[string]bool{
	"acquire": true, "remove": true, "equip": true, "unequip": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw input line into a Command. Unknown verbs pass through
// lowercased so the caller can report them.
func Parse(input string) Command {
	words := strings.Fields(input)
	if len(words) == 0 {
		return Command{}
	}

	// Bare number: pick from the current offer.
	if len(words) == 1 {
		if _, err := strconv.Atoi(words[0]); err == nil {
			return Command{Verb: "pick", Args: words}
		}
	}

	words = expandMultiWordVerbs(words)

	verb := strings.ToLower(words[0])
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}
	args := words[1:]

	if actionVerbs[verb] {
		args = stripArticles(args)
	}

	return Command{Verb: verb, Args: args}
}

// expandMultiWordVerbs handles "level up", "pick up" and the run enders.
func expandMultiWordVerbs(words []string) []string {
	first := strings.ToLower(words[0])

	switch first {
	case "win":
		return append([]string{"end", "won"}, words[1:]...)
	case "lose", "die":
		return append([]string{"end"}, words[1:]...)
	}

	if len(words) < 2 {
		return words
	}
	second := strings.ToLower(words[1])

	switch first {
	case "level":
		if second == "up" {
			return append([]string{"offer", "level_up"}, words[2:]...)
		}
	case "pick":
		if second == "up" {
			return append([]string{"acquire"}, words[2:]...)
		}
	case "put":
		if second == "on" {
			return append([]string{"equip"}, words[2:]...)
		}
	case "take":
		if second == "off" {
			return append([]string{"unequip"}, words[2:]...)
		}
	}
	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[strings.ToLower(w)] {
			result = append(result, w)
		}
	}
	return result
}
