// Package morse holds the CW code table, the sentence tokenizer and the
// timing model. It is pure computation with no audio dependencies; the
// cwaudio package turns its output into scheduled tone envelopes.
package morse

import "strings"

// codes maps single characters to their dot/dash strings. Keys are lower
// case; lookups normalize first.
var codes = map[string]string{
	"a": ".-", "b": "-...", "c": "-.-.", "d": "-..", "e": ".",
	"f": "..-.", "g": "--.", "h": "....", "i": "..", "j": ".---",
	"k": "-.-", "l": ".-..", "m": "--", "n": "-.", "o": "---",
	"p": ".--.", "q": "--.-", "r": ".-.", "s": "...", "t": "-",
	"u": "..-", "v": "...-", "w": ".--", "x": "-..-", "y": "-.--",
	"z": "--..",
	"0": "-----", "1": ".----", "2": "..---", "3": "...--", "4": "....-",
	"5": ".....", "6": "-....", "7": "--...", "8": "---..", "9": "----.",
	".": ".-.-.-", ",": "--..--", "?": "..--..", "/": "-..-.",
}

// prosigns maps bracket-delimited prosigns to their run-together codes.
var prosigns = map[string]string{
	"<bk>": "-...-.-",
	"<ar>": ".-.-.",
	"<sk>": "...-.-",
	"<kn>": "-.--.",
	"<bt>": "-...-",
}

// Code returns the dot/dash string for a token produced by Tokenize: a
// single character or a bracket-delimited prosign. Lookup is
// case-insensitive. The second return is false for unknown tokens and for
// the word-boundary token.
func Code(token string) (string, bool) {
	key := strings.ToLower(token)
	if strings.HasPrefix(key, "<") {
		code, ok := prosigns[key]
		return code, ok
	}
	code, ok := codes[key]
	return code, ok
}

// Prosigns returns the set of known prosign tokens, lower case.
func Prosigns() []string {
	out := make([]string, 0, len(prosigns))
	for p := range prosigns {
		out = append(out, p)
	}
	return out
}
