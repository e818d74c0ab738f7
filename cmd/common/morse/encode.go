package morse

import "strings"

var fromCode map[string]string

func init() {
	fromCode = make(map[string]string, len(codes)+len(prosigns))
	for k, v := range codes {
		fromCode[v] = k
	}
	for k, v := range prosigns {
		fromCode[v] = k
	}
}

// Encode converts text to printable morse: codes separated by single
// spaces, word boundaries rendered as "/". Unknown characters are dropped.
func Encode(text string) string {
	var out []string
	for _, token := range Tokenize(text) {
		if token == WordBoundary {
			out = append(out, "/")
			continue
		}
		if code, ok := Code(token); ok {
			out = append(out, code)
		}
	}
	return strings.Join(out, " ")
}

// Decode converts printable morse (as produced by Encode) back to text.
// Codes that map to prosigns decode to their bracketed form. Unknown codes
// are dropped.
func Decode(text string) string {
	var result strings.Builder
	for i, word := range strings.Split(text, " / ") {
		if i > 0 {
			result.WriteString(" ")
		}
		for _, code := range strings.Fields(word) {
			if code == "/" {
				result.WriteString(" ")
				continue
			}
			if ch, ok := fromCode[code]; ok {
				result.WriteString(ch)
			}
		}
	}
	return result.String()
}
