package morse

// WordBoundary is the token emitted for a space in the input sentence.
const WordBoundary = " "

// Tokenize splits a sentence into schedulable tokens, left to right:
//
//   - a "<...>" span becomes one prosign token,
//   - a space becomes the word-boundary token,
//   - any other character becomes a one-character token.
//
// A "<" with no closing ">" is kept as a literal "<" token (which no code
// maps to, so it is later reported and skipped) and the remaining
// characters are tokenized normally.
func Tokenize(text string) []string {
	var tokens []string
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '<':
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '>' {
					end = j
					break
				}
			}
			if end < 0 {
				tokens = append(tokens, "<")
				continue
			}
			tokens = append(tokens, string(runes[i:end+1]))
			i = end
		case r == ' ':
			tokens = append(tokens, WordBoundary)
		default:
			tokens = append(tokens, string(r))
		}
	}
	return tokens
}
