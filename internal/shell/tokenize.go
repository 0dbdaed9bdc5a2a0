package shell

// MaxTokens is the most tokens a command line is split into. The last
// token keeps the rest of the line.
const MaxTokens = 32

// Tokenize splits line on spaces and control characters.
func Tokenize(line string) []string {
	var tokens []string

	i := 0
	for {
		for i < len(line) && isSeparator(line[i]) {
			i++
		}
		if i == len(line) {
			return tokens
		}

		if len(tokens) == MaxTokens-1 {
			return append(tokens, line[i:])
		}

		start := i
		for i < len(line) && !isSeparator(line[i]) {
			i++
		}
		tokens = append(tokens, line[start:i])
	}
}

func isSeparator(b byte) bool {
	return b > 0 && b <= ' '
}
