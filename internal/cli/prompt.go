package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// confirm prompts the user with a yes/no question and returns their answer.
// Anything other than "y" or "yes" counts as no.
func confirm(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)

	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
