package credentials

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PromptToken reads a token from the terminal without echoing it. When
// stdin is not a terminal (piped input, tests), it falls back to reading a
// line normally.
func PromptToken(w io.Writer, r io.Reader) (string, error) {
	fmt.Fprint(w, "Token: ")

	fd := int(os.Stdin.Fd())
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	var line strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			line.WriteByte(buf[0])
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", fmt.Errorf("failed to read token: %w", err)
		}
	}
	return strings.TrimSpace(line.String()), nil
}
