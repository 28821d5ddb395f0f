package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// PromptWithDefault asks for a value on in, writing the prompt to out. An
// empty answer keeps defaultValue.
func PromptWithDefault(in io.Reader, out io.Writer, message, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprintf(out, "%s [%s]: ", message, defaultValue)
	} else {
		fmt.Fprintf(out, "%s: ", message)
	}

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return defaultValue, nil
	}
	return trimmed, nil
}

// IsTerminal reports whether stdin is attached to a terminal.
func IsTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
