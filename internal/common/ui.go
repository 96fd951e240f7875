package common

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes
const (
	Reset  = "\033[0m"
	Red    = "\033[0;31m"
	Green  = "\033[0;32m"
	Yellow = "\033[1;33m"
	Cyan   = "\033[0;36m"
	Bold   = "\033[1m"
)

// Header prints a section header
func Header(title string) {
	fmt.Println("========================================")
	fmt.Printf("%s%s%s\n", Bold, title, Reset)
	fmt.Println("========================================")
	fmt.Println()
}

// Success prints a success message
func Success(msg string) {
	fmt.Printf("%s✓ %s%s\n", Green, msg, Reset)
}

// Error prints an error message
func Error(msg string) {
	fmt.Printf("%s✗ %s%s\n", Red, msg, Reset)
}

// Warning prints a warning message
func Warning(msg string) {
	fmt.Printf("%s⚠ %s%s\n", Yellow, msg, Reset)
}

// Info prints an info message
func Info(msg string) {
	fmt.Printf("%s→ %s%s\n", Cyan, msg, Reset)
}

// Prompt asks for user input with a default value
func Prompt(question, defaultVal string) string {
	reader := bufio.NewReader(os.Stdin)
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return defaultVal
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}

// PromptSecret reads a line without echoing it. Falls back to a plain
// read when stdin is not a terminal (tests, pipes).
func PromptSecret(question string) string {
	fmt.Printf("%s: ", question)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(b))
	}
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return ""
	}
	return strings.TrimSpace(input)
}

// ConfirmLiteral requires the exact token to be typed. Anything else,
// including a closed stdin, declines.
func ConfirmLiteral(question, token string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s Type '%s' to continue: ", question, token)
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}
	return strings.TrimSpace(input) == token
}
