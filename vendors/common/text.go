package common

import (
	"regexp"
	"strings"
)

// CSI sequences including private modes (ESC[?25l) plus the two-byte cursor save/restore.
var ansiRegex = regexp.MustCompile(`\x1b(\[[0-9;?]*[A-Za-z]|[78])`)

// StripANSI removes terminal escape codes from s.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// ConsoleText normalizes RouterOS console output: escape codes and carriage
// returns are dropped and trailing blanks trimmed from every line.
func ConsoleText(s string) string {
	lines := strings.Split(StripANSI(strings.ReplaceAll(s, "\r", "")), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
