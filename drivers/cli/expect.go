package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	expect "github.com/google/goexpect"
	"golang.org/x/crypto/ssh"
)

// DefaultPromptPattern matches the RouterOS console prompt, e.g. "[admin@MikroTik] > "
// or "[admin@MikroTik] /ppp secret> ".
var DefaultPromptPattern = regexp.MustCompile(`(?m)\[[^\]\r\n@]+@[^\]\r\n]+\] [^\r\n>]*>\s*$`)

// DefaultLoginOptions are appended to the SSH user name: no colors, no
// terminal detection, dumb terminal mode and a wide console.
const DefaultLoginOptions = "+cte512w"

// ExpectSession wraps google/goexpect for the RouterOS console
type ExpectSession struct {
	expecter *expect.GExpect
	promptRE *regexp.Regexp
	timeout  time.Duration
}

// ExpectSessionConfig holds configuration for creating an expect session
type ExpectSessionConfig struct {
	SSHClient    *ssh.Client
	Timeout      time.Duration
	CustomPrompt *regexp.Regexp
}

// NewExpectSession spawns a shell on client and waits for the first prompt.
func NewExpectSession(cfg ExpectSessionConfig) (*ExpectSession, error) {
	if cfg.SSHClient == nil {
		return nil, fmt.Errorf("SSH client is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	promptRE := cfg.CustomPrompt
	if promptRE == nil {
		promptRE = DefaultPromptPattern
	}

	exp, _, err := expect.SpawnSSH(cfg.SSHClient, cfg.Timeout,
		expect.Verbose(false),
		expect.CheckDuration(100*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn SSH expect session: %w", err)
	}

	// RouterOS prints the banner and, on first login, a license prompt before the console prompt.
	if _, _, err := exp.Expect(promptRE, cfg.Timeout); err != nil {
		exp.Close()
		return nil, fmt.Errorf("failed to detect initial prompt: %w", err)
	}

	return &ExpectSession{
		expecter: exp,
		promptRE: promptRE,
		timeout:  cfg.Timeout,
	}, nil
}

// Execute sends a command and waits for the prompt, returning the output
func (s *ExpectSession) Execute(command string) (string, error) {
	if s.expecter == nil {
		return "", fmt.Errorf("expect session not initialized")
	}

	if err := s.expecter.Send(command + "\r\n"); err != nil {
		return "", fmt.Errorf("failed to send command: %w", err)
	}

	output, _, err := s.expecter.Expect(s.promptRE, s.timeout)
	if err != nil {
		return output, fmt.Errorf("timeout waiting for prompt after command %q: %w", command, err)
	}
	return cleanOutput(s.promptRE, output, command), nil
}

// cleanOutput removes command echo and prompt from output
func cleanOutput(promptRE *regexp.Regexp, output, command string) string {
	output = strings.ReplaceAll(output, "\r", "")
	lines := strings.Split(output, "\n")
	cleaned := make([]string, 0, len(lines))

	for i, line := range lines {
		if i == 0 && strings.Contains(line, command) {
			continue
		}
		if promptRE.MatchString(strings.TrimSpace(line)) {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// Close closes the expect session
func (s *ExpectSession) Close() error {
	if s.expecter != nil {
		return s.expecter.Close()
	}
	return nil
}

// SetTimeout updates the command timeout
func (s *ExpectSession) SetTimeout(timeout time.Duration) {
	s.timeout = timeout
}
