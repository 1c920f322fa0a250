// Package clipboard copies text to the system clipboard, falling back to
// platform tools when the native clipboard is unavailable.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrNoClipboard is returned when neither the native clipboard nor any
// fallback tool could be used
var ErrNoClipboard = errors.New("no clipboard available")

// Service copies text to the clipboard
type Service struct {
	command string
	logger  *slog.Logger

	// overridable in tests
	writeAll func(string) error
	lookPath func(string) (string, error)
	run      func(ctx context.Context, text string, argv []string) error
}

// NewService returns a clipboard service. command, when set, is tried before
// the built-in fallbacks.
func NewService(command string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		command:  command,
		logger:   logger,
		writeAll: clipboard.WriteAll,
		lookPath: exec.LookPath,
		run:      runWithStdin,
	}
}

// Write copies text, trying the native clipboard first
func (s *Service) Write(ctx context.Context, text string) error {
	err := s.writeAll(text)
	if err == nil {
		s.logger.Debug("copied to clipboard", "length", len(text))
		return nil
	}
	s.logger.Warn("native clipboard failed, trying fallbacks", "error", err)

	for _, argv := range s.candidates() {
		if _, lookErr := s.lookPath(argv[0]); lookErr != nil {
			continue
		}
		if runErr := s.run(ctx, text, argv); runErr != nil {
			s.logger.Debug("clipboard command failed", "command", argv[0], "error", runErr)
			continue
		}
		s.logger.Debug("copied to clipboard", "command", argv[0], "length", len(text))
		return nil
	}
	return fmt.Errorf("%w: %v", ErrNoClipboard, err)
}

func (s *Service) candidates() [][]string {
	var out [][]string
	if parts := ParseCommand(s.command); len(parts) > 0 {
		out = append(out, parts)
	}
	switch runtime.GOOS {
	case "darwin":
		out = append(out, []string{"pbcopy"})
	case "windows":
		out = append(out, []string{"clip.exe"})
	default:
		if isWSL() {
			out = append(out, []string{"clip.exe"})
		}
		out = append(out,
			[]string{"wl-copy"},
			[]string{"xclip", "-selection", "clipboard"},
			[]string{"xsel", "--clipboard", "--input"},
		)
	}
	return out
}

func runWithStdin(ctx context.Context, text string, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// ParseCommand splits a command line into arguments, honoring single and
// double quotes
func ParseCommand(command string) []string {
	var (
		parts   []string
		current strings.Builder
		quote   rune
		started bool
	)
	for _, r := range command {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
			started = true
		case quote == 0 && r == ' ':
			if started {
				parts = append(parts, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if started {
		parts = append(parts, current.String())
	}
	return parts
}

func isWSL() bool {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}
