package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Command returns the editor command line: $EDITOR, then $VISUAL, then vi.
// The value may carry arguments, e.g. "code --wait".
func Command() []string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// Open runs the editor on path with the terminal attached and waits for it
// to exit.
func Open(path string) error {
	argv := append(Command(), path)
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q: %w", strings.Join(argv[:len(argv)-1], " "), err)
	}
	return nil
}
