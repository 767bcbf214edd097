// Package repofile binds a directory tree to a todos server through a
// .todos-server file holding the server's base URL.
package repofile

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const FileName = ".todos-server"

// Find walks up from startDir looking for a .todos-server file.
// Returns the server URL and the directory containing the file, or
// ("", "", nil) if there is none.
func Find(startDir string) (serverURL, dir string, err error) {
	dir = startDir
	for {
		u, err := Read(dir)
		if err != nil {
			return "", "", err
		}
		if u != "" {
			return u, dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", nil
		}
		dir = parent
	}
}

// Write stores serverURL in dir/.todos-server after checking it is an
// absolute http(s) URL.
func Write(dir, serverURL string) error {
	normalized, err := Normalize(serverURL)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, FileName), []byte(normalized+"\n"), 0644)
}

// Read returns the trimmed contents of dir/.todos-server, or "" when the file
// does not exist.
func Read(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Remove deletes dir/.todos-server. It reports whether a file was removed.
func Remove(dir string) (bool, error) {
	err := os.Remove(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Normalize validates a server URL and strips any trailing slash.
func Normalize(serverURL string) (string, error) {
	raw := strings.TrimSpace(serverURL)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid server url %q: want http(s)://host[:port]", serverURL)
	}
	return strings.TrimRight(raw, "/"), nil
}
