package report

import (
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
)

// FileURL returns a file:// URL for a report written to path.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve report path: %w", err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

// openCommand returns the platform command that opens target in the
// default browser.
func openCommand(goos, target string) (*exec.Cmd, error) {
	switch goos {
	case "linux":
		return exec.Command("xdg-open", target), nil
	case "darwin":
		return exec.Command("open", target), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", target), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// OpenInBrowser opens a written HTML report in the user's default browser.
// It does not wait for the browser to exit.
func OpenInBrowser(path string) error {
	target, err := FileURL(path)
	if err != nil {
		return err
	}
	cmd, err := openCommand(runtime.GOOS, target)
	if err != nil {
		return err
	}
	return cmd.Start()
}
