package browser

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
)

// ErrBrowserNotFound is matched by errors reporting that no browser
// executable exists at any candidate path.
var ErrBrowserNotFound = errors.New("browser not found")

// NotFoundError lists the paths that were probed.
type NotFoundError struct {
	Product    string
	Candidates []string
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(product string, candidates []string) *NotFoundError {
	return &NotFoundError{Product: product, Candidates: candidates}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s browser not found in %d standard locations", e.Product, len(e.Candidates))
}

// Is reports whether target is ErrBrowserNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrBrowserNotFound
}

// Locator finds an installed browser executable.
type Locator interface {
	// FindExecutable returns the executable path and true, or false when
	// nothing was found
	FindExecutable() (string, bool)

	// Candidates returns the paths the locator probes, in order
	Candidates() []string
}

// PathLocator probes an ordered list of paths; the first that exists wins.
type PathLocator struct {
	paths []string

	// Stat is used to test for existence; defaults to os.Stat
	Stat func(name string) (os.FileInfo, error)
}

// NewPathLocator creates a locator over paths.
func NewPathLocator(paths []string) *PathLocator {
	return &PathLocator{
		paths: paths,
		Stat:  os.Stat,
	}
}

// FindExecutable returns the first candidate that exists.
func (l *PathLocator) FindExecutable() (string, bool) {
	stat := l.Stat
	if stat == nil {
		stat = os.Stat
	}
	for _, p := range l.paths {
		if p == "" {
			continue
		}
		if _, err := stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// Candidates returns the probed paths.
func (l *PathLocator) Candidates() []string {
	out := make([]string, len(l.paths))
	copy(out, l.paths)
	return out
}

// Path templates per product and platform. A leading "~" expands to the home
// directory and a leading "%VAR%" to that environment variable; templates
// whose prefix expands to nothing are dropped.
var candidateTemplates = map[string]map[string][]string{
	"brave": {
		"windows": {
			`C:\Program Files\BraveSoftware\Brave-Browser\Application\brave.exe`,
			`C:\Program Files (x86)\BraveSoftware\Brave-Browser\Application\brave.exe`,
			`%LOCALAPPDATA%\BraveSoftware\Brave-Browser\Application\brave.exe`,
			`%PROGRAMFILES%\BraveSoftware\Brave-Browser\Application\brave.exe`,
			`%PROGRAMFILES(X86)%\BraveSoftware\Brave-Browser\Application\brave.exe`,
			`~\AppData\Local\BraveSoftware\Brave-Browser\Application\brave.exe`,
		},
		"darwin": {
			"/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
			"~/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
		},
		"linux": {
			"/usr/bin/brave-browser",
			"/usr/bin/brave",
			"/usr/local/bin/brave-browser",
			"/usr/local/bin/brave",
			"/opt/brave.com/brave/brave-browser",
			"/opt/brave.com/brave/brave",
			"/snap/bin/brave",
			"~/.local/bin/brave",
			"~/.local/bin/brave-browser",
		},
	},
	"chrome": {
		"windows": {
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			`%LOCALAPPDATA%\Google\Chrome\Application\chrome.exe`,
		},
		"darwin": {
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"~/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		},
		"linux": {
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/local/bin/google-chrome",
			"/opt/google/chrome/chrome",
		},
	},
	"chromium": {
		"windows": {
			`C:\Program Files\Chromium\Application\chrome.exe`,
			`%LOCALAPPDATA%\Chromium\Application\chrome.exe`,
		},
		"darwin": {
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"~/Applications/Chromium.app/Contents/MacOS/Chromium",
		},
		"linux": {
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/usr/local/bin/chromium",
			"/snap/bin/chromium",
		},
	},
}

// Candidates returns the ordered candidate paths for product on goos.
// Platforms other than windows and darwin use the linux list.
func Candidates(product, goos, home string, getenv func(string) string) []string {
	platforms, ok := candidateTemplates[product]
	if !ok {
		return nil
	}
	templates, ok := platforms[goos]
	if !ok {
		templates = platforms["linux"]
	}

	seen := make(map[string]bool, len(templates))
	paths := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		p, ok := expandTemplate(tmpl, home, getenv)
		if !ok || seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	return paths
}

// DefaultCandidates returns the candidate paths for product on this machine.
func DefaultCandidates(product string) []string {
	home, _ := os.UserHomeDir()
	return Candidates(product, runtime.GOOS, home, os.Getenv)
}

func expandTemplate(tmpl, home string, getenv func(string) string) (string, bool) {
	switch {
	case strings.HasPrefix(tmpl, "~"):
		if home == "" {
			return "", false
		}
		return home + tmpl[1:], true
	case strings.HasPrefix(tmpl, "%"):
		end := strings.Index(tmpl[1:], "%")
		if end < 0 {
			return tmpl, true
		}
		value := getenv(tmpl[1 : end+1])
		if value == "" {
			return "", false
		}
		return value + tmpl[end+2:], true
	default:
		return tmpl, true
	}
}
