package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// start launches a command without waiting for it. Replaced in tests.
var start = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens an http(s) URL in the user's default browser. Other schemes
// are refused since the URL usually comes from the server.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("browser.Open: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("browser.Open: refusing to open %q", rawURL)
	}

	switch runtime.GOOS {
	case "darwin":
		return start("open", u.String())
	case "linux":
		return start("xdg-open", u.String())
	case "windows":
		return start("rundll32", "url.dll,FileProtocolHandler", u.String())
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}
