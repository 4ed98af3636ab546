package browser

import (
	"runtime"
	"testing"
)

func TestOpenRefusesNonHTTP(t *testing.T) {
	called := false
	orig := start
	start = func(string, ...string) error { called = true; return nil }
	t.Cleanup(func() { start = orig })

	for _, raw := range []string{
		"file:///etc/passwd",
		"javascript:alert(1)",
		"ftp://example.com/x",
		"/relative/path",
		"https://",
		"%zz",
	} {
		if err := Open(raw); err == nil {
			t.Errorf("Open(%q): expected error", raw)
		}
	}
	if called {
		t.Error("no command should have been started")
	}
}

func TestOpenStartsBrowser(t *testing.T) {
	switch runtime.GOOS {
	case "darwin", "linux", "windows":
	default:
		t.Skip("unsupported OS")
	}

	var gotArgs []string
	orig := start
	start = func(name string, args ...string) error {
		gotArgs = append([]string{name}, args...)
		return nil
	}
	t.Cleanup(func() { start = orig })

	if err := Open("https://shop.example.com/files/a.pdf"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(gotArgs) == 0 || gotArgs[len(gotArgs)-1] != "https://shop.example.com/files/a.pdf" {
		t.Errorf("started %v", gotArgs)
	}
}
