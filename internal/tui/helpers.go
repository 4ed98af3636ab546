package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/naveenspark/shopfront/internal/auth"
	"github.com/naveenspark/shopfront/pkg/client"
)

// formatTime renders a relative timestamp for list displays.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// formatPrice renders an amount with thousands separators, e.g. "12,500".
func formatPrice(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// oneLine collapses newlines and runs of whitespace for list previews.
func oneLine(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// errText turns an error into the short message a view shows in its
// status line.
func errText(err error) string {
	var httpErr *client.HTTPError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, auth.ErrNotAdmin):
		return "this account is not an administrator"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, auth.ErrValidation):
		if errors.As(err, &httpErr) && httpErr.Message != "" {
			return httpErr.Message
		}
		msg := err.Error()
		if i := strings.LastIndex(msg, auth.ErrValidation.Error()+": "); i >= 0 {
			return msg[i+len(auth.ErrValidation.Error())+2:]
		}
		return msg
	case errors.As(err, &httpErr):
		if httpErr.Message != "" {
			return httpErr.Message
		}
		return fmt.Sprintf("request failed (%d)", httpErr.StatusCode)
	case errors.Is(err, auth.ErrNetwork), errors.Is(err, client.ErrNetwork):
		return "could not reach the server"
	}
	return err.Error()
}
