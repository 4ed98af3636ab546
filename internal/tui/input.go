package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 2000

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case "space":
		key = " "
	}
	if utf8.RuneCountInString(key) == 1 {
		if utf8.RuneCountInString(text) >= maxInputLen {
			return text
		}
		return text + key
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// field is one line of a form.
type field struct {
	label     string
	value     string
	secret    bool
	multiline bool
}

// form is a focusable list of text fields shared by the sign-in, blog
// editor and product editor views.
type form struct {
	fields []field
	focus  int
}

func newForm(fields ...field) form {
	return form{fields: fields}
}

// value returns the field with the given label.
func (f form) value(label string) string {
	for _, fl := range f.fields {
		if fl.label == label {
			return fl.value
		}
	}
	return ""
}

func (f *form) set(label, v string) {
	for i := range f.fields {
		if f.fields[i].label == label {
			f.fields[i].value = v
			return
		}
	}
}

func (f *form) reset() {
	for i := range f.fields {
		f.fields[i].value = ""
	}
	f.focus = 0
}

func (f form) onLast() bool {
	return f.focus == len(f.fields)-1
}

// handle applies a key to the form. It reports whether the key asks to
// submit: enter on the last single-line field, or ctrl+s anywhere.
func (f *form) handle(key string) (submit bool) {
	if len(f.fields) == 0 {
		return key == "ctrl+s"
	}
	switch key {
	case "ctrl+s":
		return true
	case "tab", "down":
		f.focus = (f.focus + 1) % len(f.fields)
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	case "enter":
		cur := &f.fields[f.focus]
		if cur.multiline {
			cur.value = editRune(cur.value, "\n")
			return false
		}
		if f.onLast() {
			return true
		}
		f.focus++
	default:
		cur := &f.fields[f.focus]
		cur.value = editRune(cur.value, key)
	}
	return false
}

func (f form) View() string {
	var b strings.Builder
	for i, fl := range f.fields {
		cursor := " "
		style := metaStyle
		if i == f.focus {
			cursor = inputPromptStyle.Render(">")
			style = selectedStyle
		}
		value := fl.value
		if fl.secret {
			value = strings.Repeat("•", utf8.RuneCountInString(value))
		}
		if fl.multiline {
			value = strings.ReplaceAll(value, "\n", "\n    ")
		}
		if i == f.focus {
			value += accentStyle.Render("█")
		} else if value == "" {
			value = inputPlaceholderStyle.Render("…")
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, style.Render(fl.label), value)
	}
	return b.String()
}
