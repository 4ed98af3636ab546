package tui

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/shopfront/internal/browser"
	"github.com/naveenspark/shopfront/pkg/domain"
)

type filesLoadedMsg struct {
	files []domain.FileUpload
	err   error
}

type fileUploadedMsg struct {
	file *domain.FileUpload
	err  error
}

type fileDeletedMsg struct {
	id  string
	err error
}

type fileOpenedMsg struct {
	err error
}

// openURL is swapped in tests.
var openURL = browser.Open

// filesModel manages admin uploads: upload a local file by path, delete,
// and open a file's URL in the browser.
type filesModel struct {
	api           API
	baseURL       string
	files         []domain.FileUpload
	cursor        int
	loading       bool
	err           string
	pathInput     bool
	path          string
	uploading     bool
	confirmDelete bool
	status        string
}

func newFilesModel(api API) filesModel {
	return filesModel{api: api}
}

func (m filesModel) open() (filesModel, tea.Cmd) {
	m.loading = true
	m.pathInput = false
	m.confirmDelete = false
	api := m.api
	return m, func() tea.Msg {
		files, err := api.ListFiles(context.Background())
		return filesLoadedMsg{files: files, err: err}
	}
}

func (m filesModel) editing() bool {
	return m.pathInput
}

// resolveFileURL makes a server-relative file URL absolute against base.
func resolveFileURL(base, fileURL string) string {
	ref, err := url.Parse(fileURL)
	if err != nil || ref.IsAbs() || base == "" {
		return fileURL
	}
	b, err := url.Parse(base)
	if err != nil {
		return fileURL
	}
	return b.ResolveReference(ref).String()
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func (m filesModel) Update(msg tea.Msg) (filesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case filesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
			return m, nil
		}
		m.err = ""
		m.files = msg.files
		if m.cursor >= len(m.files) {
			m.cursor = max(len(m.files)-1, 0)
		}
		return m, nil

	case fileUploadedMsg:
		m.uploading = false
		if msg.err != nil {
			m.status = "upload failed: " + errText(msg.err)
			return m, nil
		}
		m.files = append([]domain.FileUpload{*msg.file}, m.files...)
		m.cursor = 0
		m.status = "uploaded " + msg.file.FileName
		return m, nil

	case fileDeletedMsg:
		if msg.err != nil {
			m.status = "delete failed: " + errText(msg.err)
			return m, nil
		}
		kept := m.files[:0:0]
		for _, f := range m.files {
			if f.ID != msg.id {
				kept = append(kept, f)
			}
		}
		m.files = kept
		if m.cursor >= len(m.files) {
			m.cursor = max(len(m.files)-1, 0)
		}
		m.status = "file deleted"
		return m, nil

	case fileOpenedMsg:
		if msg.err != nil {
			m.status = "could not open browser: " + msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		if m.pathInput {
			return m.updatePath(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m filesModel) updatePath(msg tea.KeyMsg) (filesModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pathInput = false
		m.path = ""
		return m, nil
	case "enter":
		path := expandHome(strings.TrimSpace(m.path))
		if path == "" || m.uploading {
			return m, nil
		}
		m.pathInput = false
		m.path = ""
		m.uploading = true
		m.status = "uploading " + filepath.Base(path) + "..."
		api := m.api
		return m, func() tea.Msg {
			f, err := os.Open(path)
			if err != nil {
				return fileUploadedMsg{err: err}
			}
			defer f.Close()
			up, err := api.UploadFile(context.Background(), filepath.Base(path), f)
			if err == nil && up == nil {
				up = &domain.FileUpload{FileName: filepath.Base(path)}
			}
			return fileUploadedMsg{file: up, err: err}
		}
	default:
		m.path = editRune(m.path, msg.String())
	}
	return m, nil
}

func (m filesModel) updateList(msg tea.KeyMsg) (filesModel, tea.Cmd) {
	key := msg.String()
	if m.confirmDelete {
		m.confirmDelete = false
		m.status = ""
		if (key != "y" && key != "d") || m.cursor >= len(m.files) {
			return m, nil
		}
		api, id := m.api, m.files[m.cursor].ID
		return m, func() tea.Msg {
			return fileDeletedMsg{id: id, err: api.DeleteFile(context.Background(), id)}
		}
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.files)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		return m.open()
	case "u":
		if !m.uploading {
			m.pathInput = true
			m.status = ""
		}
	case "d":
		if m.cursor < len(m.files) {
			m.confirmDelete = true
			m.status = fmt.Sprintf("delete %s? y to confirm", m.files[m.cursor].FileName)
		}
	case "o", "enter":
		if m.cursor < len(m.files) {
			u := resolveFileURL(m.baseURL, m.files[m.cursor].FileURL)
			return m, func() tea.Msg {
				return fileOpenedMsg{err: openURL(u)}
			}
		}
	}
	return m, nil
}

func (m filesModel) helpKeys() string {
	if m.pathInput {
		return helpLine("enter", "upload", "esc", "cancel")
	}
	return helpLine("j/k", "nav", "u", "upload", "o", "open", "d", "delete", "r", "refresh", "gd", "dashboard")
}

func (m filesModel) View() string {
	var b strings.Builder
	if m.pathInput {
		b.WriteString(" " + inputPromptStyle.Render("file to upload: ") + m.path + accentStyle.Render("█") + "\n\n")
	}
	switch {
	case m.loading && len(m.files) == 0:
		b.WriteString(" " + dimStyle.Render("loading files..."))
	case m.err != "":
		b.WriteString(" " + errStyle.Render("error: "+m.err))
	case len(m.files) == 0:
		b.WriteString(" " + dimStyle.Render("no files, press u to upload one"))
	default:
		for i, f := range m.files {
			line := fmt.Sprintf("%-32s %10s  %s",
				truncStr(f.FileName, 32),
				domain.FormatFileSize(f.FileSize),
				metaStyle.Render(f.UploadedBy+" · "+formatTime(f.UploadedAt)))
			if i == m.cursor {
				b.WriteString(" " + accentStyle.Render(">") + " " + selectedStyle.Render(line) + "\n")
			} else {
				b.WriteString("   " + normalStyle.Render(line) + "\n")
			}
		}
	}
	if m.status != "" {
		b.WriteString("\n " + dimStyle.Render(m.status))
	}
	return b.String()
}
