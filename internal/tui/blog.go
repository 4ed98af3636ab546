package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/shopfront/internal/guard"
	"github.com/naveenspark/shopfront/pkg/domain"
)

// newPostID is the /blog/:id value that opens an empty editor.
const newPostID = "new"

type postsLoadedMsg struct {
	posts []domain.BlogPost
	err   error
}

type blogModel struct {
	api     API
	posts   []domain.BlogPost
	cursor  int
	loading bool
	err     string
}

func newBlogModel(api API) blogModel {
	return blogModel{api: api}
}

func (m blogModel) open() (blogModel, tea.Cmd) {
	m.loading = true
	return m, m.load()
}

func (m blogModel) load() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		posts, err := api.ListPosts(context.Background())
		return postsLoadedMsg{posts: posts, err: err}
	}
}

func postPath(id string) string {
	return guard.Build(guard.PathBlogPost, map[string]string{"id": id})
}

func (m blogModel) Update(msg tea.Msg) (blogModel, tea.Cmd) {
	switch msg := msg.(type) {
	case postsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
			return m, nil
		}
		m.err = ""
		m.posts = msg.posts
		if m.cursor >= len(m.posts) {
			m.cursor = max(len(m.posts)-1, 0)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.posts)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			if m.cursor < len(m.posts) {
				return m, navigate(postPath(m.posts[m.cursor].ID))
			}
		case "n":
			return m, navigate(postPath(newPostID))
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m blogModel) View() string {
	if m.loading && len(m.posts) == 0 {
		return " " + dimStyle.Render("loading posts...")
	}
	if m.err != "" {
		return " " + errStyle.Render("error: "+m.err)
	}
	if len(m.posts) == 0 {
		return " " + dimStyle.Render("no posts yet, press n to write one")
	}

	var b strings.Builder
	for i, p := range m.posts {
		title := truncStr(oneLine(p.Title), 50)
		meta := metaStyle.Render(fmt.Sprintf("%s · %s", p.Author, formatTime(p.CreatedAt)))
		if i == m.cursor {
			fmt.Fprintf(&b, " %s %s  %s\n", accentStyle.Render(">"), selectedStyle.Render(title), meta)
			b.WriteString("   " + dimStyle.Render(truncStr(oneLine(p.Content), 70)) + "\n")
		} else {
			fmt.Fprintf(&b, "   %s  %s\n", normalStyle.Render(title), meta)
		}
	}
	return b.String()
}

type postMode int

const (
	postReading postMode = iota
	postEditing
)

const (
	labelTitle   = "title"
	labelContent = "content"
)

type postLoadedMsg struct {
	post *domain.BlogPost
	err  error
}

type postSavedMsg struct {
	err error
}

type postDeletedMsg struct {
	err error
}

type copyResultMsg struct {
	err error
}

// postModel shows one post, and edits it when the reader is its author.
type postModel struct {
	api           API
	id            string
	post          *domain.BlogPost
	user          *domain.User
	mode          postMode
	form          form
	loading       bool
	pending       bool
	confirmDelete bool
	status        string
}

func newPostModel(api API) postModel {
	return postModel{api: api}
}

func (m postModel) open(id string, user *domain.User) (postModel, tea.Cmd) {
	m.id = id
	m.user = user
	m.post = nil
	m.status = ""
	m.confirmDelete = false
	m.pending = false
	m.form = newForm(
		field{label: labelTitle},
		field{label: labelContent, multiline: true},
	)

	if id == newPostID {
		if user == nil {
			return m, navigate(guard.PathSignIn)
		}
		m.mode = postEditing
		m.loading = false
		return m, nil
	}
	m.mode = postReading
	m.loading = true
	api := m.api
	return m, func() tea.Msg {
		post, err := api.GetPost(context.Background(), id)
		return postLoadedMsg{post: post, err: err}
	}
}

func (m postModel) editing() bool {
	return m.mode == postEditing
}

func (m postModel) isAuthor() bool {
	return m.post != nil && m.post.WrittenBy(m.user)
}

func (m postModel) Update(msg tea.Msg) (postModel, tea.Cmd) {
	switch msg := msg.(type) {
	case postLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = errText(msg.err)
			return m, nil
		}
		m.post = msg.post
		m.form.set(labelTitle, msg.post.Title)
		m.form.set(labelContent, msg.post.Content)
		return m, nil

	case postSavedMsg:
		m.pending = false
		if msg.err != nil {
			m.status = "save failed: " + errText(msg.err)
			return m, nil
		}
		return m, navigate(guard.PathBlog)

	case postDeletedMsg:
		m.pending = false
		if msg.err != nil {
			m.status = "delete failed: " + errText(msg.err)
			return m, nil
		}
		return m, navigate(guard.PathBlog)

	case copyResultMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "copied to clipboard"
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == postEditing {
			return m.updateEditing(msg)
		}
		return m.updateReading(msg)
	}
	return m, nil
}

func (m postModel) updateReading(msg tea.KeyMsg) (postModel, tea.Cmd) {
	key := msg.String()
	if m.confirmDelete {
		m.confirmDelete = false
		if key != "y" && key != "d" {
			m.status = ""
			return m, nil
		}
		if m.pending {
			return m, nil
		}
		m.pending = true
		m.status = "deleting..."
		api, id := m.api, m.id
		return m, func() tea.Msg {
			return postDeletedMsg{err: api.DeletePost(context.Background(), id)}
		}
	}

	switch key {
	case "esc", "b":
		return m, navigate(guard.PathBlog)
	case "c":
		if m.post == nil {
			return m, nil
		}
		text := m.post.Title + "\n\n" + m.post.Content
		return m, func() tea.Msg {
			return copyResultMsg{err: clipboard.WriteAll(text)}
		}
	case "e":
		if m.isAuthor() {
			m.mode = postEditing
			m.status = ""
		}
	case "d":
		if m.isAuthor() {
			m.confirmDelete = true
			m.status = "delete this post? y to confirm"
		}
	}
	return m, nil
}

func (m postModel) updateEditing(msg tea.KeyMsg) (postModel, tea.Cmd) {
	if msg.String() == "esc" {
		if m.id == newPostID {
			return m, navigate(guard.PathBlog)
		}
		m.mode = postReading
		m.status = ""
		if m.post != nil {
			m.form.set(labelTitle, m.post.Title)
			m.form.set(labelContent, m.post.Content)
		}
		return m, nil
	}
	if !m.form.handle(msg.String()) {
		return m, nil
	}
	return m.save()
}

func (m postModel) save() (postModel, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	in := domain.BlogPostInput{
		Title:   strings.TrimSpace(m.form.value(labelTitle)),
		Content: strings.TrimSpace(m.form.value(labelContent)),
	}
	if in.Title == "" || in.Content == "" {
		m.status = "title and content are required"
		return m, nil
	}
	m.pending = true
	m.status = "saving..."
	api, id := m.api, m.id
	return m, func() tea.Msg {
		if id == newPostID {
			_, err := api.CreatePost(context.Background(), in)
			return postSavedMsg{err: err}
		}
		return postSavedMsg{err: api.UpdatePost(context.Background(), id, in)}
	}
}

func (m postModel) helpKeys() string {
	if m.mode == postEditing {
		return helpLine("tab", "next", "ctrl+s", "save", "esc", "cancel")
	}
	if m.isAuthor() {
		return helpLine("c", "copy", "e", "edit", "d", "delete", "esc", "blog")
	}
	return helpLine("c", "copy", "esc", "blog", "q", "quit")
}

func (m postModel) View() string {
	var b strings.Builder
	switch {
	case m.loading:
		b.WriteString(" " + dimStyle.Render("loading post..."))
	case m.mode == postEditing:
		heading := "Edit post"
		if m.id == newPostID {
			heading = "New post"
		}
		b.WriteString(" " + selectedStyle.Render(heading) + "\n\n")
		b.WriteString(m.form.View())
	case m.post != nil:
		p := m.post
		b.WriteString(" " + selectedStyle.Render(p.Title) + "\n")
		meta := p.Author + " · " + formatTime(p.CreatedAt)
		if !p.UpdatedAt.IsZero() && p.UpdatedAt.After(p.CreatedAt) {
			meta += " · edited " + formatTime(p.UpdatedAt)
		}
		b.WriteString(" " + metaStyle.Render(meta) + "\n\n")
		for _, line := range strings.Split(p.Content, "\n") {
			b.WriteString(" " + normalStyle.Render(line) + "\n")
		}
	}
	if m.status != "" {
		b.WriteString("\n " + dimStyle.Render(m.status))
	}
	return b.String()
}
