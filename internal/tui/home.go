package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/shopfront/internal/guard"
	"github.com/naveenspark/shopfront/pkg/domain"
)

// homeFeatured is how many products and posts the home view shows.
const homeFeatured = 5

type homeLoadedMsg struct {
	products []domain.Product
	posts    []domain.BlogPost
	err      error
}

type homeModel struct {
	api      API
	products []domain.Product
	posts    []domain.BlogPost
	loading  bool
	err      string
	cursor   int
}

func newHomeModel(api API) homeModel {
	return homeModel{api: api}
}

func (m homeModel) open() (homeModel, tea.Cmd) {
	m.loading = true
	m.cursor = 0
	return m, m.load()
}

func (m homeModel) load() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx := context.Background()
		products, err := api.ListProducts(ctx)
		if err != nil {
			return homeLoadedMsg{err: err}
		}
		posts, err := api.ListPosts(ctx)
		if err != nil {
			posts = nil
		}
		return homeLoadedMsg{products: products, posts: posts}
	}
}

// entries are the home shortcuts: featured products, then recent posts.
func (m homeModel) entries() int {
	return min(len(m.products), homeFeatured) + min(len(m.posts), homeFeatured)
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
			return m, nil
		}
		m.err = ""
		m.products = msg.products
		m.posts = msg.posts
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < m.entries()-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "r":
			m.loading = true
			return m, m.load()
		case "enter":
			np := min(len(m.products), homeFeatured)
			switch {
			case m.cursor < np:
				return m, navigate(guard.PathInventory)
			case m.cursor < m.entries():
				post := m.posts[m.cursor-np]
				return m, navigate(guard.Build(guard.PathBlogPost, map[string]string{"id": post.ID}))
			}
		}
	}
	return m, nil
}

func (m homeModel) View() string {
	if m.loading && len(m.products) == 0 {
		return " " + dimStyle.Render("loading...")
	}
	if m.err != "" {
		return " " + errStyle.Render("error: "+m.err)
	}

	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render("Featured") + "\n")
	np := min(len(m.products), homeFeatured)
	if np == 0 {
		b.WriteString("   " + dimStyle.Render("no products yet") + "\n")
	}
	for i := 0; i < np; i++ {
		p := m.products[i]
		line := fmt.Sprintf("%-28s %s  %s",
			truncStr(p.Name, 28),
			priceStyle.Render(formatPrice(p.Price)),
			metaStyle.Render(p.Category))
		b.WriteString(m.row(i, line))
	}

	b.WriteString("\n " + sectionHeaderStyle.Render("From the blog") + "\n")
	if len(m.posts) == 0 {
		b.WriteString("   " + dimStyle.Render("no posts yet") + "\n")
	}
	for i := 0; i < min(len(m.posts), homeFeatured); i++ {
		p := m.posts[i]
		line := truncStr(oneLine(p.Title), 48) + "  " + metaStyle.Render(p.Author+" · "+formatTime(p.CreatedAt))
		b.WriteString(m.row(np+i, line))
	}
	return b.String()
}

func (m homeModel) row(i int, line string) string {
	if i == m.cursor {
		return " " + accentStyle.Render(">") + " " + selectedStyle.Render(line) + "\n"
	}
	return "   " + normalStyle.Render(line) + "\n"
}
