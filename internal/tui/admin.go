package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/shopfront/pkg/domain"
)

type statsLoadedMsg struct {
	stats *domain.DashboardStats
	err   error
}

type dashboardModel struct {
	api     API
	stats   *domain.DashboardStats
	loading bool
	err     string
}

func newDashboardModel(api API) dashboardModel {
	return dashboardModel{api: api}
}

func (m dashboardModel) open() (dashboardModel, tea.Cmd) {
	m.loading = true
	api := m.api
	return m, func() tea.Msg {
		stats, err := api.DashboardStats(context.Background())
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
			return m, nil
		}
		m.err = ""
		m.stats = msg.stats
	case tea.KeyMsg:
		if msg.String() == "r" {
			return m.open()
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if m.loading && m.stats == nil {
		return " " + dimStyle.Render("loading dashboard...")
	}
	if m.err != "" {
		return " " + errStyle.Render("error: "+m.err)
	}
	if m.stats == nil {
		return ""
	}
	s := m.stats

	var b strings.Builder
	card := func(label string, n int) string {
		return selectedStyle.Render(fmt.Sprintf("%d", n)) + " " + dimStyle.Render(label)
	}
	b.WriteString(" " + strings.Join([]string{
		card("users", s.TotalUsers),
		card("products", s.TotalProducts),
		card("orders", s.TotalOrders),
		card("files", s.TotalFiles),
	}, metaStyle.Render("  ·  ")) + "\n\n")

	b.WriteString(" " + sectionHeaderStyle.Render("Recent orders") + "\n")
	if len(s.RecentOrders) == 0 {
		b.WriteString("   " + dimStyle.Render("no orders yet") + "\n")
	}
	for _, o := range s.RecentOrders {
		fmt.Fprintf(&b, "   %-16s %-24s %10s  %s  %s\n",
			truncStr(o.UserName, 16),
			truncStr(o.ProductName, 24),
			priceStyle.Render(formatPrice(o.TotalPrice)),
			StatusStyle(o.Status).Render(o.Status),
			metaStyle.Render(formatTime(o.CreatedAt)))
	}

	b.WriteString("\n " + sectionHeaderStyle.Render("Low stock") + "\n")
	if len(s.LowStockProducts) == 0 {
		b.WriteString("   " + dimStyle.Render("all products are stocked") + "\n")
	}
	for _, p := range s.LowStockProducts {
		fmt.Fprintf(&b, "   %-28s %s\n", truncStr(p.Name, 28), stockStyle(p.Stock).Render(fmt.Sprintf("%d left", p.Stock)))
	}
	return b.String()
}

type logsTab int

const (
	logsChat logsTab = iota
	logsDownload
)

type logsLoadedMsg struct {
	tab       logsTab
	chat      []domain.ChatLog
	downloads []domain.DownloadLog
	err       error
}

type logsModel struct {
	api       API
	tab       logsTab
	chat      []domain.ChatLog
	downloads []domain.DownloadLog
	loading   bool
	err       string
}

func newLogsModel(api API) logsModel {
	return logsModel{api: api}
}

func (m logsModel) open() (logsModel, tea.Cmd) {
	m.loading = true
	m.err = ""
	api, tab := m.api, m.tab
	return m, func() tea.Msg {
		ctx := context.Background()
		if tab == logsDownload {
			logs, err := api.DownloadLogs(ctx)
			return logsLoadedMsg{tab: tab, downloads: logs, err: err}
		}
		logs, err := api.ChatLogs(ctx)
		return logsLoadedMsg{tab: tab, chat: logs, err: err}
	}
}

func (m logsModel) Update(msg tea.Msg) (logsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case logsLoadedMsg:
		if msg.tab != m.tab {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
			return m, nil
		}
		m.err = ""
		if msg.tab == logsDownload {
			m.downloads = msg.downloads
		} else {
			m.chat = msg.chat
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "t", "tab":
			if m.tab == logsChat {
				m.tab = logsDownload
			} else {
				m.tab = logsChat
			}
			return m.open()
		case "r":
			return m.open()
		}
	}
	return m, nil
}

func (m logsModel) View() string {
	var b strings.Builder
	chat, dl := dimStyle.Render("chat"), dimStyle.Render("downloads")
	if m.tab == logsChat {
		chat = selectedStyle.Underline(true).Render("chat")
	} else {
		dl = selectedStyle.Underline(true).Render("downloads")
	}
	b.WriteString(" " + chat + "  " + dl + "\n\n")

	switch {
	case m.loading:
		b.WriteString(" " + dimStyle.Render("loading logs..."))
	case m.err != "":
		b.WriteString(" " + errStyle.Render("error: "+m.err))
	case m.tab == logsChat:
		if len(m.chat) == 0 {
			b.WriteString(" " + dimStyle.Render("no chat logs"))
		}
		for _, l := range m.chat {
			fmt.Fprintf(&b, " %s %s %s\n",
				metaStyle.Render(fmt.Sprintf("%-10s", formatTime(l.CreatedAt))),
				accentStyle.Render(truncStr(l.UserName, 16)),
				normalStyle.Render(oneLine(l.Message)))
		}
	default:
		if len(m.downloads) == 0 {
			b.WriteString(" " + dimStyle.Render("no download logs"))
		}
		for _, l := range m.downloads {
			fmt.Fprintf(&b, " %s %s %s\n",
				metaStyle.Render(fmt.Sprintf("%-10s", formatTime(l.DownloadedAt))),
				accentStyle.Render(truncStr(l.UserName, 16)),
				normalStyle.Render(l.FileName))
		}
	}
	return b.String()
}
