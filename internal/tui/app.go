package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/naveenspark/shopfront/internal/guard"
	"github.com/naveenspark/shopfront/internal/session"
	"github.com/naveenspark/shopfront/pkg/domain"
)

// API is the shop API surface the views call.
type API interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListPosts(ctx context.Context) ([]domain.BlogPost, error)
	GetPost(ctx context.Context, id string) (*domain.BlogPost, error)
	CreatePost(ctx context.Context, in domain.BlogPostInput) (*domain.BlogPost, error)
	UpdatePost(ctx context.Context, id string, in domain.BlogPostInput) error
	DeletePost(ctx context.Context, id string) error
	CreateOrder(ctx context.Context, in domain.OrderRequest, idempotencyKey string) (*domain.Order, error)

	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	AdminListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in domain.ProductInput) error
	DeleteProduct(ctx context.Context, id string) error
	ListFiles(ctx context.Context) ([]domain.FileUpload, error)
	UploadFile(ctx context.Context, fileName string, r io.Reader) (*domain.FileUpload, error)
	DeleteFile(ctx context.Context, id string) error
	ChatLogs(ctx context.Context) ([]domain.ChatLog, error)
	DownloadLogs(ctx context.Context) ([]domain.DownloadLog, error)
}

// Auth signs in and out and answers the guard's session questions.
type Auth interface {
	guard.SessionState
	Login(ctx context.Context, email, password string) (*session.Session, error)
	LoginAdmin(ctx context.Context, email, password string) (*session.Session, error)
	Register(ctx context.Context, name, email, password string) (*session.Session, error)
	ConfirmPassword(password, confirm string) error
	Logout(ctx context.Context)
	CurrentUser(ctx context.Context) *domain.User
}

// navigateMsg asks the App to go to a path. Every view change goes
// through the guard. product carries the checkout selection.
type navigateMsg struct {
	path    string
	product *domain.Product
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// sessionChangedMsg is sent after a sign-in or sign-out so the header
// re-reads the current user.
type sessionChangedMsg struct{}

// App is the root Bubbletea model.
type App struct {
	api   API
	auth  Auth
	guard *guard.Guard

	route guard.Decision
	user  *domain.User

	home       homeModel
	signIn     signInModel
	blog       blogModel
	post       postModel
	inventory  inventoryModel
	checkout   checkoutModel
	adminLogin adminLoginModel
	dashboard  dashboardModel
	adminInv   adminInventoryModel
	files      filesModel
	logs       logsModel

	gPending bool
	helpOpen bool
	width    int
	height   int
	frame    int // logo shimmer animation frame
}

// Option configures an App.
type Option func(*App)

// WithFileBaseURL resolves server-relative file URLs before they are
// opened in a browser.
func WithFileBaseURL(u string) Option {
	return func(a *App) { a.files.baseURL = u }
}

// NewApp creates the TUI. start is the first path to navigate to.
func NewApp(api API, a Auth, g *guard.Guard, start string, opts ...Option) App {
	app := App{
		api:        api,
		auth:       a,
		guard:      g,
		home:       newHomeModel(api),
		signIn:     newSignInModel(a),
		blog:       newBlogModel(api),
		post:       newPostModel(api),
		inventory:  newInventoryModel(api),
		checkout:   newCheckoutModel(api),
		adminLogin: newAdminLoginModel(a),
		dashboard:  newDashboardModel(api),
		adminInv:   newAdminInventoryModel(api),
		files:      newFilesModel(api),
		logs:       newLogsModel(api),
	}
	for _, opt := range opts {
		opt(&app)
	}
	if start == "" {
		start = guard.PathHome
	}
	app.route = guard.Decision{Requested: start}
	return app
}

func (a App) Init() tea.Cmd {
	start := a.route.Requested
	return tea.Batch(shimmerTickCmd(), func() tea.Msg { return sessionChangedMsg{} }, navigate(start))
}

// goTo resolves path through the guard and opens the view it lands on.
func (a App) goTo(path string, product *domain.Product) (App, tea.Cmd) {
	d := a.guard.Navigate(context.Background(), path)
	a.route = d
	a.user = a.auth.CurrentUser(context.Background())
	if d.Redirected {
		log.Debugf("tui: %s redirected to %s", path, d.Route.Path)
	}

	var cmd tea.Cmd
	switch d.Route.Path {
	case guard.PathHome:
		a.home, cmd = a.home.open()
	case guard.PathSignIn:
		a.signIn = a.signIn.open()
	case guard.PathBlog:
		a.blog, cmd = a.blog.open()
	case guard.PathBlogPost:
		a.post, cmd = a.post.open(d.Param("id"), a.user)
	case guard.PathInventory:
		a.inventory, cmd = a.inventory.open()
	case guard.PathCheckout:
		a.checkout, cmd = a.checkout.open(product)
	case guard.PathAdminLogin:
		a.adminLogin = a.adminLogin.open()
	case guard.PathAdminDashboard:
		a.dashboard, cmd = a.dashboard.open()
	case guard.PathAdminInventory:
		a.adminInv, cmd = a.adminInv.open()
	case guard.PathAdminFiles:
		a.files, cmd = a.files.open()
	case guard.PathAdminLogs:
		a.logs, cmd = a.logs.open()
	}
	return a, cmd
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case navigateMsg:
		return a.goTo(msg.path, msg.product)

	case sessionChangedMsg:
		a.user = a.auth.CurrentUser(context.Background())
		return a, nil

	case signedInMsg, productSavedMsg, productDeletedMsg,
		fileUploadedMsg, fileDeletedMsg, postSavedMsg, postDeletedMsg:
		return a.settle(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.helpOpen {
			switch msg.String() {
			case "?", "esc":
				a.helpOpen = false
			case "q":
				return a, tea.Quit
			}
			return a, nil
		}
		if !a.isEditing() {
			if model, cmd, ok := a.globalKey(msg.String()); ok {
				return model, cmd
			}
		}
	}

	var cmd tea.Cmd
	switch a.route.Route.Path {
	case guard.PathHome:
		a.home, cmd = a.home.Update(msg)
	case guard.PathSignIn:
		a.signIn, cmd = a.signIn.Update(msg)
	case guard.PathBlog:
		a.blog, cmd = a.blog.Update(msg)
	case guard.PathBlogPost:
		a.post, cmd = a.post.Update(msg)
	case guard.PathInventory:
		a.inventory, cmd = a.inventory.Update(msg)
	case guard.PathCheckout:
		a.checkout, cmd = a.checkout.Update(msg)
	case guard.PathAdminLogin:
		a.adminLogin, cmd = a.adminLogin.Update(msg)
	case guard.PathAdminDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case guard.PathAdminInventory:
		a.adminInv, cmd = a.adminInv.Update(msg)
	case guard.PathAdminFiles:
		a.files, cmd = a.files.Update(msg)
	case guard.PathAdminLogs:
		a.logs, cmd = a.logs.Update(msg)
	}
	return a, cmd
}

// settle hands a write result to the view that started it, even when the
// user has moved on, so its pending flag clears. Follow-up commands only run
// while that view is still showing, except that a sign-in always refreshes
// the header.
func (a App) settle(msg tea.Msg) (App, tea.Cmd) {
	var (
		cmd   tea.Cmd
		owner string
	)
	switch msg := msg.(type) {
	case signedInMsg:
		if msg.admin {
			owner = guard.PathAdminLogin
			a.adminLogin, cmd = a.adminLogin.Update(msg)
		} else {
			owner = guard.PathSignIn
			a.signIn, cmd = a.signIn.Update(msg)
		}
		if msg.err == nil && a.route.Route.Path != owner {
			return a, func() tea.Msg { return sessionChangedMsg{} }
		}
	case productSavedMsg, productDeletedMsg:
		owner = guard.PathAdminInventory
		a.adminInv, cmd = a.adminInv.Update(msg)
	case fileUploadedMsg, fileDeletedMsg:
		owner = guard.PathAdminFiles
		a.files, cmd = a.files.Update(msg)
	case postSavedMsg, postDeletedMsg:
		owner = guard.PathBlogPost
		a.post, cmd = a.post.Update(msg)
	}
	if a.route.Route.Path != owner {
		return a, nil
	}
	return a, cmd
}

// gJumps are the second key of a "g" jump.
var gJumps = map[string]string{
	"h": guard.PathHome,
	"b": guard.PathBlog,
	"c": guard.PathCheckout,
	"a": guard.PathAdminLogin,
	"d": guard.PathAdminDashboard,
	"i": guard.PathAdminInventory,
	"f": guard.PathAdminFiles,
	"l": guard.PathAdminLogs,
}

func (a App) globalKey(key string) (App, tea.Cmd, bool) {
	if a.gPending {
		a.gPending = false
		if path, ok := gJumps[key]; ok {
			m, cmd := a.goTo(path, nil)
			return m, cmd, true
		}
		return a, nil, true
	}

	switch key {
	case "q":
		return a, tea.Quit, true
	case "?":
		a.helpOpen = true
		return a, nil, true
	case "g":
		a.gPending = true
		return a, nil, true
	case "1":
		m, cmd := a.goTo(guard.PathHome, nil)
		return m, cmd, true
	case "2":
		m, cmd := a.goTo(guard.PathBlog, nil)
		return m, cmd, true
	case "3":
		m, cmd := a.goTo(guard.PathInventory, nil)
		return m, cmd, true
	case "4":
		m, cmd := a.goTo(guard.PathSignIn, nil)
		return m, cmd, true
	case "L":
		return a.logout()
	}
	return a, nil, false
}

// logout clears the session and re-evaluates the current path; a
// protected view falls back to its sign-in or home.
func (a App) logout() (App, tea.Cmd, bool) {
	if !a.auth.IsAuthenticated(context.Background()) {
		return a, nil, true
	}
	wasAdminArea := strings.HasPrefix(a.route.Route.Path, "/admin/")
	a.auth.Logout(context.Background())
	a.user = nil
	target := guard.PathHome
	if wasAdminArea {
		target = guard.PathAdminLogin
	}
	m, cmd := a.goTo(target, nil)
	return m, cmd, true
}

func (a App) isEditing() bool {
	switch a.route.Route.Path {
	case guard.PathSignIn:
		return true
	case guard.PathAdminLogin:
		return true
	case guard.PathBlogPost:
		return a.post.editing()
	case guard.PathAdminInventory:
		return a.adminInv.editing()
	case guard.PathAdminFiles:
		return a.files.editing()
	}
	return false
}

type tabEntry struct {
	key  string
	name string
	path string
}

var (
	userTabs = []tabEntry{
		{"1", "Home", guard.PathHome},
		{"2", "Blog", guard.PathBlog},
		{"3", "Inventory", guard.PathInventory},
		{"4", "Sign in", guard.PathSignIn},
	}
	adminTabs = []tabEntry{
		{"gd", "Dashboard", guard.PathAdminDashboard},
		{"gi", "Inventory", guard.PathAdminInventory},
		{"gf", "Files", guard.PathAdminFiles},
		{"gl", "Logs", guard.PathAdminLogs},
	}
)

func (a App) header() string {
	logo := renderShimmerLogo(a.frame)
	pad := (a.width - lipgloss.Width(logo)) / 2
	if pad < 0 {
		pad = 0
	}
	header := strings.Repeat(" ", pad) + logo

	var who string
	if a.user != nil {
		who = normalStyle.Render(a.user.Name) + " " + metaStyle.Render(a.user.Email)
		if a.user.IsAdmin() {
			who += " " + adminBadgeStyle.Render("[admin]")
		}
	} else {
		who = dimStyle.Render("not signed in")
	}
	whoPad := (a.width - lipgloss.Width(who)) / 2
	if whoPad < 0 {
		whoPad = 0
	}
	return header + "\n" + strings.Repeat(" ", whoPad) + who
}

func (a App) tabBar() string {
	tabs := userTabs
	if strings.HasPrefix(a.route.Route.Path, "/admin/") && a.route.Route.Path != guard.PathAdminLogin {
		tabs = adminTabs
	}
	colWidth := a.width / len(tabs)
	var bar strings.Builder
	for _, t := range tabs {
		name := t.name
		if t.path == guard.PathSignIn && a.user != nil {
			name = "Sign out (L)"
		}
		var label string
		if t.path == a.route.Route.Path || (t.path == guard.PathBlog && a.route.Route.Path == guard.PathBlogPost) {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(name)
		}
		w := lipgloss.Width(label)
		left := (colWidth - w) / 2
		if left < 0 {
			left = 0
		}
		right := colWidth - w - left
		if right < 0 {
			right = 0
		}
		bar.WriteString(strings.Repeat(" ", left) + label + strings.Repeat(" ", right))
	}
	return bar.String()
}

func (a App) View() string {
	var body, help string
	switch a.route.Route.Path {
	case guard.PathHome:
		body = a.home.View()
		help = helpLine("1-4", "tabs", "enter", "browse", "?", "help", "q", "quit")
	case guard.PathSignIn:
		body = a.signIn.View()
		help = helpLine("tab", "next", "ctrl+t", "login/register", "enter", "submit", "esc", "back")
	case guard.PathBlog:
		body = a.blog.View()
		help = helpLine("j/k", "nav", "enter", "read", "n", "write", "r", "refresh", "q", "quit")
	case guard.PathBlogPost:
		body = a.post.View()
		help = a.post.helpKeys()
	case guard.PathInventory:
		body = a.inventory.View()
		help = helpLine("j/k", "nav", "c", "category", "enter", "buy", "r", "refresh", "q", "quit")
	case guard.PathCheckout:
		body = a.checkout.View()
		help = helpLine("+/-", "quantity", "enter", "order", "esc", "inventory")
	case guard.PathAdminLogin:
		body = a.adminLogin.View()
		help = helpLine("tab", "next", "enter", "sign in", "esc", "home")
	case guard.PathAdminDashboard:
		body = a.dashboard.View()
		help = helpLine("gi", "inventory", "gf", "files", "gl", "logs", "r", "refresh", "L", "sign out")
	case guard.PathAdminInventory:
		body = a.adminInv.View()
		help = a.adminInv.helpKeys()
	case guard.PathAdminFiles:
		body = a.files.View()
		help = a.files.helpKeys()
	case guard.PathAdminLogs:
		body = a.logs.View()
		help = helpLine("t", "chat/download", "r", "refresh", "gd", "dashboard", "L", "sign out")
	}

	if a.helpOpen {
		body = helpView()
		help = helpLine("esc", "close")
	}
	if a.gPending {
		help = helpLine("h", "home", "b", "blog", "c", "checkout", "a", "admin", "d", "dashboard", "i", "inventory", "f", "files", "l", "logs")
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", a.header(), a.tabBar(), body, help)
}
