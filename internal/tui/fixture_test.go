package tui

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/shopfront/internal/auth"
	"github.com/naveenspark/shopfront/internal/guard"
	"github.com/naveenspark/shopfront/internal/kv"
	"github.com/naveenspark/shopfront/internal/session"
	"github.com/naveenspark/shopfront/pkg/client"
	"github.com/naveenspark/shopfront/pkg/domain"
)

const testPassword = "pw"

var (
	shopper = domain.User{ID: "u1", Email: "user@shop.test", Name: "Kim", Role: domain.RoleUser}
	owner   = domain.User{ID: "a1", Email: "admin@shop.test", Name: "Lee", Role: domain.RoleAdmin}
)

// fakeShop is an in-memory shop server behind the API and auth.API
// interfaces.
type fakeShop struct {
	mu        sync.Mutex
	products  []domain.Product
	posts     []domain.BlogPost
	files     []domain.FileUpload
	orders    []domain.OrderRequest
	orderKeys []string
	orderErr  error
	deleted   []string
	uploaded  []string
	listErr   error
}

func newFakeShop() *fakeShop {
	return &fakeShop{
		products: []domain.Product{
			{ID: "p1", Name: "Rice wine", Category: "makgeolli", Price: 4500, Stock: 3},
			{ID: "p2", Name: "Lager", Category: "beer", Price: 2500, Stock: 0},
			{ID: "p3", Name: "Soju", Category: "soju", Price: 1800, Stock: 40},
		},
		posts: []domain.BlogPost{
			{ID: "b1", Title: "Hello", Content: "first post", Author: "Kim", AuthorID: shopper.ID},
			{ID: "b2", Title: "Notes", Content: "admin notes", Author: "Lee", AuthorID: owner.ID},
		},
		files: []domain.FileUpload{
			{ID: "f1", FileName: "menu.pdf", FileURL: "/uploads/menu.pdf", FileSize: 2048},
		},
	}
}

func (f *fakeShop) Login(_ context.Context, email, password string) (*domain.AuthResponse, error) {
	for _, u := range []domain.User{shopper, owner} {
		if u.Email == email && password == testPassword {
			return &domain.AuthResponse{Token: "tok-" + u.ID, User: u}, nil
		}
	}
	return nil, &client.HTTPError{StatusCode: http.StatusUnauthorized, Message: "invalid credentials"}
}

func (f *fakeShop) Register(_ context.Context, name, email, _ string) (*domain.AuthResponse, error) {
	if email == shopper.Email || email == owner.Email {
		return nil, &client.HTTPError{StatusCode: http.StatusConflict, Message: "email already registered"}
	}
	return &domain.AuthResponse{Token: "tok-new", User: domain.User{ID: "u9", Name: name, Email: email, Role: domain.RoleUser}}, nil
}

func (f *fakeShop) ListProducts(context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Product(nil), f.products...), f.listErr
}

func (f *fakeShop) ListPosts(context.Context) ([]domain.BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.BlogPost(nil), f.posts...), f.listErr
}

func (f *fakeShop) GetPost(_ context.Context, id string) (*domain.BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &client.HTTPError{StatusCode: http.StatusNotFound, Message: "post not found"}
}

func (f *fakeShop) CreatePost(_ context.Context, in domain.BlogPostInput) (*domain.BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := domain.BlogPost{ID: fmt.Sprintf("b%d", len(f.posts)+1), Title: in.Title, Content: in.Content}
	f.posts = append(f.posts, p)
	return &p, nil
}

func (f *fakeShop) UpdatePost(_ context.Context, id string, in domain.BlogPostInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts[i].Title, f.posts[i].Content = in.Title, in.Content
			return nil
		}
	}
	return &client.HTTPError{StatusCode: http.StatusNotFound}
}

func (f *fakeShop) DeletePost(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeShop) CreateOrder(_ context.Context, in domain.OrderRequest, key string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderKeys = append(f.orderKeys, key)
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	f.orders = append(f.orders, in)
	return &domain.Order{ID: "o1", ProductID: in.ProductID, Quantity: in.Quantity, TotalPrice: in.TotalPrice, Status: domain.OrderPending}, nil
}

func (f *fakeShop) DashboardStats(context.Context) (*domain.DashboardStats, error) {
	return &domain.DashboardStats{TotalUsers: 2, TotalProducts: 3, TotalOrders: 1, TotalFiles: 1,
		LowStockProducts: []domain.LowStockProduct{{ID: "p1", Name: "Rice wine", Stock: 3}}}, nil
}

func (f *fakeShop) AdminListProducts(ctx context.Context) ([]domain.Product, error) {
	return f.ListProducts(ctx)
}

func (f *fakeShop) CreateProduct(_ context.Context, in domain.ProductInput) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := domain.Product{ID: fmt.Sprintf("p%d", len(f.products)+1), Name: in.Name, Category: in.Category, Price: in.Price, Stock: in.Stock}
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeShop) UpdateProduct(_ context.Context, id string, in domain.ProductInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].Name, f.products[i].Price, f.products[i].Stock = in.Name, in.Price, in.Stock
			return nil
		}
	}
	return &client.HTTPError{StatusCode: http.StatusNotFound}
}

func (f *fakeShop) DeleteProduct(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeShop) ListFiles(context.Context) ([]domain.FileUpload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.FileUpload(nil), f.files...), nil
}

func (f *fakeShop) UploadFile(_ context.Context, name string, r io.Reader) (*domain.FileUpload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, name)
	return &domain.FileUpload{ID: "f2", FileName: name, FileSize: int64(len(data))}, nil
}

func (f *fakeShop) DeleteFile(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeShop) ChatLogs(context.Context) ([]domain.ChatLog, error) {
	return []domain.ChatLog{{ID: "c1", UserName: "Kim", Message: "hi there"}}, nil
}

func (f *fakeShop) DownloadLogs(context.Context) ([]domain.DownloadLog, error) {
	return []domain.DownloadLog{{ID: "d1", UserName: "Lee", FileName: "menu.pdf"}}, nil
}

type harness struct {
	shop *fakeShop
	auth *auth.Service
	app  App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	shop := newFakeShop()
	svc := auth.NewService(shop, session.NewStore(kv.NewMemoryStorage()))
	app := NewApp(shop, svc, guard.New(guard.DefaultTable(), svc), guard.PathHome,
		WithFileBaseURL("http://shop.test/api"))
	app.width = 100
	app.height = 40
	return &harness{shop: shop, auth: svc, app: app}
}

func (h *harness) signIn(t *testing.T, u domain.User) {
	t.Helper()
	if _, err := h.auth.Login(context.Background(), u.Email, testPassword); err != nil {
		t.Fatalf("sign in %s: %v", u.Email, err)
	}
}

// send delivers msg and runs every resulting command to completion.
func (h *harness) send(msg tea.Msg) {
	model, cmd := h.app.Update(msg)
	h.app = model.(App)
	h.run(cmd)
}

func (h *harness) run(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 100; steps++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch m := msg.(type) {
		case nil, tea.QuitMsg:
			continue
		case tea.BatchMsg:
			queue = append(queue, m...)
			continue
		}
		model, next := h.app.Update(msg)
		h.app = model.(App)
		queue = append(queue, next)
	}
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) goTo(path string) {
	h.send(navigateMsg{path: path})
}

func (h *harness) at() string {
	return h.app.route.Route.Path
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}
