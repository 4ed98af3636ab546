package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/naveenspark/shopfront/internal/guard"
	"github.com/naveenspark/shopfront/pkg/domain"
)

type productsLoadedMsg struct {
	products []domain.Product
	err      error
}

// inventoryModel is the public catalog with a category filter.
type inventoryModel struct {
	api        API
	products   []domain.Product
	categories []string // "" first, meaning all
	category   int
	cursor     int
	loading    bool
	err        string
	status     string
}

func newInventoryModel(api API) inventoryModel {
	return inventoryModel{api: api, categories: []string{""}}
}

func (m inventoryModel) open() (inventoryModel, tea.Cmd) {
	m.loading = true
	m.status = ""
	api := m.api
	return m, func() tea.Msg {
		products, err := api.ListProducts(context.Background())
		return productsLoadedMsg{products: products, err: err}
	}
}

// productCategories lists distinct categories in sorted order, with ""
// (all) first.
func productCategories(products []domain.Product) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return append([]string{""}, out...)
}

func (m inventoryModel) visible() []domain.Product {
	cat := m.categories[m.category]
	if cat == "" {
		return m.products
	}
	var out []domain.Product
	for _, p := range m.products {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

func (m inventoryModel) Update(msg tea.Msg) (inventoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
			return m, nil
		}
		m.err = ""
		m.products = msg.products
		cur := m.categories[m.category]
		m.categories = productCategories(msg.products)
		m.category = 0
		for i, c := range m.categories {
			if c == cur {
				m.category = i
			}
		}
		if m.cursor >= len(m.visible()) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		items := m.visible()
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(items)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "c", "tab":
			m.category = (m.category + 1) % len(m.categories)
			m.cursor = 0
		case "r":
			return m.open()
		case "enter":
			if m.cursor >= len(items) {
				return m, nil
			}
			p := items[m.cursor]
			if !p.InStock() {
				m.status = p.Name + " is out of stock"
				return m, nil
			}
			return m, func() tea.Msg {
				return navigateMsg{path: guard.PathCheckout, product: &p}
			}
		}
	}
	return m, nil
}

func (m inventoryModel) View() string {
	if m.loading && len(m.products) == 0 {
		return " " + dimStyle.Render("loading products...")
	}
	if m.err != "" {
		return " " + errStyle.Render("error: "+m.err)
	}

	var b strings.Builder
	var cats []string
	for i, c := range m.categories {
		name := c
		if name == "" {
			name = "all"
		}
		if i == m.category {
			cats = append(cats, selectedStyle.Underline(true).Render(name))
		} else {
			cats = append(cats, dimStyle.Render(name))
		}
	}
	b.WriteString(" " + strings.Join(cats, "  ") + "\n\n")

	items := m.visible()
	if len(items) == 0 {
		b.WriteString(" " + dimStyle.Render("no products"))
	}
	for i, p := range items {
		stock := stockStyle(p.Stock).Render(fmt.Sprintf("%d left", p.Stock))
		if !p.InStock() {
			stock = stockStyle(0).Render("sold out")
		}
		line := fmt.Sprintf("%-28s %10s  %s", truncStr(p.Name, 28), priceStyle.Render(formatPrice(p.Price)), stock)
		if i == m.cursor {
			b.WriteString(" " + accentStyle.Render(">") + " " + selectedStyle.Render(line) + "\n")
			if p.Description != "" {
				b.WriteString("   " + dimStyle.Render(truncStr(oneLine(p.Description), 70)) + "\n")
			}
		} else {
			b.WriteString("   " + normalStyle.Render(line) + "\n")
		}
	}
	if m.status != "" {
		b.WriteString("\n " + warnStyle.Render(m.status))
	}
	return b.String()
}

type orderPlacedMsg struct {
	order *domain.Order
	err   error
}

// checkoutModel orders one product. The idempotency key lives for one
// checkout, so resubmitting after a failure reuses it.
type checkoutModel struct {
	api      API
	product  *domain.Product
	quantity int
	key      string
	pending  bool
	placed   *domain.Order
	status   string
}

func newCheckoutModel(api API) checkoutModel {
	return checkoutModel{api: api}
}

func (m checkoutModel) open(p *domain.Product) (checkoutModel, tea.Cmd) {
	if p == nil {
		return m, navigate(guard.PathInventory)
	}
	m.product = p
	m.quantity = domain.ClampQuantity(1, p.Stock)
	m.key = uuid.NewString()
	m.pending = false
	m.placed = nil
	m.status = ""
	return m, nil
}

func (m checkoutModel) total() float64 {
	if m.product == nil {
		return 0
	}
	return m.product.Price * float64(m.quantity)
}

func (m checkoutModel) Update(msg tea.Msg) (checkoutModel, tea.Cmd) {
	switch msg := msg.(type) {
	case orderPlacedMsg:
		m.pending = false
		if msg.err != nil {
			m.status = "order failed: " + errText(msg.err)
			return m, nil
		}
		m.placed = msg.order
		if m.placed == nil {
			m.placed = &domain.Order{}
		}
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		if m.product == nil {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, navigate(guard.PathInventory)
		case "+", "=", "k", "up", "l", "right":
			if m.placed != nil || m.pending {
				return m, nil
			}
			want := m.quantity + 1
			m.quantity = domain.ClampQuantity(want, m.product.Stock)
			if m.quantity < want {
				m.status = fmt.Sprintf("only %d left in stock", m.product.Stock)
			} else {
				m.status = ""
			}
		case "-", "j", "down", "h", "left":
			if m.placed != nil || m.pending {
				return m, nil
			}
			m.quantity = domain.ClampQuantity(m.quantity-1, m.product.Stock)
			m.status = ""
		case "enter":
			if m.placed != nil {
				return m, navigate(guard.PathInventory)
			}
			return m.submit()
		}
	}
	return m, nil
}

func (m checkoutModel) submit() (checkoutModel, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	m.pending = true
	m.status = ""
	api, key := m.api, m.key
	req := domain.OrderRequest{
		ProductID:  m.product.ID,
		Quantity:   m.quantity,
		TotalPrice: m.total(),
	}
	return m, func() tea.Msg {
		order, err := api.CreateOrder(context.Background(), req, key)
		return orderPlacedMsg{order: order, err: err}
	}
}

func (m checkoutModel) View() string {
	if m.product == nil {
		return " " + dimStyle.Render("pick a product in the inventory first")
	}
	p := m.product
	var b strings.Builder
	b.WriteString(" " + selectedStyle.Render("Checkout") + "\n\n")
	fmt.Fprintf(&b, "   %s  %s\n", normalStyle.Render(p.Name), metaStyle.Render(p.Category))
	fmt.Fprintf(&b, "   %s %s\n", dimStyle.Render("unit price"), priceStyle.Render(formatPrice(p.Price)))
	fmt.Fprintf(&b, "   %s %s\n", dimStyle.Render("in stock  "), stockStyle(p.Stock).Render(fmt.Sprintf("%d", p.Stock)))
	fmt.Fprintf(&b, "   %s %s %d %s\n", dimStyle.Render("quantity  "), metaStyle.Render("-"), m.quantity, metaStyle.Render("+"))
	fmt.Fprintf(&b, "   %s %s\n\n", dimStyle.Render("total     "), priceStyle.Render(formatPrice(m.total())))

	switch {
	case m.placed != nil:
		b.WriteString(" " + okStyle.Render("order placed") + " " + metaStyle.Render(m.placed.ID) + "\n")
		b.WriteString(" " + dimStyle.Render("enter to return to the inventory"))
	case m.pending:
		b.WriteString(" " + dimStyle.Render("placing order..."))
	default:
		b.WriteString(" " + inputPromptStyle.Render("enter") + " " + dimStyle.Render("to place the order"))
		if m.status != "" {
			b.WriteString("\n " + warnStyle.Render(m.status))
		}
	}
	return b.String()
}
