package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/shopfront/pkg/domain"
)

const (
	labelCategory    = "category"
	labelPrice       = "price"
	labelStock       = "stock"
	labelDescription = "description"
)

type adminProductsLoadedMsg struct {
	products []domain.Product
	err      error
}

type productSavedMsg struct {
	err error
}

type productDeletedMsg struct {
	id  string
	err error
}

// adminInventoryModel lists every product and edits them in place.
type adminInventoryModel struct {
	api           API
	products      []domain.Product
	cursor        int
	loading       bool
	err           string
	form          form
	editingID     string // "" while creating
	inForm        bool
	pending       bool
	confirmDelete bool
	status        string
}

func newAdminInventoryModel(api API) adminInventoryModel {
	return adminInventoryModel{api: api}
}

func newProductForm() form {
	return newForm(
		field{label: labelName},
		field{label: labelCategory},
		field{label: labelPrice},
		field{label: labelStock},
		field{label: labelDescription},
	)
}

func (m adminInventoryModel) open() (adminInventoryModel, tea.Cmd) {
	m.inForm = false
	m.confirmDelete = false
	return m.reload()
}

func (m adminInventoryModel) reload() (adminInventoryModel, tea.Cmd) {
	m.loading = true
	api := m.api
	return m, func() tea.Msg {
		products, err := api.AdminListProducts(context.Background())
		return adminProductsLoadedMsg{products: products, err: err}
	}
}

func (m adminInventoryModel) editing() bool {
	return m.inForm
}

// parseProductForm validates the form into a ProductInput.
func parseProductForm(f form) (domain.ProductInput, error) {
	in := domain.ProductInput{
		Name:        strings.TrimSpace(f.value(labelName)),
		Category:    strings.TrimSpace(f.value(labelCategory)),
		Description: strings.TrimSpace(f.value(labelDescription)),
	}
	if in.Name == "" {
		return in, fmt.Errorf("name is required")
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(f.value(labelPrice)), 64)
	if err != nil || price < 0 {
		return in, fmt.Errorf("price must be a non-negative number")
	}
	stock, err := strconv.Atoi(strings.TrimSpace(f.value(labelStock)))
	if err != nil || stock < 0 {
		return in, fmt.Errorf("stock must be a non-negative whole number")
	}
	in.Price = price
	in.Stock = stock
	return in, nil
}

func (m adminInventoryModel) Update(msg tea.Msg) (adminInventoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case adminProductsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
			return m, nil
		}
		m.err = ""
		m.products = msg.products
		if m.cursor >= len(m.products) {
			m.cursor = max(len(m.products)-1, 0)
		}
		return m, nil

	case productSavedMsg:
		m.pending = false
		if msg.err != nil {
			m.status = "save failed: " + errText(msg.err)
			return m, nil
		}
		m.inForm = false
		m.status = "product saved"
		return m.reload()

	case productDeletedMsg:
		m.pending = false
		if msg.err != nil {
			m.status = "delete failed: " + errText(msg.err)
			return m, nil
		}
		m.status = "product deleted"
		kept := m.products[:0:0]
		for _, p := range m.products {
			if p.ID != msg.id {
				kept = append(kept, p)
			}
		}
		m.products = kept
		if m.cursor >= len(m.products) {
			m.cursor = max(len(m.products)-1, 0)
		}
		return m, nil

	case tea.KeyMsg:
		if m.inForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m adminInventoryModel) updateList(msg tea.KeyMsg) (adminInventoryModel, tea.Cmd) {
	key := msg.String()
	if m.confirmDelete {
		m.confirmDelete = false
		m.status = ""
		if (key != "y" && key != "d") || m.cursor >= len(m.products) || m.pending {
			return m, nil
		}
		m.pending = true
		api, id := m.api, m.products[m.cursor].ID
		return m, func() tea.Msg {
			return productDeletedMsg{id: id, err: api.DeleteProduct(context.Background(), id)}
		}
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.products)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		return m.reload()
	case "n":
		m.form = newProductForm()
		m.editingID = ""
		m.inForm = true
		m.status = ""
	case "e", "enter":
		if m.cursor >= len(m.products) {
			return m, nil
		}
		p := m.products[m.cursor]
		m.form = newProductForm()
		m.form.set(labelName, p.Name)
		m.form.set(labelCategory, p.Category)
		m.form.set(labelPrice, strconv.FormatFloat(p.Price, 'f', -1, 64))
		m.form.set(labelStock, strconv.Itoa(p.Stock))
		m.form.set(labelDescription, p.Description)
		m.editingID = p.ID
		m.inForm = true
		m.status = ""
	case "d":
		if m.cursor < len(m.products) {
			m.confirmDelete = true
			m.status = fmt.Sprintf("delete %s? y to confirm", m.products[m.cursor].Name)
		}
	}
	return m, nil
}

func (m adminInventoryModel) updateForm(msg tea.KeyMsg) (adminInventoryModel, tea.Cmd) {
	if msg.String() == "esc" {
		m.inForm = false
		m.status = ""
		return m, nil
	}
	if !m.form.handle(msg.String()) || m.pending {
		return m, nil
	}
	in, err := parseProductForm(m.form)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.pending = true
	m.status = "saving..."
	api, id := m.api, m.editingID
	return m, func() tea.Msg {
		ctx := context.Background()
		if id == "" {
			_, err := api.CreateProduct(ctx, in)
			return productSavedMsg{err: err}
		}
		return productSavedMsg{err: api.UpdateProduct(ctx, id, in)}
	}
}

func (m adminInventoryModel) helpKeys() string {
	if m.inForm {
		return helpLine("tab", "next", "ctrl+s", "save", "esc", "cancel")
	}
	return helpLine("j/k", "nav", "n", "new", "e", "edit", "d", "delete", "r", "refresh", "gd", "dashboard")
}

func (m adminInventoryModel) View() string {
	var b strings.Builder
	switch {
	case m.inForm:
		heading := "New product"
		if m.editingID != "" {
			heading = "Edit product"
		}
		b.WriteString(" " + selectedStyle.Render(heading) + "\n\n")
		b.WriteString(m.form.View())
	case m.loading && len(m.products) == 0:
		b.WriteString(" " + dimStyle.Render("loading products..."))
	case m.err != "":
		b.WriteString(" " + errStyle.Render("error: "+m.err))
	case len(m.products) == 0:
		b.WriteString(" " + dimStyle.Render("no products, press n to add one"))
	default:
		for i, p := range m.products {
			line := fmt.Sprintf("%-26s %-10s %10s  %s",
				truncStr(p.Name, 26),
				truncStr(p.Category, 10),
				formatPrice(p.Price),
				stockStyle(p.Stock).Render(fmt.Sprintf("%4d", p.Stock)))
			if i == m.cursor {
				b.WriteString(selectedRowBg.Render(" "+accentStyle.Render(">")+" "+selectedStyle.Render(line)) + "\n")
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
