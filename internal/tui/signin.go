package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/shopfront/internal/guard"
)

type signInMode int

const (
	modeLogin signInMode = iota
	modeRegister
)

const (
	labelName     = "name"
	labelEmail    = "email"
	labelPassword = "password"
	labelConfirm  = "confirm"
)

// signedInMsg reports the end of a sign-in or sign-up call.
type signedInMsg struct {
	admin bool
	err   error
}

// signInModel is the combined login / register view.
type signInModel struct {
	auth     Auth
	mode     signInMode
	login    form
	register form
	pending  bool
	status   string
}

func newSignInModel(a Auth) signInModel {
	return signInModel{
		auth: a,
		login: newForm(
			field{label: labelEmail},
			field{label: labelPassword, secret: true},
		),
		register: newForm(
			field{label: labelName},
			field{label: labelEmail},
			field{label: labelPassword, secret: true},
			field{label: labelConfirm, secret: true},
		),
	}
}

func (m signInModel) open() signInModel {
	if !m.pending {
		m.status = ""
	}
	return m
}

func (m signInModel) Update(msg tea.Msg) (signInModel, tea.Cmd) {
	switch msg := msg.(type) {
	case signedInMsg:
		m.pending = false
		if msg.err != nil {
			m.status = errText(msg.err)
			return m, nil
		}
		m.status = ""
		m.login.reset()
		m.register.reset()
		return m, tea.Batch(
			func() tea.Msg { return sessionChangedMsg{} },
			navigate(guard.PathHome),
		)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, navigate(guard.PathHome)
		case "ctrl+t":
			if m.mode == modeLogin {
				m.mode = modeRegister
			} else {
				m.mode = modeLogin
			}
			m.status = ""
			return m, nil
		}
		var submit bool
		if m.mode == modeRegister {
			submit = m.register.handle(msg.String())
		} else {
			submit = m.login.handle(msg.String())
		}
		if submit {
			return m.submit()
		}
	}
	return m, nil
}

func (m signInModel) submit() (signInModel, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	a := m.auth

	if m.mode == modeRegister {
		f := m.register
		if err := a.ConfirmPassword(f.value(labelPassword), f.value(labelConfirm)); err != nil {
			m.status = errText(err)
			return m, nil
		}
		m.pending = true
		m.status = ""
		name, email, password := f.value(labelName), f.value(labelEmail), f.value(labelPassword)
		return m, func() tea.Msg {
			_, err := a.Register(context.Background(), name, email, password)
			return signedInMsg{err: err}
		}
	}

	m.pending = true
	m.status = ""
	email, password := m.login.value(labelEmail), m.login.value(labelPassword)
	return m, func() tea.Msg {
		_, err := a.Login(context.Background(), email, password)
		return signedInMsg{err: err}
	}
}

func (m signInModel) View() string {
	var b strings.Builder
	if m.mode == modeRegister {
		b.WriteString(" " + selectedStyle.Render("Create an account") + "  " + metaStyle.Render("ctrl+t to sign in instead") + "\n\n")
		b.WriteString(m.register.View())
	} else {
		b.WriteString(" " + selectedStyle.Render("Sign in") + "  " + metaStyle.Render("ctrl+t to create an account") + "\n\n")
		b.WriteString(m.login.View())
	}
	b.WriteString("\n")
	switch {
	case m.pending:
		b.WriteString(" " + dimStyle.Render("signing in..."))
	case m.status != "":
		b.WriteString(" " + errStyle.Render(m.status))
	}
	return b.String()
}

// adminLoginModel is the admin sign-in view. Non-admin accounts are
// refused and their session is not kept.
type adminLoginModel struct {
	auth    Auth
	form    form
	pending bool
	status  string
}

func newAdminLoginModel(a Auth) adminLoginModel {
	return adminLoginModel{
		auth: a,
		form: newForm(
			field{label: labelEmail},
			field{label: labelPassword, secret: true},
		),
	}
}

func (m adminLoginModel) open() adminLoginModel {
	if !m.pending {
		m.status = ""
	}
	return m
}

func (m adminLoginModel) Update(msg tea.Msg) (adminLoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case signedInMsg:
		m.pending = false
		if msg.err != nil {
			m.status = errText(msg.err)
			m.form.set(labelPassword, "")
			return m, nil
		}
		m.status = ""
		m.form.reset()
		return m, tea.Batch(
			func() tea.Msg { return sessionChangedMsg{} },
			navigate(guard.PathAdminDashboard),
		)

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return m, navigate(guard.PathHome)
		}
		if m.form.handle(msg.String()) && !m.pending {
			m.pending = true
			m.status = ""
			a := m.auth
			email, password := m.form.value(labelEmail), m.form.value(labelPassword)
			return m, func() tea.Msg {
				_, err := a.LoginAdmin(context.Background(), email, password)
				return signedInMsg{admin: true, err: err}
			}
		}
	}
	return m, nil
}

func (m adminLoginModel) View() string {
	var b strings.Builder
	b.WriteString(" " + adminBadgeStyle.Render("Administrator sign in") + "\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")
	switch {
	case m.pending:
		b.WriteString(" " + dimStyle.Render("signing in..."))
	case m.status != "":
		b.WriteString(" " + errStyle.Render(m.status))
	}
	return b.String()
}
