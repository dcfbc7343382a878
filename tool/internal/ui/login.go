package ui

import (
	"errors"
	"strings"

	"banglaixanh/network"
	"banglaixanh/tool/internal/auth"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type LoginModel struct {
	Session    *Session
	Inputs     []textinput.Model
	FocusIdx   int
	Err        error
	Submitting bool
}

const (
	inputUsername = iota
	inputPassword
)

// loginResultMsg carries the answer of the login request.
type loginResultMsg struct {
	Token string
	Err   error
}

func NewLoginModel(s *Session) LoginModel {
	inputs := make([]textinput.Model, 2)

	inputs[inputUsername] = textinput.New()
	inputs[inputUsername].Placeholder = "admin"
	inputs[inputUsername].Prompt = "Tài khoản: "
	inputs[inputUsername].SetValue(s.Config.Username)
	inputs[inputUsername].Focus()

	inputs[inputPassword] = textinput.New()
	inputs[inputPassword].Placeholder = "mật khẩu"
	inputs[inputPassword].EchoMode = textinput.EchoPassword
	inputs[inputPassword].Prompt = "Mật khẩu: "

	m := LoginModel{Session: s, Inputs: inputs}
	if s.Config.Username != "" {
		m.focus(inputPassword)
	}
	return m
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.Submitting = false
		m.Err = loginError(msg.Err)
		if msg.Err == nil {
			m.Inputs[inputPassword].SetValue("")
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if m.FocusIdx == len(m.Inputs)-1 {
				return m.submit()
			}
			m.focus(m.FocusIdx + 1)
			return m, nil
		case tea.KeyTab, tea.KeyDown:
			m.focus((m.FocusIdx + 1) % len(m.Inputs))
			return m, nil
		case tea.KeyShiftTab, tea.KeyUp:
			m.focus((m.FocusIdx + len(m.Inputs) - 1) % len(m.Inputs))
			return m, nil
		}
	}

	cmds := make([]tea.Cmd, len(m.Inputs))
	for i := range m.Inputs {
		m.Inputs[i], cmds[i] = m.Inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m *LoginModel) focus(i int) {
	m.Inputs[m.FocusIdx].Blur()
	m.FocusIdx = i
	m.Inputs[m.FocusIdx].Focus()
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	if m.Submitting {
		return m, nil
	}
	username := strings.TrimSpace(m.Inputs[inputUsername].Value())
	password := m.Inputs[inputPassword].Value()
	if username == "" || password == "" {
		m.Err = errors.New("vui lòng nhập tài khoản và mật khẩu")
		return m, nil
	}
	m.Submitting = true
	m.Err = nil
	ctx := m.Session.Context()
	api := m.Session.API
	return m, func() tea.Msg {
		token, err := auth.Login(ctx, api, username, password)
		return loginResultMsg{Token: token, Err: err}
	}
}

func loginError(err error) error {
	if err == nil {
		return nil
	}
	if msg := network.ServerMessage(err); msg != "" {
		return errors.New(msg)
	}
	return errors.New("đăng nhập thất bại: " + err.Error())
}

func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Bằng Lái Xanh - Đăng nhập") + "\n\n")

	for i := range m.Inputs {
		b.WriteString(m.Inputs[i].View())
		if i < len(m.Inputs)-1 {
			b.WriteRune('\n')
		}
	}

	b.WriteString("\n\n")
	if m.Submitting {
		b.WriteString(blurredStyle.Render("Đang đăng nhập..."))
	} else {
		b.WriteString(blurredStyle.Render("Tab để chuyển ô, Enter để đăng nhập"))
	}

	if m.Err != nil {
		b.WriteString("\n\n")
		b.WriteString(errorMessageStyle(m.Err.Error()))
	}

	return b.String()
}
