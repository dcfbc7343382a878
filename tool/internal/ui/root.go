package ui

import (
	"banglaixanh/tool/internal/auth"
	"banglaixanh/tool/internal/logger"
	"banglaixanh/tool/internal/monitor"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateLogin state = iota
	stateMenu
	stateMerge
	stateSync
)

// inboxMsg is a spreadsheet that landed in the watched inbox.
type inboxMsg struct{ Path string }

type RootModel struct {
	State   state
	Session *Session
	Login   LoginModel
	Menu    MenuModel
	Merge   MergeModel
	Sync    SyncModel
	Toasts  ToastModel

	inbox  <-chan monitor.Arrival
	queued []string

	Quitting bool
	width    int
	height   int
}

// Options configure what the console starts with.
type Options struct {
	// Token skips the login screen when set.
	Token string
	// Files are attached to the merge screen the first time it opens.
	Files []string
	Inbox <-chan monitor.Arrival
}

func NewRootModel(s *Session, opts Options) RootModel {
	m := RootModel{
		State:   stateLogin,
		Session: s,
		Login:   NewLoginModel(s),
		Menu:    NewMenuModel(0, 0),
		Toasts:  NewToastModel(),
		inbox:   opts.Inbox,
		queued:  append([]string(nil), opts.Files...),
	}
	if opts.Token != "" {
		s.API.SetToken(opts.Token)
		auth.SetCurrentToken(opts.Token)
		m.State = stateMenu
	}
	return m
}

func (m RootModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitInbox()}
	if m.State == stateLogin {
		cmds = append(cmds, m.Login.Init())
	}
	return tea.Batch(cmds...)
}

func (m RootModel) waitInbox() tea.Cmd {
	ch := m.inbox
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return inboxMsg{Path: a.Path}
	}
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.Menu, _ = m.Menu.Update(msg)
		switch m.State {
		case stateMerge:
			m.Merge, _ = m.Merge.Update(msg)
		case stateSync:
			m.Sync, _ = m.Sync.Update(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Quitting = true
			m.Session.Close()
			return m, tea.Quit
		}

	case toastMsg, toastExpiredMsg:
		var cmd tea.Cmd
		m.Toasts, cmd = m.Toasts.Update(msg)
		return m, cmd

	case inboxMsg:
		logger.Infof("Inbox file: %s", msg.Path)
		cmds = append(cmds, m.waitInbox(), notify(toastInfo, "Đã nhận file "+msg.Path))
		if m.State != stateMerge {
			m.queued = append(m.queued, msg.Path)
			return m, tea.Batch(cmds...)
		}
		var cmd tea.Cmd
		m.Merge, cmd = m.Merge.Update(FilesAddedMsg{Paths: []string{msg.Path}})
		return m, tea.Batch(append(cmds, cmd)...)

	case sessionExpiredMsg:
		logger.Warn("Session expired, back to login")
		_ = auth.Logout()
		return m.toLogin("Phiên đăng nhập đã hết hạn, vui lòng đăng nhập lại")

	case logoutMsg:
		if err := auth.Logout(); err != nil {
			logger.Warnf("Logout: %v", err)
		}
		return m.toLogin("Đã đăng xuất")

	case backToMenuMsg:
		m.Session.Enter()
		m.State = stateMenu
		return m, nil
	}

	switch m.State {
	case stateLogin:
		if res, ok := msg.(loginResultMsg); ok && res.Err == nil {
			m.Login, _ = m.Login.Update(msg)
			m.Session.API.SetToken(res.Token)
			m.State = stateMenu
			return m, notify(toastSuccess, "Đăng nhập thành công")
		}
		var cmd tea.Cmd
		m.Login, cmd = m.Login.Update(msg)
		cmds = append(cmds, cmd)

	case stateMenu:
		if sel, ok := msg.(ToolSelectedMsg); ok {
			return m.open(sel.Tool)
		}
		var cmd tea.Cmd
		m.Menu, cmd = m.Menu.Update(msg)
		cmds = append(cmds, cmd)

	case stateMerge:
		var cmd tea.Cmd
		m.Merge, cmd = m.Merge.Update(msg)
		cmds = append(cmds, cmd)

	case stateSync:
		var cmd tea.Cmd
		m.Sync, cmd = m.Sync.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// open starts a tool screen with a fresh lifetime.
func (m RootModel) open(t tool) (tea.Model, tea.Cmd) {
	screen := m.Session.Enter()
	switch t {
	case toolSync:
		m.State = stateSync
		m.Sync = NewSyncModel(m.Session, screen, m.width, m.height)
		return m, m.Sync.Init()
	default:
		m.State = stateMerge
		m.Merge = NewMergeModel(m.Session, screen, m.width, m.height)
		cmds := []tea.Cmd{m.Merge.Init()}
		if len(m.queued) > 0 {
			var cmd tea.Cmd
			m.Merge, cmd = m.Merge.Update(FilesAddedMsg{Paths: m.queued})
			m.queued = nil
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}
}

func (m RootModel) toLogin(text string) (tea.Model, tea.Cmd) {
	m.Session.Enter()
	m.Session.API.SetToken("")
	m.State = stateLogin
	m.Login = NewLoginModel(m.Session)
	return m, tea.Batch(m.Login.Init(), notify(toastInfo, text))
}

func (m RootModel) View() string {
	if m.Quitting {
		return "Tạm biệt!\n"
	}
	var body string
	switch m.State {
	case stateLogin:
		body = m.Login.View()
	case stateMenu:
		body = m.Menu.View()
	case stateMerge:
		body = m.Merge.View()
	case stateSync:
		body = m.Sync.View()
	default:
		body = "Unknown state"
	}
	if m.Toasts.Len() == 0 {
		return docStyle.Render(body)
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, body, "", m.Toasts.View()))
}
