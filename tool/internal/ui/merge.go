package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"banglaixanh/tool/internal/addressapi"
	"banglaixanh/tool/internal/fileitem"
	"banglaixanh/tool/internal/logger"
	"banglaixanh/tool/internal/merge"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const copyRevertDelay = 3 * time.Second

type mergeFocus int

const (
	focusSource mergeFocus = iota
	focusFiles
	focusResults
)

// backToMenuMsg closes the current tool.
type backToMenuMsg struct{}

// FilesAddedMsg queues local spreadsheets for conversion.
type FilesAddedMsg struct{ Paths []string }

type convertedMsg struct {
	Screen  uint64
	Gen     uint64
	Outputs []fileitem.Item
	Results []addressapi.TextResult
	Err     error
}

type downloadedMsg struct {
	Path string
	Err  error
}

type copyRevertMsg struct{ Token uint64 }

type MergeModel struct {
	Session *Session
	State   merge.State

	PathInput textinput.Model
	Input     textarea.Model
	Spinner   spinner.Model

	Focus      mergeFocus
	FileCursor int
	OutCursor  int

	// CopyRevertDelay is how long the copied mark stays on.
	CopyRevertDelay time.Duration

	// held keeps files that arrived in manual mode until Excel mode is back.
	held []string

	screen Screen
	width  int
	height int
}

func NewMergeModel(s *Session, screen Screen, width, height int) MergeModel {
	pi := textinput.New()
	pi.Prompt = "File: "
	pi.Placeholder = "đường dẫn .xlsx, hỗ trợ *.xlsx"
	pi.Focus()

	ta := textarea.New()
	ta.Placeholder = "Mỗi dòng một địa chỉ cũ"
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = focusedStyle

	m := MergeModel{
		Session:   s,
		State:     merge.New(s.Config.MaxUploadFiles),
		PathInput: pi,
		Input:     ta,
		Spinner:   sp,
		screen:    screen,

		CopyRevertDelay: copyRevertDelay,
	}
	m.resize(width, height)
	return m
}

func (m MergeModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.Spinner.Tick)
}

func (m *MergeModel) resize(width, height int) {
	m.width, m.height = width, height
	half := max(width/2-6, 20)
	m.PathInput.Width = half - 8
	m.Input.SetWidth(half)
	m.Input.SetHeight(max(height-14, 5))
}

func (m MergeModel) Update(msg tea.Msg) (MergeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case FilesAddedMsg:
		return m.addPaths(msg.Paths)

	case convertedMsg:
		return m.finishConvert(msg)

	case copyRevertMsg:
		m.State = m.State.RevertCopy(msg.Token)
		return m, nil

	case downloadedMsg:
		if msg.Err != nil {
			if errors.Is(msg.Err, context.Canceled) {
				return m, nil
			}
			logger.Errorf("Download failed: %v", msg.Err)
			return m, notifyError(msg.Err, "Tải file thất bại")
		}
		return m, notify(toastSuccess, "Đã lưu "+msg.Path)

	case tea.KeyMsg:
		if next, cmd, ok := m.handleKey(msg); ok {
			return next, cmd
		}
	}

	return m.updateFocused(msg)
}

// handleKey runs the screen shortcuts. ok is false when the key belongs to the focused widget.
func (m MergeModel) handleKey(msg tea.KeyMsg) (MergeModel, tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return backToMenuMsg{} }, true
	case "tab":
		m.cycleFocus()
		return m, nil, true
	case "ctrl+t":
		next, cmd := m.toggleMode()
		return next, cmd, true
	case "ctrl+s":
		next, cmd := m.convert()
		return next, cmd, true
	case "ctrl+r":
		if !m.State.HasDataToRestore() {
			return m, nil, true
		}
		m.State = m.State.Restore()
		m.held = nil
		m.Input.Reset()
		m.PathInput.Reset()
		m.FileCursor, m.OutCursor = 0, 0
		return m, nil, true
	case "ctrl+y":
		next, cmd := m.copyOutput()
		return next, cmd, true
	case "ctrl+a":
		if m.State.Mode == merge.ModeExcel {
			next, cmd := m.downloadAll()
			return next, cmd, true
		}
	}

	switch m.Focus {
	case focusSource:
		if m.State.Mode == merge.ModeExcel && msg.Type == tea.KeyEnter {
			raw := strings.TrimSpace(m.PathInput.Value())
			m.PathInput.Reset()
			if raw == "" {
				return m, nil, true
			}
			paths, err := expandPaths(raw)
			if err != nil {
				return m, notify(toastError, err.Error()), true
			}
			next, cmd := m.addPaths(paths)
			return next, cmd, true
		}
	case focusFiles:
		switch msg.String() {
		case "up", "k":
			m.FileCursor = max(m.FileCursor-1, 0)
		case "down", "j":
			m.FileCursor = min(m.FileCursor+1, max(len(m.State.UploadedFiles)-1, 0))
		case "x", "delete", "backspace":
			if m.FileCursor < len(m.State.UploadedFiles) {
				m.State = m.State.RemoveFile(m.State.UploadedFiles[m.FileCursor].ID)
				m.FileCursor = min(m.FileCursor, max(len(m.State.UploadedFiles)-1, 0))
			}
		}
		return m, nil, true
	case focusResults:
		switch msg.String() {
		case "up", "k":
			m.OutCursor = max(m.OutCursor-1, 0)
		case "down", "j":
			m.OutCursor = min(m.OutCursor+1, max(len(m.State.OutputFiles)-1, 0))
		case "enter", "d":
			next, cmd := m.downloadSelected()
			return next, cmd, true
		}
		return m, nil, true
	}
	return m, nil, false
}

func (m MergeModel) updateFocused(msg tea.Msg) (MergeModel, tea.Cmd) {
	if m.Focus != focusSource {
		return m, nil
	}
	var cmd tea.Cmd
	if m.State.Mode == merge.ModeExcel {
		m.PathInput, cmd = m.PathInput.Update(msg)
		return m, cmd
	}
	m.Input, cmd = m.Input.Update(msg)
	m.State = m.State.SetInput(m.Input.Value())
	return m, cmd
}

func (m *MergeModel) cycleFocus() {
	order := []mergeFocus{focusSource, focusResults}
	if m.State.Mode == merge.ModeExcel {
		order = []mergeFocus{focusSource, focusFiles, focusResults}
	}
	next := order[0]
	for i, f := range order {
		if f == m.Focus {
			next = order[(i+1)%len(order)]
		}
	}
	m.Focus = next
	m.PathInput.Blur()
	m.Input.Blur()
	if next == focusSource {
		if m.State.Mode == merge.ModeExcel {
			m.PathInput.Focus()
		} else {
			m.Input.Focus()
		}
	}
}

func (m MergeModel) toggleMode() (MergeModel, tea.Cmd) {
	mode := merge.ModeManual
	if m.State.Mode == merge.ModeManual {
		mode = merge.ModeExcel
	}
	m.State = m.State.SetMode(mode)
	m.FileCursor, m.OutCursor = 0, 0
	m.Focus = focusResults
	m.cycleFocus()
	if mode == merge.ModeExcel && len(m.held) > 0 {
		held := m.held
		m.held = nil
		return m.addPaths(held)
	}
	return m, nil
}

// addPaths attaches local spreadsheets to the upload list.
func (m MergeModel) addPaths(paths []string) (MergeModel, tea.Cmd) {
	if m.State.Mode != merge.ModeExcel {
		m.held = append(m.held, paths...)
		return m, notify(toastInfo, fmt.Sprintf("Đang giữ %d file, chuyển sang chế độ Excel (ctrl+t) để thêm", len(m.held)))
	}
	items, err := fileitem.FromPaths(paths, time.Now())
	if err != nil {
		return m, notify(toastError, err.Error())
	}
	var accepted []fileitem.Item
	var skipped []string
	for _, it := range items {
		// Only xlsx: the server reads workbooks with an OOXML parser.
		if it.Type != fileitem.SpreadsheetMIME {
			skipped = append(skipped, it.Name)
			continue
		}
		accepted = append(accepted, it)
	}
	var cmds []tea.Cmd
	if len(skipped) > 0 {
		cmds = append(cmds, notify(toastError, "Chỉ hỗ trợ file .xlsx: "+strings.Join(skipped, ", ")))
	}
	var rejected []fileitem.Item
	m.State, rejected = m.State.AddFiles(accepted...)
	if len(rejected) > 0 {
		cmds = append(cmds, notify(toastError, fmt.Sprintf("Tối đa %d file, đã bỏ qua %d file", m.State.MaxUploadFiles, len(rejected))))
	}
	return m, tea.Batch(cmds...)
}

func (m MergeModel) convert() (MergeModel, tea.Cmd) {
	next, req, ok := m.State.BeginConvert()
	if !ok {
		return m, nil
	}
	m.State = next
	m.OutCursor = 0
	logger.Infof("Convert started: mode=%s gen=%d", req.Mode, req.Gen)
	return m, tea.Batch(m.Spinner.Tick, convertCmd(m.screen, m.Session.API, req))
}

func convertCmd(screen Screen, api API, req merge.Request) tea.Cmd {
	return func() tea.Msg {
		msg := convertedMsg{Screen: screen.ID, Gen: req.Gen}
		if req.Mode == merge.ModeExcel {
			res, err := api.ProcessExcelFiles(screen.Ctx, req.Paths)
			if err != nil {
				msg.Err = err
				return msg
			}
			msg.Outputs = merge.Outputs(res, api.DownloadURL)
			return msg
		}
		msg.Results, msg.Err = api.ConvertAddressesFromText(screen.Ctx, req.Lines)
		return msg
	}
}

func (m MergeModel) finishConvert(msg convertedMsg) (MergeModel, tea.Cmd) {
	if msg.Screen != m.screen.ID || !m.State.Current(msg.Gen) {
		logger.Infof("Dropping stale conversion gen=%d", msg.Gen)
		return m, nil
	}
	if msg.Err != nil {
		m.State = m.State.Fail(msg.Gen)
		logger.Errorf("Convert failed: %v", msg.Err)
		return m, notifyError(msg.Err, "Chuyển đổi thất bại, vui lòng thử lại")
	}
	if m.State.Mode == merge.ModeExcel {
		m.State = m.State.ApplyExcel(msg.Gen, msg.Outputs)
	} else {
		m.State = m.State.ApplyText(msg.Gen, msg.Results)
	}
	m.Focus = focusResults
	m.PathInput.Blur()
	m.Input.Blur()
	return m, notify(toastSuccess, "Chuyển đổi thành công")
}

func (m MergeModel) copyOutput() (MergeModel, tea.Cmd) {
	if m.State.NewAddressOutput == "" {
		return m, nil
	}
	if err := m.Session.Clipboard(m.State.NewAddressOutput); err != nil {
		logger.Errorf("Clipboard write failed: %v", err)
		return m, notify(toastError, "Không sao chép được vào clipboard")
	}
	var token uint64
	m.State, token = m.State.Copy()
	return m, tea.Tick(m.CopyRevertDelay, func(time.Time) tea.Msg { return copyRevertMsg{Token: token} })
}

func (m MergeModel) downloadSelected() (MergeModel, tea.Cmd) {
	if m.OutCursor >= len(m.State.OutputFiles) {
		return m, nil
	}
	item := m.State.OutputFiles[m.OutCursor]
	if !item.Downloadable() {
		return m, nil
	}
	ctx, api := m.screen.Ctx, m.Session.API
	return m, func() tea.Msg {
		path, err := api.DownloadConvertedFile(ctx, item.DownloadURL, item.Name)
		return downloadedMsg{Path: path, Err: err}
	}
}

func (m MergeModel) downloadAll() (MergeModel, tea.Cmd) {
	links := fileitem.DownloadURLs(m.State.OutputFiles)
	if len(links) == 0 {
		return m, nil
	}
	ctx, api := m.screen.Ctx, m.Session.API
	return m, func() tea.Msg {
		path, err := api.DownloadAllAsZip(ctx, links)
		return downloadedMsg{Path: path, Err: err}
	}
}

// expandPaths accepts one path or a glob pattern.
func expandPaths(raw string) ([]string, error) {
	raw = strings.Trim(raw, `"'`)
	if !strings.ContainsAny(raw, "*?[") {
		return []string{raw}, nil
	}
	matches, err := filepath.Glob(raw)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("không có file nào khớp %s", raw)
	}
	return matches, nil
}

func (m MergeModel) View() string {
	var b strings.Builder
	mode := "Excel"
	if m.State.Mode == merge.ModeManual {
		mode = "Nhập tay"
	}
	b.WriteString(titleStyle.Render("Chuyển đổi địa chỉ") + "  " + blurredStyle.Render("chế độ: "+mode) + "\n\n")

	half := max(m.width/2-4, 30)
	left := m.sourceView()
	right := resultView{
		State:   m.State,
		Spinner: m.Spinner.View(),
		Cursor:  m.OutCursor,
		Focused: m.Focus == focusResults,
		Width:   half - 4,
	}.Render()

	leftBox, rightBox := boxStyle, boxStyle
	if m.Focus == focusResults {
		rightBox = focusedBoxStyle
	} else {
		leftBox = focusedBoxStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		leftBox.Width(half).Render(left),
		rightBox.Width(half).Render(right),
	))
	b.WriteString("\n\n" + m.actionsView())
	return b.String()
}

func (m MergeModel) sourceView() string {
	var b strings.Builder
	if m.State.Mode == merge.ModeManual {
		b.WriteString("Địa chỉ cũ\n\n")
		b.WriteString(m.Input.View())
		return b.String()
	}

	b.WriteString(fmt.Sprintf("File tải lên (%d/%d)\n\n", len(m.State.UploadedFiles), m.State.MaxUploadFiles))
	b.WriteString(m.PathInput.View() + "\n\n")
	if len(m.State.UploadedFiles) == 0 {
		b.WriteString(blurredStyle.Render("Nhập đường dẫn file .xlsx hoặc thả file vào thư mục inbox"))
		return b.String()
	}
	for i, f := range m.State.UploadedFiles {
		line := fmt.Sprintf("%s  %s", f.Name, fileitem.HumanSize(f.Size))
		if m.Focus == focusFiles && i == m.FileCursor {
			b.WriteString(selectedRowStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func (m MergeModel) actionsView() string {
	action := func(label string, enabled bool) string {
		if enabled {
			return focusedStyle.Render(label)
		}
		return disabledStyle.Render(label)
	}
	convertLabel := "[ctrl+s] Chuyển đổi"
	if m.State.Converting {
		convertLabel = m.Spinner.View() + " Đang chuyển đổi"
	}
	copyLabel := "[ctrl+y] Sao chép"
	if m.State.Copied {
		copyLabel = "✓ Đã sao chép"
	}
	parts := []string{
		action(convertLabel, m.State.CanConvert()),
		action("[ctrl+r] Khôi phục", m.State.HasDataToRestore()),
		action("[ctrl+t] Đổi chế độ", true),
	}
	if m.State.Mode == merge.ModeManual {
		parts = append(parts, action(copyLabel, m.State.NewAddressOutput != ""))
	}
	return strings.Join(parts, "  ") + "\n" + blurredStyle.Render("tab chuyển vùng, esc về menu")
}
