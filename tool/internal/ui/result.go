package ui

import (
	"fmt"
	"strings"

	"banglaixanh/tool/internal/addressapi"
	"banglaixanh/tool/internal/fileitem"
	"banglaixanh/tool/internal/merge"

	"github.com/charmbracelet/lipgloss"
)

// resultView is everything the result pane needs. It owns no state.
type resultView struct {
	State   merge.State
	Spinner string
	Cursor  int
	Focused bool
	Width   int
}

func (v resultView) Render() string {
	if v.State.Mode == merge.ModeExcel {
		return v.renderFiles()
	}
	return v.renderText()
}

func (v resultView) renderFiles() string {
	s := v.State
	var b strings.Builder
	b.WriteString("File kết quả\n\n")

	if s.Converting {
		for range s.UploadedFiles {
			b.WriteString(v.skeleton() + "\n")
		}
		return b.String()
	}
	if len(s.OutputFiles) == 0 {
		b.WriteString(blurredStyle.Render("Chưa có file kết quả"))
		return b.String()
	}

	for i, f := range s.OutputFiles {
		line := fmt.Sprintf("%s  %s", f.Name, blurredStyle.Render(fileitem.HumanSize(f.Size)))
		if f.Downloadable() {
			line += "  " + focusedStyle.Render("[tải xuống]")
		}
		if v.Focused && i == v.Cursor {
			line = selectedRowStyle.Render("> " + f.Name + "  " + fileitem.HumanSize(f.Size))
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	all := "[ctrl+a] Tải tất cả (.zip)"
	if len(fileitem.DownloadURLs(s.OutputFiles)) == 0 {
		b.WriteString(disabledStyle.Render(all))
	} else {
		b.WriteString(focusedStyle.Render(all))
	}
	return b.String()
}

func (v resultView) renderText() string {
	s := v.State
	var b strings.Builder
	b.WriteString("Địa chỉ mới\n\n")

	switch {
	case s.Converting:
		b.WriteString(v.Spinner + " Đang chuyển đổi...")
		return b.String()
	case len(s.TextResults) == 0:
		if strings.TrimSpace(s.OldAddressInput) == "" {
			b.WriteString(blurredStyle.Render("Kết quả chuyển đổi sẽ hiển thị ở đây"))
		} else {
			b.WriteString(blurredStyle.Render(s.OldAddressInput))
		}
		return b.String()
	}

	width := v.Width
	if width <= 0 {
		width = 60
	}
	for _, r := range s.TextResults {
		b.WriteString(resultRow(r, width) + "\n")
	}
	b.WriteString("\n" + legend())
	return b.String()
}

func (v resultView) skeleton() string {
	n := v.Width - 4
	if n <= 0 || n > 40 {
		n = 40
	}
	return v.Spinner + " " + skeletonStyle.Render(strings.Repeat("░", n))
}

func statusStyle(st addressapi.Status) lipgloss.Style {
	switch st {
	case addressapi.StatusError:
		return errorRowStyle
	case addressapi.StatusWarning:
		return warningRowStyle
	}
	return successRowStyle
}

func resultRow(r addressapi.TextResult, width int) string {
	st := r.Status()
	text := r.DisplayText()
	if st != addressapi.StatusSuccess && r.Message != "" {
		text += "\n" + "ⓘ " + r.Message
	}
	return statusStyle(st).Width(width).Render(text)
}

func legend() string {
	return strings.Join([]string{
		successRowStyle.Render("Thành công"),
		warningRowStyle.Render("Không chắc chắn"),
		errorRowStyle.Render("Lỗi"),
	}, "  ")
}
