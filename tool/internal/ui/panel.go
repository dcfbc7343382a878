package ui

import (
	"strings"

	"banglaixanh/tool/internal/mapping"
)

// AddressPanel is one side of the sync form: province, optional district, ward and optional detail.
type AddressPanel struct {
	Title        string
	ShowDistrict bool
	ShowDetail   bool
	Province     mapping.Field
	District     mapping.Field
	Ward         mapping.Field
	Detail       mapping.Field
}

var (
	oldPanel = AddressPanel{
		Title:        "Địa chỉ cũ",
		ShowDistrict: true,
		ShowDetail:   true,
		Province:     mapping.OldProvince,
		District:     mapping.OldDistrict,
		Ward:         mapping.OldWard,
		Detail:       mapping.OldDetail,
	}
	newPanel = AddressPanel{
		Title:    "Địa chỉ mới",
		Province: mapping.NewProvince,
		Ward:     mapping.NewWard,
	}
)

func (p AddressPanel) Fields() []mapping.Field {
	out := []mapping.Field{p.Province}
	if p.ShowDistrict {
		out = append(out, p.District)
	}
	out = append(out, p.Ward)
	if p.ShowDetail {
		out = append(out, p.Detail)
	}
	return out
}

func (p AddressPanel) Enablement(f mapping.Form) mapping.Enablement {
	district := ""
	if p.ShowDistrict {
		district = f.Value(p.District)
	}
	return mapping.PanelEnablement(p.ShowDistrict, f.Value(p.Province), district, f.Value(p.Ward))
}

func (p AddressPanel) Enabled(f mapping.Form, field mapping.Field) bool {
	e := p.Enablement(f)
	switch field {
	case p.Province:
		return true
	case p.District:
		return p.ShowDistrict && e.District
	case p.Ward:
		return e.Ward
	case p.Detail:
		return p.ShowDetail && e.Detail
	}
	return false
}

// panelState is what the sync screen passes down for rendering.
type panelState struct {
	Focused    mapping.Field
	HasFocus   bool
	DetailView string
	Loading    func(mapping.Field) bool
}

func (p AddressPanel) View(f mapping.Form, st panelState) string {
	var b strings.Builder
	b.WriteString(p.Title + "\n\n")
	for _, field := range p.Fields() {
		b.WriteString(p.fieldLine(f, field, st) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p AddressPanel) fieldLine(f mapping.Form, field mapping.Field, st panelState) string {
	label := field.String() + ": "
	var value string
	switch {
	case field == p.Detail && p.ShowDetail:
		value = st.DetailView
	case st.Loading != nil && st.Loading(field):
		value = blurredStyle.Render("đang tải...")
	default:
		value = mapping.Label(f.Options(field), f.Value(field))
		if value == "" {
			value = blurredStyle.Render("-- chọn --")
		}
	}

	if !p.Enabled(f, field) {
		return disabledStyle.Render("  " + label + "-")
	}
	if st.HasFocus && st.Focused == field {
		return focusedStyle.Render("> "+label) + value
	}
	return "  " + label + value
}
