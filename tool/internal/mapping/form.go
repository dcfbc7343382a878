// Package mapping holds the manual old -> new address correspondence form:
// selections, cascading option lists, and the two-phase submit.
package mapping

import (
	"errors"
	"fmt"
	"strings"

	"banglaixanh/tool/internal/addressapi"
)

type Option struct {
	Label string
	Value string
}

func FromUnits(units []addressapi.Unit) []Option {
	out := make([]Option, len(units))
	for i, u := range units {
		out[i] = Option{Label: u.Name, Value: u.ID}
	}
	return out
}

// Label returns the label of value in opts, or "" if it is not there.
func Label(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return ""
}

type Field int

const (
	OldProvince Field = iota
	OldDistrict
	OldWard
	OldDetail
	NewProvince
	NewWard
)

func (f Field) String() string {
	switch f {
	case OldProvince:
		return "Tỉnh/Thành phố"
	case OldDistrict:
		return "Quận/Huyện"
	case OldWard, NewWard:
		return "Phường/Xã"
	case OldDetail:
		return "Địa chỉ chi tiết"
	case NewProvince:
		return "Tỉnh/Thành phố"
	}
	return "?"
}

// Level names an option list that is loaded from the backend.
type Level int

const (
	LevelNone Level = iota
	LevelOldProvinces
	LevelNewProvinces
	LevelOldDistricts
	LevelOldWards
	LevelNewWards
)

// Load describes a fetch the caller must issue after a selection.
type Load struct {
	Level    Level
	ParentID string
	Gen      uint64
}

func (l Load) Needed() bool { return l.Level != LevelNone }

type Draft struct {
	OldProvince      string
	OldDistrict      string
	OldWard          string
	OldAddressDetail string
	NewProvince      string
	NewWard          string
}

type Phase int

const (
	PhaseEditing Phase = iota
	PhaseConfirming
)

var ErrRequired = errors.New("required field is empty")

type Form struct {
	Draft Draft

	OldProvinces []Option
	OldDistricts []Option
	OldWards     []Option
	NewProvinces []Option
	NewWards     []Option

	Phase      Phase
	Submitting bool

	gens map[Level]uint64
}

func (f Form) gen(l Level) uint64 { return f.gens[l] }

func (f Form) bump(l Level) (Form, uint64) {
	g := make(map[Level]uint64, len(f.gens)+1)
	for k, v := range f.gens {
		g[k] = v
	}
	g[l]++
	f.gens = g
	return f, g[l]
}

// InitialLoads returns the two root loads issued when the screen opens.
func (f Form) InitialLoads() (Form, []Load) {
	f, a := f.bump(LevelOldProvinces)
	f, b := f.bump(LevelNewProvinces)
	return f, []Load{{Level: LevelOldProvinces, Gen: a}, {Level: LevelNewProvinces, Gen: b}}
}

// Select sets field to value. Dependents of a changed parent are cleared, option
// lists included, before the returned Load is issued.
func (f Form) Select(field Field, value string) (Form, Load) {
	var load Load
	switch field {
	case OldProvince:
		if f.Draft.OldProvince == value {
			return f, load
		}
		f.Draft.OldProvince = value
		f.Draft.OldDistrict, f.Draft.OldWard = "", ""
		f.OldDistricts, f.OldWards = nil, nil
		f, _ = f.bump(LevelOldWards)
		f, load = f.loadFor(LevelOldDistricts, value)
	case OldDistrict:
		if f.Draft.OldDistrict == value {
			return f, load
		}
		f.Draft.OldDistrict = value
		f.Draft.OldWard = ""
		f.OldWards = nil
		f, load = f.loadFor(LevelOldWards, value)
	case OldWard:
		f.Draft.OldWard = value
	case OldDetail:
		f.Draft.OldAddressDetail = value
	case NewProvince:
		if f.Draft.NewProvince == value {
			return f, load
		}
		f.Draft.NewProvince = value
		f.Draft.NewWard = ""
		f.NewWards = nil
		f, load = f.loadFor(LevelNewWards, value)
	case NewWard:
		f.Draft.NewWard = value
	}
	return f, load
}

func (f Form) loadFor(l Level, parent string) (Form, Load) {
	f, g := f.bump(l)
	if parent == "" {
		return f, Load{}
	}
	return f, Load{Level: l, ParentID: parent, Gen: g}
}

// ApplyOptions stores a finished load. Answers for a superseded load are dropped.
func (f Form) ApplyOptions(l Load, opts []Option) Form {
	if l.Gen != f.gen(l.Level) {
		return f
	}
	switch l.Level {
	case LevelOldProvinces:
		f.OldProvinces = opts
	case LevelNewProvinces:
		f.NewProvinces = opts
	case LevelOldDistricts:
		f.OldDistricts = opts
	case LevelOldWards:
		f.OldWards = opts
	case LevelNewWards:
		f.NewWards = opts
	}
	return f
}

// Options returns the option list that feeds field.
func (f Form) Options(field Field) []Option {
	switch field {
	case OldProvince:
		return f.OldProvinces
	case OldDistrict:
		return f.OldDistricts
	case OldWard:
		return f.OldWards
	case NewProvince:
		return f.NewProvinces
	case NewWard:
		return f.NewWards
	}
	return nil
}

func (f Form) Value(field Field) string {
	switch field {
	case OldProvince:
		return f.Draft.OldProvince
	case OldDistrict:
		return f.Draft.OldDistrict
	case OldWard:
		return f.Draft.OldWard
	case OldDetail:
		return f.Draft.OldAddressDetail
	case NewProvince:
		return f.Draft.NewProvince
	case NewWard:
		return f.Draft.NewWard
	}
	return ""
}

// Validate checks the required selects. The address detail is optional.
func (f Form) Validate() error {
	for _, field := range []Field{OldProvince, OldDistrict, OldWard, NewProvince, NewWard} {
		if strings.TrimSpace(f.Value(field)) == "" {
			return fmt.Errorf("%w: %s", ErrRequired, field)
		}
	}
	return nil
}

// RequestConfirm opens the confirmation dialog when the draft is complete.
func (f Form) RequestConfirm() (Form, error) {
	if f.Submitting {
		return f, nil
	}
	if err := f.Validate(); err != nil {
		return f, err
	}
	f.Phase = PhaseConfirming
	return f, nil
}

func (f Form) Cancel() Form {
	f.Phase = PhaseEditing
	return f
}

// Confirm closes the dialog and returns the request to persist.
// The dialog is closed before the submit finishes.
func (f Form) Confirm() (Form, addressapi.WardMappingRequest, bool) {
	if f.Phase != PhaseConfirming || f.Submitting {
		return f, addressapi.WardMappingRequest{}, false
	}
	f.Phase = PhaseEditing
	f.Submitting = true
	return f, f.Request(), true
}

// Finish ends a submit. On success the whole form is reset.
func (f Form) Finish(err error) Form {
	f.Submitting = false
	if err == nil {
		return f.Reset()
	}
	return f
}

// Reset clears every selection and dependent option list. Province lists stay loaded.
func (f Form) Reset() Form {
	f, _ = f.bump(LevelOldDistricts)
	f, _ = f.bump(LevelOldWards)
	f, _ = f.bump(LevelNewWards)
	return Form{
		OldProvinces: f.OldProvinces,
		NewProvinces: f.NewProvinces,
		gens:         f.gens,
	}
}

func (f Form) Request() addressapi.WardMappingRequest {
	return addressapi.WardMappingRequest{
		OldProvinceID:    f.Draft.OldProvince,
		OldDistrictID:    f.Draft.OldDistrict,
		OldWardID:        f.Draft.OldWard,
		OldAddressDetail: strings.TrimSpace(f.Draft.OldAddressDetail),
		NewProvinceID:    f.Draft.NewProvince,
		NewWardID:        f.Draft.NewWard,
	}
}

// OldAddressText is detail, ward, district, province joined by ", ".
func (f Form) OldAddressText() string {
	return joinNonEmpty(
		strings.TrimSpace(f.Draft.OldAddressDetail),
		Label(f.OldWards, f.Draft.OldWard),
		Label(f.OldDistricts, f.Draft.OldDistrict),
		Label(f.OldProvinces, f.Draft.OldProvince),
	)
}

// NewAddressText is ward, province joined by ", ".
func (f Form) NewAddressText() string {
	return joinNonEmpty(
		Label(f.NewWards, f.Draft.NewWard),
		Label(f.NewProvinces, f.Draft.NewProvince),
	)
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
