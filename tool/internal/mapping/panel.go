package mapping

// Enablement says which fields of one address side accept input.
type Enablement struct {
	District bool
	Ward     bool
	Detail   bool
}

// PanelEnablement enables each field only once its parent has a value.
func PanelEnablement(showDistrict bool, province, district, ward string) Enablement {
	e := Enablement{District: province != ""}
	if showDistrict {
		e.Ward = district != ""
	} else {
		e.Ward = province != ""
	}
	e.Detail = ward != ""
	return e
}

// Enabled reports whether field can be edited in the current form.
func (f Form) Enabled(field Field) bool {
	oldSide := PanelEnablement(true, f.Draft.OldProvince, f.Draft.OldDistrict, f.Draft.OldWard)
	newSide := PanelEnablement(false, f.Draft.NewProvince, "", f.Draft.NewWard)
	switch field {
	case OldDistrict:
		return oldSide.District
	case OldWard:
		return oldSide.Ward
	case OldDetail:
		return oldSide.Detail
	case NewWard:
		return newSide.Ward
	}
	return true
}
