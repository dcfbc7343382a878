package mapping

import (
	"testing"

	"banglaixanh/tool/internal/addressapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loaded returns a form with a full old and new selection in place.
func loaded(t *testing.T) Form {
	t.Helper()
	f, loads := Form{}.InitialLoads()
	require.Len(t, loads, 2)
	f = f.ApplyOptions(loads[0], []Option{{"Hà Tây", "ht"}, {"Hà Nội", "hn"}})
	f = f.ApplyOptions(loads[1], []Option{{"Hà Nội", "01"}})

	f, l := f.Select(OldProvince, "ht")
	require.Equal(t, Load{Level: LevelOldDistricts, ParentID: "ht", Gen: l.Gen}, l)
	f = f.ApplyOptions(l, []Option{{"Hà Đông", "hd"}})

	f, l = f.Select(OldDistrict, "hd")
	require.Equal(t, LevelOldWards, l.Level)
	f = f.ApplyOptions(l, []Option{{"Vạn Phúc", "vp"}})
	f, _ = f.Select(OldWard, "vp")
	f, _ = f.Select(OldDetail, " 12 Lê Lợi ")

	f, l = f.Select(NewProvince, "01")
	require.Equal(t, LevelNewWards, l.Level)
	f = f.ApplyOptions(l, []Option{{"Phường Hà Đông", "phd"}})
	f, _ = f.Select(NewWard, "phd")
	return f
}

func TestFromUnits(t *testing.T) {
	opts := FromUnits([]addressapi.Unit{{ID: "001", Name: "Ba Đình"}})
	assert.Equal(t, []Option{{Label: "Ba Đình", Value: "001"}}, opts)
	assert.Equal(t, "Ba Đình", Label(opts, "001"))
	assert.Equal(t, "", Label(opts, "1"))
}

func TestCascade_ChangingOldProvinceClearsDependents(t *testing.T) {
	f := loaded(t)
	require.Equal(t, "vp", f.Draft.OldWard)

	f, l := f.Select(OldProvince, "hn")
	assert.Equal(t, "", f.Draft.OldDistrict)
	assert.Equal(t, "", f.Draft.OldWard)
	assert.Empty(t, f.OldWards)
	assert.Empty(t, f.OldDistricts)
	assert.Equal(t, LevelOldDistricts, l.Level)
	assert.Equal(t, "hn", l.ParentID)
	assert.Equal(t, "phd", f.Draft.NewWard, "the new side is untouched")
}

func TestCascade_ChangingOldDistrictClearsWard(t *testing.T) {
	f := loaded(t)
	f, l := f.Select(OldDistrict, "other")
	assert.Equal(t, "", f.Draft.OldWard)
	assert.Empty(t, f.OldWards)
	assert.Equal(t, "ht", f.Draft.OldProvince)
	assert.Equal(t, Load{Level: LevelOldWards, ParentID: "other", Gen: l.Gen}, l)
}

func TestCascade_ChangingNewProvinceClearsNewWard(t *testing.T) {
	f := loaded(t)
	f, l := f.Select(NewProvince, "79")
	assert.Equal(t, "", f.Draft.NewWard)
	assert.Empty(t, f.NewWards)
	assert.True(t, l.Needed())
}

func TestCascade_SameValueIsNoop(t *testing.T) {
	f := loaded(t)
	f2, l := f.Select(OldProvince, "ht")
	assert.False(t, l.Needed())
	assert.Equal(t, f.Draft, f2.Draft)
}

func TestApplyOptions_DropsStaleLoads(t *testing.T) {
	f, _ := Form{}.InitialLoads()
	f, slow := f.Select(OldProvince, "a")
	f, fast := f.Select(OldProvince, "b")

	f = f.ApplyOptions(fast, []Option{{"B1", "b1"}})
	f = f.ApplyOptions(slow, []Option{{"A1", "a1"}})
	assert.Equal(t, []Option{{"B1", "b1"}}, f.OldDistricts)

	// a ward list requested under the old district must not land after a province change
	f, wl := f.Select(OldDistrict, "b1")
	f, _ = f.Select(OldProvince, "c")
	f = f.ApplyOptions(wl, []Option{{"W", "w"}})
	assert.Empty(t, f.OldWards)
}

func TestClearingParentIssuesNoLoad(t *testing.T) {
	f := loaded(t)
	f, l := f.Select(OldProvince, "")
	assert.False(t, l.Needed())
	assert.Equal(t, "", f.Draft.OldDistrict)
}

func TestValidateAndConfirm(t *testing.T) {
	f, err := Form{}.RequestConfirm()
	assert.ErrorIs(t, err, ErrRequired)
	assert.Equal(t, PhaseEditing, f.Phase)

	f = loaded(t)
	f, err = f.RequestConfirm()
	require.NoError(t, err)
	assert.Equal(t, PhaseConfirming, f.Phase)

	assert.Equal(t, "12 Lê Lợi, Vạn Phúc, Hà Đông, Hà Tây", f.OldAddressText())
	assert.Equal(t, "Phường Hà Đông, Hà Nội", f.NewAddressText())

	f, req, ok := f.Confirm()
	require.True(t, ok)
	assert.Equal(t, PhaseEditing, f.Phase, "dialog closes before the submit resolves")
	assert.True(t, f.Submitting)
	assert.Equal(t, addressapi.WardMappingRequest{
		OldProvinceID: "ht", OldDistrictID: "hd", OldWardID: "vp", OldAddressDetail: "12 Lê Lợi",
		NewProvinceID: "01", NewWardID: "phd",
	}, req)

	_, _, ok = f.Confirm()
	assert.False(t, ok, "no second submit while one is running")
}

func TestCancel(t *testing.T) {
	f, err := loaded(t).RequestConfirm()
	require.NoError(t, err)
	f = f.Cancel()
	assert.Equal(t, PhaseEditing, f.Phase)
	assert.False(t, f.Submitting)
}

func TestFinish(t *testing.T) {
	f, _ := loaded(t).RequestConfirm()
	f, _, _ = f.Confirm()

	failed := f.Finish(assert.AnError)
	assert.False(t, failed.Submitting)
	assert.Equal(t, "vp", failed.Draft.OldWard, "a failed submit keeps the draft")

	done := f.Finish(nil)
	assert.Equal(t, Draft{}, done.Draft)
	assert.Empty(t, done.OldDistricts)
	assert.Empty(t, done.OldWards)
	assert.Empty(t, done.NewWards)
	assert.Len(t, done.OldProvinces, 2)
	assert.Len(t, done.NewProvinces, 1)
}

func TestReset_InvalidatesPendingLoads(t *testing.T) {
	f, _ := Form{}.InitialLoads()
	f, l := f.Select(OldProvince, "a")
	f = f.Reset()
	f = f.ApplyOptions(l, []Option{{"X", "x"}})
	assert.Empty(t, f.OldDistricts)
}

func TestPanelEnablement(t *testing.T) {
	e := PanelEnablement(true, "", "", "")
	assert.Equal(t, Enablement{}, e)

	e = PanelEnablement(true, "p", "", "")
	assert.True(t, e.District)
	assert.False(t, e.Ward, "ward waits for the district when districts are shown")

	e = PanelEnablement(true, "", "d", "")
	assert.True(t, e.Ward, "ward only depends on the district value")

	e = PanelEnablement(false, "p", "", "")
	assert.True(t, e.Ward)
	assert.False(t, e.Detail)

	e = PanelEnablement(false, "p", "", "w")
	assert.True(t, e.Detail)
}

func TestForm_Enabled(t *testing.T) {
	f := Form{}
	assert.True(t, f.Enabled(OldProvince))
	assert.False(t, f.Enabled(OldDistrict))
	assert.False(t, f.Enabled(OldWard))
	assert.False(t, f.Enabled(NewWard))

	f = loaded(t)
	for _, field := range []Field{OldDistrict, OldWard, OldDetail, NewWard} {
		assert.True(t, f.Enabled(field), field.String())
	}
}
