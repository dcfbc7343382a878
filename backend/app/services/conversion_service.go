package services

import (
	"context"
	"fmt"
	"strings"

	"banglaixanh/backend/app/dto"
	"banglaixanh/backend/app/models"
	"banglaixanh/backend/app/repo"
)

const (
	msgEmpty      = "Địa chỉ trống"
	msgTooShort   = "Địa chỉ cần có đủ phường/xã, quận/huyện, tỉnh/thành phố"
	msgNoMapping  = "Chưa có dữ liệu sáp nhập cho phường/xã này"
	msgAmbiguous  = "Có %d kết quả khả dĩ, vui lòng kiểm tra lại số nhà, tên đường"
	msgNoProvince = "Không tìm thấy tỉnh/thành phố %q"
	msgNoDistrict = "Không tìm thấy quận/huyện %q trong %s"
	msgNoWard     = "Không tìm thấy phường/xã %q trong %s"
)

// ConversionService turns old-format addresses into post-merger ones.
type ConversionService struct {
	units    *repo.AdminUnitRepository
	mappings *repo.WardMappingRepository
}

func NewConversionService(units *repo.AdminUnitRepository, mappings *repo.WardMappingRepository) *ConversionService {
	return &ConversionService{units: units, mappings: mappings}
}

// ConvertLines converts every line independently. The result has one entry per line, in order.
// Only infrastructure failures are returned as errors; unresolvable lines become error results.
func (s *ConversionService) ConvertLines(ctx context.Context, lines []string) ([]dto.TextConvertResult, error) {
	out := make([]dto.TextConvertResult, len(lines))
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := s.convert(ctx, line)
		if err != nil {
			return nil, fmt.Errorf("convert line %d: %w", i+1, err)
		}
		out[i] = r
	}
	return out, nil
}

type oldAddress struct {
	detail   string
	ward     models.AdminUnit
	district models.AdminUnit
	province models.AdminUnit
}

func (s *ConversionService) convert(ctx context.Context, line string) (dto.TextConvertResult, error) {
	res := dto.TextConvertResult{OldAddress: line, NewAddresses: []string{}}
	fail := func(msg string) (dto.TextConvertResult, error) {
		res.IsError = true
		res.Message = msg
		return res, nil
	}
	parts := splitAddress(line)
	if len(parts) == 0 {
		return fail(msgEmpty)
	}
	if len(parts) < 3 {
		return fail(msgTooShort)
	}
	addr, msg, err := s.resolve(ctx, parts)
	if err != nil || msg != "" {
		res.Message = msg
		res.IsError = msg != ""
		return res, err
	}

	targets, err := s.targets(ctx, addr)
	if err != nil {
		return res, err
	}
	if len(targets) == 0 {
		return fail(msgNoMapping)
	}
	for _, t := range targets {
		res.NewAddresses = append(res.NewAddresses, joinAddress(addr.detail, t...))
	}
	if len(targets) > 1 {
		res.IsWarning = true
		res.Message = fmt.Sprintf(msgAmbiguous, len(targets))
	}
	return res, nil
}

// resolve reads province, district and ward from the end of parts. A non-empty
// message means the line could not be resolved.
func (s *ConversionService) resolve(ctx context.Context, parts []string) (oldAddress, string, error) {
	n := len(parts)
	var a oldAddress
	p, err := s.match(ctx, models.LevelProvince, "", parts[n-1])
	if err != nil || p == nil {
		return a, fmt.Sprintf(msgNoProvince, parts[n-1]), err
	}
	d, err := s.match(ctx, models.LevelDistrict, p.ID, parts[n-2])
	if err != nil || d == nil {
		return a, fmt.Sprintf(msgNoDistrict, parts[n-2], p.Name), err
	}
	w, err := s.match(ctx, models.LevelWard, d.ID, parts[n-3])
	if err != nil || w == nil {
		return a, fmt.Sprintf(msgNoWard, parts[n-3], d.Name), err
	}
	a.province, a.district, a.ward = *p, *d, *w
	a.detail = strings.Join(parts[:n-3], ", ")
	return a, "", nil
}

func (s *ConversionService) match(ctx context.Context, level, parentID, name string) (*models.AdminUnit, error) {
	found, err := s.units.FindByNormName(ctx, models.EraOld, level, parentID, NormalizeUnit(name))
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return &found[0], nil
}

// targets returns the distinct [ward, province] names the old address maps to.
// Mappings whose detail matches win over generic ones.
func (s *ConversionService) targets(ctx context.Context, a oldAddress) ([][]string, error) {
	all, err := s.mappings.ByOldWard(ctx, a.ward.ID)
	if err != nil {
		return nil, err
	}
	chosen := selectMappings(all, NormalizeDetail(a.detail))

	seen := map[string]bool{}
	var wardIDs, provinceIDs []string
	var picked []models.WardMapping
	for _, m := range chosen {
		k := m.NewProvinceID + "/" + m.NewWardID
		if seen[k] {
			continue
		}
		seen[k] = true
		picked = append(picked, m)
		wardIDs = append(wardIDs, m.NewWardID)
		provinceIDs = append(provinceIDs, m.NewProvinceID)
	}
	if len(picked) == 0 {
		return nil, nil
	}
	// New-era province and ward ids share one table, so one query covers both.
	names, err := s.units.GetMany(ctx, models.EraNew, append(wardIDs, provinceIDs...))
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(picked))
	for _, m := range picked {
		w, wok := names[m.NewWardID]
		p, pok := names[m.NewProvinceID]
		if !wok || !pok {
			continue
		}
		out = append(out, []string{w.Name, p.Name})
	}
	return out, nil
}

// selectMappings narrows the mappings of one ward by address detail: exact
// detail match, then mappings whose detail occurs in the address, then the
// detail-less ones, then everything.
func selectMappings(all []models.WardMapping, detail string) []models.WardMapping {
	var exact, contained, generic []models.WardMapping
	for _, m := range all {
		switch {
		case m.NormDetail == "":
			generic = append(generic, m)
		case m.NormDetail == detail:
			exact = append(exact, m)
		case detail != "" && strings.Contains(detail, m.NormDetail):
			contained = append(contained, m)
		}
	}
	for _, set := range [][]models.WardMapping{exact, contained, generic} {
		if len(set) > 0 {
			return set
		}
	}
	return all
}

// splitAddress splits on commas, drops empty parts and a trailing country name.
func splitAddress(line string) []string {
	var parts []string
	for _, p := range strings.Split(line, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if n := len(parts); n > 0 && Fold(parts[n-1]) == "viet nam" {
		parts = parts[:n-1]
	}
	return parts
}

func joinAddress(detail string, units ...string) string {
	parts := make([]string, 0, len(units)+1)
	if detail != "" {
		parts = append(parts, detail)
	}
	return strings.Join(append(parts, units...), ", ")
}
