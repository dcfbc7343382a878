package services

import (
	"context"
	"fmt"
	"io"
	"os"

	"banglaixanh/backend/app/dto"
	"banglaixanh/backend/app/models"
	"banglaixanh/backend/app/repo"

	"gopkg.in/yaml.v3"
)

// SeedUnit is one unit in a fixture file.
type SeedUnit struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Level  string `yaml:"level"`
	Parent string `yaml:"parent"`
}

// SeedFile is the fixture format: units per era plus initial mappings.
type SeedFile struct {
	Old      []SeedUnit               `yaml:"old"`
	New      []SeedUnit               `yaml:"new"`
	Mappings []dto.WardMappingRequest `yaml:"mappings"`
}

type SeedService struct {
	units    *repo.AdminUnitRepository
	mappings *MappingService
}

func NewSeedService(units *repo.AdminUnitRepository, mappings *MappingService) *SeedService {
	return &SeedService{units: units, mappings: mappings}
}

func (s *SeedService) LoadFile(ctx context.Context, path string) (SeedStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return SeedStats{}, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()
	return s.Load(ctx, f)
}

type SeedStats struct {
	Units    int
	Mappings int
}

// Load upserts the fixture's units, then its mappings, validating each mapping
// like an API request.
func (s *SeedService) Load(ctx context.Context, r io.Reader) (SeedStats, error) {
	var st SeedStats
	var file SeedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return st, fmt.Errorf("decode seed: %w", err)
	}
	var units []models.AdminUnit
	for era, list := range map[string][]SeedUnit{models.EraOld: file.Old, models.EraNew: file.New} {
		for _, u := range list {
			if err := checkSeedUnit(era, u); err != nil {
				return st, err
			}
			units = append(units, models.AdminUnit{
				Era: era, ID: u.ID, Name: u.Name, Level: u.Level, ParentID: u.Parent, NormName: NormalizeUnit(u.Name),
			})
		}
	}
	if err := s.units.Upsert(ctx, units); err != nil {
		return st, fmt.Errorf("seed units: %w", err)
	}
	st.Units = len(units)
	for i, m := range file.Mappings {
		if _, err := s.mappings.Upsert(ctx, m, "seed"); err != nil {
			return st, fmt.Errorf("seed mapping %d: %w", i+1, err)
		}
		st.Mappings++
	}
	return st, nil
}

func checkSeedUnit(era string, u SeedUnit) error {
	if u.ID == "" || u.Name == "" {
		return fmt.Errorf("seed %s unit: id and name are required", era)
	}
	switch u.Level {
	case models.LevelProvince:
	case models.LevelDistrict:
		if era == models.EraNew {
			return fmt.Errorf("seed unit %s: the new system has no districts", u.ID)
		}
	case models.LevelWard:
	default:
		return fmt.Errorf("seed unit %s: unknown level %q", u.ID, u.Level)
	}
	if u.Level != models.LevelProvince && u.Parent == "" {
		return fmt.Errorf("seed unit %s: parent is required", u.ID)
	}
	return nil
}
