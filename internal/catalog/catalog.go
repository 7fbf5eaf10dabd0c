// Package catalog holds the three-level Vietnamese administrative
// hierarchy (Province -> District -> Ward), loaded once at startup from
// immutable delimited reference files and never mutated afterward.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Ward is a leaf administrative unit.
type Ward struct {
	ID         string
	Name       string // canonical spelling, diacritics included
	Code       string
	DistrictID string
}

// District sits between a Province and its Wards.
type District struct {
	ID         string
	Name       string
	Code       string
	ProvinceID string
	wardOrder  []string
	Wards      map[string]*Ward
}

// Province is the top administrative level.
type Province struct {
	ID           string
	Name         string
	Code         string
	districtOrder []string
	Districts    map[string]*District
}

// Catalog is the immutable, in-memory hierarchy plus insertion-ordered
// slices used to give deterministic iteration (Go map order is not stable).
type Catalog struct {
	order     []string
	Provinces map[string]*Province

	// Stats recorded during Load, useful for startup logging.
	OrphanDistricts int
	OrphanWards     int
}

// DistrictsOf returns p's districts in file insertion order.
func (p *Province) DistrictsOf() []*District {
	out := make([]*District, 0, len(p.districtOrder))
	for _, id := range p.districtOrder {
		if d, ok := p.Districts[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

// WardsOf returns d's wards in file insertion order.
func (d *District) WardsOf() []*Ward {
	out := make([]*Ward, 0, len(d.wardOrder))
	for _, id := range d.wardOrder {
		if w, ok := d.Wards[id]; ok {
			out = append(out, w)
		}
	}
	return out
}

// AllProvinces returns every province in the order the provinces file was
// read. Tie-breaking for same-named provinces relies on this order.
func (c *Catalog) AllProvinces() []*Province {
	out := make([]*Province, 0, len(c.order))
	for _, id := range c.order {
		if p, ok := c.Provinces[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ProvinceByName does a linear scan over canonical names. Acceptable per
// design: this is never called from the matching hot path.
func (c *Catalog) ProvinceByName(name string) (*Province, bool) {
	for _, p := range c.AllProvinces() {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Files groups the three delimited reference paths Load reads.
type Files struct {
	Provinces string // id;name;code
	Districts string // id;name;code;province_id
	Wards     string // id;name;code;district_id
}

// Load reads the three reference files and builds the hierarchy. A missing
// or malformed file is a fatal, caller-visible error: the process cannot
// serve queries without a catalog. Orphan child rows (parent id unknown)
// are dropped and counted, never fatal.
func Load(files Files, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cat := &Catalog{Provinces: make(map[string]*Province)}

	if err := loadProvinces(files.Provinces, cat); err != nil {
		return nil, fmt.Errorf("load provinces: %w", err)
	}
	if err := loadDistricts(files.Districts, cat, logger); err != nil {
		return nil, fmt.Errorf("load districts: %w", err)
	}
	if err := loadWards(files.Wards, cat, logger); err != nil {
		return nil, fmt.Errorf("load wards: %w", err)
	}

	logger.Info("catalog loaded",
		zap.Int("provinces", len(cat.Provinces)),
		zap.Int("orphan_districts", cat.OrphanDistricts),
		zap.Int("orphan_wards", cat.OrphanWards))

	return cat, nil
}

func openDelimited(path string) (*csv.Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r, f, nil
}

func loadProvinces(path string, cat *Catalog) error {
	r, f, err := openDelimited(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("malformed row: %w", err)
		}
		if len(rec) < 3 {
			continue
		}
		id, name, code := rec[0], rec[1], rec[2]
		if _, exists := cat.Provinces[id]; !exists {
			cat.order = append(cat.order, id)
		}
		cat.Provinces[id] = &Province{ID: id, Name: name, Code: code, Districts: make(map[string]*District)}
	}
	return nil
}

func loadDistricts(path string, cat *Catalog, logger *zap.Logger) error {
	r, f, err := openDelimited(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("malformed row: %w", err)
		}
		if len(rec) < 4 {
			continue
		}
		id, name, code, provinceID := rec[0], rec[1], rec[2], rec[3]
		p, ok := cat.Provinces[provinceID]
		if !ok {
			cat.OrphanDistricts++
			logger.Warn("orphan district row dropped", zap.String("district_id", id), zap.String("province_id", provinceID))
			continue
		}
		if _, exists := p.Districts[id]; !exists {
			p.districtOrder = append(p.districtOrder, id)
		}
		p.Districts[id] = &District{ID: id, Name: name, Code: code, ProvinceID: provinceID, Wards: make(map[string]*Ward)}
	}
	return nil
}

func loadWards(path string, cat *Catalog, logger *zap.Logger) error {
	r, f, err := openDelimited(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// Flat index so a ward row only needs its district id, not the
	// province id too.
	districtsByID := make(map[string]*District)
	for _, p := range cat.Provinces {
		for _, d := range p.Districts {
			districtsByID[d.ID] = d
		}
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("malformed row: %w", err)
		}
		if len(rec) < 4 {
			continue
		}
		id, name, code, districtID := rec[0], rec[1], rec[2], rec[3]
		d, ok := districtsByID[districtID]
		if !ok {
			cat.OrphanWards++
			logger.Warn("orphan ward row dropped", zap.String("ward_id", id), zap.String("district_id", districtID))
			continue
		}
		if _, exists := d.Wards[id]; !exists {
			d.wardOrder = append(d.wardOrder, id)
		}
		d.Wards[id] = &Ward{ID: id, Name: name, Code: code, DistrictID: districtID}
	}
	return nil
}
