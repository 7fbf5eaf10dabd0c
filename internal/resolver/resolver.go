// Package resolver implements C6, the address resolver: right-to-left
// token-suffix enumeration across province -> district -> ward, honoring
// hierarchy scoping once a parent is matched.
package resolver

import (
	"strings"

	"github.com/address-parser/internal/abbrev"
	"github.com/address-parser/internal/catalog"
	"github.com/address-parser/internal/fuzzy"
	"github.com/address-parser/internal/normalizer"
	"github.com/address-parser/internal/rank"
	"go.uber.org/zap"
)

// Result is the three-field output every resolve call produces. Each
// field is either a catalog canonical name or the empty string.
type Result struct {
	Province string
	District string
	Ward     string
}

// Levels bundles the three pre-built full-level fuzzy indexes. Built once
// at startup from the catalog and shared read-only across requests.
type Levels struct {
	Province *fuzzy.Level
	District *fuzzy.Level
	Ward     *fuzzy.Level
}

// Resolver ties the catalog, the abbreviation table, and the full-level
// fuzzy indexes together to answer Resolve calls.
type Resolver struct {
	Catalog *catalog.Catalog
	Levels  *Levels
	Abbrev  *abbrev.Table
	Logger  *zap.Logger
}

// New returns a Resolver; a nil logger is replaced with a no-op one.
func New(cat *catalog.Catalog, levels *Levels, abbr *abbrev.Table, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{Catalog: cat, Levels: levels, Abbrev: abbr, Logger: logger}
}

// Resolve runs the three-phase suffix search over a cleaned, tokenized
// address. Each phase works on a shorter sub-slice of words once an
// earlier phase commits a suffix; the caller's slice is not modified.
func (r *Resolver) Resolve(words []string) Result {
	var result Result

	var matchedProvince *catalog.Province
	words, matchedProvince = r.provincePhase(words, &result)

	var matchedDistrict *catalog.District
	words, matchedDistrict = r.districtPhase(words, matchedProvince, &result)

	_ = r.wardPhase(words, matchedDistrict, &result)

	return result
}

// provincePhase tries progressively longer right-anchored suffixes against
// the full (unscoped) province level, per spec: Vietnamese addresses place
// the most general unit last.
func (r *Resolver) provincePhase(words []string, result *Result) ([]string, *catalog.Province) {
	for i := 0; i < len(words); i++ {
		suffix := words[len(words)-(i+1):]
		s := strings.Join(suffix, " ")

		query := s
		if len([]rune(s)) <= abbrev.MaxSubstituteLength {
			query = r.Abbrev.Expand(s)
		}

		canonical, ok := rank.AgainstLevel(query, r.Levels.Province)
		if !ok {
			continue
		}

		province, found := r.Catalog.ProvinceByName(canonical)
		if !found {
			// The ranker's fuzzy index and the catalog are built from the
			// same name list at startup, so this should never happen; if
			// it does, treat it like no match rather than panic mid-query.
			r.Logger.Warn("province ranker returned a name absent from the catalog", zap.String("name", canonical))
			continue
		}

		result.Province = canonical
		return words[:len(words)-(i+1)], province
	}
	return words, nil
}

// districtPhase mirrors provincePhase, scoped to the matched province's
// districts when one was found.
func (r *Resolver) districtPhase(words []string, province *catalog.Province, result *Result) ([]string, *catalog.District) {
	if province != nil {
		candidates := districtEntries(province)
		for i := 0; i < len(words); i++ {
			suffix := strings.Join(words[len(words)-(i+1):], " ")
			canonical, ok := rank.Against(suffix, candidates)
			if !ok {
				continue
			}
			result.District = canonical
			return words[:len(words)-(i+1)], findDistrictByName(province, canonical)
		}
		return words, nil
	}

	for i := 0; i < len(words); i++ {
		suffix := strings.Join(words[len(words)-(i+1):], " ")
		canonical, ok := rank.AgainstLevel(suffix, r.Levels.District)
		if !ok {
			continue
		}
		result.District = canonical
		district := r.findDistrictAnyProvince(canonical)
		return words[:len(words)-(i+1)], district
	}
	return words, nil
}

// wardPhase mirrors districtPhase, scoped to the matched district's wards
// when one was found.
func (r *Resolver) wardPhase(words []string, district *catalog.District, result *Result) bool {
	if district != nil {
		candidates := wardEntries(district)
		for i := 0; i < len(words); i++ {
			suffix := strings.Join(words[len(words)-(i+1):], " ")
			canonical, ok := rank.Against(suffix, candidates)
			if !ok {
				continue
			}
			result.Ward = canonical
			return true
		}
		return false
	}

	for i := 0; i < len(words); i++ {
		suffix := strings.Join(words[len(words)-(i+1):], " ")
		canonical, ok := rank.AgainstLevel(suffix, r.Levels.Ward)
		if !ok {
			continue
		}
		result.Ward = canonical
		return true
	}
	return false
}

func districtEntries(p *catalog.Province) []fuzzy.Entry {
	districts := p.DistrictsOf()
	out := make([]fuzzy.Entry, 0, len(districts))
	for _, d := range districts {
		out = append(out, fuzzy.Entry{Canonical: d.Name, Normalized: normalizedNameOf(d.Name)})
	}
	return out
}

func wardEntries(d *catalog.District) []fuzzy.Entry {
	wards := d.WardsOf()
	out := make([]fuzzy.Entry, 0, len(wards))
	for _, w := range wards {
		out = append(out, fuzzy.Entry{Canonical: w.Name, Normalized: normalizedNameOf(w.Name)})
	}
	return out
}

func normalizedNameOf(name string) string {
	return normalizer.Normalize(name)
}

func findDistrictByName(p *catalog.Province, name string) *catalog.District {
	for _, d := range p.DistrictsOf() {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func (r *Resolver) findDistrictAnyProvince(name string) *catalog.District {
	for _, p := range r.Catalog.AllProvinces() {
		if d := findDistrictByName(p, name); d != nil {
			return d
		}
	}
	return nil
}
