// Package reference holds the lookup data the normalisation stages depend on:
// recognised geographies, territories to exclude, province codes, ordered
// institution-name abbreviations and the citizenship-status labels to pivot.
//
// A Set is built once (from the defaults or a YAML file) and then only read,
// so it is safe to share across concurrent pipeline runs.
package reference

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule is one literal substring replacement.
type Rule struct {
	Target      string `yaml:"target"`
	Replacement string `yaml:"replacement"`
}

// Status maps a raw citizenship-status label to its canonical output column.
type Status struct {
	Label  string `yaml:"label"`
	Column string `yaml:"column"`
}

// Set is a complete collection of reference data.
type Set struct {
	ProvincesTerritories []string            `yaml:"provinces_territories"`
	Territories          []string            `yaml:"territories"`
	ProvinceCodes        map[string]string   `yaml:"province_codes"`
	Abbreviations        []Rule              `yaml:"abbreviations"`
	Statuses             []Status            `yaml:"statuses"`
	Groups               map[string][]string `yaml:"groups,omitempty"`
}

// Default returns the built-in reference data. Each call returns a fresh copy.
func Default() *Set {
	codes := make(map[string]string, len(ProvinceCodes))
	for k, v := range ProvinceCodes {
		codes[k] = v
	}
	return &Set{
		ProvincesTerritories: slices.Clone(ProvincesTerritoriesCA),
		Territories:          slices.Clone(Territories),
		ProvinceCodes:        codes,
		Abbreviations:        slices.Clone(Abbreviations),
		Statuses: []Status{
			{Label: StatusDomestic, Column: DomesticEnrolment},
			{Label: StatusInternational, Column: InternationalEnrolment},
			{Label: StatusUnreported, Column: UnreportedEnrolment},
		},
		Groups: map[string][]string{
			GroupProvincesCA:     slices.Clone(ProvincesCA),
			GroupProvinces:       slices.Clone(Provinces),
			GroupLargePopulation: slices.Clone(LargePopulationProvinces),
			GroupOtherProvinces:  slices.Clone(OtherProvinces),
		},
	}
}

// Load reads a YAML reference file. Sections left out of the file fall back
// to the defaults, so a file may override only the abbreviations, say.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reference: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("reference: %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes YAML reference data over the defaults and validates the result.
func Parse(data []byte) (*Set, error) {
	var raw Set
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	s := Default()
	if raw.ProvincesTerritories != nil {
		s.ProvincesTerritories = raw.ProvincesTerritories
	}
	if raw.Territories != nil {
		s.Territories = raw.Territories
	}
	if raw.ProvinceCodes != nil {
		s.ProvinceCodes = raw.ProvinceCodes
	}
	if raw.Abbreviations != nil {
		s.Abbreviations = raw.Abbreviations
	}
	if raw.Statuses != nil {
		s.Statuses = raw.Statuses
	}
	for name, members := range raw.Groups {
		s.Groups[name] = members
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports every structural problem in the set at once.
func (s *Set) Validate() error {
	var errs []string

	if len(s.ProvincesTerritories) == 0 {
		errs = append(errs, "provinces_territories must not be empty")
	}
	for i, t := range s.Territories {
		if strings.TrimSpace(t) == "" {
			errs = append(errs, fmt.Sprintf("territories[%d] is blank", i))
		}
	}
	for i, r := range s.Abbreviations {
		if r.Target == "" {
			errs = append(errs, fmt.Sprintf("abbreviations[%d] has an empty target", i))
		}
	}
	labels := make(map[string]bool, len(s.Statuses))
	columns := make(map[string]bool, len(s.Statuses))
	for i, st := range s.Statuses {
		if st.Label == "" || st.Column == "" {
			errs = append(errs, fmt.Sprintf("statuses[%d] needs both label and column", i))
			continue
		}
		if labels[st.Label] {
			errs = append(errs, fmt.Sprintf("statuses[%d]: duplicate label %q", i, st.Label))
		}
		if columns[st.Column] {
			errs = append(errs, fmt.Sprintf("statuses[%d]: duplicate column %q", i, st.Column))
		}
		labels[st.Label] = true
		columns[st.Column] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid reference data:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Group returns the named list of geographies. The reserved names
// "provinces_territories" and "territories" resolve to the main lists.
func (s *Set) Group(name string) ([]string, bool) {
	switch name {
	case GroupProvincesTerritories:
		return slices.Clone(s.ProvincesTerritories), true
	case GroupTerritories:
		return slices.Clone(s.Territories), true
	}
	g, ok := s.Groups[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(g), true
}

// GroupNames returns every name Group accepts, sorted.
func (s *Set) GroupNames() []string {
	names := []string{GroupProvincesTerritories, GroupTerritories}
	for n := range s.Groups {
		if n != GroupProvincesTerritories && n != GroupTerritories {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names
}

// NormalizeProvince returns the short code for a province name. An input that
// is already a known code is returned as the code; anything else is returned
// trimmed but otherwise unchanged.
func (s *Set) NormalizeProvince(name string) string {
	name = strings.TrimSpace(name)
	if code, ok := s.ProvinceCodes[name]; ok {
		return code
	}
	for full, code := range s.ProvinceCodes {
		if strings.EqualFold(full, name) || strings.EqualFold(code, name) {
			return code
		}
	}
	return name
}

// ProvinceName returns the full province name for a code or a name in any
// letter case. Unknown input is returned trimmed.
func (s *Set) ProvinceName(nameOrCode string) string {
	code := s.NormalizeProvince(nameOrCode)
	for full, c := range s.ProvinceCodes {
		if c == code {
			return full
		}
	}
	return strings.TrimSpace(nameOrCode)
}

// Marshal renders the set as YAML.
func (s *Set) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("reference: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("reference: encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}
