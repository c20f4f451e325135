package reference

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault_IsIndependentCopy(t *testing.T) {
	a := Default()
	a.Territories[0] = "changed"
	a.ProvinceCodes["Ontario"] = "XX"

	b := Default()
	if b.Territories[0] != "Northwest Territories" {
		t.Errorf("Territories[0] = %q, defaults were mutated", b.Territories[0])
	}
	if b.ProvinceCodes["Ontario"] != "ON" {
		t.Errorf("ProvinceCodes[Ontario] = %q, defaults were mutated", b.ProvinceCodes["Ontario"])
	}
}

func TestDefault_Validates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestParse_OverridesOnlyGivenSections(t *testing.T) {
	data := []byte(`
abbreviations:
  - target: "College"
    replacement: "C"
groups:
  prairies: [Alberta, Saskatchewan, Manitoba]
`)
	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if diff := cmp.Diff([]Rule{{Target: "College", Replacement: "C"}}, s.Abbreviations); diff != "" {
		t.Errorf("abbreviations mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Territories, s.Territories); diff != "" {
		t.Errorf("territories should keep defaults (-want +got):\n%s", diff)
	}
	prairies, ok := s.Group("prairies")
	if !ok || len(prairies) != 3 {
		t.Errorf("Group(prairies) = %v, %v", prairies, ok)
	}
	if _, ok := s.Group(GroupLargePopulation); !ok {
		t.Error("default groups lost after adding a custom group")
	}
}

func TestParse_Empty(t *testing.T) {
	s, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error = %v", err)
	}
	if len(s.ProvincesTerritories) != len(ProvincesTerritoriesCA) {
		t.Errorf("ProvincesTerritories len = %d, want defaults", len(s.ProvincesTerritories))
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "unknown field",
			data:    "provinces: [Ontario]\n",
			wantErr: "decode yaml",
		},
		{
			name:    "empty abbreviation target",
			data:    "abbreviations:\n  - target: \"\"\n    replacement: x\n",
			wantErr: "empty target",
		},
		{
			name:    "duplicate status label",
			data:    "statuses:\n  - {label: a, column: A}\n  - {label: a, column: B}\n",
			wantErr: "duplicate label",
		},
		{
			name:    "blank territory",
			data:    "territories: [\" \"]\n",
			wantErr: "territories[0] is blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.yaml")
	if err := os.WriteFile(path, []byte("territories: [Yukon]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Yukon"}, s.Territories); diff != "" {
		t.Errorf("territories mismatch (-want +got):\n%s", diff)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) expected error")
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	want := Default()
	data, err := want.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()) error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeProvince(t *testing.T) {
	s := Default()
	tests := []struct {
		input string
		want  string
	}{
		{"Ontario", "ON"},
		{"  British Columbia ", "BC"},
		{"prince edward island", "PEI"},
		{"qc", "QC"},
		{"Canada", "Canada"},
		{"Yukon", "Yukon"},
	}
	for _, tt := range tests {
		if got := s.NormalizeProvince(tt.input); got != tt.want {
			t.Errorf("NormalizeProvince(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGroupNames(t *testing.T) {
	got := Default().GroupNames()
	want := []string{
		GroupLargePopulation, GroupOtherProvinces, GroupProvinces,
		GroupProvincesCA, GroupProvincesTerritories, GroupTerritories,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GroupNames mismatch (-want +got):\n%s", diff)
	}
}

func TestProvinceName(t *testing.T) {
	s := Default()
	tests := []struct {
		input string
		want  string
	}{
		{"ON", "Ontario"},
		{"bc", "British Columbia"},
		{"quebec", "Quebec"},
		{" Alberta ", "Alberta"},
		{"Yukon", "Yukon"},
		{"Canada", "Canada"},
	}
	for _, tt := range tests {
		if got := s.ProvinceName(tt.input); got != tt.want {
			t.Errorf("ProvinceName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
