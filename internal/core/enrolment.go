package core

import (
	"github.com/JonMunkholm/enrolment/internal/reference"
)

// Raw extract columns.
const (
	RawRefDate = "REF_DATE"
	RawGeo     = "GEO"
	RawStatus  = "Status of student in Canada"
	RawValue   = "VALUE"
)

// Output columns.
const (
	ColFiscalYear     = "FY Start"
	ColProvince       = "Province/Territory"
	ColInstitution    = "Institution Name"
	ColProgramType    = "Program type"
	ColCredentialType = "Credential type"
	ColFieldOfStudy   = "Field of study"
	ColStatus         = "Canadian Status"
	ColEnrolment      = "Enrolment"
	ColProvinceCode   = "Province Code"
)

// HousekeepingColumns are the coordinate and metadata columns every
// Statistics Canada extract carries. None of them survive normalisation.
var HousekeepingColumns = []string{
	"DGUID", "UOM", "UOM_ID", "SCALAR_FACTOR", "SCALAR_ID", "VECTOR",
	"COORDINATE", "STATUS", "SYMBOL", "TERMINATED", "DECIMALS",
}

// RecordColumns identify one output record, in output order.
var RecordColumns = []string{
	ColFiscalYear, ColProvince, ColInstitution,
	ColProgramType, ColCredentialType, ColFieldOfStudy,
}

// RequiredRawColumns must be present in an input extract.
var RequiredRawColumns = []string{RawRefDate, RawGeo, RawStatus, RawValue}

// EnrolmentOptions adjusts the standard enrolment pipeline.
type EnrolmentOptions struct {
	// Geographies, when non-empty, keeps only rows for these provinces.
	Geographies []string

	// ProvinceCodes adds a Province Code column after Province/Territory.
	ProvinceCodes bool

	TolerateUnresolvedGeography bool
}

// EnrolmentPipeline builds the standard sequence that turns a raw enrolment
// extract into one row per (year, province, institution, program) with the
// citizenship-status counts in separate columns.
func EnrolmentPipeline(ref *reference.Set, opts EnrolmentOptions) *Pipeline {
	canonical := make([]CategoryColumn, len(ref.Statuses))
	for i, s := range ref.Statuses {
		canonical[i] = CategoryColumn{Label: s.Label, Column: s.Column}
	}

	stages := []Stage{
		RequireStage(RequiredRawColumns...),
		DropStage(HousekeepingColumns...),
		RenameStage(map[string]string{
			RawRefDate: ColFiscalYear,
			RawStatus:  ColStatus,
			RawValue:   ColEnrolment,
		}),
		FiscalYearStage(ColFiscalYear),
		SplitGeographyStage(SplitConfig{
			Source:      RawGeo,
			Institution: ColInstitution,
			Geography:   ColProvince,
			Known:       ref.ProvincesTerritories,
		}),
		DropStage(RawGeo),
		AbbreviateStage(ColInstitution, ref.Abbreviations),
		RemoveTerritoriesStage(ColProvince, ref.Territories),
	}
	if len(opts.Geographies) > 0 {
		stages = append(stages, SelectGeographiesStage(ColProvince, opts.Geographies))
	}
	stages = append(stages,
		ReorderStage(RecordColumns...),
		PivotStage(PivotConfig{
			GroupBy:   RecordColumns,
			Category:  ColStatus,
			Value:     ColEnrolment,
			Canonical: canonical,
		}),
	)
	if opts.ProvinceCodes {
		stages = append(stages, ProvinceCodeStage(ColProvince, ColProvinceCode, ref.ProvinceCodes))
	}

	return NewPipeline(Options{TolerateUnresolvedGeography: opts.TolerateUnresolvedGeography}, stages...)
}
