package reference

// Geography names as they appear in the GEO column of the enrolment extracts.
var (
	ProvincesTerritoriesCA = []string{
		"Alberta", "British Columbia", "Manitoba", "New Brunswick", "Newfoundland and Labrador",
		"Nova Scotia", "Ontario", "Prince Edward Island", "Quebec", "Saskatchewan",
		"Northwest Territories", "Nunavut", "Yukon", "Canada",
	}

	ProvincesCA = []string{
		"Alberta", "British Columbia", "Manitoba", "New Brunswick", "Newfoundland and Labrador",
		"Nova Scotia", "Ontario", "Prince Edward Island", "Quebec", "Saskatchewan", "Canada",
	}

	Provinces = []string{
		"Alberta", "British Columbia", "Manitoba", "New Brunswick", "Newfoundland and Labrador",
		"Nova Scotia", "Ontario", "Prince Edward Island", "Quebec", "Saskatchewan",
	}

	LargePopulationProvinces = []string{"Ontario", "Quebec", "Alberta", "British Columbia"}

	OtherProvinces = []string{
		"Manitoba", "New Brunswick", "Newfoundland and Labrador",
		"Nova Scotia", "Prince Edward Island", "Saskatchewan",
	}

	Territories = []string{"Northwest Territories", "Nunavut", "Yukon"}
)

// ProvinceCodes maps province names to their short codes.
var ProvinceCodes = map[string]string{
	"British Columbia":          "BC",
	"Alberta":                   "AB",
	"Ontario":                   "ON",
	"Prince Edward Island":      "PEI",
	"New Brunswick":             "NB",
	"Nova Scotia":               "NS",
	"Saskatchewan":              "SK",
	"Manitoba":                  "MB",
	"Quebec":                    "QC",
	"Newfoundland and Labrador": "NL",
}

// Abbreviations shortens institution names. Order matters: the long French and
// English suffixes go first so the shorter "University" style rules never see
// a half-rewritten name.
var Abbreviations = []Rule{
	{Target: " of Applied Arts and Technology", Replacement: ""},
	{Target: " d'art appliqués et de technologie", Replacement: ""},
	{Target: "d'arts appliqués et de technologie", Replacement: ""},
	{Target: " d'arts appliqués et de technologies", Replacement: ""},
	{Target: " Institute of Technology and Advanced Learning", Replacement: ""},
	{Target: " Community College", Replacement: " CC"},
	{Target: "University", Replacement: "U"},
	{Target: "Université", Replacement: "U"},
	{Target: "British Columbia", Replacement: "BC"},
}

// Citizenship-status labels used by the "Status of student in Canada" column.
const (
	StatusDomestic      = "Canadian students"
	StatusInternational = "International students"
	StatusUnreported    = "Not reported, status of student in Canada"
)

// Canonical enrolment column names produced by the status pivot.
const (
	DomesticEnrolment      = "Domestic Enrolment"
	InternationalEnrolment = "International Enrolment"
	UnreportedEnrolment    = "CA Status Unreported Enrolment"
)

// Group names accepted by Set.Group.
const (
	GroupProvincesTerritories = "provinces_territories"
	GroupProvincesCA          = "provinces_ca"
	GroupProvinces            = "provinces"
	GroupLargePopulation      = "large_population"
	GroupOtherProvinces       = "other_provinces"
	GroupTerritories          = "territories"
)
