package catalog

// Choice pairs a stored machine value with its human-readable label.
type Choice struct {
	Value string
	Label string
}

// Departments and Levels are the static enumerations offered by the filter
// options endpoint. They are fixed institutional values, not derived from
// catalog data.
var Departments = []Choice{
	{Value: "computer_science", Label: "Computer Science"},
	{Value: "computer_engineering", Label: "Computer Engineering"},
	{Value: "civil_engineering", Label: "Civil Engineering"},
	{Value: "electrical_engineering", Label: "Electrical Engineering"},
	{Value: "mechanical_engineering", Label: "Mechanical Engineering"},
	{Value: "chemical_engineering", Label: "Chemical Engineering"},
	{Value: "science_laboratory", Label: "Science Laboratory Technology"},
	{Value: "food_technology", Label: "Food Technology"},
	{Value: "accountancy", Label: "Accountancy"},
	{Value: "business_admin", Label: "Business Administration"},
	{Value: "marketing", Label: "Marketing"},
	{Value: "mass_comm", Label: "Mass Communication"},
}

var Levels = []Choice{
	{Value: "nd1", Label: "ND 1"},
	{Value: "nd2", Label: "ND 2"},
	{Value: "hnd1", Label: "HND 1"},
	{Value: "hnd2", Label: "HND 2"},
}

// Sentinels meaning "no filter". Clients send them as filter values and the
// filter options endpoint offers them as the first entry of each list.
const (
	AllDepartments = "All Departments"
	AllLevels      = "All Levels"
)

// DepartmentLabels returns the labels of all defined departments.
func DepartmentLabels() []string {
	return labels(Departments)
}

// LevelLabels returns the labels of all defined levels.
func LevelLabels() []string {
	return labels(Levels)
}

func labels(choices []Choice) []string {
	out := make([]string, len(choices))
	for i, c := range choices {
		out[i] = c.Label
	}
	return out
}

// ValidDepartment reports whether v is a defined department machine value.
func ValidDepartment(v string) bool {
	return hasValue(Departments, v)
}

// ValidLevel reports whether v is a defined level machine value.
func ValidLevel(v string) bool {
	return hasValue(Levels, v)
}

func hasValue(choices []Choice, v string) bool {
	for _, c := range choices {
		if c.Value == v {
			return true
		}
	}
	return false
}

// NormalizeDepartment resolves s to a department machine value. It accepts
// either the machine value or the human label; empty input, the
// "All Departments" sentinel, and unrecognized labels all resolve to "",
// meaning no filter.
func NormalizeDepartment(s string) string {
	if s == "" || s == AllDepartments {
		return ""
	}
	return normalize(Departments, s)
}

// NormalizeLevel resolves s to a level machine value, with the same rules as
// NormalizeDepartment.
func NormalizeLevel(s string) string {
	if s == "" || s == AllLevels {
		return ""
	}
	return normalize(Levels, s)
}

func normalize(choices []Choice, s string) string {
	for _, c := range choices {
		if c.Value == s || c.Label == s {
			return c.Value
		}
	}
	return ""
}
