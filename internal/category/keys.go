package category

// Well-known category keys used by the built-in modules.
const (
	Text        = "TEXT"
	DateTime    = "DATE_TIME"
	Math        = "MATH"
	Logical     = "LOGICAL"
	Information = "INFORMATION"
	Financial   = "FINANCIAL"
	DataSources = "DATASOURCES"
)

// Keys returns the well-known category keys.
func Keys() []string {
	return []string{Text, DateTime, Math, Logical, Information, Financial, DataSources}
}
