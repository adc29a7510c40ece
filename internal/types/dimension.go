package types

// Dimension is a field or derived attribute records are grouped by.
// The string value doubles as the chart/query-parameter name; for most
// dimensions it is also the record field name.
type Dimension string

const (
	DimUnit         Dimension = "unit"
	DimMarket       Dimension = "market"
	DimRegion       Dimension = "bill_to_region"
	DimNature       Dimension = "nature_of_complaint"
	DimCustomer     Dimension = "customer_name"
	DimMonth        Dimension = "month"
	DimYear         Dimension = "year"
	DimStatus       Dimension = "status"
	DimMode         Dimension = "complaint_mode"
	DimDepartment   Dimension = "department"
	DimType         Dimension = "complaint_type"
	DimCustomerType Dimension = "customer_type"
)

// AllDimensions lists every chartable dimension in display order.
var AllDimensions = []Dimension{
	DimUnit, DimMarket, DimRegion, DimNature, DimCustomer,
	DimMonth, DimYear, DimStatus, DimMode, DimDepartment,
	DimType, DimCustomerType,
}

// Key derives the record's category under d. Missing or malformed
// values land in the Unknown bucket rather than failing.
func (d Dimension) Key(r Record) string {
	switch d {
	case DimUnit:
		v := r.Field("unit_no")
		if v == Unknown {
			return Unknown
		}
		return "Unit " + v
	case DimMonth:
		t, ok := r.Date()
		if !ok {
			return Unknown
		}
		return t.Format("Jan")
	case DimYear:
		t, ok := r.Date()
		if !ok {
			return Unknown
		}
		return t.Format("2006")
	default:
		return r.Field(string(d))
	}
}
