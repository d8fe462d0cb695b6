// Package record defines the two shapes an extracted insurance document moves
// through: the nested RawExtraction produced by the model and the flat,
// editable FlatRecord the review wizard and exporter work with.
package record

// CoverEntry is one row of the additional-covers table.
type CoverEntry struct {
	CoverType      string `json:"Cover Type"`
	Amount         string `json:"Amount"`
	AdditionalInfo string `json:"Additional Info"`
}

// ProposerDetails carries the proposer date plus the classified signature:
// "" (absent), "available" (present but unreadable) or a legible name.
type ProposerDetails struct {
	Date              string `json:"date"`
	ProposerSignature string `json:"proposer_signature"`
}

// PolicyVehicleSection mirrors the "Policy & Vehicle Details" section of the
// extraction response.
type PolicyVehicleSection struct {
	PolicyNumber               string `json:"Policy_Number"`
	FullName                   string `json:"Full_Name"`
	NICOrRegNo                 string `json:"NIC_or_Reg_No"`
	PostalAddress              string `json:"Postal_Address"`
	Mobile                     string `json:"Mobile"`
	Landline                   string `json:"Landline"`
	Email                      string `json:"Email"`
	PreferredLanguage          string `json:"preferred_language"`
	FinancialInterest          string `json:"Financial_Interest"`
	AccidentFreeOrOtherDamages string `json:"Accident_free_or_other_damages"`
	ClaimsInLast3Years         string `json:"Claims_in_Last_3_Years"`
	RegisteredOwner            string `json:"Registered_Owner"`
	BusinessOccupation         string `json:"Business_Occupation"`
}

// VehicleSection mirrors the "Vehicle Information" section.
type VehicleSection struct {
	MakeModel             string `json:"Make_Model"`
	RegistrationNo        string `json:"Registration_No"`
	ChassisNo             string `json:"Chassis_No"`
	YearOfMake            string `json:"Year_of_Make"`
	FirstRegistrationDate string `json:"First_Registration_Date"`
	CountryOfMake         string `json:"Country_of_Make"`
	FuelType              string `json:"Fuel_Type"`
	CubicCapacity         string `json:"Cubic_Capacity"`
	SeatingCapacity       string `json:"Seating_Capacity"`
	VehicleRegisteredAs   string `json:"Vehicle_Registered_As"`
	UsageOfVehicle        string `json:"Usage_of_Vehicle"`
	MarketValue           string `json:"Market_Value"`
	ExtraFittingsValue    string `json:"Extra_Fittings_Value"`
	TotalValueInsured     string `json:"Total_Value_Insured"`
}

// ProposerSection mirrors the "Policy & Proposer" section.
type ProposerSection struct {
	PeriodFrom        string `json:"Period_From"`
	PeriodTo          string `json:"Period_To"`
	ProposerDate      string `json:"Proposer_Date"`
	ProposerSignature string `json:"Proposer_Signature"`
}

// RawExtraction is the nested document shape returned by the extraction
// service. It is produced once per document and discarded after flattening.
type RawExtraction struct {
	PolicyVehicle PolicyVehicleSection `json:"Policy & Vehicle Details"`
	Vehicle       VehicleSection       `json:"Vehicle Information"`
	Coverage      []CoverEntry         `json:"Insurance Coverage"`
	Proposer      ProposerSection      `json:"Policy & Proposer"`
}

// FlatRecord is the flat editable representation of one document. Every
// string field is always present (empty by default) so readers never need
// presence checks.
type FlatRecord struct {
	PolicyNumber               string `json:"Policy_Number"`
	FullName                   string `json:"Full_Name"`
	NICOrRegNo                 string `json:"NIC_or_Reg_No"`
	PostalAddress              string `json:"Postal_Address"`
	Mobile                     string `json:"Mobile"`
	Landline                   string `json:"Landline"`
	Email                      string `json:"Email"`
	PreferredLanguage          string `json:"preferred_language"`
	FinancialInterest          string `json:"Financial_Interest"`
	AccidentFreeOrOtherDamages string `json:"Accident_free_or_other_damages"`
	ClaimsInLast3Years         string `json:"Claims_in_Last_3_Years"`
	RegisteredOwner            string `json:"Registered_Owner"`
	BusinessOccupation         string `json:"Business_Occupation"`

	MakeModel             string `json:"Make_Model"`
	RegistrationNo        string `json:"Registration_No"`
	ChassisNo             string `json:"Chassis_No"`
	YearOfMake            string `json:"Year_of_Make"`
	FirstRegistrationDate string `json:"First_Registration_Date"`
	CountryOfMake         string `json:"Country_of_Make"`
	FuelType              string `json:"Fuel_Type"`
	CubicCapacity         string `json:"Cubic_Capacity"`
	SeatingCapacity       string `json:"Seating_Capacity"`
	VehicleRegisteredAs   string `json:"Vehicle_Registered_As"`
	UsageOfVehicle        string `json:"Usage_of_Vehicle"`
	MarketValue           string `json:"Market_Value"`
	ExtraFittingsValue    string `json:"Extra_Fittings_Value"`
	TotalValueInsured     string `json:"Total_Value_Insured"`

	PeriodFrom string `json:"Period_From"`
	PeriodTo   string `json:"Period_To"`

	Covers   []CoverEntry    `json:"covers"`
	Proposer ProposerDetails `json:"proposer_details"`
}

// PolicyVehicleFields is the fixed column order of the "Policy & Vehicle
// Details" sheet and the first wizard step.
var PolicyVehicleFields = []string{
	"Policy_Number", "Full_Name", "NIC_or_Reg_No", "Postal_Address", "Mobile",
	"Landline", "Email", "preferred_language", "Financial_Interest",
	"Accident_free_or_other_damages", "Claims_in_Last_3_Years",
	"Registered_Owner", "Business_Occupation",
}

// VehicleInfoFields is the fixed column order of the "Vehicle Information"
// sheet and the second wizard step.
var VehicleInfoFields = []string{
	"Make_Model", "Registration_No", "Chassis_No", "Year_of_Make",
	"First_Registration_Date", "Country_of_Make", "Fuel_Type",
	"Cubic_Capacity", "Seating_Capacity", "Vehicle_Registered_As",
	"Usage_of_Vehicle", "Market_Value", "Extra_Fittings_Value",
	"Total_Value_Insured",
}

// CoverageFields is the fixed column order of the "Insurance Coverage" sheet.
var CoverageFields = []string{"Cover Type", "Amount", "Additional Info"}

// PeriodProposerFields is the fixed column order of the "Policy & Proposer"
// sheet.
var PeriodProposerFields = []string{
	"Period_From", "Period_To", "Proposer_Date", "Proposer_Signature",
}

// fieldPtr resolves a flat field name to its storage. Covers and proposer
// details are structured and handled separately.
func (r *FlatRecord) fieldPtr(name string) *string {
	switch name {
	case "Policy_Number":
		return &r.PolicyNumber
	case "Full_Name":
		return &r.FullName
	case "NIC_or_Reg_No":
		return &r.NICOrRegNo
	case "Postal_Address":
		return &r.PostalAddress
	case "Mobile":
		return &r.Mobile
	case "Landline":
		return &r.Landline
	case "Email":
		return &r.Email
	case "preferred_language":
		return &r.PreferredLanguage
	case "Financial_Interest":
		return &r.FinancialInterest
	case "Accident_free_or_other_damages":
		return &r.AccidentFreeOrOtherDamages
	case "Claims_in_Last_3_Years":
		return &r.ClaimsInLast3Years
	case "Registered_Owner":
		return &r.RegisteredOwner
	case "Business_Occupation":
		return &r.BusinessOccupation
	case "Make_Model":
		return &r.MakeModel
	case "Registration_No":
		return &r.RegistrationNo
	case "Chassis_No":
		return &r.ChassisNo
	case "Year_of_Make":
		return &r.YearOfMake
	case "First_Registration_Date":
		return &r.FirstRegistrationDate
	case "Country_of_Make":
		return &r.CountryOfMake
	case "Fuel_Type":
		return &r.FuelType
	case "Cubic_Capacity":
		return &r.CubicCapacity
	case "Seating_Capacity":
		return &r.SeatingCapacity
	case "Vehicle_Registered_As":
		return &r.VehicleRegisteredAs
	case "Usage_of_Vehicle":
		return &r.UsageOfVehicle
	case "Market_Value":
		return &r.MarketValue
	case "Extra_Fittings_Value":
		return &r.ExtraFittingsValue
	case "Total_Value_Insured":
		return &r.TotalValueInsured
	case "Period_From":
		return &r.PeriodFrom
	case "Period_To":
		return &r.PeriodTo
	}
	return nil
}

// Field returns the value of a flat field by name; ok is false for unknown
// names.
func (r *FlatRecord) Field(name string) (string, bool) {
	p := r.fieldPtr(name)
	if p == nil {
		return "", false
	}
	return *p, true
}

// SetField assigns a flat field by name and reports whether the name is known.
func (r *FlatRecord) SetField(name, value string) bool {
	p := r.fieldPtr(name)
	if p == nil {
		return false
	}
	*p = value
	return true
}
