package record

import (
	"strings"
	"unicode"

	"github.com/tharindu-jay/policyscan/internal/format"
)

// Flatten maps a nested extraction into the flat editable record, applying
// the date and numeric normalization rules per field. It is total: missing
// sections or fields flatten to empty strings and an empty cover list.
func Flatten(raw RawExtraction) FlatRecord {
	out := FlatRecord{
		PolicyNumber:               raw.PolicyVehicle.PolicyNumber,
		FullName:                   raw.PolicyVehicle.FullName,
		NICOrRegNo:                 raw.PolicyVehicle.NICOrRegNo,
		PostalAddress:              raw.PolicyVehicle.PostalAddress,
		Mobile:                     raw.PolicyVehicle.Mobile,
		Landline:                   raw.PolicyVehicle.Landline,
		Email:                      raw.PolicyVehicle.Email,
		PreferredLanguage:          raw.PolicyVehicle.PreferredLanguage,
		FinancialInterest:          raw.PolicyVehicle.FinancialInterest,
		AccidentFreeOrOtherDamages: raw.PolicyVehicle.AccidentFreeOrOtherDamages,
		ClaimsInLast3Years:         raw.PolicyVehicle.ClaimsInLast3Years,
		RegisteredOwner:            raw.PolicyVehicle.RegisteredOwner,
		BusinessOccupation:         raw.PolicyVehicle.BusinessOccupation,

		MakeModel:             raw.Vehicle.MakeModel,
		RegistrationNo:        raw.Vehicle.RegistrationNo,
		ChassisNo:             raw.Vehicle.ChassisNo,
		YearOfMake:            format.NormalizeDate(raw.Vehicle.YearOfMake),
		FirstRegistrationDate: format.NormalizeDate(raw.Vehicle.FirstRegistrationDate),
		CountryOfMake:         raw.Vehicle.CountryOfMake,
		FuelType:              raw.Vehicle.FuelType,
		CubicCapacity:         raw.Vehicle.CubicCapacity,
		SeatingCapacity:       raw.Vehicle.SeatingCapacity,
		VehicleRegisteredAs:   raw.Vehicle.VehicleRegisteredAs,
		UsageOfVehicle:        raw.Vehicle.UsageOfVehicle,
		MarketValue:           format.FormatNumeric(raw.Vehicle.MarketValue),
		ExtraFittingsValue:    format.FormatNumeric(raw.Vehicle.ExtraFittingsValue),
		TotalValueInsured:     format.FormatNumeric(raw.Vehicle.TotalValueInsured),

		PeriodFrom: format.NormalizeDate(raw.Proposer.PeriodFrom),
		PeriodTo:   format.NormalizeDate(raw.Proposer.PeriodTo),

		Covers: make([]CoverEntry, 0, len(raw.Coverage)),
		Proposer: ProposerDetails{
			Date:              format.NormalizeDate(raw.Proposer.ProposerDate),
			ProposerSignature: ClassifySignature(raw.Proposer.ProposerSignature),
		},
	}

	for _, c := range raw.Coverage {
		out.Covers = append(out.Covers, CoverEntry{
			CoverType:      c.CoverType,
			Amount:         format.FormatNumeric(c.Amount),
			AdditionalInfo: c.AdditionalInfo,
		})
	}
	return out
}

// ClassifySignature reduces a raw signature string to the three-valued
// classification: empty for no signature, the literal string when it holds at
// least one letter (a legible name), otherwise the marker "available".
func ClassifySignature(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	for _, r := range raw {
		if unicode.IsLetter(r) {
			return raw
		}
	}
	return "available"
}
