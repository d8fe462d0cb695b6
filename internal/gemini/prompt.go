package gemini

// BuildExtractionPrompt is the fixed instruction sent with every document.
// It enumerates the exact four-section schema and asks the model to apply
// date/amount formatting itself as a first pass; the mapper remains the
// authoritative second pass.
func BuildExtractionPrompt() string {
	return "Extract all insurance form fields from the document. Return structured JSON data with: " +
		"1. 'Policy & Vehicle Details' including Policy_Number, Full_Name, NIC_or_Reg_No, Postal_Address, Mobile, " +
		"Landline, Email, preferred_language, Financial_Interest, Accident_free_or_other_damages, " +
		"Claims_in_Last_3_Years, Registered_Owner, Business_Occupation; " +
		"2. 'Vehicle Information' including Make_Model, Registration_No, Chassis_No, Year_of_Make, " +
		"First_Registration_Date, Country_of_Make, Fuel_Type, Cubic_Capacity, Seating_Capacity, " +
		"Vehicle_Registered_As, Usage_of_Vehicle, Market_Value, Extra_Fittings_Value, Total_Value_Insured; " +
		"3. 'Insurance Coverage' as a list of objects representing all additional coverage options that are " +
		"ticked, marked, or selected in the form. Each object should include: 'Cover Type' (the name/description " +
		"of the coverage), 'Amount' (any specified value or limit, if provided, otherwise empty string), and " +
		"'Additional Info' (any extra details related to that coverage). Include all ticked/marked coverages " +
		"from sections like 'Additional Covers'; " +
		"4. 'Policy & Proposer' including Period_From, Period_To, Proposer_Date, Proposer_Signature. " +
		"For Proposer_Signature, if it contains a readable name, extract the name; if a signature is present " +
		"but not readable as a name, return 'available'; if no signature is present, return an empty string. " +
		"Format all date fields (Year_of_Make, First_Registration_Date, Period_From, Period_To, Proposer_Date) " +
		"in 'DD/MM/YYYY' format (e.g., '01/01/2018'). " +
		"Format all amount fields (Market_Value, Extra_Fittings_Value, Total_Value_Insured, and 'Amount' in " +
		"Insurance Coverage) with commas as thousand separators (e.g., '4,500,000'). " +
		"Ensure the output is valid JSON. If a field is not present or cannot be determined, use an empty " +
		"string ('') or an empty list ([]) as appropriate."
}
