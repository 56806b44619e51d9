package entities

// NotAvailable replaces any label field the registry did not return.
const NotAvailable = "Not available"

// LabelRecord holds the label fields extracted from a registry document.
// Fields are never empty; missing data is NotAvailable.
type LabelRecord struct {
	Name     string `json:"name"`
	Usage    string `json:"usage"`
	Dosage   string `json:"dosage"`
	Warnings string `json:"warnings"`
	Effects  string `json:"effects"`
}

// Language is a user-selectable language.
type Language struct {
	Tag        string `json:"tag"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
}
