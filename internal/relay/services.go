package relay

// serviceLabels коды услуг из формы и их названия в письмах.
var serviceLabels = map[string]string{
	"emergency":      "Emergency Plumbing (24/7)",
	"general":        "General Plumbing Repairs",
	"blocked-drains": "Blocked Drains",
	"hotwater":       "Hot Water System",
	"gas":            "Gas Fitting",
	"leaks":          "Leak Detection & Repair",
	"renovation":     "Bathroom/Kitchen Renovation",
	"other":          "Other Plumbing Service",
}

// ServiceLabel возвращает название услуги. Неизвестный код возвращается как есть,
// пустой превращается в "Not specified".
func ServiceLabel(code string) string {
	if label, ok := serviceLabels[code]; ok {
		return label
	}
	if code != "" {
		return code
	}
	return "Not specified"
}
