package model

// AddonPreset quick-add add-on line offered by the calculator (quota preset)
type AddonPreset struct {
	Label     string  `json:"label"`
	Desc      string  `json:"desc,omitempty"`
	Source    string  `json:"source,omitempty"`
	Type      string  `json:"type"`
	Qty       float64 `json:"qty,omitempty"`
	UnitExVAT float64 `json:"unit_exVAT"`
	Category  string  `json:"category,omitempty"`
}

// Line converts the preset into a request add-on line
func (p AddonPreset) Line() AddonLine {
	desc := p.Desc
	if desc == "" {
		desc = p.Label
	}
	price := p.UnitExVAT
	if p.Qty > 0 {
		price *= p.Qty
	}
	return AddonLine{Description: desc, Source: p.Source, Type: p.Type, Price: price}
}
