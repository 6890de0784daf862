package plinko

// PitchStyle holds the display name and color for a pitch type code.
type PitchStyle struct {
	Name  string
	Color string
}

// UnknownColor is used for pitch type codes outside the palette.
const UnknownColor = "#888888"

// palette maps Statcast pitch type codes to Baseball Savant's colors.
var palette = map[string]PitchStyle{
	"FF": {Name: "4-Seam FB", Color: "#d22d49"},
	"SI": {Name: "Sinker", Color: "#c14a09"},
	"FC": {Name: "Cutter", Color: "#933f2c"},
	"SL": {Name: "Slider", Color: "#ebc51d"},
	"CU": {Name: "Curveball", Color: "#00d1ed"},
	"CH": {Name: "Changeup", Color: "#1dbe3a"},
	"FS": {Name: "Splitter", Color: "#13bb6b"},
	"KC": {Name: "Knuckle Curve", Color: "#3bacb6"},
	"ST": {Name: "Sweeper", Color: "#f598ce"},
	"SV": {Name: "Slurve", Color: "#ea7125"},
}

// Style returns the display style for a pitch type code. Codes outside the
// palette come back with the raw code as their name and the fallback color.
func Style(code string) PitchStyle {
	if s, ok := palette[code]; ok {
		return s
	}
	return PitchStyle{Name: code, Color: UnknownColor}
}
