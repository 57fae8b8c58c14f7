package core

// DisplayInfo is the presentation metadata for one category.
type DisplayInfo struct {
	Color string
	Title string
}

// DisplayTable holds renderer-only metadata; aggregation never reads it.
var DisplayTable = map[Category]DisplayInfo{
	EconomicCrisis:         {Color: "#1f77b4", Title: "Crise Économique 💸"},
	Terrorism:              {Color: "#ff7f0e", Title: "Terrorisme 💥"},
	InternationalTensions:  {Color: "#2ca02c", Title: "Tensions Internationales 🌍"},
	NuclearThreat:          {Color: "#d62728", Title: "Menace Nucléaire ☢️"},
	Protests:               {Color: "#9467bd", Title: "Manifestations 🗣️"},
	Wars:                   {Color: "#8c564b", Title: "Guerres ⚔️"},
	EnvironmentalDisasters: {Color: "#e377c2", Title: "Catastrophes Environnementales 🌪️"},
	PoliticalInstability:   {Color: "#7f7f7f", Title: "Instabilité Politique 🏛️"},
}

// MonthAbbreviations labels the 12 matrix columns.
var MonthAbbreviations = [MonthsPerYear]string{
	"Jan", "Fev", "Ma", "Avr", "Mai", "Jui", "Juil", "Aou", "Sep", "Oct", "Nov", "Dec",
}

// Display returns the metadata for c, falling back to the raw identifier.
func Display(c Category) DisplayInfo {
	if info, ok := DisplayTable[c]; ok {
		return info
	}
	return DisplayInfo{Color: "#000000", Title: string(c)}
}

// Report is everything a renderer needs for one run.
type Report struct {
	Categories  []Category // rendering order
	Matrix      Matrix
	TotalEvents int // all rows in the ledger, any category
}
