package models

// Transfers holds one row per transfer portal entry. Upstream provides no
// identifier, so a player's entry is keyed by season, name and origin school.
var Transfers = &Schema{
	Table:            "transfers",
	PrimaryKey:       []string{"season", "first_name", "last_name", "origin"},
	WriteDisposition: WriteMerge,
	Columns: []Column{
		{Name: "season", Source: "season", Kind: KindInteger},
		{Name: "first_name", Source: "firstName", Kind: KindText},
		{Name: "last_name", Source: "lastName", Kind: KindText},
		{Name: "position", Source: "position", Kind: KindText},
		{Name: "origin", Source: "origin", Kind: KindText},
		{Name: "destination", Source: "destination", Kind: KindText},
		{Name: "transfer_date", Source: "transferDate", Kind: KindText},
		{Name: "rating", Source: "rating", Kind: KindFloat},
		{Name: "stars", Source: "stars", Kind: KindInteger},
		{Name: "eligibility", Source: "eligibility", Kind: KindText},
	},
}
