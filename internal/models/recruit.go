package models

// Recruiting holds one row per ranked recruit per class year
var Recruiting = &Schema{
	Table:            "recruiting",
	PrimaryKey:       []string{"id"},
	WriteDisposition: WriteMerge,
	Columns: []Column{
		{Name: "id", Source: "id", Kind: KindText},
		{Name: "athlete_id", Source: "athleteId", Kind: KindText},
		{Name: "recruit_type", Source: "recruitType", Kind: KindText},
		{Name: "year", Source: "year", Kind: KindInteger},
		{Name: "ranking", Source: "ranking", Kind: KindInteger},
		{Name: "name", Source: "name", Kind: KindText},
		{Name: "school", Source: "school", Kind: KindText},
		{Name: "committed_to", Source: "committedTo", Kind: KindText},
		{Name: "position", Source: "position", Kind: KindText},
		{Name: "height", Source: "height", Kind: KindFloat},
		{Name: "weight", Source: "weight", Kind: KindInteger},
		{Name: "stars", Source: "stars", Kind: KindInteger},
		{Name: "rating", Source: "rating", Kind: KindFloat},
		{Name: "city", Source: "city", Kind: KindText},
		{Name: "state_province", Source: "stateProvince", Kind: KindText},
		{Name: "country", Source: "country", Kind: KindText},
	},
}
