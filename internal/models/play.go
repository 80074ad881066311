package models

// Plays holds one row per snap. The clock object is split like drive times.
var Plays = &Schema{
	Table:            "plays",
	PrimaryKey:       []string{"id"},
	WriteDisposition: WriteMerge,
	Columns: []Column{
		{Name: "id", Source: "id", Kind: KindText},
		{Name: "game_id", Source: "gameId", Kind: KindInteger},
		{Name: "drive_id", Source: "driveId", Kind: KindText},
		{Name: "drive_number", Source: "driveNumber", Kind: KindInteger},
		{Name: "play_number", Source: "playNumber", Kind: KindInteger},
		{Name: "offense", Source: "offense", Kind: KindText},
		{Name: "offense_conference", Source: "offenseConference", Kind: KindText},
		{Name: "defense", Source: "defense", Kind: KindText},
		{Name: "defense_conference", Source: "defenseConference", Kind: KindText},
		{Name: "home", Source: "home", Kind: KindText},
		{Name: "away", Source: "away", Kind: KindText},
		{Name: "offense_score", Source: "offenseScore", Kind: KindInteger},
		{Name: "defense_score", Source: "defenseScore", Kind: KindInteger},
		{Name: "period", Source: "period", Kind: KindInteger},
		{Name: "clock_minutes", Source: "clock.minutes", Kind: KindInteger},
		{Name: "clock_seconds", Source: "clock.seconds", Kind: KindInteger},
		{Name: "yard_line", Source: "yardLine", Kind: KindInteger},
		{Name: "down", Source: "down", Kind: KindInteger},
		{Name: "distance", Source: "distance", Kind: KindInteger},
		{Name: "yards_gained", Source: "yardsGained", Kind: KindInteger},
		{Name: "play_type", Source: "playType", Kind: KindText},
		{Name: "play_text", Source: "playText", Kind: KindText},
		{Name: "ppa", Source: "ppa", Kind: KindFloat},
		{Name: "scoring", Source: "scoring", Kind: KindBool},
		{Name: "wallclock", Source: "wallclock", Kind: KindText},
	},
}
