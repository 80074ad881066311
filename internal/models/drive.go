package models

// Drives holds one row per possession. The startTime, endTime and elapsed
// clock objects are split into minute and second columns.
var Drives = &Schema{
	Table:            "drives",
	PrimaryKey:       []string{"id"},
	WriteDisposition: WriteMerge,
	Columns: []Column{
		{Name: "id", Source: "id", Kind: KindText},
		{Name: "game_id", Source: "gameId", Kind: KindInteger},
		{Name: "offense", Source: "offense", Kind: KindText},
		{Name: "offense_conference", Source: "offenseConference", Kind: KindText},
		{Name: "defense", Source: "defense", Kind: KindText},
		{Name: "defense_conference", Source: "defenseConference", Kind: KindText},
		{Name: "drive_number", Source: "driveNumber", Kind: KindInteger},
		{Name: "scoring", Source: "scoring", Kind: KindBool},

		{Name: "start_period", Source: "startPeriod", Kind: KindInteger},
		{Name: "start_yardline", Source: "startYardline", Kind: KindInteger},
		{Name: "start_yards_to_goal", Source: "startYardsToGoal", Kind: KindInteger},
		{Name: "start_time_minutes", Source: "startTime.minutes", Kind: KindInteger},
		{Name: "start_time_seconds", Source: "startTime.seconds", Kind: KindInteger},

		{Name: "end_period", Source: "endPeriod", Kind: KindInteger},
		{Name: "end_yardline", Source: "endYardline", Kind: KindInteger},
		{Name: "end_yards_to_goal", Source: "endYardsToGoal", Kind: KindInteger},
		{Name: "end_time_minutes", Source: "endTime.minutes", Kind: KindInteger},
		{Name: "end_time_seconds", Source: "endTime.seconds", Kind: KindInteger},

		{Name: "plays", Source: "plays", Kind: KindInteger},
		{Name: "yards", Source: "yards", Kind: KindInteger},
		{Name: "drive_result", Source: "driveResult", Kind: KindText},
		{Name: "is_home_offense", Source: "isHomeOffense", Kind: KindBool},
		{Name: "elapsed_minutes", Source: "elapsed.minutes", Kind: KindInteger},
		{Name: "elapsed_seconds", Source: "elapsed.seconds", Kind: KindInteger},
	},
}
