package models

// Games holds one row per scheduled or completed contest. Home and away
// attributes are flattened with a home_/away_ prefix.
var Games = &Schema{
	Table:            "games",
	PrimaryKey:       []string{"id"},
	WriteDisposition: WriteMerge,
	Columns: []Column{
		{Name: "id", Source: "id", Kind: KindInteger},
		{Name: "season", Source: "season", Kind: KindInteger},
		{Name: "week", Source: "week", Kind: KindInteger},
		{Name: "season_type", Source: "seasonType", Kind: KindText},
		{Name: "start_date", Source: "startDate", Kind: KindText},
		{Name: "completed", Source: "completed", Kind: KindBool},
		{Name: "neutral_site", Source: "neutralSite", Kind: KindBool},
		{Name: "conference_game", Source: "conferenceGame", Kind: KindBool},
		{Name: "attendance", Source: "attendance", Kind: KindInteger},
		{Name: "venue_id", Source: "venueId", Kind: KindInteger},
		{Name: "venue", Source: "venue", Kind: KindText},

		{Name: "home_id", Source: "homeId", Kind: KindInteger},
		{Name: "home_team", Source: "homeTeam", Kind: KindText},
		{Name: "home_conference", Source: "homeConference", Kind: KindText},
		{Name: "home_points", Source: "homePoints", Kind: KindInteger},
		{Name: "home_line_scores", Source: "homeLineScores", Kind: KindJSON},
		{Name: "home_postgame_win_prob", Source: "homePostgameWinProbability", Kind: KindFloat},
		{Name: "home_pregame_elo", Source: "homePregameElo", Kind: KindInteger},
		{Name: "home_postgame_elo", Source: "homePostgameElo", Kind: KindInteger},

		{Name: "away_id", Source: "awayId", Kind: KindInteger},
		{Name: "away_team", Source: "awayTeam", Kind: KindText},
		{Name: "away_conference", Source: "awayConference", Kind: KindText},
		{Name: "away_points", Source: "awayPoints", Kind: KindInteger},
		{Name: "away_line_scores", Source: "awayLineScores", Kind: KindJSON},
		{Name: "away_postgame_win_prob", Source: "awayPostgameWinProbability", Kind: KindFloat},
		{Name: "away_pregame_elo", Source: "awayPregameElo", Kind: KindInteger},
		{Name: "away_postgame_elo", Source: "awayPostgameElo", Kind: KindInteger},

		{Name: "excitement_index", Source: "excitementIndex", Kind: KindFloat},
	},
}
