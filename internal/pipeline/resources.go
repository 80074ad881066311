package pipeline

import (
	"strconv"

	"cfb_analytics/cfbsync/internal/client"
	"cfb_analytics/cfbsync/internal/models"
)

const (
	// RegularSeasonWeeks is the number of regular season weeks pulled per year for plays
	RegularSeasonWeeks = 15

	// TransferPortalFirstYear is the first season CFBD tracks the transfer portal
	TransferPortalFirstYear = 2021
)

// Resource names
const (
	ResourceGames      = "games"
	ResourceDrives     = "drives"
	ResourcePlays      = "plays"
	ResourceRecruiting = "recruiting"
	ResourceTransfers  = "transfers"
)

// NewGames streams the team's games, one request per season.
// A failed request ends the stream.
func NewGames(f Fetcher, team string, startYear, endYear int) *Resource {
	return newYearly(f, ResourceGames, models.Games, Strict, client.EndpointGames, team, startYear, endYear)
}

// NewDrives streams the team's drives, one request per season.
// A failed request ends the stream.
func NewDrives(f Fetcher, team string, startYear, endYear int) *Resource {
	return newYearly(f, ResourceDrives, models.Drives, Strict, client.EndpointDrives, team, startYear, endYear)
}

// NewRecruiting streams the team's recruiting classes; years that fail are skipped
func NewRecruiting(f Fetcher, team string, startYear, endYear int) *Resource {
	return newYearly(f, ResourceRecruiting, models.Recruiting, Tolerant, client.EndpointRecruiting, team, startYear, endYear)
}

// NewTransfers streams transfer portal entries for every team, from
// TransferPortalFirstYear at the earliest. Years that fail are skipped.
func NewTransfers(f Fetcher, startYear, endYear int) *Resource {
	startYear = max(startYear, TransferPortalFirstYear)
	return newYearly(f, ResourceTransfers, models.Transfers, Tolerant, client.EndpointTransferPortal, "", startYear, endYear)
}

// NewPlays streams the team's play-by-play. The plays endpoint requires a
// week, so each season is pulled as weeks 1 through RegularSeasonWeeks plus
// one postseason request. Any of those requests may fail (bye weeks) and is
// skipped.
func NewPlays(f Fetcher, team string, startYear, endYear int) *Resource {
	r := &Resource{
		Name:      ResourcePlays,
		Schema:    models.Plays,
		Policy:    Tolerant,
		Team:      team,
		StartYear: startYear,
		EndYear:   endYear,
		fetcher:   f,
	}
	for year := startYear; year <= endYear; year++ {
		base := teamParams(team).Year(year)
		for week := 1; week <= RegularSeasonWeeks; week++ {
			r.requests = append(r.requests, request{
				endpoint: client.EndpointPlays,
				params:   base.With(client.ParamWeek, strconv.Itoa(week)),
				year:     year,
			})
		}
		r.requests = append(r.requests, request{
			endpoint: client.EndpointPlays,
			params:   base.With(client.ParamSeasonType, client.SeasonTypePostseason),
			year:     year,
		})
	}
	return r
}

func newYearly(f Fetcher, name string, schema *models.Schema, policy FailurePolicy, endpoint, team string, startYear, endYear int) *Resource {
	r := &Resource{
		Name:      name,
		Schema:    schema,
		Policy:    policy,
		Team:      team,
		StartYear: startYear,
		EndYear:   endYear,
		fetcher:   f,
	}
	for year := startYear; year <= endYear; year++ {
		r.requests = append(r.requests, request{
			endpoint: endpoint,
			params:   teamParams(team).Year(year),
			year:     year,
		})
	}
	return r
}

func teamParams(team string) client.Params {
	if team == "" {
		return client.Params{}
	}
	return client.Params{client.ParamTeam: team}
}
