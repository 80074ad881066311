package pipeline

// SourceName names the CFBD source
const SourceName = "cfbd"

// Source groups the five CFBD resources for one team and year range
type Source struct {
	Name      string
	Team      string
	StartYear int
	EndYear   int
	Resources []*Resource
}

// NewSource builds every resource bound to team and the inclusive year range
func NewSource(f Fetcher, team string, startYear, endYear int) *Source {
	return &Source{
		Name:      SourceName,
		Team:      team,
		StartYear: startYear,
		EndYear:   endYear,
		Resources: []*Resource{
			NewGames(f, team, startYear, endYear),
			NewDrives(f, team, startYear, endYear),
			NewPlays(f, team, startYear, endYear),
			NewRecruiting(f, team, startYear, endYear),
			NewTransfers(f, startYear, endYear),
		},
	}
}

// Resource returns the named resource, or nil
func (s *Source) Resource(name string) *Resource {
	for _, r := range s.Resources {
		if r.Name == name {
			return r
		}
	}
	return nil
}
