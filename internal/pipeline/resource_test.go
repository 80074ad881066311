package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"cfb_analytics/cfbsync/internal/client"
	"cfb_analytics/cfbsync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	endpoint string
	params   client.Params
}

// fakeFetcher records every call and answers with respond
type fakeFetcher struct {
	calls   []call
	respond func(endpoint string, params client.Params) ([]map[string]interface{}, error)
}

func (f *fakeFetcher) Fetch(_ context.Context, endpoint string, params client.Params) ([]map[string]interface{}, error) {
	f.calls = append(f.calls, call{endpoint: endpoint, params: params})
	if f.respond == nil {
		return nil, nil
	}
	return f.respond(endpoint, params)
}

func notFound(endpoint string, params client.Params) error {
	return &client.RemoteRequestError{
		Endpoint:   endpoint,
		Params:     params,
		StatusCode: http.StatusNotFound,
		Err:        errors.New("no data"),
	}
}

func collect(t *testing.T, r *Resource) ([]models.Record, error) {
	t.Helper()
	var out []models.Record
	for rec, err := range r.Records(context.Background()) {
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func ids(records []models.Record) []interface{} {
	out := make([]interface{}, len(records))
	for i, rec := range records {
		out[i] = rec["id"]
	}
	return out
}

func TestPlays_SkipsFailedWeeks(t *testing.T) {
	f := &fakeFetcher{respond: func(endpoint string, params client.Params) ([]map[string]interface{}, error) {
		switch params[client.ParamWeek] {
		case "3", "11":
			return nil, notFound(endpoint, params)
		case "":
			return []map[string]interface{}{{"id": "post"}}, nil
		default:
			return []map[string]interface{}{{"id": "w" + params[client.ParamWeek]}}, nil
		}
	}}

	records, err := collect(t, NewPlays(f, "Oklahoma", 2023, 2023))
	require.NoError(t, err)

	var want []interface{}
	for week := 1; week <= RegularSeasonWeeks; week++ {
		if week == 3 || week == 11 {
			continue
		}
		want = append(want, "w"+strconv.Itoa(week))
	}
	want = append(want, "post")
	assert.Equal(t, want, ids(records))
	assert.Len(t, f.calls, RegularSeasonWeeks+1)
}

func TestPlays_RequestOrder(t *testing.T) {
	f := &fakeFetcher{}

	_, err := collect(t, NewPlays(f, "Oklahoma", 2022, 2023))
	require.NoError(t, err)
	require.Len(t, f.calls, 2*(RegularSeasonWeeks+1))

	i := 0
	for _, year := range []string{"2022", "2023"} {
		for week := 1; week <= RegularSeasonWeeks; week++ {
			c := f.calls[i]
			assert.Equal(t, client.EndpointPlays, c.endpoint)
			assert.Equal(t, client.Params{"year": year, "week": strconv.Itoa(week), "team": "Oklahoma"}, c.params)
			i++
		}
		assert.Equal(t, client.Params{"year": year, "seasonType": "postseason", "team": "Oklahoma"}, f.calls[i].params)
		i++
	}
}

func TestPlays_PostseasonFailureIsSkipped(t *testing.T) {
	f := &fakeFetcher{respond: func(endpoint string, params client.Params) ([]map[string]interface{}, error) {
		if params[client.ParamSeasonType] == client.SeasonTypePostseason {
			return nil, notFound(endpoint, params)
		}
		if params[client.ParamWeek] == "1" {
			return []map[string]interface{}{{"id": params[client.ParamYear]}}, nil
		}
		return nil, nil
	}}

	records, err := collect(t, NewPlays(f, "Oklahoma", 2020, 2021))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"2020", "2021"}, ids(records))
}

func TestPlays_ConfigurationErrorIsFatal(t *testing.T) {
	f := &fakeFetcher{respond: func(string, client.Params) ([]map[string]interface{}, error) {
		return nil, client.ErrMissingAPIKey
	}}

	records, err := collect(t, NewPlays(f, "Oklahoma", 2023, 2024))
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrMissingAPIKey)
	assert.Empty(t, records)
	assert.Len(t, f.calls, 1, "no request after a configuration error")
}

func TestGames_FailureEndsStream(t *testing.T) {
	f := &fakeFetcher{respond: func(endpoint string, params client.Params) ([]map[string]interface{}, error) {
		if params[client.ParamYear] == "2021" {
			return nil, &client.RemoteRequestError{Endpoint: endpoint, Params: params, StatusCode: 500, Err: errors.New("boom")}
		}
		year, _ := strconv.Atoi(params[client.ParamYear])
		return []map[string]interface{}{{"id": year*10 + 1}, {"id": year*10 + 2}}, nil
	}}

	records, err := collect(t, NewGames(f, "Oklahoma", 2020, 2023))
	require.Error(t, err)
	assert.True(t, client.IsRemoteRequestError(err))
	assert.Equal(t, []interface{}{20201, 20202}, ids(records))

	require.Len(t, f.calls, 2, "no request for 2022 or 2023")
	assert.Equal(t, "2021", f.calls[1].params[client.ParamYear])
}

func TestDrives_IsStrict(t *testing.T) {
	f := &fakeFetcher{respond: func(endpoint string, params client.Params) ([]map[string]interface{}, error) {
		return nil, notFound(endpoint, params)
	}}

	r := NewDrives(f, "Oklahoma", 2019, 2020)
	_, err := collect(t, r)

	assert.Error(t, err)
	assert.Equal(t, Strict, r.Policy)
	assert.Len(t, f.calls, 1)
	assert.Equal(t, client.EndpointDrives, f.calls[0].endpoint)
}

func TestRecruiting_SkipsFailedYears(t *testing.T) {
	f := &fakeFetcher{respond: func(endpoint string, params client.Params) ([]map[string]interface{}, error) {
		if params[client.ParamYear] == "2019" {
			return nil, notFound(endpoint, params)
		}
		return []map[string]interface{}{{"id": "r" + params[client.ParamYear], "committedTo": "Oklahoma"}}, nil
	}}

	records, err := collect(t, NewRecruiting(f, "Oklahoma", 2018, 2020))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"r2018", "r2020"}, ids(records))
	assert.Equal(t, "Oklahoma", records[0]["committed_to"])
	assert.Equal(t, client.EndpointRecruiting, f.calls[0].endpoint)
}

func TestTransfers_ClampsToFirstPortalYear(t *testing.T) {
	f := &fakeFetcher{respond: func(_ string, params client.Params) ([]map[string]interface{}, error) {
		return []map[string]interface{}{{"season": params[client.ParamYear], "firstName": "A", "lastName": "B", "origin": "X"}}, nil
	}}

	r := NewTransfers(f, 2018, 2022)
	records, err := collect(t, r)
	require.NoError(t, err)

	require.Len(t, f.calls, 2)
	assert.Equal(t, client.Params{"year": "2021"}, f.calls[0].params)
	assert.Equal(t, client.Params{"year": "2022"}, f.calls[1].params)
	assert.Equal(t, client.EndpointTransferPortal, f.calls[0].endpoint)
	assert.Len(t, records, 2)
	assert.Equal(t, 2021, r.StartYear)
}

func TestTransfers_SkipsFailedYears(t *testing.T) {
	f := &fakeFetcher{respond: func(endpoint string, params client.Params) ([]map[string]interface{}, error) {
		if params[client.ParamYear] == "2022" {
			return nil, notFound(endpoint, params)
		}
		return []map[string]interface{}{{"season": params[client.ParamYear]}}, nil
	}}

	records, err := collect(t, NewTransfers(f, 2021, 2023))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2021", records[0]["season"])
	assert.Equal(t, "2023", records[1]["season"])
}

func TestRecords_EmptyRangeMakesNoRequests(t *testing.T) {
	f := &fakeFetcher{}

	records, err := collect(t, NewGames(f, "Oklahoma", 2024, 2023))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, f.calls)
}

func TestRecords_ConsumerStopEndsPull(t *testing.T) {
	f := &fakeFetcher{respond: func(string, client.Params) ([]map[string]interface{}, error) {
		return []map[string]interface{}{{"id": 1}, {"id": 2}}, nil
	}}

	n := 0
	for _, err := range NewGames(f, "Oklahoma", 2014, 2024).Records(context.Background()) {
		require.NoError(t, err)
		n++
		if n == 3 {
			break
		}
	}
	assert.Len(t, f.calls, 2)
}

func TestRecords_CancelledContext(t *testing.T) {
	f := &fakeFetcher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var got error
	for _, err := range NewRecruiting(f, "Oklahoma", 2020, 2021).Records(ctx) {
		got = err
	}
	assert.ErrorIs(t, got, context.Canceled)
	assert.Empty(t, f.calls)
}

func TestRecords_FreshPullPerInvocation(t *testing.T) {
	f := &fakeFetcher{respond: func(_ string, params client.Params) ([]map[string]interface{}, error) {
		return []map[string]interface{}{{"id": params[client.ParamYear]}}, nil
	}}
	r := NewGames(f, "Oklahoma", 2022, 2023)

	first, err := collect(t, r)
	require.NoError(t, err)
	second, err := collect(t, r)
	require.NoError(t, err)

	assert.Equal(t, ids(first), ids(second))
	assert.Len(t, f.calls, 4)
}

func TestNewSource(t *testing.T) {
	f := &fakeFetcher{}

	src := NewSource(f, "Oklahoma", 2014, 2024)

	assert.Equal(t, "cfbd", src.Name)
	require.Len(t, src.Resources, 5)

	var names []string
	for _, r := range src.Resources {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"games", "drives", "plays", "recruiting", "transfers"}, names)

	for _, r := range src.Resources[:4] {
		assert.Equal(t, "Oklahoma", r.Team, r.Name)
		assert.Equal(t, 2014, r.StartYear, r.Name)
		assert.Equal(t, 2024, r.EndYear, r.Name)
	}
	assert.Equal(t, 2021, src.Resource(ResourceTransfers).StartYear)
	assert.Equal(t, models.Plays, src.Resource(ResourcePlays).Schema)
	assert.Nil(t, src.Resource("advanced_stats"))

	policies := map[string]FailurePolicy{}
	for _, r := range src.Resources {
		policies[r.Name] = r.Policy
	}
	assert.Equal(t, map[string]FailurePolicy{
		"games": Strict, "drives": Strict, "plays": Tolerant, "recruiting": Tolerant, "transfers": Tolerant,
	}, policies)
}

func TestPlays_CancelDuringLastRequestIsFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get(client.ParamSeasonType) == client.SeasonTypePostseason {
			cancel()
			<-r.Context().Done()
			return
		}
		w.Write([]byte(`[{"id": "` + q.Get(client.ParamWeek) + `"}]`))
	}))
	defer srv.Close()

	r := NewPlays(client.NewClient(srv.URL, "k", 5*time.Second), "Oklahoma", 2024, 2024)

	var records []models.Record
	var got error
	for rec, err := range r.Records(ctx) {
		if err != nil {
			got = err
			break
		}
		records = append(records, rec)
	}

	assert.Len(t, records, RegularSeasonWeeks)
	require.Error(t, got, "a cancelled run must not end cleanly")
	assert.ErrorIs(t, got, context.Canceled)
}

func TestRecruiting_CancelDuringFinalYearIsFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &fakeFetcher{respond: func(endpoint string, params client.Params) ([]map[string]interface{}, error) {
		if params[client.ParamYear] == "2020" {
			cancel()
			return nil, &client.RemoteRequestError{Endpoint: endpoint, Params: params, Err: context.Canceled}
		}
		return []map[string]interface{}{{"id": params[client.ParamYear]}}, nil
	}}

	var got error
	for _, err := range NewRecruiting(f, "Oklahoma", 2019, 2020).Records(ctx) {
		if err != nil {
			got = err
		}
	}
	assert.ErrorIs(t, got, context.Canceled)
}
