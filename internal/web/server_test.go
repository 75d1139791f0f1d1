package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/availability"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/database"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/job"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/logging"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/models"
)

type stubCollector struct {
	block chan struct{}
}

func (s stubCollector) Collect(ctx context.Context, group string, days int) (*models.Report, error) {
	if s.block != nil {
		<-s.block
	}
	if group == "Missing" {
		return nil, &availability.GroupNotFoundError{Name: group}
	}
	return &models.Report{
		Group:      group,
		PeriodDays: days,
		Hosts:      []models.HostAvailability{{Host: "web-1", IP: "10.1.1.1", Availability: 99.95, PeriodDays: days}},
	}, nil
}

type stubRenderer struct{}

func (stubRenderer) Render(w io.Writer, report *models.Report) error {
	_, err := io.WriteString(w, "%PDF-1.3 "+report.Group)
	return err
}

func newTestServer(t *testing.T, c models.Collector) (*httptest.Server, *database.DB) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logging.Discard()
	runner := job.New(c, stubRenderer{}, job.WithLogger(logger), job.WithHistory(db, 0), job.WithoutEvents())
	srv := New(runner, 0, WithHistory(db), WithLogger(logger), WithAccessLog(io.Discard))

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, db
}

func postReport(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/api/reports", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, stubCollector{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestGenerateReturnsPDFAndRecordsRun(t *testing.T) {
	ts, _ := newTestServer(t, stubCollector{})

	resp := postReport(t, ts.URL, `{"group":"Web Servers","days":7}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Web_Servers_availability.pdf")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 Web Servers", string(body))

	runsResp, err := http.Get(ts.URL + "/api/runs?limit=5")
	require.NoError(t, err)
	defer runsResp.Body.Close()
	require.Equal(t, http.StatusOK, runsResp.StatusCode)

	var runs []models.Run
	require.NoError(t, json.NewDecoder(runsResp.Body).Decode(&runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "Web Servers", runs[0].Group)
	assert.Equal(t, 7, runs[0].PeriodDays)
	assert.Equal(t, models.RunSucceeded, runs[0].Status)

	runResp, err := http.Get(ts.URL + "/api/runs/" + jsonInt(runs[0].ID))
	require.NoError(t, err)
	defer runResp.Body.Close()
	require.Equal(t, http.StatusOK, runResp.StatusCode)

	var run models.Run
	require.NoError(t, json.NewDecoder(runResp.Body).Decode(&run))
	require.Len(t, run.Hosts, 1)
	assert.Equal(t, "web-1", run.Hosts[0].Host)
}

func jsonInt(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestGenerateDefaultsDays(t *testing.T) {
	ts, db := newTestServer(t, stubCollector{})

	resp := postReport(t, ts.URL, `{"group":"Routers"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	runs, err := db.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 30, runs[0].PeriodDays)
}

func TestGenerateErrors(t *testing.T) {
	ts, _ := newTestServer(t, stubCollector{})

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{name: "bad json", body: `{`, status: http.StatusBadRequest},
		{name: "missing group", body: `{"days":5}`, status: http.StatusBadRequest, code: "CONFIG"},
		{name: "negative days", body: `{"group":"g","days":-1}`, status: http.StatusBadRequest, code: "CONFIG"},
		{name: "unknown group", body: `{"group":"Missing","days":5}`, status: http.StatusNotFound, code: "DATA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postReport(t, ts.URL, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			var e errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.NotEmpty(t, e.Error)
			assert.Equal(t, tt.code, e.Code)
		})
	}
}

func TestGenerateWhileBusy(t *testing.T) {
	block := make(chan struct{})
	runner := job.New(stubCollector{block: block}, stubRenderer{}, job.WithLogger(logging.Discard()))
	ts := httptest.NewServer(New(runner, 0).Handler())
	defer ts.Close()

	first := make(chan int, 1)
	go func() {
		resp, err := http.Post(ts.URL+"/api/reports", "application/json", bytes.NewBufferString(`{"group":"A","days":1}`))
		if err != nil {
			first <- 0
			return
		}
		resp.Body.Close()
		first <- resp.StatusCode
	}()

	require.Eventually(t, runner.Running, 2*time.Second, 5*time.Millisecond)

	resp := postReport(t, ts.URL, `{"group":"B","days":1}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	close(block)
	assert.Equal(t, http.StatusOK, <-first)
}

func TestConcurrentGenerateServesOwnPDF(t *testing.T) {
	ts, _ := newTestServer(t, stubCollector{})

	const clients = 8
	const perClient = 10

	var wg sync.WaitGroup
	failures := make(chan string, clients*perClient)
	for c := 0; c < clients; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			for i := 0; i < perClient; {
				group := fmt.Sprintf("group-%d-%d", c, i)
				resp, err := http.Post(ts.URL+"/api/reports", "application/json",
					strings.NewReader(fmt.Sprintf(`{"group": %q, "days": 7}`, group)))
				if err != nil {
					failures <- err.Error()
					return
				}
				body, _ := io.ReadAll(resp.Body)
				resp.Body.Close()

				switch resp.StatusCode {
				case http.StatusConflict:
					continue
				case http.StatusOK:
					if string(body) != "%PDF-1.3 "+group {
						failures <- fmt.Sprintf("%s got %q", group, body)
					}
				default:
					failures <- fmt.Sprintf("%s: status %d: %s", group, resp.StatusCode, body)
				}
				i++
			}
		}(c)
	}
	wg.Wait()
	close(failures)

	var got []string
	for f := range failures {
		got = append(got, f)
	}
	assert.Empty(t, got)
}

func TestRunNotFound(t *testing.T) {
	ts, _ := newTestServer(t, stubCollector{})

	resp, err := http.Get(ts.URL + "/api/runs/999")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRunsWithoutHistory(t *testing.T) {
	runner := job.New(stubCollector{}, stubRenderer{}, job.WithLogger(logging.Discard()))
	ts := httptest.NewServer(New(runner, 0).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t, stubCollector{})

	resp, err := http.Get(ts.URL + "/api/reports")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestStartStopsOnCancel(t *testing.T) {
	runner := job.New(stubCollector{}, stubRenderer{}, job.WithLogger(logging.Discard()))
	srv := New(runner, 0, WithLogger(logging.Discard()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
