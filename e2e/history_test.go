//go:build e2e

package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiRun struct {
	ID     int64  `json:"id"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
	Source string `json:"source"`
	Output string `json:"output"`
}

func getRuns(t *testing.T) []apiRun {
	t.Helper()
	resp, err := http.Get(baseURL + "/api/v1/runs?limit=200")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res struct {
		Runs []apiRun `json:"runs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res.Runs
}

func TestHistory_WebRunRecorded(t *testing.T) {
	page := newPage(t)
	navigateToForm(t, page)
	submit(t, page, "Tailscale status")

	table := page.Locator("[data-testid='history']")
	waitVisible(t, table)
	text, err := table.TextContent()
	require.NoError(t, err)
	assert.Contains(t, text, "ts-status")
	assert.Contains(t, text, "web")

	var found *apiRun
	for _, r := range getRuns(t) {
		if r.Kind == "ts-status" && r.Source == "web" {
			found = &r
			break
		}
	}
	require.NotNil(t, found, "run is in the api")
	assert.Equal(t, "success", found.Status)
	assert.Empty(t, found.Output, "list comes without output")

	// single run has the output
	resp, err := http.Get(baseURL + "/api/v1/runs/" + strconv.FormatInt(found.ID, 10))
	require.NoError(t, err)
	defer resp.Body.Close()
	var full apiRun
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&full))
	assert.Contains(t, full.Output, "e2e-node")
}

func TestHistory_ScheduledCheckRecorded(t *testing.T) {
	assert.Eventually(t, func() bool {
		for _, r := range getRuns(t) {
			if r.Kind == "ping" && r.Source == "schedule" {
				return true
			}
		}
		return false
	}, 10*time.Second, 500*time.Millisecond, "scheduled ping should be recorded")

	page := newPage(t)
	navigateToForm(t, page)
	text, err := page.Locator("body").TextContent()
	require.NoError(t, err)
	assert.Contains(t, text, "Scheduled checks")
	assert.Contains(t, text, "e2e ping")
}

func TestHistory_Metrics(t *testing.T) {
	resp, err := http.Get(baseURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `netdiag_runs_total{kind="ping",source="schedule",status="success"}`)
}
