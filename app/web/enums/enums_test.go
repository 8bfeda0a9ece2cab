package enums

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRunStatus(t *testing.T) {
	for _, v := range RunStatusValues() {
		got, err := ParseRunStatus(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	got, err := ParseRunStatus("TIMEOUT")
	require.NoError(t, err)
	assert.Equal(t, RunStatusTimeout, got)

	_, err = ParseRunStatus("running")
	assert.Error(t, err)
	assert.True(t, RunStatus{}.IsZero())
}

func TestRunStatus_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Status RunStatus `json:"status"`
	}{RunStatusFailed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"failed"}`, string(data))

	var res struct {
		Status RunStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"success"}`), &res))
	assert.Equal(t, RunStatusSuccess, res.Status)
	assert.Error(t, json.Unmarshal([]byte(`{"status":"bad"}`), &res))
}

func TestRunStatus_Scan(t *testing.T) {
	var s RunStatus
	require.NoError(t, s.Scan("timeout"))
	assert.Equal(t, RunStatusTimeout, s)
	require.NoError(t, s.Scan([]byte("failed")))
	assert.Equal(t, RunStatusFailed, s)
	require.NoError(t, s.Scan(nil))
	assert.True(t, s.IsZero())
	assert.Error(t, s.Scan(42))

	v, err := RunStatusSuccess.Value()
	require.NoError(t, err)
	assert.Equal(t, "success", v)
}

func TestCategoryFor(t *testing.T) {
	assert.Equal(t, CategorySuccess, CategoryFor(RunStatusSuccess))
	assert.Equal(t, CategoryDanger, CategoryFor(RunStatusFailed))
	assert.Equal(t, CategoryDanger, CategoryFor(RunStatusTimeout))
	assert.Equal(t, "danger", CategoryFor(RunStatusTimeout).String())
}

func TestParseCategory(t *testing.T) {
	for _, v := range CategoryValues() {
		got, err := ParseCategory(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	_, err := ParseCategory("error")
	assert.Error(t, err)
	assert.Equal(t, []string{"success", "danger", "warning", "info"}, CategoryNames())

	var c Category
	require.NoError(t, c.Scan([]byte("warning")))
	assert.Equal(t, CategoryWarning, c)
	v, err := CategoryInfo.Value()
	require.NoError(t, err)
	assert.Equal(t, "info", v)
}

func TestMustRunStatus(t *testing.T) {
	assert.Equal(t, RunStatusFailed, MustRunStatus("Failed"))
	assert.Panics(t, func() { MustRunStatus("running") })
}

func TestSource(t *testing.T) {
	s, err := ParseSource("Schedule")
	require.NoError(t, err)
	assert.Equal(t, SourceSchedule, s)
	_, err = ParseSource("cli")
	assert.Error(t, err)

	var scanned Source
	require.NoError(t, scanned.Scan("web"))
	assert.Equal(t, SourceWeb, scanned)
	assert.Error(t, scanned.Scan("other"))

	data, err := json.Marshal(SourceWeb)
	require.NoError(t, err)
	assert.Equal(t, `"web"`, string(data))
}
