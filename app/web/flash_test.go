package web

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_FlashesAccumulate(t *testing.T) {
	env := newTestEnv(t, echoRunner(), nil)
	_, cookies := env.post(t, "/netinfo", nil)
	require.Len(t, cookies, 1)
	_, more := env.post(t, "/ts-config", nil, cookies...)
	assert.Empty(t, more, "existing flash cookie reused")

	body := env.get(t, "/", cookies...).Body.String()
	assert.Contains(t, body, "=== ip addr ===")
	assert.Contains(t, body, "output of /app/tailscale status")
	assert.Equal(t, 2, strings.Count(body, `data-testid="flash"`))
}

func TestFlashStore_Expiry(t *testing.T) {
	fs := newFlashStore(50 * time.Millisecond)
	fs.add("id1", Flash{Title: "t1"})
	fs.add("id1", Flash{Title: "t2"})
	fs.add("id2", Flash{Title: "other"})

	res := fs.pop("id1")
	require.Len(t, res, 2)
	assert.Equal(t, "t2", res[1].Title)
	assert.Empty(t, fs.pop("id1"), "popped flashes are gone")

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, fs.pop("id2"), "expired")
}

func TestServer_FlashInvalidCookie(t *testing.T) {
	env := newTestEnv(t, echoRunner(), nil)
	rr, cookies := env.post(t, "/netinfo", nil, &http.Cookie{Name: flashCookie, Value: "not-a-uuid"})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Len(t, cookies, 1, "new id issued for invalid cookie")
	assert.NotEqual(t, "not-a-uuid", cookies[0].Value)
}
