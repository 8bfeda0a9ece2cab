package web

import (
	"net/http"
	"sync"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
	log "github.com/go-pkgz/lgr"
	"github.com/google/uuid"

	"github.com/umputun/netdiag/app/web/enums"
)

const flashCookie = "netdiag-flash"

// Flash is a one-shot message shown on the next page render
type Flash struct {
	Category enums.Category
	Title    string
	Text     string
	Command  string
	RunID    int64 // recorded run, 0 if history is disabled
}

// flashStore keeps pending flashes per browser, keyed by a random cookie id.
// Entries expire if never rendered.
type flashStore struct {
	mu    sync.Mutex
	cache cache.Cache[string, []Flash]
}

func newFlashStore(ttl time.Duration) *flashStore {
	return &flashStore{cache: cache.NewCache[string, []Flash]().WithTTL(ttl).WithMaxKeys(10000)}
}

func (f *flashStore) add(id string, fl Flash) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, _ := f.cache.Get(id)
	f.cache.Set(id, append(existing, fl), 0)
}

// pop returns pending flashes and removes them
func (f *flashStore) pop(id string) []Flash {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.cache.Get(id)
	if !ok {
		return nil
	}
	f.cache.Invalidate(id)
	return res
}

// addFlash stores the flash for the browser making the request, setting the id cookie if missing
func (s *Server) addFlash(w http.ResponseWriter, r *http.Request, fl Flash) {
	id := s.flashID(r)
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookie,
			Value:    id,
			Path:     s.cookiePath(),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https",
		})
	}
	s.flashes.add(id, fl)
	log.Printf("[DEBUG] flash %s %q added for %s", fl.Category, fl.Title, id)
}

// popFlashes returns and discards flashes for the browser making the request
func (s *Server) popFlashes(r *http.Request) []Flash {
	id := s.flashID(r)
	if id == "" {
		return nil
	}
	return s.flashes.pop(id)
}

func (s *Server) flashID(r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		log.Printf("[WARN] invalid flash cookie %q", c.Value)
		return ""
	}
	return c.Value
}
