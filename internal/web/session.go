package web

import (
	"net/http"
	"net/url"

	"github.com/yuzeguitarist/qrgen/internal/app"
)

const (
	recentKey = "recent"
	maxRecent = 5
)

type recentItem struct {
	Name string
	URL  string
}

func (s *Server) recent(r *http.Request) []string {
	sess, _ := s.Sessions.Get(r, app.SessionName)
	names, _ := sess.Values[recentKey].([]string)
	return names
}

// remember puts name at the front of the session's recent list. It must run
// before anything is written to w.
func (s *Server) remember(w http.ResponseWriter, r *http.Request, name string) []string {
	sess, _ := s.Sessions.Get(r, app.SessionName)
	old, _ := sess.Values[recentKey].([]string)
	names := []string{name}
	for _, n := range old {
		if n != name && len(names) < maxRecent {
			names = append(names, n)
		}
	}
	sess.Values[recentKey] = names
	if err := sess.Save(r, w); err != nil {
		s.Log.WithError(err).Warn("save session")
	}
	return names
}

func recentItems(names []string) []recentItem {
	out := make([]recentItem, 0, len(names))
	for _, n := range names {
		out = append(out, recentItem{Name: n, URL: artifactURL(n)})
	}
	return out
}

func artifactURL(name string) string {
	return app.QRURLPrefix + url.PathEscape(name)
}
