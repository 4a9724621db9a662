package web

import (
	"context"
	"errors"
	"html/template"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"github.com/yuzeguitarist/qrgen/internal/app"
	"github.com/yuzeguitarist/qrgen/internal/artifact"
	"github.com/yuzeguitarist/qrgen/internal/audit"
	"github.com/yuzeguitarist/qrgen/internal/config"
	"github.com/yuzeguitarist/qrgen/internal/qr"
)

const qrURLMarker = "/qr_codes/"

type Server struct {
	Store    *artifact.Store
	Namer    artifact.Namer
	QR       qr.Options
	Sessions *sessions.CookieStore
	Audit    *audit.Log
	Log      *logrus.Logger

	csrfKey []byte
	tmpl    *template.Template
}

type pageData struct {
	QRCodeURL string
	Filename  string
	Recent    []recentItem
	CSRFField template.HTML
}

func NewServer(cfg *config.Config, store *artifact.Store) (*Server, error) {
	opts, err := cfg.QROptions()
	if err != nil {
		return nil, err
	}
	tmpl, err := template.ParseFS(FS, "templates/index.html")
	if err != nil {
		return nil, err
	}

	key := cfg.SessionKey
	if key == "" {
		// sessions do not survive a restart without a configured key
		if key, err = app.RandToken(32); err != nil {
			return nil, err
		}
	}
	cs := sessions.NewCookieStore([]byte(key))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 8,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Server{
		Store:    store,
		Namer:    cfg.Namer(),
		QR:       opts,
		Sessions: cs,
		Audit:    audit.New(cfg.AuditLog),
		Log:      logrus.StandardLogger(),
		csrfKey:  []byte(cfg.CSRFKey),
		tmpl:     tmpl,
	}, nil
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(requestID, s.logRequests)

	r.PathPrefix(app.QRURLPrefix).Handler(http.StripPrefix(app.QRURLPrefix, noDirListing(http.FileServer(http.Dir(s.Store.Dir())))))
	r.PathPrefix(app.StaticPrefix).Handler(http.FileServerFS(FS))
	r.HandleFunc("/health", s.health).Methods("GET")
	r.HandleFunc("/", s.index).Methods("GET")
	r.HandleFunc("/generate", s.generate).Methods("POST")
	r.HandleFunc("/download", s.download).Methods("POST")

	if len(s.csrfKey) > 0 {
		return csrf.Protect(s.csrfKey, csrf.Secure(false))(r)
	}
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("content-type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK\n"))
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, pageData{Recent: recentItems(s.recent(r))})
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	data := r.FormValue("data")
	if data == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	name := s.Namer.FileName(data)
	png, err := qr.PNG(data, s.QR)
	if err != nil {
		s.fail(w, r, "encode qr code", err)
		return
	}
	a, err := s.Store.Save(name, png)
	if err != nil {
		s.fail(w, r, "save qr code", err)
		return
	}

	recent := s.remember(w, r, a.Name)
	s.Audit.Write(audit.Entry{IP: clientIP(r), Action: "generate", Object: a.Name})
	s.Log.WithFields(logrus.Fields{"file": a.Name, "size": a.Size, "request_id": requestIDFrom(r)}).Info("qr code generated")

	s.render(w, r, pageData{
		QRCodeURL: artifactURL(a.Name),
		Filename:  a.Name,
		Recent:    recentItems(recent),
	})
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	rel := artifactPath(r.FormValue("qr_code_url"))
	f, info, err := s.Store.Open(rel)
	if errors.Is(err, artifact.ErrNotFound) {
		s.Log.WithFields(logrus.Fields{"path": rel, "request_id": requestIDFrom(r)}).Warn("qr code not found")
		http.Error(w, "qr code not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.fail(w, r, "open qr code", err)
		return
	}
	defer f.Close()

	filename := r.FormValue("filename")
	if filename == "" {
		filename = info.Name()
	}
	filename = DownloadName(filename)

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Type", "image/png")
	s.Audit.Write(audit.Entry{IP: clientIP(r), Action: "download", Object: info.Name(), Detail: filename})
	http.ServeContent(w, r, filename, info.ModTime(), f)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, data pageData) {
	data.CSRFField = csrf.TemplateField(r)
	w.Header().Set("content-type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		s.Log.WithError(err).Error("render index")
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.Log.WithFields(logrus.Fields{"request_id": requestIDFrom(r)}).WithError(err).Error(msg)
	http.Error(w, msg+": "+err.Error(), http.StatusInternalServerError)
}

// ---- helpers ----

// DownloadName appends .png unless name already ends with it.
func DownloadName(name string) string {
	if !strings.HasSuffix(name, ".png") {
		name += ".png"
	}
	return name
}

// artifactPath extracts the store-relative path from an image URL: everything
// after the last "/qr_codes/", or the whole value when the marker is absent.
func artifactPath(u string) string {
	if i := strings.LastIndex(u, qrURLMarker); i >= 0 {
		u = u[i+len(qrURLMarker):]
	}
	if p, err := url.PathUnescape(u); err == nil {
		return p
	}
	return u
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	if host == "" {
		return r.RemoteAddr
	}
	return host
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
