package web

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ewucal/internal/config"
	appLog "ewucal/internal/log"
	"ewucal/internal/model"
	"ewucal/internal/portal"
	"ewucal/internal/store"
	"ewucal/internal/timetable"
)

// Server renders the login/dashboard flow and serves generated calendar
// documents out of the short-lived store.
type Server struct {
	cfg   *config.Config
	docs  *store.Store
	mux   *http.ServeMux
	pages map[string]*template.Template
}

// NewServer constructs a Server around an existing document store. The
// store is shared with the sweep scheduler owned by the caller.
func NewServer(cfg *config.Config, docs *store.Store) *Server {
	s := &Server{
		cfg:  cfg,
		docs: docs,
		mux:  http.NewServeMux(),
		pages: map[string]*template.Template{
			"login":     parsePage(loginTmpl),
			"dashboard": parsePage(dashboardTmpl),
			"timetable": parsePage(timetableTmpl),
			"generated": parsePage(generatedTmpl),
		},
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// StartServer serves the web UI on cfg.Listen until ctx is canceled.
func StartServer(ctx context.Context, cfg *config.Config, docs *store.Store) error {
	s := NewServer(cfg, docs)
	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="EWU Timetable", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /{$}", s.handleLogin)
	s.mux.HandleFunc("GET /dashboard", s.handleDashboard)
	s.mux.HandleFunc("POST /dashboard/timetable", s.handleTimetable)
	s.mux.HandleFunc("POST /dashboard/timetable/generate", s.handleGenerate)
	s.mux.HandleFunc("GET /dashboard/timetable/download", s.handleDownload)
	s.mux.HandleFunc("GET /logout", s.handleLogout)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// sessionCookie returns the portal session cookie pair from the request.
func sessionCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(portal.SessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return portal.SessionCookieName + "=" + c.Value, true
}

type pageData struct {
	Title  string
	Logout bool
	Data   any
}

func (s *Server) renderPage(w http.ResponseWriter, page, title string, logout bool, data any) {
	tmpl, ok := s.pages[page]
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", pageData{Title: title, Logout: logout, Data: data}); err != nil {
		appLog.Error("template render failed", err, "page", page)
	}
}

type loginData struct {
	Message string
}

func (s *Server) renderLogin(w http.ResponseWriter, message string) {
	s.renderPage(w, "login", "Login", false, loginData{Message: message})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessionCookie(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	s.renderLogin(w, "")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		s.renderLogin(w, "Student ID and password are required.")
		return
	}

	page, err := portal.FetchLoginPage(ctx, s.cfg.PortalBaseURL)
	if err != nil {
		appLog.Error("login page fetch failed", err)
		s.renderLogin(w, "The portal is unreachable. Try again later.")
		return
	}

	if err := portal.Login(ctx, s.cfg.PortalBaseURL, page, username, password); err != nil {
		appLog.Warn("login rejected", "user", username, "reason", err)
		s.renderLogin(w, "Please login again. Possible errors: session expired, invalid credentials, or login blocked.")
		return
	}

	value := strings.TrimPrefix(page.SessionCookie, portal.SessionCookieName+"=")
	http.SetCookie(w, &http.Cookie{
		Name:     portal.SessionCookieName,
		Value:    value,
		MaxAge:   900,
		HttpOnly: true,
		Path:     "/",
	})
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessionCookie(r); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     portal.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

type dashboardData struct {
	Semesters []model.Semester
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionCookie(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	client := portal.NewClient(s.cfg.PortalBaseURL, session)
	semesters, err := client.Semesters(r.Context())
	if err != nil {
		s.portalError(w, r, err)
		return
	}

	s.renderPage(w, "dashboard", "Welcome!", true, dashboardData{Semesters: semesters})
}

type periodView struct {
	Weekday string
	Start   string
	End     string
	Room    string
}

type courseView struct {
	Code     string
	Section  int
	Lecturer string
	Periods  []periodView
}

type timetableData struct {
	SemesterID   int
	SemesterName string
	Courses      []courseView
}

func (s *Server) handleTimetable(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionCookie(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	semesterID, semesterName, err := splitSemesterParam(r.PostFormValue("semester"))
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	client := portal.NewClient(s.cfg.PortalBaseURL, session)
	courses, err := client.Courses(r.Context(), semesterID)
	if err != nil {
		s.portalError(w, r, err)
		return
	}

	data := timetableData{
		SemesterID:   semesterID,
		SemesterName: strings.ReplaceAll(semesterName, "-", " "),
		Courses:      makeCourseViews(courses),
	}
	s.renderPage(w, "timetable", fmt.Sprintf("Timetable for Semester %s", semesterName), true, data)
}

type upcomingView struct {
	When    string
	Summary string
	Room    string
}

type generatedData struct {
	SemesterID   int
	SemesterName string
	StartDate    string
	EndDate      string
	TTLMinutes   int
	DownloadPath string
	// GoogleURL is pre-built so the webcal address inside the cid query
	// parameter is not percent-escaped by the template engine.
	GoogleURL template.URL
	Upcoming  []upcomingView
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionCookie(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	semesterID, err := strconv.Atoi(r.PostFormValue("semester_id"))
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	semesterName := r.PostFormValue("semester_name")
	startDate, err := time.Parse("2006-01-02", r.PostFormValue("start_date"))
	if err != nil {
		http.Error(w, "Invalid start date", http.StatusBadRequest)
		return
	}
	endDate, err := time.Parse("2006-01-02", r.PostFormValue("end_date"))
	if err != nil {
		http.Error(w, "Invalid end date", http.StatusBadRequest)
		return
	}

	client := portal.NewClient(s.cfg.PortalBaseURL, session)
	courses, err := client.Courses(r.Context(), semesterID)
	if err != nil {
		s.portalError(w, r, err)
		return
	}

	document, err := timetable.BuildTimetable(courses, semesterName, startDate, endDate)
	if err != nil {
		if timetable.IsInputError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		appLog.Error("timetable build failed", err, "semester_id", semesterID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	key := store.Key(session, semesterID, semesterName)
	s.docs.Put(key, document)
	appLog.Info("calendar generated", "semester_id", semesterID, "key", key, "courses", len(courses))

	downloadPath := "/dashboard/timetable/download?id=" + key
	data := generatedData{
		SemesterID:   semesterID,
		SemesterName: semesterName,
		StartDate:    startDate.Format("2006-01-02"),
		EndDate:      endDate.Format("2006-01-02"),
		TTLMinutes:   s.cfg.StoreTTLMinutes,
		DownloadPath: downloadPath,
		GoogleURL:    template.URL("https://calendar.google.com/calendar/u/0/r?cid=webcal://" + r.Host + downloadPath),
		Upcoming:     s.upcomingSessions(document, startDate, endDate),
	}
	s.renderPage(w, "generated", "Calendar Generated", true, data)
}

// upcomingSessions expands the freshly compiled document into the next
// seven days of concrete sessions, clamped to the semester window. Errors
// only cost the preview section, never the generated calendar.
func (s *Server) upcomingSessions(document string, startDate, endDate time.Time) []upcomingView {
	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}

	rangeStart := time.Now().In(loc)
	if rangeStart.Before(startDate) {
		rangeStart = startDate.In(loc)
	}
	rangeEnd := rangeStart.AddDate(0, 0, 7)
	if rangeEnd.After(endDate.AddDate(0, 0, 1)) {
		rangeEnd = endDate.AddDate(0, 0, 1)
	}
	if !rangeEnd.After(rangeStart) {
		return nil
	}

	occurrences, err := timetable.PreviewOccurrences(document, timetable.PreviewConfig{
		Location:   loc,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
	})
	if err != nil {
		appLog.Error("occurrence preview failed", err)
		return nil
	}

	views := make([]upcomingView, 0, len(occurrences))
	for _, occ := range occurrences {
		views = append(views, upcomingView{
			When:    occ.Start.Format("Mon Jan 2 15:04") + "–" + occ.End.Format("15:04"),
			Summary: occ.Summary,
			Room:    occ.Room,
		})
	}
	return views
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("id")
	if key == "" {
		http.Error(w, "Missing id", http.StatusBadRequest)
		return
	}

	document, ok := s.docs.Get(key)
	if !ok {
		http.Error(w, "Calendar doesn't exist", http.StatusNotFound)
		return
	}

	maxAge := s.cfg.StoreTTLMinutes * 60
	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=timetable_%s.ics", key))
	_, _ = w.Write([]byte(document))
}

// portalError maps portal failures onto responses: expired sessions go
// back to the login page, bad upstream data is a client-visible 502,
// anything else is a 500.
func (s *Server) portalError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, portal.ErrUnauthorized) {
		http.SetCookie(w, &http.Cookie{
			Name:   portal.SessionCookieName,
			Value:  "",
			MaxAge: -1,
			Path:   "/",
		})
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if timetable.IsInputError(err) {
		appLog.Error("portal returned malformed data", err)
		http.Error(w, "The portal returned malformed data", http.StatusBadGateway)
		return
	}
	appLog.Error("portal request failed", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func splitSemesterParam(v string) (int, string, error) {
	parts := strings.SplitN(v, " ", 2)
	if len(parts) != 2 {
		return 0, "", errors.New("web: malformed semester parameter")
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", err
	}
	return id, parts[1], nil
}

func makeCourseViews(courses []model.Course) []courseView {
	views := make([]courseView, 0, len(courses))
	for _, course := range courses {
		cv := courseView{
			Code:     course.Code,
			Section:  course.Section,
			Lecturer: course.Lecturer,
		}
		for _, period := range course.Periods {
			name, err := timetable.WeekdayName(period.Day)
			if err != nil {
				continue
			}
			cv.Periods = append(cv.Periods, periodView{
				Weekday: name,
				Start:   timetable.FormatTimeOfDay(period.Start),
				End:     timetable.FormatTimeOfDay(period.End),
				Room:    period.Room,
			})
		}
		views = append(views, cv)
	}
	return views
}
