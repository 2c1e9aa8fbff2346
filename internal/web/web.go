package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"eaccal/internal/app"
	"eaccal/internal/category"
	"eaccal/internal/datetime"
	"eaccal/internal/grid"
	"eaccal/internal/ics"
	appLog "eaccal/internal/log"
	"eaccal/internal/model"
	"eaccal/internal/summary"
)

// Controller is the UI state the API reads and drives.
type Controller interface {
	Snapshot() app.State
	Month() (year, month0 int)
	Events() []model.CalendarEvent
	Grid() []model.DayCell
	List() []grid.DateGroup
	DayEvents(day int) ([]model.CalendarEvent, error)
	Refresh(ctx context.Context, trigger app.Trigger) error
	ChangeMonth(ctx context.Context, offset int) error
	SetView(v model.ViewMode) error
	SelectDay(day int) error
	ClearSelection()
	ToggleType(t model.EventType)
	ClearFilters()
}

// DefaultRefreshTimeout bounds a refresh started from the API.
const DefaultRefreshTimeout = time.Minute

// Server provides the HTTP API of the calendar.
type Server struct {
	ctrl           Controller
	months         app.MonthFetcher
	location       *time.Location
	refreshTimeout time.Duration
	router         chi.Router
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRefreshTimeout bounds refreshes and navigation started by a request.
func WithRefreshTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.refreshTimeout = d
		}
	}
}

// NewServer constructs a new Server. months serves direct month lookups that
// do not touch the controller's state.
func NewServer(ctrl Controller, months app.MonthFetcher, location *time.Location, opts ...ServerOption) *Server {
	if location == nil {
		location = time.Local
	}
	s := &Server{
		ctrl:           ctrl,
		months:         months,
		location:       location,
		refreshTimeout: DefaultRefreshTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/calendar.ics", s.handleICS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/calendar", s.handleGrid)
		r.Get("/list", s.handleList)
		r.Get("/days/{day}", s.handleDay)
		r.Get("/summary", s.handleSummary)
		r.Get("/months/{year}/{month}", s.handleMonth)

		r.Post("/refresh", s.handleRefresh)
		r.Post("/navigate", s.handleNavigate)
		r.Put("/view/{mode}", s.handleView)
		r.Post("/filters/{type}", s.handleToggleFilter)
		r.Delete("/filters", s.handleClearFilters)
		r.Put("/selection/{day}", s.handleSelect)
		r.Delete("/selection", s.handleClearSelection)

		r.Get("/classify", s.handleClassify)
		r.Get("/parse", s.handleParse)
	})
	return r
}

// requestLogger logs one line per request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		appLog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(started).Round(time.Microsecond),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

type gridResponse struct {
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Weeks  int             `json:"weeks"`
	Blanks int             `json:"blanks"`
	Cells  []model.DayCell `json:"cells"`
}

func (s *Server) handleGrid(w http.ResponseWriter, _ *http.Request) {
	year, month0 := s.ctrl.Month()
	cells := s.ctrl.Grid()
	writeJSON(w, http.StatusOK, gridResponse{
		Year:   year,
		Month:  month0 + 1,
		Weeks:  (len(cells) + 6) / 7,
		Blanks: grid.LeadingBlanks(year, month0),
		Cells:  cells,
	})
}

type listGroup struct {
	grid.DateGroup
	WeekdayName string `json:"weekdayName"`
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	groups := s.ctrl.List()
	out := make([]listGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, listGroup{DateGroup: g, WeekdayName: weekdayNames[g.Weekday]})
	}
	writeJSON(w, http.StatusOK, out)
}

type dayResponse struct {
	Date   string        `json:"date"`
	Events []dayEventDTO `json:"events"`
}

type dayEventDTO struct {
	model.CalendarEvent
	TypeLabel   string           `json:"typeLabel"`
	StatusLabel string           `json:"statusLabel"`
	StatusKind  model.StatusKind `json:"statusKind"`
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "day must be a number")
		return
	}
	events, err := s.ctrl.DayEvents(day)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	year, month0 := s.ctrl.Month()
	resp := dayResponse{
		Date:   datetime.FormatDate(year, month0+1, day),
		Events: make([]dayEventDTO, 0, len(events)),
	}
	for _, ev := range events {
		resp.Events = append(resp.Events, dayEventDTO{
			CalendarEvent: ev,
			TypeLabel:     ev.Type.Label(),
			StatusLabel:   model.StatusLabel(ev.Status),
			StatusKind:    model.ClassifyStatus(ev.Status),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	year, month0 := s.ctrl.Month()
	writeJSON(w, http.StatusOK, summary.Build(year, month0, s.ctrl.Events()))
}

// handleMonth answers GET /api/months/{year}/{month} with month 1-based.
func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	year, errY := strconv.Atoi(chi.URLParam(r, "year"))
	month, errM := strconv.Atoi(chi.URLParam(r, "month"))
	if errY != nil || errM != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "expected /api/months/{year}/{1-12}")
		return
	}

	events, err := s.months.FetchMonth(r.Context(), year, month-1)
	if err != nil {
		appLog.Error("api month fetch failed", err, "year", year, "month", month)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.refreshContext(r)
	defer cancel()
	s.refreshResponse(w, s.ctrl.Refresh(ctx, app.Foreground))
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset == 0 {
		writeError(w, http.StatusBadRequest, "offset must be a non-zero integer")
		return
	}
	ctx, cancel := s.refreshContext(r)
	defer cancel()
	s.refreshResponse(w, s.ctrl.ChangeMonth(ctx, offset))
}

// refreshContext outlives the request: a client hanging up must not turn
// into a foreground failure that clears the events on screen.
func (s *Server) refreshContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), s.refreshTimeout)
}

// refreshResponse maps a refresh outcome to a status. A dropped refresh is
// reported as a conflict; a failed one as a bad gateway.
func (s *Server) refreshResponse(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
	case errors.Is(err, app.ErrRefreshInProgress):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.SetView(model.ViewMode(chi.URLParam(r, "mode"))); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

func (s *Server) handleToggleFilter(w http.ResponseWriter, r *http.Request) {
	t, err := model.ParseEventType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.ctrl.ToggleType(t)
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

func (s *Server) handleClearFilters(w http.ResponseWriter, _ *http.Request) {
	s.ctrl.ClearFilters()
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err == nil {
		err = s.ctrl.SelectDay(day)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid day")
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

func (s *Server) handleClearSelection(w http.ResponseWriter, _ *http.Request) {
	s.ctrl.ClearSelection()
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	t := category.Classify(r.URL.Query().Get("text"))
	writeJSON(w, http.StatusOK, map[string]string{"type": string(t), "label": t.Label()})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	p, ok := datetime.Parse(r.URL.Query().Get("text"))
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unrecognized date")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"date": p.Date, "time": p.Time})
}

func (s *Server) handleICS(w http.ResponseWriter, _ *http.Request) {
	year, month0 := s.ctrl.Month()
	body := ics.Export(s.ctrl.Events(), ics.Options{
		Name:     "Agenda EAC " + summary.MonthName(month0) + " " + strconv.Itoa(year),
		Location: s.location,
	})
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

var weekdayNames = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

// Serve runs the API on listen until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, listen string) error {
	srv := &http.Server{
		Addr:              listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
