// Package apitest provides an in-process fake of the remote services for
// tests: the Project Service, the auth "me" endpoint and the dashboard
// summary.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/fyrsmithlabs/projectboard/internal/projectapi"
)

// Route names used by Fail and Calls.
const (
	RouteTags      = "tags"
	RouteMine      = "mine"
	RouteCreate    = "create"
	RouteMe        = "me"
	RouteDashboard = "dashboard"
)

// User is returned by the auth "me" endpoint.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type failure struct {
	status  int
	message string
}

// Server is a fake backend listening on a local port.
type Server struct {
	*httptest.Server

	Store *Store

	// Token, when set, is required as the bearer token on every request.
	Token string
	User  User

	mu       sync.Mutex
	calls    map[string]int
	failures map[string]failure
	lastList map[string]string
}

// New starts a fake backend that is closed when the test ends.
func New(tb testing.TB) *Server {
	tb.Helper()

	s := &Server{
		Store:    NewStore(),
		User:     User{ID: "u-1", Name: "Test User", Email: "test@example.com"},
		calls:    make(map[string]int),
		failures: make(map[string]failure),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(s.authMiddleware)

	e.GET(projectapi.TagsPath, s.route(RouteTags, s.handleTags))
	e.GET(projectapi.MyProjectsPath, s.route(RouteMine, s.handleMine))
	e.POST(projectapi.ProjectsPath, s.route(RouteCreate, s.handleCreate))
	e.GET("/api/v1/auth/me", s.route(RouteMe, s.handleMe))
	e.GET("/api/v1/dashboard/summary", s.route(RouteDashboard, s.handleSummary))

	s.Server = httptest.NewServer(e)
	tb.Cleanup(s.Close)
	return s
}

// Fail makes every later call to route respond with status and message.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// Recover clears an injected failure.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Calls returns how many requests reached route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// LastListQuery returns the query parameters of the last my-projects call.
func (s *Server) LastListQuery() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastList
}

func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.Token != "" && c.Request().Header.Get("Authorization") != "Bearer "+s.Token {
			return fail(c, http.StatusUnauthorized, "unauthorized")
		}
		return next(c)
	}
}

func (s *Server) route(name string, h echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.calls[name]++
		f, failing := s.failures[name]
		s.mu.Unlock()

		if failing {
			return fail(c, f.status, f.message)
		}
		return h(c)
	}
}

func (s *Server) handleTags(c echo.Context) error {
	return ok(c, http.StatusOK, s.Store.Tags())
}

func (s *Server) handleMine(c echo.Context) error {
	current, err := strconv.Atoi(c.QueryParam("current"))
	if err != nil || current < 1 {
		return fail(c, http.StatusBadRequest, "invalid current page")
	}
	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil || size < 1 {
		return fail(c, http.StatusBadRequest, "invalid page size")
	}

	var tags []string
	if raw := c.QueryParam("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	s.mu.Lock()
	s.lastList = map[string]string{
		"current": c.QueryParam("current"),
		"size":    c.QueryParam("size"),
		"tags":    c.QueryParam("tags"),
	}
	s.mu.Unlock()

	results, total := s.Store.Page(current, size, tags)
	return ok(c, http.StatusOK, projectapi.ListData{Results: results, Total: total})
}

func (s *Server) handleCreate(c echo.Context) error {
	var params projectapi.CreateParams
	if err := c.Bind(&params); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	p, err := s.Store.Create(params)
	if err != nil {
		return fail(c, http.StatusUnprocessableEntity, err.Error())
	}
	return ok(c, http.StatusCreated, p)
}

func (s *Server) handleMe(c echo.Context) error {
	return ok(c, http.StatusOK, s.User)
}

func (s *Server) handleSummary(c echo.Context) error {
	return ok(c, http.StatusOK, map[string]int{
		"project_count": s.Store.Count(),
		"tag_count":     len(s.Store.Tags()),
	})
}

func ok(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, map[string]interface{}{"success": true, "data": data})
}

func fail(c echo.Context, status int, message string) error {
	body := map[string]interface{}{"success": false}
	if message != "" {
		body["message"] = message
	}
	return c.JSON(status, body)
}
