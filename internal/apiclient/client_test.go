package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/projectboard/internal/telemetry"
)

type item struct {
	Name string `json:"name"`
}

func newTestServer(t *testing.T, register func(e *echo.Echo)) *httptest.Server {
	t.Helper()
	e := echo.New()
	e.HideBanner = true
	register(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string, opts Options) *Client {
	t.Helper()
	opts.BaseURL = baseURL
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "ftp://host", "http://"} {
		_, err := New(Options{BaseURL: raw})
		assert.ErrorIs(t, err, ErrInvalidBaseURL, raw)
	}
}

func TestClient_Get_DecodesData(t *testing.T) {
	var gotQuery url.Values
	var gotAuth, gotRequestID string
	srv := newTestServer(t, func(e *echo.Echo) {
		e.GET("/api/v1/items", func(c echo.Context) error {
			gotQuery = c.QueryParams()
			gotAuth = c.Request().Header.Get("Authorization")
			gotRequestID = c.Request().Header.Get(RequestIDHeader)
			return c.JSON(http.StatusOK, map[string]interface{}{
				"success": true,
				"data":    []item{{Name: "a"}, {Name: "b"}},
			})
		})
	})

	c := newTestClient(t, srv.URL+"/", Options{
		TokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}),
	})

	var out []item
	err := c.Get(context.Background(), "/api/v1/items", url.Values{"size": {"12"}}, &out)
	require.NoError(t, err)

	assert.Equal(t, []item{{Name: "a"}, {Name: "b"}}, out)
	assert.Equal(t, "12", gotQuery.Get("size"))
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_NoTokenSource(t *testing.T) {
	var gotAuth string
	srv := newTestServer(t, func(e *echo.Echo) {
		e.GET("/x", func(c echo.Context) error {
			gotAuth = c.Request().Header.Get("Authorization")
			return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
		})
	})

	c := newTestClient(t, srv.URL, Options{})
	require.NoError(t, c.Get(context.Background(), "/x", nil, nil))
	assert.Empty(t, gotAuth)
}

func TestClient_Post_SendsJSON(t *testing.T) {
	var got item
	srv := newTestServer(t, func(e *echo.Echo) {
		e.POST("/items", func(c echo.Context) error {
			if err := c.Bind(&got); err != nil {
				return err
			}
			return c.JSON(http.StatusCreated, map[string]interface{}{"success": true, "data": got})
		})
	})

	c := newTestClient(t, srv.URL, Options{})
	var out item
	require.NoError(t, c.Post(context.Background(), "/items", item{Name: "new"}, &out))
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, "new", out.Name)
}

func TestClient_Errors(t *testing.T) {
	srv := newTestServer(t, func(e *echo.Echo) {
		e.GET("/status", func(c echo.Context) error {
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"success": false, "message": "database down",
			})
		})
		e.GET("/plain", func(c echo.Context) error {
			return c.String(http.StatusBadGateway, "bad gateway")
		})
		e.GET("/unsuccessful", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"success": false, "message": "quota exceeded",
			})
		})
		e.GET("/garbage", func(c echo.Context) error {
			return c.String(http.StatusOK, "{not json")
		})
	})
	c := newTestClient(t, srv.URL, Options{})
	ctx := context.Background()

	t.Run("non-2xx carries server message", func(t *testing.T) {
		err := c.Get(ctx, "/status", nil, nil)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "database down", MessageOf(err))
	})

	t.Run("non-2xx without envelope", func(t *testing.T) {
		err := c.Get(ctx, "/plain", nil, nil)
		require.Error(t, err)
		assert.Empty(t, MessageOf(err))
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("success false", func(t *testing.T) {
		err := c.Get(ctx, "/unsuccessful", nil, nil)
		assert.Equal(t, "quota exceeded", MessageOf(err))
	})

	t.Run("decode error", func(t *testing.T) {
		err := c.Get(ctx, "/garbage", nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode response")
		assert.Empty(t, MessageOf(err))
	})

	t.Run("transport error", func(t *testing.T) {
		dead := newTestClient(t, "http://127.0.0.1:1", Options{Timeout: time.Second})
		err := dead.Get(ctx, "/x", nil, nil)
		require.Error(t, err)
		assert.Empty(t, MessageOf(err))
	})
}

func TestClient_RateLimitHonorsContext(t *testing.T) {
	srv := newTestServer(t, func(e *echo.Echo) {
		e.GET("/x", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
		})
	})
	c := newTestClient(t, srv.URL, Options{Limiter: rate.NewLimiter(rate.Every(time.Hour), 1)})

	require.NoError(t, c.Get(context.Background(), "/x", nil, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.Get(ctx, "/x", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestClient_RecordsSpan(t *testing.T) {
	srv := newTestServer(t, func(e *echo.Echo) {
		e.GET("/x", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
		})
	})
	tel := telemetry.NewTestTelemetry()
	c := newTestClient(t, srv.URL, Options{Tracer: tel.Tracer("test")})

	require.NoError(t, c.Get(context.Background(), "/x", nil, nil))

	tel.AssertSpanExists(t, "GET /x")
	tel.AssertSpanAttribute(t, "GET /x", "http.response.status_code", int64(http.StatusOK))
}
