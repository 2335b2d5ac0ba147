package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnector/internal/apperr"
	"devconnector/internal/config"
	"devconnector/internal/logger"
	"devconnector/internal/models"
)

type testAPI struct {
	t       *testing.T
	app     *App
	handler http.Handler
}

func newTestAPI(t *testing.T, github string) *testAPI {
	t.Helper()
	cfg := &config.Config{
		StorageDriver:       config.DriverMemory,
		JWTSecretKey:        "e2e-secret",
		AccessTokenDuration: time.Hour,
		MaxUploadSize:       1 << 20,
		GitHub:              config.GitHub{APIURL: github, Timeout: 2 * time.Second},
	}

	a, err := New(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	return &testAPI{t: t, app: a, handler: a.Routes()}
}

func (c *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)
	return rr
}

func (c *testAPI) decode(rr *httptest.ResponseRecorder, dst interface{}) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(rr.Body.Bytes(), dst), rr.Body.String())
}

func (c *testAPI) register(name, email string) (token, userID string) {
	c.t.Helper()
	rr := c.do(http.MethodPost, "/api/users", "", map[string]string{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(c.t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct{ Token string }
	c.decode(rr, &body)
	userID, err := c.app.Services.Auth.ParseToken(body.Token)
	require.NoError(c.t, err)
	return body.Token, userID
}

func (c *testAPI) msg(rr *httptest.ResponseRecorder) string {
	c.t.Helper()
	var body struct{ Msg string }
	c.decode(rr, &body)
	return body.Msg
}

func (c *testAPI) firstFieldError(rr *httptest.ResponseRecorder) string {
	c.t.Helper()
	var body struct{ Errors []apperr.FieldError }
	c.decode(rr, &body)
	require.NotEmpty(c.t, body.Errors)
	return body.Errors[0].Msg
}

func (c *testAPI) createPost(token, text string) models.Post {
	c.t.Helper()
	rr := c.do(http.MethodPost, "/api/posts", token, map[string]string{"text": text})
	require.Equal(c.t, http.StatusOK, rr.Code, rr.Body.String())
	var post models.Post
	c.decode(rr, &post)
	return post
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t, "")

	token, userID := api.register("Jane", "jane@example.com")

	rr := api.do(http.MethodPost, "/api/users", "", map[string]string{
		"name": "Jane again", "email": "JANE@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "User already exists", api.firstFieldError(rr))

	rr = api.do(http.MethodPost, "/api/auth", "", map[string]string{"email": "jane@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(http.MethodPost, "/api/auth", "", map[string]string{"email": "jane@example.com", "password": "wrong1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid Credentials", api.firstFieldError(rr))

	rr = api.do(http.MethodGet, "/api/auth", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var me models.User
	api.decode(rr, &me)
	assert.Equal(t, userID, me.ID)
	assert.Contains(t, me.Avatar, "gravatar.com/avatar/")
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	api := newTestAPI(t, "")

	rr := api.do(http.MethodGet, "/api/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "No token, authorization denied", api.msg(rr))

	rr = api.do(http.MethodGet, "/api/posts", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Token is not valid", api.msg(rr))

	token, _ := api.register("Jane", "jane@example.com")
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProfileLifecycle(t *testing.T) {
	api := newTestAPI(t, "")
	token, userID := api.register("Jane", "jane@example.com")

	rr := api.do(http.MethodGet, "/api/profile/me", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "There is no profile for this user", api.msg(rr))

	rr = api.do(http.MethodPut, "/api/profile/experience", token, map[string]string{
		"title": "Dev", "company": "Acme", "from": "2019-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	input := map[string]string{
		"status":  "Developer",
		"skills":  "go, sql ,js",
		"company": "Acme",
		"twitter": "https://twitter.com/jane",
	}
	var first, second models.Profile
	rr = api.do(http.MethodPost, "/api/profile", token, input)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	api.decode(rr, &first)
	rr = api.do(http.MethodPost, "/api/profile", token, input)
	require.Equal(t, http.StatusOK, rr.Code)
	api.decode(rr, &second)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, []string{"go", "sql", "js"}, []string(second.Skills))
	assert.Equal(t, "Acme", second.Company)
	assert.Equal(t, "https://twitter.com/jane", second.Social.Twitter)
	require.NotNil(t, second.User)
	assert.Equal(t, "Jane", second.User.Name)

	rr = api.do(http.MethodGet, "/api/profile", "", nil)
	var all []models.Profile
	api.decode(rr, &all)
	assert.Len(t, all, 1)

	rr = api.do(http.MethodGet, "/api/profile/user/"+userID, "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = api.do(http.MethodGet, "/api/profile/user/not-an-id", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Profile not found", api.msg(rr))

	for _, title := range []string{"Junior", "Senior"} {
		rr = api.do(http.MethodPut, "/api/profile/experience", token, map[string]string{
			"title": title, "company": "Acme", "from": "2019-01-01",
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
	var withExp models.Profile
	api.decode(rr, &withExp)
	require.Len(t, withExp.Experience, 2)
	assert.Equal(t, "Senior", withExp.Experience[0].Title)

	rr = api.do(http.MethodDelete, "/api/profile/experience/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Experience not found", api.msg(rr))

	rr = api.do(http.MethodDelete, "/api/profile/experience/"+withExp.Experience[1].ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var afterDelete models.Profile
	api.decode(rr, &afterDelete)
	require.Len(t, afterDelete.Experience, 1)
	assert.Equal(t, "Senior", afterDelete.Experience[0].Title)

	rr = api.do(http.MethodPut, "/api/profile/education", token, map[string]string{
		"school": "MIT", "degree": "BSc", "fieldofstudy": "CS", "from": "2010-09-01", "to": "2014-06-01",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var withEdu models.Profile
	api.decode(rr, &withEdu)
	require.Len(t, withEdu.Education, 1)

	rr = api.do(http.MethodDelete, "/api/profile/education/"+withEdu.Education[0].ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var noEdu models.Profile
	api.decode(rr, &noEdu)
	assert.Empty(t, noEdu.Education)
}

func TestBlankRequiredFields(t *testing.T) {
	api := newTestAPI(t, "")
	token, _ := api.register("Jane", "jane@example.com")

	rr := api.do(http.MethodPost, "/api/profile", token, map[string]string{"status": "   ", "skills": " , "})
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	var body struct{ Errors []apperr.FieldError }
	api.decode(rr, &body)
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "status is required", body.Errors[0].Msg)
	assert.Equal(t, "skills are required", body.Errors[1].Msg)

	rr = api.do(http.MethodGet, "/api/profile/me", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "There is no profile for this user", api.msg(rr))

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/profile", token, map[string]string{
		"status": "Developer", "skills": "go",
	}).Code)

	rr = api.do(http.MethodPut, "/api/profile/experience", token, map[string]string{
		"title": "  ", "company": "Acme", "from": "2019-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Title is required", api.firstFieldError(rr))

	rr = api.do(http.MethodPost, "/api/posts", token, map[string]string{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Text is required", api.firstFieldError(rr))
}

func TestPostInteractions(t *testing.T) {
	api := newTestAPI(t, "")
	jane, _ := api.register("Jane", "jane@example.com")
	bob, _ := api.register("Bob", "bob@example.com")

	post := api.createPost(jane, "hello")
	assert.Equal(t, "Jane", post.Name)
	path := "/api/posts/" + post.ID

	t.Run("likes are a set", func(t *testing.T) {
		rr := api.do(http.MethodPut, "/api/posts/like/"+post.ID, bob, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		rr = api.do(http.MethodPut, "/api/posts/like/"+post.ID, bob, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Post already liked", api.msg(rr))

		var fetched models.Post
		api.decode(api.do(http.MethodGet, path, bob, nil), &fetched)
		assert.Len(t, fetched.Likes, 1)

		rr = api.do(http.MethodPut, "/api/posts/unlike/"+post.ID, jane, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Post not liked", api.msg(rr))

		rr = api.do(http.MethodPut, "/api/posts/unlike/"+post.ID, bob, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("comments are removed by id and author", func(t *testing.T) {
		var comments models.Comments
		for _, text := range []string{"first", "second"} {
			rr := api.do(http.MethodPost, "/api/posts/comment/"+post.ID, jane, map[string]string{"text": text})
			require.Equal(t, http.StatusOK, rr.Code)
			api.decode(rr, &comments)
		}
		require.Len(t, comments, 2)
		assert.Equal(t, "second", comments[0].Text)
		target := comments[1]

		rr := api.do(http.MethodDelete, "/api/posts/comment/"+post.ID+"/"+target.ID, bob, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "User not authorized", api.msg(rr))

		rr = api.do(http.MethodDelete, "/api/posts/comment/"+post.ID+"/nope", jane, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Comment does not exist", api.msg(rr))

		rr = api.do(http.MethodDelete, "/api/posts/comment/"+post.ID+"/"+target.ID, jane, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var left models.Comments
		api.decode(rr, &left)
		require.Len(t, left, 1)
		assert.Equal(t, "second", left[0].Text)
	})

	t.Run("only the owner deletes", func(t *testing.T) {
		rr := api.do(http.MethodDelete, path, bob, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, http.StatusOK, api.do(http.MethodGet, path, bob, nil).Code)

		rr = api.do(http.MethodDelete, path, jane, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Post removed", api.msg(rr))

		rr = api.do(http.MethodGet, path, jane, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Post not found", api.msg(rr))
	})

	t.Run("images need storage", func(t *testing.T) {
		other := api.createPost(jane, "with image")
		rr := api.do(http.MethodDelete, "/api/posts/"+other.ID+"/images/x", jane, nil)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Image storage is not configured", api.msg(rr))
	})

}

func TestPostsNewestFirst(t *testing.T) {
	api := newTestAPI(t, "")
	token, _ := api.register("Jane", "jane@example.com")

	api.createPost(token, "older")
	time.Sleep(2 * time.Millisecond)
	api.createPost(token, "newer")

	var posts []models.Post
	api.decode(api.do(http.MethodGet, "/api/posts", token, nil), &posts)
	require.Len(t, posts, 2)
	assert.Equal(t, "newer", posts[0].Text)
}

func TestDeleteAccountCascades(t *testing.T) {
	api := newTestAPI(t, "")
	token, userID := api.register("Jane", "jane@example.com")
	other, _ := api.register("Bob", "bob@example.com")

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/profile", token, map[string]string{
		"status": "Developer", "skills": "go",
	}).Code)
	post := api.createPost(token, "bye")
	kept := api.createPost(other, "stays")

	rr := api.do(http.MethodDelete, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "User Deleted", api.msg(rr))

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/posts/"+post.ID, other, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/profile/user/"+userID, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/auth", token, nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/posts/"+kept.ID, other, nil).Code)

	rr = api.do(http.MethodPost, "/api/auth", "", map[string]string{"email": "jane@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGitHubProxy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/octocat/repos" {
			_, _ = w.Write([]byte(`[{"name":"hello-world"}]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	api := newTestAPI(t, upstream.URL)

	rr := api.do(http.MethodGet, "/api/profile/github/octocat", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"name":"hello-world"}]`, rr.Body.String())

	rr = api.do(http.MethodGet, "/api/profile/github/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "No Github profile found", api.msg(rr))
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t, "")

	rr := api.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","storage":"memory"}`, rr.Body.String())

	rr = api.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "devconnector_http_requests_total")
}

func TestMiddlewareLogsPanics(t *testing.T) {
	var buf bytes.Buffer
	a := &App{Config: &config.Config{}, Log: logger.NewWithOutput("info", &buf)}

	h := a.wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("X-Request-Id", "req-9")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var logged map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["msg"] == "request" {
			logged = entry
		}
	}
	require.NotNil(t, logged, buf.String())
	assert.Equal(t, "req-9", logged["request_id"])
	assert.Equal(t, float64(http.StatusInternalServerError), logged["status"])
}

func TestUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StorageDriver: "sqlite"}, logger.Discard())
	assert.Error(t, err)
}
