package test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"devconnector/internal/apperr"
	"devconnector/internal/models"
	"devconnector/internal/service"
)

func TestRegister_Success(t *testing.T) {
	th := newTestHandlers()
	th.auth.On("Register", mock.Anything, service.RegisterInput{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "secret1",
	}).Return("signed.token.value", nil)

	rr := httptest.NewRecorder()
	th.Register(rr, jsonRequest(t, http.MethodPost, "/api/users", map[string]string{
		"name":     "Jane",
		"email":    "jane@example.com",
		"password": "secret1",
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"token":"signed.token.value"}`, rr.Body.String())
	th.auth.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name      string
		body      map[string]string
		wantParam []string
		wantMsg   string
	}{
		{
			name:      "empty body",
			body:      nil,
			wantParam: []string{"name", "email", "password"},
		},
		{
			name:      "bad email",
			body:      map[string]string{"name": "Jane", "email": "jane", "password": "secret1"},
			wantParam: []string{"email"},
			wantMsg:   "Please include a valid email",
		},
		{
			name:      "short password",
			body:      map[string]string{"name": "Jane", "email": "jane@example.com", "password": "abc"},
			wantParam: []string{"password"},
			wantMsg:   "Please enter a password with 6 or more characters",
		},
		{
			name:      "non alphanumeric password",
			body:      map[string]string{"name": "Jane", "email": "jane@example.com", "password": "secret!!"},
			wantParam: []string{"password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := newTestHandlers()

			var body interface{}
			if tt.body != nil {
				body = tt.body
			}
			rr := httptest.NewRecorder()
			th.Register(rr, jsonRequest(t, http.MethodPost, "/api/users", body))

			fields := decodeFieldErrors(t, rr)
			params := make([]string, 0, len(fields))
			for _, f := range fields {
				params = append(params, f.Param)
				assert.Equal(t, "body", f.Location)
			}
			assert.ElementsMatch(t, tt.wantParam, params)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, fields[0].Msg)
			}
			th.auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	th := newTestHandlers()
	th.auth.On("Register", mock.Anything, mock.Anything).
		Return("", apperr.Validation("AuthService.Register", apperr.FieldError{Msg: "User already exists"}))

	rr := httptest.NewRecorder()
	th.Register(rr, jsonRequest(t, http.MethodPost, "/api/users", map[string]string{
		"name": "Jane", "email": "jane@example.com", "password": "secret1",
	}))

	fields := decodeFieldErrors(t, rr)
	assert.Equal(t, "User already exists", fields[0].Msg)
}

func TestRegister_MalformedJSON(t *testing.T) {
	th := newTestHandlers()

	rr := httptest.NewRecorder()
	th.Register(rr, httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader("{")))

	assertMsg(t, rr, http.StatusBadRequest, "Invalid request body")
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		th := newTestHandlers()
		th.auth.On("Login", mock.Anything, "jane@example.com", "secret1").Return("tok", nil)

		rr := httptest.NewRecorder()
		th.Login(rr, jsonRequest(t, http.MethodPost, "/api/auth", map[string]string{
			"email": "jane@example.com", "password": "secret1",
		}))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"token":"tok"}`, rr.Body.String())
	})

	t.Run("missing password", func(t *testing.T) {
		th := newTestHandlers()

		rr := httptest.NewRecorder()
		th.Login(rr, jsonRequest(t, http.MethodPost, "/api/auth", map[string]string{"email": "jane@example.com"}))

		fields := decodeFieldErrors(t, rr)
		assert.Equal(t, "Password is required", fields[0].Msg)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		th := newTestHandlers()
		th.auth.On("Login", mock.Anything, "jane@example.com", "nope").
			Return("", apperr.Validation("AuthService.Login", apperr.FieldError{Msg: "Invalid Credentials"}))

		rr := httptest.NewRecorder()
		th.Login(rr, jsonRequest(t, http.MethodPost, "/api/auth", map[string]string{
			"email": "jane@example.com", "password": "nope",
		}))

		fields := decodeFieldErrors(t, rr)
		assert.Equal(t, "Invalid Credentials", fields[0].Msg)
	})
}

func TestCurrentUser(t *testing.T) {
	t.Run("no identity on the request", func(t *testing.T) {
		th := newTestHandlers()

		rr := httptest.NewRecorder()
		th.CurrentUser(rr, httptest.NewRequest(http.MethodGet, "/api/auth", nil))

		assertMsg(t, rr, http.StatusUnauthorized, "No token, authorization denied")
	})

	t.Run("password never serialized", func(t *testing.T) {
		th := newTestHandlers()
		th.users.On("CurrentUser", mock.Anything, "u1").
			Return(&models.User{ID: "u1", Name: "Jane", Email: "jane@example.com", Password: "$2a$10$hash"}, nil)

		rr := httptest.NewRecorder()
		th.CurrentUser(rr, asUser(httptest.NewRequest(http.MethodGet, "/api/auth", nil), "u1"))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"name":"Jane"`)
		assert.NotContains(t, rr.Body.String(), "$2a$10$hash")
		assert.NotContains(t, rr.Body.String(), "password")
	})
}
