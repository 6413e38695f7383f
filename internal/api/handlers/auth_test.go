package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/social-network-website/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_SignIn(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, rawPassword := testutil.NewUserBuilder().
		WithName("signinuser").
		WithEmail("signin@example.com").
		WithPassword("correctpassword").
		Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		request        map[string]string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful sign in",
			request: map[string]string{
				"email":    user.Email,
				"password": rawPassword,
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result testutil.AuthResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, user.Email, result.User.Email)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
			},
		},
		{
			name: "wrong password",
			request: map[string]string{
				"email":    user.Email,
				"password": "wrongpassword",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown email",
			request: map[string]string{
				"email":    "nobody@example.com",
				"password": "anypassword",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "missing email",
			request: map[string]string{
				"password": "anypassword",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing password",
			request: map[string]string{
				"email": user.Email,
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, http.MethodPost, ts.AuthURL("/signin"), "", tt.request)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_SignOut(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	t.Run("requires authentication", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.AuthURL("/signout"), "", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("signs out", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.AuthURL("/signout"), token, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, rawPassword := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	signin := map[string]string{"email": user.Email, "password": rawPassword}
	resp := testutil.DoJSON(t, http.MethodPost, ts.AuthURL("/signin"), "", signin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var auth testutil.AuthResponse
	testutil.AssertJSONResponse(t, resp, &auth)

	t.Run("valid refresh returns a new pair", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.AuthURL("/refresh"), "",
			map[string]string{"refreshToken": auth.RefreshToken})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var refreshed testutil.AuthResponse
		testutil.AssertJSONResponse(t, resp, &refreshed)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEqual(t, auth.RefreshToken, refreshed.RefreshToken)
	})

	t.Run("reused refresh token rejected", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.AuthURL("/refresh"), "",
			map[string]string{"refreshToken": auth.RefreshToken})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing token is a bad request", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.AuthURL("/refresh"), "", map[string]string{})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
