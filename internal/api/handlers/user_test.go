package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dom/social-network-website/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		request        map[string]string
		setup          func()
		expectedStatus int
	}{
		{
			name: "successful signup",
			request: map[string]string{
				"name":     "newuser",
				"email":    "new@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing name",
			request: map[string]string{
				"email":    "noname@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "invalid email",
			request: map[string]string{
				"name":     "bademail",
				"email":    "not-an-email",
				"password": "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			request: map[string]string{
				"name":     "shortpw",
				"email":    "shortpw@example.com",
				"password": "abc",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			request: map[string]string{
				"name":     "someone else",
				"email":    "taken@example.com",
				"password": "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("taken@example.com").
					Build(t, ts.DB.DB)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/users"), "", tt.request)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

// Serialized users must never leak digest material, on any code path that
// renders one.
func TestUserHandler_Redaction(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().
		WithName("secretive").
		BuildAndAuthenticate(t, ts)

	paths := []struct {
		name string
		url  string
	}{
		{name: "user list", url: ts.APIURL("/users")},
		{name: "profile read", url: ts.APIURL("/users/" + user.ID.String())},
		{name: "find people", url: ts.APIURL("/users/findpeople/" + user.ID.String())},
	}

	for _, tt := range paths {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, http.MethodGet, tt.url, token, nil)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			body := strings.ToLower(testutil.ReadBody(t, resp))
			assert.NotContains(t, body, "password")
			assert.NotContains(t, body, "hash")
			assert.NotContains(t, body, "salt")
			assert.NotContains(t, body, "$2a$") // bcrypt digest prefix
		})
	}
}

// Sign up, sign in, and read the profile back with the issued token.
func TestUserHandler_SignupSigninRead(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/users"), "", map[string]string{
		"name":     "alice",
		"email":    "alice@x.com",
		"password": "secret1",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = testutil.DoJSON(t, http.MethodPost, ts.AuthURL("/signin"), "", map[string]string{
		"email":    "alice@x.com",
		"password": "secret1",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var auth testutil.AuthResponse
	testutil.AssertJSONResponse(t, resp, &auth)
	require.NotEmpty(t, auth.AccessToken)

	resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/users/"+auth.User.ID), auth.AccessToken, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Email       string `json:"email"`
		Followers   int64  `json:"followers"`
		Following   int64  `json:"following"`
		IsFollowing bool   `json:"isFollowing"`
	}
	testutil.AssertJSONResponse(t, resp, &profile)
	assert.Equal(t, "alice", profile.Name)
	assert.Equal(t, "alice@x.com", profile.Email)
	assert.Zero(t, profile.Followers)

	t.Run("profile of unknown user is not found", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet,
			ts.APIURL("/users/00000000-0000-0000-0000-000000000001"), auth.AccessToken, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("profile requires a token", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/users/"+auth.User.ID), "", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestUserHandler_Ownership(t *testing.T) {
	ts := testutil.NewTestServer(t)

	userA, tokenA := testutil.NewUserBuilder().WithName("owner").BuildAndAuthenticate(t, ts)
	userB, tokenB := testutil.NewUserBuilder().WithName("intruder").BuildAndAuthenticate(t, ts)

	t.Run("cannot update another user", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPut, ts.APIURL("/users/"+userA.ID.String()), tokenB,
			map[string]string{"name": "hacked"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("cannot delete another user", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodDelete, ts.APIURL("/users/"+userB.ID.String()), tokenA, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("owner can update", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPut, ts.APIURL("/users/"+userA.ID.String()), tokenA,
			map[string]string{"name": "renamed", "about": "hello"})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated struct {
			Name  string `json:"name"`
			About string `json:"about"`
		}
		testutil.AssertJSONResponse(t, resp, &updated)
		assert.Equal(t, "renamed", updated.Name)
		assert.Equal(t, "hello", updated.About)
	})

	t.Run("owner can delete", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodDelete, ts.APIURL("/users/"+userB.ID.String()), tokenB, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestUserHandler_Photo(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	photo := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

	t.Run("missing photo is not found with no body leak", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/users/"+user.ID.String()+"/photo"), "", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.NotContains(t, testutil.ReadBody(t, resp), "$2a$")
	})

	t.Run("upload and fetch round trip", func(t *testing.T) {
		resp := testutil.DoMultipart(t, http.MethodPut, ts.APIURL("/users/"+user.ID.String()), token,
			map[string]string{"about": "photo time"}, photo, "image/jpeg")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/users/"+user.ID.String()+"/photo"), "", nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
		assert.Equal(t, string(photo), testutil.ReadBody(t, resp))
	})
}

func TestUserHandler_FollowGraph(t *testing.T) {
	ts := testutil.NewTestServer(t)

	userA, tokenA := testutil.NewUserBuilder().WithName("follower").BuildAndAuthenticate(t, ts)
	userB, tokenB := testutil.NewUserBuilder().WithName("followed").BuildAndAuthenticate(t, ts)

	follow := func(t *testing.T, token, targetID string) *http.Response {
		t.Helper()
		return testutil.DoJSON(t, http.MethodPut, ts.APIURL("/users/follow"), token,
			map[string]string{"userId": targetID})
	}

	t.Run("follow increases follower count", func(t *testing.T) {
		resp := follow(t, tokenA, userB.ID.String())
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/users/"+userB.ID.String()), tokenA, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var profile struct {
			Followers   int64 `json:"followers"`
			IsFollowing bool  `json:"isFollowing"`
		}
		testutil.AssertJSONResponse(t, resp, &profile)
		assert.Equal(t, int64(1), profile.Followers)
		assert.True(t, profile.IsFollowing)
	})

	t.Run("duplicate follow conflicts", func(t *testing.T) {
		resp := follow(t, tokenA, userB.ID.String())
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("self follow rejected", func(t *testing.T) {
		resp := follow(t, tokenB, userB.ID.String())
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("find people omits followed users and self", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet,
			ts.APIURL("/users/findpeople/"+userA.ID.String()), tokenA, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var people []struct {
			ID string `json:"id"`
		}
		testutil.AssertJSONResponse(t, resp, &people)
		for _, person := range people {
			assert.NotEqual(t, userA.ID.String(), person.ID)
			assert.NotEqual(t, userB.ID.String(), person.ID)
		}
	})

	t.Run("unfollow drops the edge", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPut, ts.APIURL("/users/unfollow"), tokenA,
			map[string]string{"userId": userB.ID.String()})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/users/"+userB.ID.String()), tokenA, nil)
		defer resp.Body.Close()

		var profile struct {
			Followers   int64 `json:"followers"`
			IsFollowing bool  `json:"isFollowing"`
		}
		testutil.AssertJSONResponse(t, resp, &profile)
		assert.Zero(t, profile.Followers)
		assert.False(t, profile.IsFollowing)
	})
}
