package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/social-network-website/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postJSON struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	PostedBy struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"postedBy"`
	HasPhoto bool  `json:"hasPhoto"`
	Likes    int64 `json:"likes"`
	Liked    bool  `json:"liked"`
	Comments []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"comments"`
}

func createPost(t *testing.T, ts *testutil.TestServer, userID, token, text string) postJSON {
	t.Helper()

	resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/posts/new/"+userID), token,
		map[string]string{"text": text})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post postJSON
	testutil.AssertJSONResponse(t, resp, &post)
	return post
}

func TestPostHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().WithName("poster").BuildAndAuthenticate(t, ts)
	_, otherToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	t.Run("json body", func(t *testing.T) {
		post := createPost(t, ts, user.ID.String(), token, "hello world")
		assert.Equal(t, "hello world", post.Text)
		assert.Equal(t, user.ID.String(), post.PostedBy.ID)
		assert.Equal(t, "poster", post.PostedBy.Name)
		assert.False(t, post.HasPhoto)
	})

	t.Run("multipart body with photo", func(t *testing.T) {
		photo := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}
		resp := testutil.DoMultipart(t, http.MethodPost, ts.APIURL("/posts/new/"+user.ID.String()), token,
			map[string]string{"text": "with photo"}, photo, "image/png")
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var post postJSON
		testutil.AssertJSONResponse(t, resp, &post)
		assert.True(t, post.HasPhoto)

		resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/posts/photo/"+post.ID), "", nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		assert.Equal(t, string(photo), testutil.ReadBody(t, resp))
	})

	t.Run("empty text rejected", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/posts/new/"+user.ID.String()), token,
			map[string]string{"text": "   "})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("cannot post as another user", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/posts/new/"+user.ID.String()), otherToken,
			map[string]string{"text": "impostor"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/posts/new/"+user.ID.String()), "",
			map[string]string{"text": "nope"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

// Follow, read the feed, unfollow, read it again.
func TestPostHandler_FeedFollowsGraph(t *testing.T) {
	ts := testutil.NewTestServer(t)

	userA, tokenA := testutil.NewUserBuilder().WithName("reader").BuildAndAuthenticate(t, ts)
	userB, tokenB := testutil.NewUserBuilder().WithName("writer").BuildAndAuthenticate(t, ts)

	createPost(t, ts, userB.ID.String(), tokenB, "from writer")
	own := createPost(t, ts, userA.ID.String(), tokenA, "from reader")

	feedIDs := func(t *testing.T) map[string]bool {
		t.Helper()
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/posts/feed/"+userA.ID.String()), tokenA, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var posts []postJSON
		testutil.AssertJSONResponse(t, resp, &posts)
		ids := make(map[string]bool, len(posts))
		for _, p := range posts {
			ids[p.PostedBy.ID] = true
		}
		return ids
	}

	t.Run("feed holds own posts only before following", func(t *testing.T) {
		ids := feedIDs(t)
		assert.True(t, ids[userA.ID.String()])
		assert.False(t, ids[userB.ID.String()])
	})

	t.Run("followed author appears in feed", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPut, ts.APIURL("/users/follow"), tokenA,
			map[string]string{"userId": userB.ID.String()})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		ids := feedIDs(t)
		assert.True(t, ids[userB.ID.String()])
	})

	t.Run("unfollow removes the author again", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPut, ts.APIURL("/users/unfollow"), tokenA,
			map[string]string{"userId": userB.ID.String()})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		ids := feedIDs(t)
		assert.False(t, ids[userB.ID.String()])
		assert.True(t, ids[userA.ID.String()])
	})

	t.Run("feed of another user is forbidden", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/posts/feed/"+userA.ID.String()), tokenB, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("posts by user are public to any signed-in viewer", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/posts/by/"+userA.ID.String()), tokenB, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var posts []postJSON
		testutil.AssertJSONResponse(t, resp, &posts)
		require.Len(t, posts, 1)
		assert.Equal(t, own.ID, posts[0].ID)
	})
}

func TestPostHandler_Delete(t *testing.T) {
	ts := testutil.NewTestServer(t)

	userA, tokenA := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, tokenB := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	post := createPost(t, ts, userA.ID.String(), tokenA, "hands off")

	t.Run("non-author cannot delete", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodDelete, ts.APIURL("/posts/"+post.ID), tokenB, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/posts/by/"+userA.ID.String()), tokenA, nil)
		defer resp.Body.Close()

		var posts []postJSON
		testutil.AssertJSONResponse(t, resp, &posts)
		assert.Len(t, posts, 1)
	})

	t.Run("author can delete", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodDelete, ts.APIURL("/posts/"+post.ID), tokenA, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/posts/by/"+userA.ID.String()), tokenA, nil)
		defer resp.Body.Close()

		var posts []postJSON
		testutil.AssertJSONResponse(t, resp, &posts)
		assert.Empty(t, posts)
	})

	t.Run("deleting an unknown post is not found", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodDelete, ts.APIURL("/posts/"+post.ID), tokenA, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestPostHandler_Photo_NotFound(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	post := createPost(t, ts, user.ID.String(), token, "no photo here")

	resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/posts/photo/"+post.ID), "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotContains(t, testutil.ReadBody(t, resp), "no photo here")
}

func TestPostHandler_Likes(t *testing.T) {
	ts := testutil.NewTestServer(t)

	userA, tokenA := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, tokenB := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	post := createPost(t, ts, userA.ID.String(), tokenA, "like me")

	readPost := func(t *testing.T, token string) postJSON {
		t.Helper()
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/posts/by/"+userA.ID.String()), token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var posts []postJSON
		testutil.AssertJSONResponse(t, resp, &posts)
		require.Len(t, posts, 1)
		return posts[0]
	}

	t.Run("like raises the count and flags the viewer", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPut, ts.APIURL("/posts/like"), tokenB,
			map[string]string{"postId": post.ID})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		seen := readPost(t, tokenB)
		assert.Equal(t, int64(1), seen.Likes)
		assert.True(t, seen.Liked)

		asAuthor := readPost(t, tokenA)
		assert.Equal(t, int64(1), asAuthor.Likes)
		assert.False(t, asAuthor.Liked)
	})

	t.Run("liking twice stays at one", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPut, ts.APIURL("/posts/like"), tokenB,
			map[string]string{"postId": post.ID})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.Equal(t, int64(1), readPost(t, tokenB).Likes)
	})

	t.Run("unlike drops the count", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPut, ts.APIURL("/posts/unlike"), tokenB,
			map[string]string{"postId": post.ID})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		seen := readPost(t, tokenB)
		assert.Zero(t, seen.Likes)
		assert.False(t, seen.Liked)
	})

	t.Run("liking an unknown post is not found", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPut, ts.APIURL("/posts/like"), tokenB,
			map[string]string{"postId": "00000000-0000-0000-0000-000000000001"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestPostHandler_Comments(t *testing.T) {
	ts := testutil.NewTestServer(t)

	userA, tokenA := testutil.NewUserBuilder().WithName("author").BuildAndAuthenticate(t, ts)
	_, tokenB := testutil.NewUserBuilder().WithName("commenter").BuildAndAuthenticate(t, ts)

	post := createPost(t, ts, userA.ID.String(), tokenA, "discuss")

	var commentID string

	t.Run("comment appears on the post", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPut, ts.APIURL("/posts/comment"), tokenB,
			map[string]string{"postId": post.ID, "text": "nice one"})
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var comment struct {
			ID       string `json:"id"`
			Text     string `json:"text"`
			PostedBy struct {
				Name string `json:"name"`
			} `json:"postedBy"`
		}
		testutil.AssertJSONResponse(t, resp, &comment)
		assert.Equal(t, "nice one", comment.Text)
		assert.Equal(t, "commenter", comment.PostedBy.Name)
		commentID = comment.ID

		resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/posts/by/"+userA.ID.String()), tokenA, nil)
		defer resp.Body.Close()

		var posts []postJSON
		testutil.AssertJSONResponse(t, resp, &posts)
		require.Len(t, posts, 1)
		require.Len(t, posts[0].Comments, 1)
		assert.Equal(t, "nice one", posts[0].Comments[0].Text)
	})

	t.Run("empty comment rejected", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPut, ts.APIURL("/posts/comment"), tokenB,
			map[string]string{"postId": post.ID, "text": " "})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("only the comment author may remove it", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPut, ts.APIURL("/posts/uncomment"), tokenA,
			map[string]string{"commentId": commentID})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = testutil.DoJSON(t, http.MethodPut, ts.APIURL("/posts/uncomment"), tokenB,
			map[string]string{"commentId": commentID})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("removing a removed comment is not found", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPut, ts.APIURL("/posts/uncomment"), tokenB,
			map[string]string{"commentId": commentID})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
