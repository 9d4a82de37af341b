package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_Profile(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.register("alice")
	roomID := s.createRoom(token, "python", "Python Basics", "intro")

	w := s.do(http.MethodPost, "/api/v1/rooms/"+roomID+"/messages", token, gin.H{"body": "welcome"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/v1/users/"+userID, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var profile struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
		Rooms    []struct{ Name string } `json:"rooms"`
		Messages []struct{ Body string } `json:"messages"`
		Topics   []struct{ Name string } `json:"topics"`
	}
	decode(t, w, &profile)

	assert.Equal(t, "alice", profile.User.Username)
	require.Len(t, profile.Rooms, 1)
	assert.Equal(t, "Python Basics", profile.Rooms[0].Name)
	require.Len(t, profile.Messages, 1)
	assert.Equal(t, "welcome", profile.Messages[0].Body)
	require.Len(t, profile.Topics, 1)

	t.Run("UnknownUser", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/v1/users/"+uuid.NewString(), "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("MalformedID", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/v1/users/alice", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "user not found", errorMessage(t, w))
	})
}

func TestUserHandler_Me(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.register("alice")
	s.register("bob")

	w := s.do(http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		ID string `json:"id"`
	}
	decode(t, w, &me)
	assert.Equal(t, userID, me.ID)

	t.Run("Update", func(t *testing.T) {
		w := s.do(http.MethodPut, "/api/v1/me", token, gin.H{
			"display_name": "Alice A.",
			"bio":          "I like rooms",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated struct {
			Username    string `json:"username"`
			DisplayName string `json:"display_name"`
			Bio         string `json:"bio"`
		}
		decode(t, w, &updated)
		assert.Equal(t, "alice", updated.Username)
		assert.Equal(t, "Alice A.", updated.DisplayName)
		assert.Equal(t, "I like rooms", updated.Bio)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		w := s.do(http.MethodPut, "/api/v1/me", token, gin.H{"username": "bob"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		w := s.do(http.MethodDelete, "/api/v1/me", token, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		// the access token now names a user that no longer exists
		w = s.do(http.MethodGet, "/api/v1/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestTopicAndActivityHandlers(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("alice")

	pythonRoom := s.createRoom(token, "python", "Python Basics", "intro")
	s.createRoom(token, "python", "Python Advanced", "")
	goRoom := s.createRoom(token, "go", "Gophers", "")

	for _, roomID := range []string{pythonRoom, goRoom} {
		w := s.do(http.MethodPost, "/api/v1/rooms/"+roomID+"/messages", token, gin.H{"body": "hi"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("TopicsRankedByRoomCount", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/v1/topics", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Topics []struct {
				Name      string `json:"name"`
				RoomCount int64  `json:"room_count"`
			} `json:"topics"`
		}
		decode(t, w, &resp)
		require.Len(t, resp.Topics, 2)
		assert.Equal(t, "python", resp.Topics[0].Name)
		assert.Equal(t, int64(2), resp.Topics[0].RoomCount)
	})

	t.Run("TopicsFilteredAndLimited", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/v1/topics?q=GO&limit=1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Topics []struct {
				Name string `json:"name"`
			} `json:"topics"`
		}
		decode(t, w, &resp)
		require.Len(t, resp.Topics, 1)
		assert.Equal(t, "go", resp.Topics[0].Name)
	})

	t.Run("ActivityFilteredByTopic", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/v1/activity?q=go", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Activity []struct {
				RoomID string `json:"room_id"`
			} `json:"activity"`
		}
		decode(t, w, &resp)
		require.Len(t, resp.Activity, 1)
		assert.Equal(t, goRoom, resp.Activity[0].RoomID)
	})

	t.Run("ActivityLimit", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/v1/activity?limit=1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Activity []struct{} `json:"activity"`
		}
		decode(t, w, &resp)
		assert.Len(t, resp.Activity, 1)
	})
}
