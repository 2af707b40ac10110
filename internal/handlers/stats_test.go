package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserStats(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", "secret1", "user")
	env.createUser("bob", "secret1", "user")
	env.createUser("boss", "secret1", "admin")

	rec, c := env.doJSONRequest(http.MethodGet, "/users/stats", nil)
	require.NoError(t, env.S.UserStats(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total  int64 `json:"total"`
		Admins int64 `json:"admins"`
		Users  int64 `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 3, resp.Total)
	require.EqualValues(t, 1, resp.Admins)
	require.EqualValues(t, 2, resp.Users)
}
