package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"go-beacon/internal/pkg/presence/registry"
)

type stubHandle struct {
	id string
}

func (h *stubHandle) SessionID() string { return h.id }

func (h *stubHandle) Send(payload []byte) error { return nil }

func TestListPresenceController_Returns_Snapshot(t *testing.T) {
	req := require.New(t)
	reg := registry.New()

	_, err := reg.Register("bob", &stubHandle{id: uuid.NewString()})
	req.NoError(err)
	_, err = reg.Bootstrap("alice")
	req.NoError(err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/presence", NewListPresenceController(reg).Handle())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/presence", nil))

	req.Equal(http.StatusOK, w.Code)

	var body struct {
		Users []struct {
			ID     string `json:"id"`
			Online bool   `json:"online"`
		} `json:"users"`
		Count int `json:"count"`
	}
	req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	req.Equal(2, body.Count)
	req.Equal("alice", body.Users[0].ID)
	req.False(body.Users[0].Online)
	req.Equal("bob", body.Users[1].ID)
	req.True(body.Users[1].Online)
}
