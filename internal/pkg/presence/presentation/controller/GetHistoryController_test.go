package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"go-beacon/internal/pkg/presence/domain"
	"go-beacon/internal/pkg/presence/history"
)

func newHistoryRouter(log *history.Log) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/messages/:userId", NewGetHistoryController(log).Handle())
	return r
}

func TestGetHistoryController_Returns_Participant_Records(t *testing.T) {
	req := require.New(t)
	log := history.New()
	log.Append(domain.Record{ID: "1", From: "alice", To: "bob", Message: "hi", Timestamp: time.Now().UTC()})
	log.Append(domain.Record{ID: "2", From: "carol", To: "dave", Message: "yo", Timestamp: time.Now().UTC()})
	r := newHistoryRouter(log)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/messages/alice", nil))

	req.Equal(http.StatusOK, w.Code)

	var body struct {
		Messages []struct {
			ID      string `json:"id"`
			From    string `json:"from"`
			To      string `json:"to"`
			Message string `json:"message"`
		} `json:"messages"`
		Count int `json:"count"`
	}
	req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	req.Equal(1, body.Count)
	req.Equal("1", body.Messages[0].ID)
	req.Equal("hi", body.Messages[0].Message)
}

func TestGetHistoryController_Empty_History(t *testing.T) {
	req := require.New(t)
	r := newHistoryRouter(history.New())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/messages/alice", nil))

	req.Equal(http.StatusOK, w.Code)
	req.JSONEq(`{"messages":[],"count":0}`, w.Body.String())
}
