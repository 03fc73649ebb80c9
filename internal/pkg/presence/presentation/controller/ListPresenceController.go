package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"go-beacon/internal/pkg/presence/domain"
)

// Snapshotter is the registry surface the presence listing needs.
type Snapshotter interface {
	Snapshot() []domain.Entry
}

// ListPresenceController exposes the membership snapshot to polling clients.
// The websocket pushes the same data on every membership change.
type ListPresenceController struct {
	Registry Snapshotter
}

func NewListPresenceController(reg Snapshotter) *ListPresenceController {
	return &ListPresenceController{Registry: reg}
}

func (h *ListPresenceController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshot := h.Registry.Snapshot()

		users := lo.Map(snapshot, func(entry domain.Entry, _ int) gin.H {
			return gin.H{
				"id":     entry.Identity,
				"online": entry.Online(),
			}
		})

		c.JSON(http.StatusOK, gin.H{
			"users": users,
			"count": len(users),
		})
	}
}
