package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
)

const actorKey = "actor"

// NewRouter builds the gin engine with all routes registered
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")
	api.Use(ActorMiddleware())
	{
		api.POST("/requisitions", h.CreateRequisition)
		api.GET("/requisitions", h.ListRequisitions)
		api.GET("/requisitions/:id", h.GetRequisition)
		api.POST("/requisitions/:id/action", h.ApplyAction)
		api.POST("/requisitions/:id/complete", h.CompleteRequisition)
		api.POST("/requisitions/:id/proof", h.AttachProof)

		api.GET("/budgets", h.ListBudgets)
		api.PUT("/budgets/:department", h.SetBudget)
		api.POST("/budgets/reset", h.ResetBudgets)

		api.GET("/audit", h.ListAuditLog)
		api.GET("/reports/budgets.xlsx", h.BudgetReport)
	}

	return router
}

// ActorMiddleware resolves the acting identity from request headers.
// Authentication happens upstream; the service trusts the resolved
// identity and enforces fine-grained transition authorization itself.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := entity.Actor{
			ID:         c.GetHeader("X-Actor-Id"),
			Name:       c.GetHeader("X-Actor-Name"),
			Role:       entity.Role(c.GetHeader("X-Actor-Role")),
			Department: c.GetHeader("X-Actor-Department"),
		}

		if actor.ID == "" || !actor.Role.IsValid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "actor identity headers missing or invalid",
			})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

func mustActor(c *gin.Context) entity.Actor {
	return c.MustGet(actorKey).(entity.Actor)
}
