package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/socialhub/socialhub/models"
	"github.com/socialhub/socialhub/services"
	"github.com/socialhub/socialhub/utils"
)

// SubscriptionController exposes the follow graph of the caller.
type SubscriptionController struct {
	graph *services.SubscriptionGraph
}

// NewSubscriptionController creates a new SubscriptionController instance.
func NewSubscriptionController(db *gorm.DB) *SubscriptionController {
	return &SubscriptionController{graph: services.NewSubscriptionGraph(db)}
}

// Subscribe makes the caller follow the user in the path.
func (s *SubscriptionController) Subscribe(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	actor := currentActor(ctx)
	edge, err := s.graph.Subscribe(ctx.Request.Context(), actor, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"id": edge.ID, "subscribed": edge.SubscribedID, "created_at": edge.CreatedAt})
}

// Unsubscribe stops the caller following the user in the path.
func (s *SubscriptionController) Unsubscribe(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := s.graph.Unsubscribe(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "unsubscribed"})
}

// ListSubscribers lists the accounts following the caller.
func (s *SubscriptionController) ListSubscribers(ctx *gin.Context) {
	actor := currentActor(ctx)
	edges, err := s.graph.ListSubscribers(ctx.Request.Context(), actor.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, lo.Map(edges, func(e models.Subscription, _ int) gin.H {
		return gin.H{"id": e.ID, "subscriber": e.Subscriber.Username}
	}))
}

// GetSubscriber shows one follower of the caller.
func (s *SubscriptionController) GetSubscriber(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	edge, err := s.graph.GetSubscriber(ctx.Request.Context(), currentActor(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, presentEdgeAccount(edge.ID, edge.Subscriber))
}

// ListSubscriptions lists the accounts the caller follows.
func (s *SubscriptionController) ListSubscriptions(ctx *gin.Context) {
	actor := currentActor(ctx)
	edges, err := s.graph.ListSubscriptions(ctx.Request.Context(), actor.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, lo.Map(edges, func(e models.Subscription, _ int) gin.H {
		return presentSubscription(e, actor.Username, e.Subscribed.Username)
	}))
}

// GetSubscription shows one account the caller follows.
func (s *SubscriptionController) GetSubscription(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	edge, err := s.graph.GetSubscription(ctx.Request.Context(), currentActor(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, presentEdgeAccount(edge.ID, edge.Subscribed))
}
