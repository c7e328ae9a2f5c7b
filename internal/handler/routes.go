package handler

import (
	"log/slog"
	"net/http"

	"chatvault/internal/config"
	"chatvault/internal/domain/services"
	"chatvault/internal/middleware"
)

// Dependencies carries everything the route table needs.
// Sessions may be nil when anonymous sessions are disabled.
type Dependencies struct {
	Conversations services.ConversationService
	Gate          services.ApprovalGate
	Decider       services.AccessDecider
	Resolver      services.IdentityResolver
	Sessions      services.AnonymousSessionService
	Admins        *config.AdminSet
	Logger        *slog.Logger
}

// RegisterRoutes mounts every route on mux, each wrapped with the access
// middleware its guard level requires.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	approved := middleware.RequireApproved(deps.Decider, deps.Logger)
	identified := middleware.RequireIdentity(deps.Resolver)
	admin := middleware.RequireAdmin(deps.Resolver, deps.Admins, deps.Logger)

	conversationHandler := NewConversationHandler(deps.Conversations, deps.Logger)
	accessHandler := NewAccessHandler(deps.Gate, deps.Logger)

	// Health check
	mux.HandleFunc("GET /health", HealthCheck)

	// Conversation routes (approved identities only)
	mux.Handle("GET /api/conversations", approved(http.HandlerFunc(conversationHandler.ListConversations)))
	mux.Handle("POST /api/conversations", approved(http.HandlerFunc(conversationHandler.CreateConversation)))
	mux.Handle("GET /api/conversations/{id}", approved(http.HandlerFunc(conversationHandler.GetConversation)))
	mux.Handle("DELETE /api/conversations/{id}", approved(http.HandlerFunc(conversationHandler.DeleteConversation)))

	// Access routes (any authenticated identity)
	mux.Handle("GET /api/access", identified(http.HandlerFunc(accessHandler.GetAccessStatus)))
	mux.Handle("POST /api/access/request", identified(http.HandlerFunc(accessHandler.RequestAccess)))

	// Administrator routes
	mux.Handle("POST /api/admin/identities/{id}/approve", admin(http.HandlerFunc(accessHandler.ApproveIdentity)))

	// Anonymous session routes
	if deps.Sessions != nil {
		sessionHandler := NewSessionHandler(deps.Sessions, deps.Logger)
		mux.HandleFunc("POST /api/sessions/anonymous", sessionHandler.IssueAnonymousSession)
		mux.Handle("POST /api/sessions/anonymous/{id}/supersede", identified(http.HandlerFunc(sessionHandler.SupersedeAnonymousSession)))
	}
}
