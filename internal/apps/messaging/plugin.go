package messaging

import (
	"github.com/coworkhub/backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

// Plugin implements apps.AdminPlugin for member messaging.
type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "messaging" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&Conversation{},
		&ConversationMember{},
		&Message{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	handler := NewChatHandler(NewChatService(deps.DB, deps.Dispatcher))

	router.Get("/conversations", handler.List)
	router.Post("/conversations", handler.Create)
	router.Get("/conversations/:id/messages", handler.Messages)
	router.Post("/conversations/:id/messages", handler.Send)
}

func (p *Plugin) RegisterAdminRoutes(router fiber.Router, deps apps.Deps) {
	handler := NewChatHandler(NewChatService(deps.DB, deps.Dispatcher))

	router.Get("/conversations", handler.AdminList)
}
