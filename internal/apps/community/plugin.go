package community

import (
	"github.com/coworkhub/backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

// Plugin implements apps.AdminPlugin for the community directory.
type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "community" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&Expert{},
		&StudentActivity{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	handler := NewDirectoryHandler(NewDirectoryService(deps.DB))

	router.Get("/community/members", handler.Members)
	router.Get("/community/experts", handler.Experts)
	router.Get("/community/experts/:id", handler.Expert)
	router.Get("/community/activities", handler.Activities)
	router.Get("/community/activities/:id", handler.Activity)
}

func (p *Plugin) RegisterAdminRoutes(router fiber.Router, deps apps.Deps) {
	handler := NewDirectoryHandler(NewDirectoryService(deps.DB))

	router.Post("/experts", handler.CreateExpert)
	router.Put("/experts/:id", handler.UpdateExpert)
	router.Delete("/experts/:id", handler.DeleteExpert)
	router.Post("/activities", handler.CreateActivity)
	router.Put("/activities/:id", handler.UpdateActivity)
	router.Delete("/activities/:id", handler.DeleteActivity)
}
