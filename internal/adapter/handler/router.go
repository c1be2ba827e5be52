package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anujdevsingh/gram-panchayat/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg              *config.Config
	authHandler      *Auth
	panchayatHandler *Panchayat
	issueHandler     *Issue
	agendaHandler    *Agenda
	meetingHandler   *GramSabha
	authMW           echo.MiddlewareFunc
	officialMW       echo.MiddlewareFunc
	adminMW          echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	authHandler *Auth,
	panchayatHandler *Panchayat,
	issueHandler *Issue,
	agendaHandler *Agenda,
	meetingHandler *GramSabha,
	authMW, officialMW, adminMW echo.MiddlewareFunc,
) *Router {
	return &Router{
		cfg:              cfg,
		authHandler:      authHandler,
		panchayatHandler: panchayatHandler,
		issueHandler:     issueHandler,
		agendaHandler:    agendaHandler,
		meetingHandler:   meetingHandler,
		authMW:           authMW,
		officialMW:       officialMW,
		adminMW:          adminMW,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupAuthRoutes(v1)
	rt.setupPanchayatRoutes(v1)
	rt.setupIssueRoutes(v1)
	rt.setupGramSabhaRoutes(v1)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	authGroup.POST("/register", rt.authHandler.Register)
	authGroup.POST("/login", rt.authHandler.Login)
	authGroup.POST("/refresh", rt.authHandler.Refresh)
	authGroup.GET("/me", rt.authHandler.Me, rt.authMW)
}

// setupPanchayatRoutes configures panchayat administration and the
// outstanding agenda pool
func (rt *Router) setupPanchayatRoutes(g *echo.Group) {
	panchayatGroup := g.Group("/panchayats", rt.authMW)

	panchayatGroup.GET("", rt.panchayatHandler.List)
	panchayatGroup.POST("", rt.panchayatHandler.Create, rt.adminMW)
	panchayatGroup.GET("/:id", rt.panchayatHandler.Get)
	panchayatGroup.PATCH("/:id", rt.panchayatHandler.Update, rt.adminMW)
	panchayatGroup.DELETE("/:id", rt.panchayatHandler.Delete, rt.adminMW)

	panchayatGroup.GET("/:id/wards", rt.panchayatHandler.ListWards)
	panchayatGroup.POST("/:id/wards", rt.panchayatHandler.CreateWard, rt.adminMW)

	panchayatGroup.GET("/:id/agenda", rt.agendaHandler.Get)
	panchayatGroup.PUT("/:id/agenda", rt.agendaHandler.Replace, rt.officialMW)

	panchayatGroup.GET("/:id/gram-sabhas", rt.meetingHandler.List)
}

// setupIssueRoutes configures issue reporting routes
func (rt *Router) setupIssueRoutes(g *echo.Group) {
	issueGroup := g.Group("/issues", rt.authMW)

	issueGroup.POST("", rt.issueHandler.Create)
	issueGroup.GET("", rt.issueHandler.List)
	issueGroup.GET("/:id", rt.issueHandler.Get)
	issueGroup.PATCH("/:id/status", rt.issueHandler.UpdateStatus, rt.officialMW)
}

// setupGramSabhaRoutes configures meeting routes
func (rt *Router) setupGramSabhaRoutes(g *echo.Group) {
	meetingGroup := g.Group("/gram-sabhas", rt.authMW)

	meetingGroup.POST("", rt.meetingHandler.Create, rt.officialMW)
	meetingGroup.GET("/:id", rt.meetingHandler.Get)
	meetingGroup.PUT("/:id/agenda", rt.meetingHandler.UpdateAgenda, rt.officialMW)
	meetingGroup.PATCH("/:id/status", rt.meetingHandler.UpdateStatus, rt.officialMW)
	meetingGroup.POST("/:id/join", rt.meetingHandler.Join)
	meetingGroup.POST("/:id/attendances", rt.meetingHandler.RecordAttendance, rt.officialMW)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
