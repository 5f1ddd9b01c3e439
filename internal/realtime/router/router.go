package router

import (
	"talent_realtime_service/internal/realtime/app"
	"talent_realtime_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes 注册 realtime 相关的路由
// @title Talent Realtime Service API
// @version 1.0
// @description Chat, presence and notification API of the talent platform
// @host localhost:8082
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func RegisterRoutes(r *fiber.App, rest *app.RestHandler, ws *app.WebsocketHandler) {
	r.Get("/swagger/*", swagger.HandlerDefault)
	r.Get("/", ConnectCheck)
	r.Post("/debug", middlewares.JWTMiddleware(), DebugLogFlag)
	r.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 升級前驗證，沒有 token 直接 401
	r.Use("/ws", middlewares.JWTMiddleware(), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		claims, _ := middlewares.ClaimsFrom(c.Locals(middlewares.TokenClaims))
		ws.HandleConnection(c, claims)
	}))

	chats := r.Group("/chats", middlewares.JWTMiddleware())
	chats.Get("/", rest.ListChats)
	chats.Post("/", rest.CreateChat)
	chats.Get("/:id/messages", rest.ListMessages)
	chats.Post("/:id/messages", rest.SendMessage)

	notifications := r.Group("/notifications", middlewares.JWTMiddleware())
	notifications.Get("/", rest.ListNotifications)
	notifications.Patch("/read-all", rest.MarkAllNotificationsRead)
	notifications.Patch("/:id/read", rest.MarkNotificationRead)
	notifications.Delete("/:id", rest.DeleteNotification)

	presence := r.Group("/presence", middlewares.JWTMiddleware())
	presence.Get("/online", rest.OnlineActors)
	presence.Get("/:kind/:id", rest.ActorPresence)
}
