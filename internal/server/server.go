package server

import (
	"backend-communitymap/internal/auth"
	"backend-communitymap/internal/comment"
	"backend-communitymap/internal/community"
	"backend-communitymap/internal/config"
	"backend-communitymap/internal/marker"
	"backend-communitymap/internal/profile"
	"backend-communitymap/internal/storage"
	"backend-communitymap/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxUploadBytes) + 1024*1024,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	profiles := profile.NewService(s.DB)
	markers := marker.NewService(s.DB, s.Stream, profiles, s.Cfg.MarkerReward)
	comments := comment.NewService(s.DB, s.Stream)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB, profiles))
	profile.RegisterRoutes(s.App.Group("/profiles"), profiles, jwtMiddleware)

	markerGroup := s.App.Group("/markers")
	marker.RegisterRoutes(markerGroup, markers, jwtMiddleware)
	comment.RegisterRoutes(markerGroup, comments, jwtMiddleware)

	community.RegisterRoutes(s.App.Group("/community"), community.NewService(markers, comments, profiles))
	storage.RegisterRoutes(s.App.Group("/storage"), storage.NewService(s.DB), s.Cfg.MaxUploadBytes, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
