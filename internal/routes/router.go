package routes

import (
	"log/slog"
	"net/http"

	"savepoint/internal/controllers"
	"savepoint/internal/middleware"
	"savepoint/internal/services"
	"savepoint/internal/storage/covers"
	"savepoint/internal/storage/mariadb"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Clients bundles the external dependencies the services are wired with.
type Clients struct {
	Catalog  services.CatalogClient
	Estimate services.EstimateClient
	Steam    services.SteamClient
	SSO      services.IdentityClient
}

func SetupRouter(
	log *slog.Logger,
	storage *mariadb.Storage,
	coversStorage covers.ICovers,
	coversPath string,
	authMiddleware *middleware.AuthMiddleware,
	clients Clients,
	corsOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	libraryService := services.NewLibraryService(storage, clients.Catalog, clients.Estimate, coversStorage, log)
	importService := services.NewImportService(storage, clients.Steam, clients.SSO, libraryService, log)
	reviewService := services.NewReviewService(storage, log)
	userService := services.NewUserService(storage, log)

	libraryController := controllers.NewLibraryController(libraryService, log)
	publicController := controllers.NewPublicController(libraryService, log)
	importController := controllers.NewImportController(importService, log)
	reviewController := controllers.NewReviewController(reviewService, log)
	userController := controllers.NewUserController(userService, log)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Share views and cover images are reachable without a token.
	r.Route("/public", func(r chi.Router) {
		r.Get("/{username}/backlog", publicController.GetBacklog)
		r.Get("/{username}/wishlist", publicController.GetWishlist)
	})
	r.Handle("/covers/*", http.StripPrefix("/covers/", http.FileServer(http.Dir(coversPath))))

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.ValidateToken)

		r.Route("/api", func(r chi.Router) {
			r.Route("/library", func(r chi.Router) {
				r.Get("/", libraryController.List)
				r.Post("/", libraryController.Create)
				r.Get("/stats", libraryController.Stats)
				r.Get("/pick", libraryController.PickRandom)
				r.Get("/by-game", libraryController.GroupedByGame)
				r.Route("/{id}", func(r chi.Router) {
					r.Patch("/status", libraryController.ChangeStatus)
					r.Delete("/", libraryController.Delete)
				})
			})

			r.Get("/backlogs", libraryController.OtherBacklogs)

			r.Route("/imports", func(r chi.Router) {
				r.Post("/steam", importController.Start)
				r.Get("/", importController.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Post("/approve", importController.Approve)
					r.Delete("/", importController.Dismiss)
				})
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", reviewController.ListMine)
				r.Post("/", reviewController.Create)
				r.Delete("/{id}", reviewController.Delete)
			})
			r.Route("/games/{id}", func(r chi.Router) {
				r.Get("/", libraryController.GetGame)
				r.Get("/reviews", reviewController.ListForGame)
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", userController.GetProfile)
				r.Put("/", userController.UpsertProfile)
			})
		})
	})

	return r
}
