package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Post("/users", c.register)
		r.Post("/login", c.login)

		r.Group(func(r chi.Router) {
			r.Use(c.authMw)

			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", c.listRooms)
				r.Post("/", c.createRoom)
				r.Route("/{room-id}", func(r chi.Router) {
					r.Get("/", c.getRoom)
					r.Delete("/", c.removeRoom)
					r.Post("/users", c.joinRoom)
					r.Delete("/users", c.leaveRoom)
					r.Delete("/users/{user-id}", c.removeParticipant)
					r.Put("/media/status", c.updateMediaStatus)
					r.Get("/media/current", c.currentMedia)
					r.Get("/media/next", c.nextMedia)
					r.Get("/ws", c.subscribeRoom)
				})
			})

			r.Route("/media", func(r chi.Router) {
				r.Post("/", c.addMedia)
				r.Route("/{media-id}", func(r chi.Router) {
					r.Delete("/", c.removeMedia)
					r.Post("/vote", c.upvoteMedia)
					r.Delete("/vote", c.downvoteMedia)
				})
			})

			r.Post("/messages", c.sendMessage)
		})
	})

	return r
}
