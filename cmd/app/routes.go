package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"devconnector/internal/middleware"
)

// Routes builds the router and wraps it in the server-wide middleware.
func (a *App) Routes() http.Handler {
	h := a.Handlers
	auth := middleware.AuthMiddleware(a.Services.Auth)
	protected := func(fn http.HandlerFunc) http.Handler { return auth(fn) }

	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(middleware.Metrics()))

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// users & auth
	api.HandleFunc("/users", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth", h.Login).Methods(http.MethodPost)
	api.Handle("/auth", protected(h.CurrentUser)).Methods(http.MethodGet)

	// profiles
	api.Handle("/profile/me", protected(h.GetMyProfile)).Methods(http.MethodGet)
	api.Handle("/profile", protected(h.UpsertProfile)).Methods(http.MethodPost)
	api.HandleFunc("/profile", h.ListProfiles).Methods(http.MethodGet)
	api.Handle("/profile", protected(h.DeleteAccount)).Methods(http.MethodDelete)
	api.HandleFunc("/profile/user/{user_id}", h.GetProfileByUser).Methods(http.MethodGet)
	api.Handle("/profile/experience", protected(h.AddExperience)).Methods(http.MethodPut)
	api.Handle("/profile/experience/{exp_id}", protected(h.DeleteExperience)).Methods(http.MethodDelete)
	api.Handle("/profile/education", protected(h.AddEducation)).Methods(http.MethodPut)
	api.Handle("/profile/education/{edu_id}", protected(h.DeleteEducation)).Methods(http.MethodDelete)
	api.HandleFunc("/profile/github/{username}", h.GitHubRepos).Methods(http.MethodGet)

	// posts
	api.Handle("/posts", protected(h.CreatePost)).Methods(http.MethodPost)
	api.Handle("/posts", protected(h.GetPosts)).Methods(http.MethodGet)
	api.Handle("/posts/like/{id}", protected(h.LikePost)).Methods(http.MethodPut)
	api.Handle("/posts/unlike/{id}", protected(h.UnlikePost)).Methods(http.MethodPut)
	api.Handle("/posts/comment/{id}", protected(h.AddComment)).Methods(http.MethodPost)
	api.Handle("/posts/comment/{id}/{comment_id}", protected(h.DeleteComment)).Methods(http.MethodDelete)
	api.Handle("/posts/{id}/images", protected(h.UploadImage)).Methods(http.MethodPost)
	api.Handle("/posts/{id}/images/{image_id}", protected(h.DeleteImage)).Methods(http.MethodDelete)
	api.Handle("/posts/{id}", protected(h.GetPost)).Methods(http.MethodGet)
	api.Handle("/posts/{id}", protected(h.DeletePost)).Methods(http.MethodDelete)

	return a.wrap(r)
}

// wrap applies the global middleware. RequestLogger must stay outermost so
// recovered panics are logged with their 500 status.
func (a *App) wrap(h http.Handler) http.Handler {
	return middleware.Chain(
		h,
		middleware.Compress(),
		middleware.CORS(a.Config.CORSAllowedOrigins),
		middleware.Recover(a.Log),
		middleware.RequestLogger(a.Log),
	)
}
