package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kantin-app/kantin/config"
	"github.com/kantin-app/kantin/handlers"
	"github.com/kantin-app/kantin/middlewares"
	"github.com/kantin-app/kantin/models"
)

type Server struct {
	Router *mux.Router
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

func SetupRoutes() *Server {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"alive": true}`)
	}).Methods("GET")

	// Uploaded menu images are served statically; the stored image
	// reference is the path under this prefix.
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(config.Uploads))))

	public := router.PathPrefix("/api").Subrouter()
	public.HandleFunc("/auth/register", handlers.Register).Methods("POST")
	public.HandleFunc("/auth/login", handlers.Login).Methods("POST")
	public.HandleFunc("/auth/refresh", handlers.RefreshToken).Methods("POST")
	public.HandleFunc("/menu", handlers.ListMenu).Methods("GET")
	public.HandleFunc("/menu/{id}", handlers.GetMenu).Methods("GET")

	authRoutes := router.PathPrefix("/api").Subrouter()
	authRoutes.Use(middlewares.AuthMiddleware)
	authRoutes.HandleFunc("/auth/logout", handlers.Logout).Methods("POST")
	authRoutes.HandleFunc("/orders", handlers.ListOrders).Methods("GET")
	authRoutes.HandleFunc("/orders", handlers.CreateOrder).Methods("POST")
	authRoutes.HandleFunc("/orders/{id}", handlers.GetOrder).Methods("GET")
	authRoutes.HandleFunc("/orders/{id}", handlers.UpdateOrder).Methods("PUT")
	authRoutes.HandleFunc("/orders/{id}", handlers.DeleteOrder).Methods("DELETE")

	// catalog writes are admin only
	admin := router.PathPrefix("/api").Subrouter()
	admin.Use(middlewares.AuthMiddleware, middlewares.RoleBasedMiddleware(models.RoleAdmin))
	admin.HandleFunc("/menu", handlers.CreateMenu).Methods("POST")
	admin.HandleFunc("/menu/{id}", handlers.UpdateMenu).Methods("PUT")
	admin.HandleFunc("/menu/{id}", handlers.DeleteMenu).Methods("DELETE")

	return &Server{
		Router: router,
	}
}

func (svr *Server) Run(port string) error {
	svr.server = &http.Server{
		Addr:              port,
		Handler:           svr.Router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
