// routes/routes.go
package routes

import (
	"github.com/gorilla/mux"

	"cartpod-finder/controllers"
	"cartpod-finder/middleware"
	"cartpod-finder/utils"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, health *utils.Health, userController *controllers.UserController, cartPodController *controllers.CartPodController, foodCartController *controllers.FoodCartController, healthController *controllers.HealthController) {
	// Connectivity reporting stays reachable while storage is down.
	router.HandleFunc("/health", healthController.Check).Methods("GET")
	router.HandleFunc("/", healthController.Welcome).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireDatabase(health))

	// Auth routes
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", userController.Register).Methods("POST")
	auth.HandleFunc("/login", userController.Login).Methods("POST")
	auth.HandleFunc("/forgot-password", userController.ForgotPassword).Methods("POST")
	auth.HandleFunc("/reset-password", userController.ResetPassword).Methods("POST")

	me := auth.PathPrefix("/me").Subrouter()
	me.Use(middleware.AuthMiddleware)
	me.HandleFunc("", userController.Me).Methods("GET")

	// Public reads
	api.HandleFunc("/cartpods", cartPodController.List).Methods("GET")
	api.HandleFunc("/cartpods/{id}", cartPodController.GetByID).Methods("GET")
	api.HandleFunc("/foodcarts", foodCartController.List).Methods("GET")
	api.HandleFunc("/foodcarts/{id}", foodCartController.GetByID).Methods("GET")

	// Protected mutations
	cartPods := api.PathPrefix("/cartpods").Subrouter()
	cartPods.Use(middleware.AuthMiddleware)
	cartPods.HandleFunc("", cartPodController.Create).Methods("POST")
	cartPods.HandleFunc("/{id}", cartPodController.Update).Methods("PUT")
	cartPods.HandleFunc("/{id}", cartPodController.Delete).Methods("DELETE")

	foodCarts := api.PathPrefix("/foodcarts").Subrouter()
	foodCarts.Use(middleware.AuthMiddleware)
	foodCarts.HandleFunc("", foodCartController.Create).Methods("POST")
	foodCarts.HandleFunc("/{id}", foodCartController.Update).Methods("PUT")
	foodCarts.HandleFunc("/{id}", foodCartController.Delete).Methods("DELETE")
}
