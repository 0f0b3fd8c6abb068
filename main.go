// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"cartpod-finder/controllers"
	"cartpod-finder/routes"
	"cartpod-finder/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	if err := utils.LoadJwtKey(); err != nil {
		log.Fatal(err)
	}

	// Initialize external services
	emailService := utils.NewEmailService()
	imageService := utils.NewImageService()

	// Connect to MongoDB and start the reachability monitor
	client, health := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	utils.EnsureIndexes(client)

	// Initialize controllers
	userController := controllers.NewUserController(client, emailService)
	cartPodController := controllers.NewCartPodController(client, imageService)
	foodCartController := controllers.NewFoodCartController(client, imageService)
	healthController := controllers.NewHealthController(health)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, health, userController, cartPodController, foodCartController, healthController)

	// CORS for the browser frontend
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"http://localhost:5173", "http://localhost:3000"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, cors(router)))
}
