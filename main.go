package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/vietanh2810/event-api/cmd/app"
)

// @title           Event API
// @version         1.0
// @description     Events, registrations and questions.
//
// @BasePath  /
//
// @securityDefinitions.apikey SessionToken
// @in header
// @name X-Authorization
// @description Session token returned by POST /login
//
// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
func main() {
	if err := app.Execute(); err != nil {
		os.Exit(1)
	}
}
