package main

import (
	_ "servicehub/docs"
	"servicehub/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
)

// @title           ServiceHub Booking & Ledger API
// @version         1.0
// @description     Booking lifecycle, provider wallet ledger and payment orchestration backed by DynamoDB.

// @contact.name   API Support

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	routes.Run()
}
