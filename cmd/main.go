package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/castcall/castcall/internal/logger"
	"github.com/castcall/castcall/internal/server"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	logger.Init()

	if err := server.Start(); err != nil {
		logger.Get().Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
