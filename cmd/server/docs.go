package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Finaily API
// @version         0.1.0
// @description     Ticker news digests with AI summarization and sentiment.
// @host            localhost:8080
// @BasePath        /
// @schemes         http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
