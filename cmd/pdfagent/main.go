package main

import "github.com/Eventual-Inc/pdfagent/cmd/pdfagent/cmd"

// @title           PDF Agent API
// @version         0.1
// @description     Hosts the lambda_handler function: PDF parsing with a Gemini agent

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        Authorization
// @description                 API key for the /api routes

func main() {
	cmd.Execute()
}
