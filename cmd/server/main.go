package main

import "taskmanager/internal/app"

// @title           Task Manager API
// @version         1.0
// @description     Personal task tracking with status history and email digests.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
