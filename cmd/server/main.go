package main

import (
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/app"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/server"
)

func main() {
	app.Invoke(
		server.StartServer,
	).Run()
}
