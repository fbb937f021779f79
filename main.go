package main

import (
	"hls-service/app"
	"hls-service/pkg/observability"
)

func main() {
	observability.StartProfiling("hls-service")
	app.Run()
}
