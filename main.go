package main

import "travel-webapi/internal/app"

func main() {
	app.Run()
}
