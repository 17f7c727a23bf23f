// Package main is the entry point for the JAC Chandigarh admission chatbot.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/jac-chandigarh/jacbot/cmd/jacbot/app"
)

func main() {
	app.NewApp().Run()
}
