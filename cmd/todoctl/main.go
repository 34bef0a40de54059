package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/abdullah3034/Todo/internal/tui"
	todosdk "github.com/abdullah3034/Todo/sdk/todo"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	defaultURL := os.Getenv("TODO_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	serverURL := flag.String("server", defaultURL, "base URL of the Todo API")
	flag.Parse()

	client := todosdk.New(*serverURL, nil)
	state := tui.NewState(client)

	if err := tui.Run(context.Background(), state, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("todoctl: %v", err)
	}
}
