package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/dgallion1/documind/internal/apiclient"
	"github.com/dgallion1/documind/internal/tui"
)

func main() {
	godotenv.Load()

	defaultURL := os.Getenv("API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8000"
	}
	apiURL := flag.String("api", defaultURL, "Base URL of the documind API")
	flag.Parse()

	client := apiclient.New(*apiURL, os.Getenv("API_KEY"))
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	welcome, err := client.Liveness(ctx)
	cancel()

	greeting := fmt.Sprintf("Connected to %s. Ask a question, /upload a PDF, or /text a fact.", *apiURL)
	if err != nil {
		greeting = fmt.Sprintf("Could not reach %s (%v). Requests will fail until the server is up.", *apiURL, err)
	} else if welcome != "" {
		greeting = fmt.Sprintf("%s. Ask a question, /upload a PDF, or /text a fact.", welcome)
	}

	m := tui.New(client, greeting)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
