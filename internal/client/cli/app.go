// Package cli is the interactive diary client: a small REPL over the
// backend API, with capture, playback, and account commands.
package cli

import (
	"bufio"
	"context"
	"os"

	"sollog/internal/client/api"
	"sollog/internal/client/config"
	"sollog/internal/client/services"
)

type App struct {
	config       *config.Config
	client       *api.Client
	diaryService services.DiaryService
	userEmail    string
	reader       *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	apiClient := api.NewClient(c.ServerURL)

	return &App{
		config:       c,
		client:       apiClient,
		diaryService: services.NewDiaryService(apiClient),
		reader:       bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.client.IsAuthenticated()
}
