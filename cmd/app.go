package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hanzi-archive/curator/internal/api"
	"github.com/hanzi-archive/curator/internal/config"
	"github.com/hanzi-archive/curator/internal/panel"
	"github.com/hanzi-archive/curator/internal/session"
)

// app bundles what every command needs: the loaded config, the restored
// session and the backend client.
type app struct {
	cfg      *config.Config
	sessions *session.Holder
	client   *api.Client
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	sessions := session.New(cfg.TokenFile)
	sessions.Restore()

	return &app{
		cfg:      cfg,
		sessions: sessions,
		client:   api.NewClient(cfg.Backend.BaseURL, sessions, cfg.Backend.Timeout),
	}, nil
}

// requireAuth fails early when no identity is available.
func (a *app) requireAuth() error {
	if !a.sessions.Current().IsAuthenticated {
		return fmt.Errorf("not logged in; run: curator login")
	}
	return nil
}

// confirmer returns the deletion gate: a terminal prompt, or AlwaysConfirm
// when the user passed --yes.
func confirmer(assumeYes bool) panel.Confirmer {
	if assumeYes {
		return panel.AlwaysConfirm
	}
	return panel.ConfirmerFunc(func(prompt string) bool {
		fmt.Printf("%s [y/N]: ", prompt)
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	})
}

// promptLine reads one trimmed line from stdin.
func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
