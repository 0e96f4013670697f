package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytlikes/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthStatus checks current authentication state by calling the /health endpoint.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("checking auth status", "proxy", config.YouTube.ProxyURL)

	resp, err := r.apiService(config).Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("%w: service unavailable: %v", shared.ErrServiceUnavailable, err)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	r.writePlain("✓ Service is healthy\n")

	health, ok := resp.JSONData.(map[string]any)
	if !resp.IsJSON || !ok {
		r.writePlain("Status: %s\n", string(resp.Body))
		return nil
	}

	status, ok := health["status"].(string)
	if !ok {
		status = "unknown"
	}
	r.writePlain("Status: %s\n", status)

	if auth, _ := health["authenticated"].(bool); auth {
		r.writePlain("Authentication: ✓ Authenticated\n")
	} else {
		r.writePlain("Authentication: ✗ Not authenticated\n")
	}

	switch {
	case config.YouTube.AuthJSON != "":
		r.writePlain("Credentials: YOUTUBE_OAUTH_JSON\n")
	case config.YouTube.AuthFile != "":
		r.writePlain("Credentials: %s\n", config.YouTube.AuthFile)
	default:
		r.writePlain("Credentials: not configured\n")
	}
	return nil
}
