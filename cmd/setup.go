package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/ytlikes/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the built-in configuration template to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	r.logger.Info("creating config file from template", "path", configPath)

	if err := shared.CreateConfigFile(configPath, cmd.Bool("force")); err != nil {
		return err
	}

	r.writePlain("✓ Config file written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set notion.api_key and notion.database_id (or NOTION_API_KEY / NOTION_DATABASE_ID)\n")
	r.writePlain("2. Run 'ytlikes setup youtube --curl-file request.sh' to create YouTube credentials\n")
	return nil
}

// SetupYouTube configures YouTube Music authentication from browser headers.
//
// Accepts a cURL command and generates browser.json.
func (r *Runner) SetupYouTube(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")
	outputPath := cmd.String("output")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("parsing cURL command for YouTube Music headers")

	var curlHeaders *shared.CurlHeaders
	if curlFile != "" {
		curlHeaders, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand(curlCmd)
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	headersRaw := curlHeaders.ToHeadersRaw()

	r.logger.Debug("generated headers_raw", "length", len(headersRaw))
	r.logger.Info("calling YouTube Music proxy setup endpoint")

	setupResp, err := r.apiService(config).SetupBrowser(ctx, headersRaw)
	if err != nil {
		return fmt.Errorf("setup request failed: %w", err)
	}

	if !setupResp.Success {
		return fmt.Errorf("%w: setup failed: %s", shared.ErrInvalidCredentials, setupResp.Message)
	}

	r.logger.Info("setup successful", "message", setupResp.Message)

	if outputPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		outputPath = filepath.Join(homeDir, ".ytlikes", "browser.json")
	}

	authJSON, err := shared.MarshalJSON(setupResp.AuthContent, true)
	if err != nil {
		return fmt.Errorf("failed to marshal auth content: %w", err)
	}

	if err := shared.WriteSecretFile(outputPath, authJSON); err != nil {
		return err
	}

	r.logger.Info("browser.json saved", "path", outputPath)

	r.writePlain("✓ YouTube Music authentication configured successfully\n")
	r.writePlain("Auth file saved to: %s\n", outputPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Update config.toml with: youtube.auth_file = \"%s\" (or set YOUTUBE_AUTH_FILE)\n", outputPath)
	r.writePlain("2. Run 'ytlikes liked list --limit 5' to test authentication\n")

	return nil
}
