package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/hitdiff/packages/core/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new hitdiff project",
	Long: `Initialize a new hitdiff project in the current directory.

This creates:
  - .hitdiff.yaml  - Settings (timeouts, redirects, default headers)
  - hitdiff.yaml   - Example diff profiles
  - hitreq.yaml    - Example request profiles for the req command

Examples:
  hitdiff init
  hitdiff init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite existing files")
}

const exampleProfiles = `todo:
  req1:
    url: https://jsonplaceholder.typicode.com/todos/1
    params:
      a: 100
  req2:
    url: https://jsonplaceholder.typicode.com/todos/2
    params:
      c: 200
  res:
    skip_headers:
      - report-to
      - date
      - age
      - etag
      - cf-ray
      - x-ratelimit-remaining
      - x-ratelimit-reset
    skip_body:
      - id

create-post:
  req1:
    method: POST
    url: https://jsonplaceholder.typicode.com/posts
    headers:
      Content-Type: application/json
    body:
      title: hello
      userId: 1
  req2:
    method: POST
    url: https://jsonplaceholder.typicode.com/posts
    headers:
      Content-Type: application/x-www-form-urlencoded
    body:
      title: hello
      userId: 1
  res:
    skip_headers:
      - date
      - cf-ray
`

const exampleRequests = `todo:
  url: https://jsonplaceholder.typicode.com/todos/1
  params:
    a: 100
  headers:
    Accept: application/json
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.ConfigFilenames[0])
	profilesFile := filepath.Join(cwd, config.DefaultProfilesFile)
	requestsFile := filepath.Join(cwd, config.DefaultRequestsFile)

	if !forceInit {
		for _, f := range []string{configFile, profilesFile, requestsFile} {
			if _, err := os.Stat(f); err == nil {
				return usageError(fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	d := config.DefaultConfig()
	configContent := map[string]any{
		"profiles":         d.Profiles,
		"requests":         d.Requests,
		"timeout":          d.Timeout.String(),
		"follow_redirects": d.FollowRedirects,
		"max_redirects":    d.MaxRedirects,
		"validate_ssl":     d.ValidateSSL,
		"output":           d.Output,
		"log_level":        d.LogLevel,
		"headers": map[string]string{
			"User-Agent": "hitdiff/" + version,
		},
	}

	configYAML, err := yaml.Marshal(configContent)
	if err != nil {
		return err
	}

	for _, f := range []struct {
		path string
		data []byte
	}{
		{configFile, configYAML},
		{profilesFile, []byte(exampleProfiles)},
		{requestsFile, []byte(exampleRequests)},
	} {
		if err := os.WriteFile(f.path, f.data, 0644); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Base(f.path), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", f.path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nhitdiff project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'hitdiff run todo' to diff the example profile.\n")

	return nil
}
