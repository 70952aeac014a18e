package config

import (
	"os"
	"sort"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// File holds the path of an optional TOML configuration file. Values in
// the file are used for flags that were given neither on the command
// line nor through the environment.
type File struct {
	Path string
}

// Flags returns CLI flags for the configuration file
func (c *File) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "TOML configuration file",
			Destination: &c.Path,
			Sources:     cli.EnvVars("RELNOTES_CONFIG"),
		},
	}
}

// FileContent is the schema of the configuration file
type FileContent struct {
	Backend struct {
		URL        string `toml:"url"`
		APIVersion string `toml:"api_version"`
	} `toml:"backend"`

	Filter model.FilterSet `toml:"filter"`

	Output struct {
		Path            string `toml:"path"`
		TOC             *bool  `toml:"toc"`
		GCSBucket       string `toml:"gcs_bucket"`
		GCSPrefix       string `toml:"gcs_prefix"`
		SlackWebhookURL string `toml:"slack_webhook_url" masq:"secret"`
	} `toml:"output"`

	Server struct {
		Addr string `toml:"addr"`
	} `toml:"server"`
}

// LoadFile reads and decodes a configuration file
func LoadFile(path string) (*FileContent, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var content FileContent
	if err := toml.Unmarshal(raw, &content); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}
	return &content, nil
}

// Values maps flag names to the values set in the file
func (x *FileContent) Values() map[string]string {
	values := map[string]string{
		"backend-url":       x.Backend.URL,
		"api-version":       x.Backend.APIVersion,
		"type":              string(x.Filter.Type),
		"author":            x.Filter.Author,
		"since":             x.Filter.DateRange.Start,
		"until":             x.Filter.DateRange.End,
		"output":            x.Output.Path,
		"gcs-bucket":        x.Output.GCSBucket,
		"gcs-prefix":        x.Output.GCSPrefix,
		"slack-webhook-url": x.Output.SlackWebhookURL,
		"addr":              x.Server.Addr,
	}
	if x.Output.TOC != nil {
		values["toc"] = strconv.FormatBool(*x.Output.TOC)
	}

	for k, v := range values {
		if v == "" {
			delete(values, k)
		}
	}
	return values
}

// Apply loads the file, if any, and sets the flags of cmd it has values for
func (c *File) Apply(cmd *cli.Command) error {
	if c.Path == "" {
		return nil
	}

	content, err := LoadFile(c.Path)
	if err != nil {
		return err
	}

	known := make(map[string]struct{})
	for _, f := range cmd.Flags {
		for _, name := range f.Names() {
			known[name] = struct{}{}
		}
	}

	values := content.Values()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := known[name]; !ok || cmd.IsSet(name) {
			continue
		}
		if err := cmd.Set(name, values[name]); err != nil {
			return goerr.Wrap(err, "failed to apply config file value", goerr.V("flag", name), goerr.V("path", c.Path))
		}
	}
	return nil
}
