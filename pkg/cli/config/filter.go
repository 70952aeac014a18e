package config

import (
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Filter holds commit filters passed through to the backend
type Filter struct {
	Type   string
	Author string
	Since  string
	Until  string
}

// Flags returns CLI flags for filter configuration
func (c *Filter) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "type",
			Usage:       "Commit type (feat, fix, chore), all types when empty",
			Destination: &c.Type,
			Sources:     cli.EnvVars("RELNOTES_FILTER_TYPE"),
		},
		&cli.StringFlag{
			Name:        "author",
			Usage:       "Only commits by this author",
			Destination: &c.Author,
			Sources:     cli.EnvVars("RELNOTES_FILTER_AUTHOR"),
		},
		&cli.StringFlag{
			Name:        "since",
			Usage:       "Start date (YYYY-MM-DD)",
			Destination: &c.Since,
			Sources:     cli.EnvVars("RELNOTES_FILTER_SINCE"),
		},
		&cli.StringFlag{
			Name:        "until",
			Usage:       "End date (YYYY-MM-DD)",
			Destination: &c.Until,
			Sources:     cli.EnvVars("RELNOTES_FILTER_UNTIL"),
		},
	}
}

// FilterSet converts the flags into a filter set
func (c *Filter) FilterSet() model.FilterSet {
	return model.FilterSet{
		Type:   model.CommitType(c.Type),
		Author: c.Author,
		DateRange: model.DateRange{
			Start: c.Since,
			End:   c.Until,
		},
	}
}
