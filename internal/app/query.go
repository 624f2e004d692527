package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xxxsen/retronav/internal/artwork"
	"github.com/xxxsen/retronav/internal/catalog"
	"github.com/xxxsen/retronav/internal/model"
	"github.com/xxxsen/retronav/internal/search"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// QueryCommand runs a search over one system's catalog entries and prints
// the matches as JSON.
type QueryCommand struct {
	system     string
	filter     string
	year       string
	manuf      string
	sortKey    string
	hideClones bool
	withArt    bool
}

func NewQueryCommand() *QueryCommand { return &QueryCommand{} }

func (c *QueryCommand) Name() string { return "query" }

func (c *QueryCommand) Desc() string {
	return "Search the catalog of one system and print matches as JSON"
}

func (c *QueryCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.system, "system", "", "system key or display name")
	f.StringVar(&c.filter, "filter", "", "substring matched against title, year and manufacturer")
	f.StringVar(&c.year, "year", "", "substring matched against the year only")
	f.StringVar(&c.manuf, "manuf", "", "substring matched against the manufacturer only")
	f.StringVar(&c.sortKey, "sort", "title", "sort key: title, year or manufacturer")
	f.BoolVar(&c.hideClones, "hide-clones", false, "exclude clone sets")
	f.BoolVar(&c.withArt, "with-art", false, "resolve artwork paths for every match")
}

func (c *QueryCommand) PreRun(ctx context.Context) error {
	if strings.TrimSpace(c.system) == "" {
		return errors.New("query requires --system")
	}
	logutil.GetLogger(ctx).Info("starting query",
		zap.String("system", c.system),
		zap.String("filter", c.filter),
	)
	return nil
}

type queryResult struct {
	model.RomEntry
	Art *artwork.Artwork `json:"art,omitempty"`
}

func (c *QueryCommand) Run(ctx context.Context) error {
	_, reg, err := Default()
	if err != nil {
		return err
	}
	desc, err := reg.Resolve(c.system)
	if err != nil {
		return err
	}

	snap, _ := catalog.NewBuilder(reg).Build(ctx)
	entries := search.New(snap).Query(search.Query{
		System:       desc.Key,
		Filter:       c.filter,
		Year:         c.year,
		Manufacturer: c.manuf,
		Sort:         search.ParseSortKey(c.sortKey),
		HideClones:   c.hideClones,
	})

	results := make([]queryResult, 0, len(entries))
	for _, entry := range entries {
		r := queryResult{RomEntry: entry}
		if c.withArt {
			art := artwork.Resolve(desc, entry)
			r.Art = &art
		}
		results = append(results, r)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal query result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func (c *QueryCommand) PostRun(ctx context.Context) error {
	logutil.GetLogger(ctx).Info("query completed")
	return nil
}

func init() {
	RegisterRunner("query", func() IRunner { return NewQueryCommand() })
}
