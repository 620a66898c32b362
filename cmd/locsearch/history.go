package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/locsearch"
)

// Run executes the history list command.
func (c *HistoryListCmd) Run(deps *Dependencies) error {
	filter := locsearch.HistoryFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Query != "" {
		filter.Query = &c.Query
	}
	records, err := deps.History.FindSearches(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", locsearch.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No searches found. Use 'locsearch search' to run one.")
		return nil
	}

	for _, r := range records {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-4s %3d results  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Language, r.Stats.TotalResults, r.Query)
	}
	return nil
}

// Run executes the history show command.
func (c *HistoryShowCmd) Run(deps *Dependencies) error {
	record, err := deps.History.FindSearchByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", locsearch.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	}

	fmt.Fprintf(deps.Stdout, "%s %s\n", bold("Query:"), record.Query)
	if record.OptimizedQuery != "" && record.OptimizedQuery != record.Query {
		fmt.Fprintf(deps.Stdout, "%s %s\n", bold("Searched for:"), record.OptimizedQuery)
	}
	fmt.Fprintf(deps.Stdout, "%s %s\n", bold("Language:"), record.Language)
	fmt.Fprintf(deps.Stdout, "%s %s\n", bold("Date:"), record.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(deps.Stdout, "\n%s\n%s\n\n", bold("Summary"), record.Digest)
	for i, r := range record.Results {
		printResult(deps.Stdout, i+1, r)
	}
	fmt.Fprintf(deps.Stdout, "%d results saved of %d\n", len(record.Results), record.Stats.TotalResults)
	return nil
}

// Run executes the history delete command.
func (c *HistoryDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return locsearch.Errorf(locsearch.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.History.DeleteSearch(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", locsearch.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted search %s\n", c.ID)
	return nil
}

// Run executes the history clear command.
func (c *HistoryClearCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return locsearch.Errorf(locsearch.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.History.ClearSearches(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", locsearch.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, "Cleared search history")
	return nil
}
