package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"course-planner/internal/bootstrap"
	"course-planner/internal/catalog"
	"course-planner/internal/courses"
	"course-planner/internal/plans"
	"course-planner/internal/shared/cache"
	"course-planner/internal/shared/config"
	localstore "course-planner/internal/shared/storage/object/local"
)

func planCmd(opts *options) *cobra.Command {
	var (
		dataset   string
		targets   []string
		completed []string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Find the shortest plan for one or more target courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			src, err := openSource(cmd.Context(), cfg, dataset)
			if err != nil {
				return err
			}
			svc := &plans.Service{
				Source: src,
				Repo:   plans.NewMemoryRepo(),
				Cache:  cache.Nop{},
				Limits: plans.Limits{
					Timeout:         cfg.Planner.Timeout,
					MaxDepth:        cfg.Planner.MaxDepth,
					MaxPlans:        cfg.Planner.MaxPlans,
					MaxCombinations: cfg.Planner.MaxCombinations,
				},
			}
			res, err := svc.Plan(cmd.Context(), plans.Request{Targets: targets, Completed: completed})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(opts, plans.ToResultResponse(res))
			}
			for _, course := range res.Courses {
				fmt.Fprintf(opts.out, "%s", course.Code)
				if course.Name != "" {
					fmt.Fprintf(opts.out, " %s", course.Name)
				}
				fmt.Fprintln(opts.out)
				if course.Description != "" {
					fmt.Fprintf(opts.out, "  %s\n", course.Description)
				}
			}
			fmt.Fprintf(opts.out, "\n%d terms, %.1f credits, %d candidate plans\n\n", res.Record.Length, res.Record.Credits, res.Record.CandidateCount)
			for _, p := range res.Record.Plans {
				fmt.Fprint(opts.out, p.Tree)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dataset, "dataset", "", "Dataset JSON file (defaults to the configured catalog store)")
	cmd.Flags().StringArrayVarP(&targets, "target", "t", nil, "Target course code (repeatable)")
	cmd.Flags().StringSliceVar(&completed, "completed", nil, "Completed course codes, comma separated")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the plan record as JSON")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func inspectCmd(opts *options) *cobra.Command {
	var (
		dataset   string
		completed []string
	)
	cmd := &cobra.Command{
		Use:   "inspect EXPR",
		Short: "Parse a requirement string and list its combinations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := &courses.Service{}
			if dataset != "" {
				cfg, err := opts.config()
				if err != nil {
					return err
				}
				src, err := openSource(cmd.Context(), cfg, dataset)
				if err != nil {
					return err
				}
				svc.Source = src
				svc.MaxCombos = cfg.Planner.MaxCombos
			}
			req := courses.InspectRequest{Requirement: args[0]}
			if cmd.Flags().Changed("completed") {
				req.Completed = completed
			}
			in, err := svc.Inspect(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(opts.out, "normalized: %s\n", in.Normalized)
			fmt.Fprintf(opts.out, "tree:       %s\n", in.Tree)
			fmt.Fprintf(opts.out, "combos:     %d\n", len(in.Combos))
			for _, c := range in.Combos {
				fmt.Fprintf(opts.out, "  %s\n", c)
			}
			if len(in.Unresolved) > 0 {
				fmt.Fprintf(opts.out, "unresolved: %s\n", strings.Join(in.Unresolved, ", "))
			}
			if in.Satisfied != nil {
				fmt.Fprintf(opts.out, "satisfied:  %t\n", *in.Satisfied)
				if len(in.Remaining) > 0 {
					fmt.Fprintf(opts.out, "remaining:  %s\n", strings.Join(in.Remaining, ", "))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dataset, "dataset", "", "Dataset JSON file used to report unresolved codes")
	cmd.Flags().StringSliceVar(&completed, "completed", nil, "Completed course codes, comma separated")
	return cmd
}

func courseCmd(opts *options) *cobra.Command {
	var dataset string
	cmd := &cobra.Command{
		Use:   "course CODE",
		Short: "Show a course and its parsed requirements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			src, err := openSource(cmd.Context(), cfg, dataset)
			if err != nil {
				return err
			}
			svc := &courses.Service{Source: src, MaxCombos: cfg.Planner.MaxCombos}
			c, err := svc.Course(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(opts, courses.ToCourseResponse(c))
		},
	}
	cmd.Flags().StringVar(&dataset, "dataset", "", "Dataset JSON file (defaults to the configured catalog store)")
	return cmd
}

func importCmd(opts *options) *cobra.Command {
	var dataset string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Validate a dataset and upload it to the catalog store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(dataset)
			if err != nil {
				return fmt.Errorf("read dataset: %w", err)
			}
			cat, err := catalog.Load(data, catalog.BuildOptions{MaxCombos: cfg.Planner.MaxCombos})
			if err != nil {
				return err
			}
			store, err := bootstrap.NewStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			f, err := os.Open(dataset)
			if err != nil {
				return fmt.Errorf("open dataset: %w", err)
			}
			defer f.Close()
			n, err := store.SaveWithKey(cmd.Context(), cfg.CatalogKey, "application/json", f)
			if err != nil {
				return fmt.Errorf("upload dataset: %w", err)
			}
			fmt.Fprintf(opts.out, "imported %d courses (%d bytes, %d requirement issues) as %s, version %s\n",
				cat.Len(), n, len(cat.Issues), cfg.CatalogKey, cat.Version)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataset, "dataset", "", "Dataset JSON file")
	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}

// openSource reads the catalog from dataset when given, otherwise from the
// configured store.
func openSource(ctx context.Context, cfg config.Config, dataset string) (*catalog.Source, error) {
	opts := catalog.BuildOptions{MaxCombos: cfg.Planner.MaxCombos}
	if dataset != "" {
		abs, err := filepath.Abs(dataset)
		if err != nil {
			return nil, err
		}
		store := localstore.New(filepath.Dir(abs))
		return catalog.NewSource(store, filepath.Base(abs), opts), nil
	}
	store, err := bootstrap.NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return catalog.NewSource(store, cfg.CatalogKey, opts), nil
}

func writeJSON(opts *options, v any) error {
	enc := json.NewEncoder(opts.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
