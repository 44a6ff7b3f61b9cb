package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"uniform-tracker-api/config"
	"uniform-tracker-api/internal/client"

	"github.com/spf13/pflag"
)

const usage = `usage: checkin <command> [flags]

commands:
  list                                   list technicians and their latest check-in
  add     --name NAME --tech-id N        add a technician
  delete  --id ID                        delete a technician and its check-ins
  record  --id ID --uniform SET          record a uniform check-in
`

func run(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(strings.TrimSpace(usage))
	}

	fs := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	baseURL := fs.String("api-url", cfg.APIURL, "service base url")
	name := fs.String("name", "", "technician name")
	techID := fs.Int("tech-id", 0, "technician number")
	id := fs.Uint("id", 0, "technician record id")
	uniform := fs.String("uniform", "", "uniform set: "+strings.Join(client.UniformSets, ", "))

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	c, err := client.New(client.Config{BaseURL: *baseURL})
	if err != nil {
		return err
	}

	switch args[0] {
	case "list":
		return listTechnicians(ctx, c, out)
	case "add":
		if strings.TrimSpace(*name) == "" || *techID <= 0 {
			return errors.New("add needs --name and a positive --tech-id")
		}
		tech, err := c.CreateTechnician(ctx, *name, *techID)
		if err != nil {
			return explain(err)
		}
		fmt.Fprintf(out, "added %s (ID %d, %s)\n", tech.Name, tech.TechID, tech.BarcodeValue)
		return nil
	case "delete":
		if *id == 0 {
			return errors.New("delete needs --id")
		}
		if err := c.DeleteTechnician(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted technician %d\n", *id)
		return nil
	case "record":
		if *id == 0 {
			return errors.New("record needs --id")
		}
		if !slices.Contains(client.UniformSets, *uniform) {
			return fmt.Errorf("--uniform must be one of: %s", strings.Join(client.UniformSets, ", "))
		}
		ci, err := c.RecordCheckIn(ctx, *id, *uniform)
		if err != nil {
			return explain(err)
		}
		fmt.Fprintf(out, "checked in %s at %s\n", ci.UniformSet, ci.CreatedAt.Format("2006-01-02 15:04"))
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

// explain reduces a 400 from the service to the reason it gave.
func explain(err error) error {
	var apiErr *client.APIError
	if client.IsValidationError(err) && errors.As(err, &apiErr) {
		return fmt.Errorf("rejected: %s", apiErr.Message)
	}
	return err
}

func listTechnicians(ctx context.Context, c *client.Client, out io.Writer) error {
	techs, err := c.ListTechnicians(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTECH #\tNAME\tBARCODE\tLAST CHECK-IN")
	for _, t := range techs {
		last := "-"
		if len(t.CheckIns) > 0 {
			ci := t.CheckIns[0]
			last = fmt.Sprintf("%s (%s)", ci.UniformSet, ci.CreatedAt.Format("2006-01-02"))
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", t.ID, t.TechID, t.Name, t.BarcodeValue, last)
	}
	return tw.Flush()
}
