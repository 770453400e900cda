package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	domainjob "github.com/calcfunding/portal/internal/domain/job"
	"github.com/calcfunding/portal/internal/domain/model"
	"github.com/calcfunding/portal/internal/service"
)

type watchOptions struct {
	specificationID string
	types           string
	jobID           string
	triggerEntityID string
	expr            string
	interval        time.Duration
	follow          bool
}

func (a *app) watchJobCmd() *cobra.Command {
	var opts watchOptions
	cmd := &cobra.Command{
		Use:   "watch-job",
		Short: "Print job status transitions until the job completes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.watchJob(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.specificationID, "spec", "", "specification id")
	f.StringVar(&opts.types, "types", "", "comma separated job types")
	f.StringVar(&opts.jobID, "job", "", "job id")
	f.StringVar(&opts.triggerEntityID, "trigger", "", "trigger entity id")
	f.StringVar(&opts.expr, "expr", "", "JMESPath predicate over the job document")
	f.DurationVar(&opts.interval, "interval", 5*time.Second, "polling interval")
	f.BoolVar(&opts.follow, "follow", false, "keep watching after a job completes")
	return cmd
}

func (o watchOptions) filter() (domainjob.Filter, error) {
	types, err := model.ParseJobTypes(o.types)
	if err != nil {
		return domainjob.Filter{}, err
	}
	f := domainjob.Filter{
		SpecificationID:   strings.TrimSpace(o.specificationID),
		TriggerByEntityID: strings.TrimSpace(o.triggerEntityID),
		JobID:             strings.TrimSpace(o.jobID),
		JobTypes:          types,
		Expression:        strings.TrimSpace(o.expr),
	}
	if err := f.Validate(); err != nil {
		return domainjob.Filter{}, err
	}
	return f, nil
}

func (a *app) watchJob(cmd *cobra.Command, opts watchOptions) error {
	filter, err := opts.filter()
	if err != nil {
		return fmt.Errorf("watch-job: %w", err)
	}
	ctx := cmd.Context()

	jobs, err := a.jobs(ctx, a.logger)
	if err != nil {
		return err
	}
	svc, err := service.NewJobService(service.JobServiceOptions{
		Jobs:   jobs,
		Config: service.JobServiceConfig{PollInterval: opts.interval, MinPollInterval: min(opts.interval, time.Second)},
		Logger: a.logger,
	})
	if err != nil {
		return err
	}
	watch, err := svc.Watch(ctx, service.WatchRequest{Filter: filter, FetchPrior: true})
	if err != nil {
		return err
	}
	defer watch.Close()

	if err := writef(cmd, "watching %s\n", filter.String()); err != nil {
		return err
	}
	var last string
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-watch.Errors():
			if err := writef(cmd, "error: %v\n", err); err != nil {
				return err
			}
		case n, ok := <-watch.Updates():
			if !ok {
				return errors.New("watch-job: subscription closed")
			}
			line := transitionLine(n)
			if line != last {
				if err := writef(cmd, "%s\n", line); err != nil {
					return err
				}
				last = line
			}
			if !opts.follow && n.LatestJob.IsComplete() {
				if n.LatestJob.IsFailed() {
					return fmt.Errorf("job %s: %s", n.LatestJob.JobID, n.StatusMessage)
				}
				return nil
			}
		}
	}
}

func transitionLine(n domainjob.Notification) string {
	j := n.LatestJob
	if j == nil {
		return "no matching job"
	}
	line := fmt.Sprintf("%s  %-36s  %s  %s", j.LastUpdated.Format(time.RFC3339), j.JobID, j.JobType.Description(), n.StatusMessage)
	if j.Outcome != "" {
		line += "  (" + j.Outcome + ")"
	}
	return line
}
