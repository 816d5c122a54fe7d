package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/example/meeting-scheduler/internal/client"
	"github.com/example/meeting-scheduler/internal/scheduler"
)

const providerKey = "provider"

func main() {
	// Missing .env files are fine.
	_ = godotenv.Load()

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		slog.Error("schedulerctl failed", "error", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "schedulerctl",
		Usage:     "Inspect and book meetings against a scheduler server or the built-in demo data.",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mode",
				Value:   client.ModeMock,
				Usage:   "data source: api or mock",
				EnvVars: []string{"SCHEDULERCTL_MODE"},
			},
			&cli.StringFlag{
				Name:    "endpoint",
				Value:   "http://localhost:8080",
				Usage:   "scheduler base URL used in api mode",
				EnvVars: []string{"SCHEDULERCTL_ENDPOINT"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Value:   client.DefaultTimeout,
				Usage:   "per request timeout in api mode",
				EnvVars: []string{"SCHEDULERCTL_TIMEOUT"},
			},
		},
		Before: func(c *cli.Context) error {
			provider, err := client.New(client.Config{
				Mode:     c.String("mode"),
				Endpoint: c.String("endpoint"),
				Timeout:  c.Duration("timeout"),
			})
			if err != nil {
				return err
			}
			if c.App.Metadata == nil {
				c.App.Metadata = map[string]any{}
			}
			c.App.Metadata[providerKey] = provider
			return nil
		},
		Commands: []*cli.Command{
			usersCommand(),
			meetingsCommand(),
		},
	}
}

func providerFrom(c *cli.Context) client.Provider {
	provider, _ := c.App.Metadata[providerKey].(client.Provider)
	return provider
}

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage the user directory.",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List registered users.",
				Action: func(c *cli.Context) error {
					users, err := providerFrom(c).Users(c.Context)
					if err != nil {
						return fmt.Errorf("list users: %w", err)
					}
					w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tNAME")
					for _, u := range users {
						fmt.Fprintf(w, "%d\t%s\n", u.ID, u.Name)
					}
					return w.Flush()
				},
			},
			{
				Name:      "add",
				Usage:     "Register a user.",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					name := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
					if name == "" {
						return errors.New("a user name is required")
					}
					user, err := providerFrom(c).CreateUser(c.Context, name)
					if err != nil {
						return fmt.Errorf("add user: %w", err)
					}
					fmt.Fprintf(c.App.Writer, "created user %d (%s)\n", user.ID, user.Name)
					return nil
				},
			},
		},
	}
}

func requestFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntSliceFlag{Name: "participant", Aliases: []string{"p"}, Usage: "participant user id (repeat or comma separate)", Required: true},
		&cli.IntFlag{Name: "duration", Aliases: []string{"d"}, Value: 30, Usage: "meeting length in minutes"},
		&cli.StringFlag{Name: "from", Usage: "earliest start (RFC3339)", Required: true},
		&cli.StringFlag{Name: "to", Usage: "latest end (RFC3339)", Required: true},
	}
}

func requestFromFlags(c *cli.Context) (scheduler.MeetingRequest, error) {
	from, err := time.Parse(time.RFC3339, c.String("from"))
	if err != nil {
		return scheduler.MeetingRequest{}, fmt.Errorf("invalid --from: %w", err)
	}
	to, err := time.Parse(time.RFC3339, c.String("to"))
	if err != nil {
		return scheduler.MeetingRequest{}, fmt.Errorf("invalid --to: %w", err)
	}
	return scheduler.MeetingRequest{
		ParticipantIDs:  c.IntSlice("participant"),
		DurationMinutes: c.Int("duration"),
		EarliestStart:   from,
		LatestEnd:       to,
	}, nil
}

func meetingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "meetings",
		Usage: "List, book and cancel meetings.",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored meetings.",
				Action: func(c *cli.Context) error {
					meetings, err := providerFrom(c).Meetings(c.Context)
					if err != nil {
						return fmt.Errorf("list meetings: %w", err)
					}
					w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tSTART\tEND\tPARTICIPANTS")
					for _, m := range meetings {
						fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.ID,
							m.Start.UTC().Format(time.RFC3339), m.End.UTC().Format(time.RFC3339), joinIDs(m.ParticipantIDs))
					}
					return w.Flush()
				},
			},
			{
				Name:  "schedule",
				Usage: "Book the earliest slot that suits every participant.",
				Flags: requestFlags(),
				Action: func(c *cli.Context) error {
					req, err := requestFromFlags(c)
					if err != nil {
						return err
					}
					meeting, err := providerFrom(c).CreateMeeting(c.Context, req)
					if err != nil {
						return fmt.Errorf("schedule meeting: %w", err)
					}
					fmt.Fprintf(c.App.Writer, "scheduled meeting %d: %s - %s\n", meeting.ID,
						meeting.Start.UTC().Format(time.RFC3339), meeting.End.UTC().Format(time.RFC3339))
					return nil
				},
			},
			{
				Name:  "slots",
				Usage: "List candidate slots without booking.",
				Flags: append(requestFlags(), &cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 5, Usage: "maximum number of slots"}),
				Action: func(c *cli.Context) error {
					req, err := requestFromFlags(c)
					if err != nil {
						return err
					}
					slots, err := providerFrom(c).FindSlots(c.Context, req, c.Int("limit"))
					if err != nil {
						return fmt.Errorf("find slots: %w", err)
					}
					if len(slots) == 0 {
						fmt.Fprintln(c.App.Writer, "no slot available")
						return nil
					}
					for _, s := range slots {
						fmt.Fprintf(c.App.Writer, "%s - %s\n", s.Start.UTC().Format(time.RFC3339), s.End.UTC().Format(time.RFC3339))
					}
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Cancel a meeting. Unknown ids are ignored.",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					id, err := strconv.Atoi(c.Args().First())
					if err != nil {
						return fmt.Errorf("invalid meeting id %q", c.Args().First())
					}
					if err := providerFrom(c).DeleteMeeting(c.Context, id); err != nil {
						return fmt.Errorf("delete meeting: %w", err)
					}
					fmt.Fprintf(c.App.Writer, "deleted meeting %d\n", id)
					return nil
				},
			},
		},
	}
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
