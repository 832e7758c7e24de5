package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/Freeeeeet/staff_scheduler/internal/timezone"
	"github.com/spf13/cobra"
)

func newSubmitCmd() *cobra.Command {
	var (
		name, email, title, description, tz string
		times                               []string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a booking request with alternative times in order of preference",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			d, err := openDeps(ctx, false)
			if err != nil {
				return err
			}
			defer d.Close()

			if tz == "" {
				tz = d.cfg.DefaultTimezone
			}
			instants := make([]time.Time, 0, len(times))
			for _, raw := range times {
				at, err := parseInstant(raw, tz)
				if err != nil {
					return err
				}
				instants = append(instants, at)
			}

			svc := d.services(nil).Requests
			group, err := svc.Submit(ctx, service.SubmitRequest{
				RequesterName:  name,
				RequesterEmail: email,
				Title:          title,
				Description:    description,
				Times:          instants,
			})

			extra := map[string]any{}
			if group != nil {
				extra["request_group_id"] = group.ID
				extra["slots"] = group.Slots
			}
			return printResult(cmd.OutOrStdout(), err, extra)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "requester name")
	cmd.Flags().StringVar(&email, "email", "", "requester email")
	cmd.Flags().StringVar(&title, "title", "", "meeting title")
	cmd.Flags().StringVar(&description, "description", "", "meeting description")
	cmd.Flags().StringArrayVar(&times, "time", nil, `requested start time "2006-01-02 15:04", repeat for alternatives`)
	cmd.Flags().StringVar(&tz, "tz", "", "timezone of --time values (default DEFAULT_TIMEZONE)")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}

func newPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List request groups waiting for a decision",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			d, err := openDeps(ctx, false)
			if err != nil {
				return err
			}
			defer d.Close()

			groups, err := d.services(nil).Requests.ListOpenGroups(ctx)
			if err != nil {
				return err
			}
			return writeGroups(cmd.OutOrStdout(), groups, d.cfg.DefaultTimezone)
		},
	}
}

func writeGroups(w io.Writer, groups []*model.RequestGroup, tz string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tSLOT\tPRIORITY\tREQUESTER\tTITLE\tTIME")
	for _, group := range groups {
		for _, slot := range group.Slots {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s <%s>\t%s\t%s\n",
				group.ID,
				slot.ID,
				slot.Priority(),
				slot.RequesterName,
				slot.RequesterEmail,
				slot.Title,
				formatInstant(slot.RequestedStartTime, tz),
			)
		}
	}
	return tw.Flush()
}

func newRosterCmd() *cobra.Command {
	var at, tz string

	cmd := &cobra.Command{
		Use:   "roster [slot-id]",
		Short: "Show which active members are free for a slot or an arbitrary time",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := openDeps(ctx, true)
			if err != nil {
				return err
			}
			defer d.Close()

			if tz == "" {
				tz = d.cfg.DefaultTimezone
			}
			roster := d.services(nil).Roster

			var result *service.Roster
			switch {
			case len(args) == 1:
				result, err = roster.CheckSlot(ctx, args[0], tz)
			case at != "":
				start, perr := parseInstant(at, tz)
				if perr != nil {
					return perr
				}
				result, err = roster.CheckInstant(ctx, start, tz)
			default:
				return fmt.Errorf("pass a slot id or --at")
			}
			if err != nil {
				return err
			}
			return writeRoster(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", `start time "2006-01-02 15:04"`)
	cmd.Flags().StringVar(&tz, "tz", "", "display timezone (default DEFAULT_TIMEZONE)")

	return cmd
}

func writeRoster(w io.Writer, roster *service.Roster) error {
	fmt.Fprintf(w, "%s - %s\n\n",
		formatInstant(roster.Start, roster.Timezone),
		roster.End.In(timezone.Location(roster.Timezone)).Format("15:04"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MEMBER\tIDENTITY\tSTATUS\tBUSY")
	for _, m := range roster.Members {
		status := "busy"
		switch {
		case m.FetchFailed:
			status = "unknown"
		case m.Available:
			status = "free"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", m.Member.DisplayName, m.Member.CalendarIdentity, status, len(m.Busy))
	}
	return tw.Flush()
}

func newAssignCmd() *cobra.Command {
	var at, tz string

	cmd := &cobra.Command{
		Use:   "assign <slot-id> <member-identity>",
		Short: "Schedule a slot with a staff member and reject the rest of its group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := openDeps(ctx, true)
			if err != nil {
				return err
			}
			defer d.Close()

			if tz == "" {
				tz = d.cfg.DefaultTimezone
			}
			var selected time.Time
			if at != "" {
				if selected, err = parseInstant(at, tz); err != nil {
					return err
				}
			}

			services := d.services(d.cliNotifier())
			member, err := services.Directory.FindByIdentity(ctx, args[1])
			if err != nil {
				return printResult(cmd.OutOrStdout(), err, nil)
			}

			res, err := services.Scheduling.Assign(ctx, args[0], member.ID, selected)
			extra := map[string]any{}
			if res != nil {
				extra["slot"] = res.Slot
				extra["meeting_link"] = res.MeetingLink
				extra["rejected"] = len(res.Rejected)
			}
			return printResult(cmd.OutOrStdout(), err, extra)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", `final start time "2006-01-02 15:04" (default requested time)`)
	cmd.Flags().StringVar(&tz, "tz", "", "timezone of --at (default DEFAULT_TIMEZONE)")

	return cmd
}

func newCancelCmd() *cobra.Command {
	var (
		reason   string
		noNotify bool
	)

	cmd := &cobra.Command{
		Use:   "cancel <slot-or-group-id>",
		Short: "Reject a slot or a whole request group and remove calendar events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := openDeps(ctx, true)
			if err != nil {
				return err
			}
			defer d.Close()

			res, err := d.services(d.cliNotifier()).Scheduling.Cancel(ctx, args[0], reason, !noNotify)
			extra := map[string]any{}
			if res != nil {
				extra["slots"] = len(res.Slots)
				extra["events_deleted"] = res.EventsDeleted
			}
			return printResult(cmd.OutOrStdout(), err, extra)
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "rejection reason")
	cmd.Flags().BoolVar(&noNotify, "no-notify", false, "do not notify attendees about removed events")

	return cmd
}

func newEditCmd() *cobra.Command {
	var title, description, memberIdentity string

	cmd := &cobra.Command{
		Use:   "edit <slot-id>",
		Short: "Change title, description or assignee of a scheduled slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := openDeps(ctx, true)
			if err != nil {
				return err
			}
			defer d.Close()

			services := d.services(d.cliNotifier())

			var memberID string
			if memberIdentity != "" {
				member, err := services.Directory.FindByIdentity(ctx, memberIdentity)
				if err != nil {
					return printResult(cmd.OutOrStdout(), err, nil)
				}
				memberID = member.ID
			}

			slot, err := services.Scheduling.Edit(ctx, args[0], title, description, memberID)
			extra := map[string]any{}
			if slot != nil {
				extra["slot"] = slot
			}
			return printResult(cmd.OutOrStdout(), err, extra)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&memberIdentity, "member", "", "calendar identity of the new assignee")

	return cmd
}

func newConcludeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conclude",
		Short: "Mark scheduled meetings that already ended as concluded",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			d, err := openDeps(ctx, false)
			if err != nil {
				return err
			}
			defer d.Close()

			n, err := d.services(nil).Scheduling.ConcludeElapsed(ctx, time.Now())
			return printResult(cmd.OutOrStdout(), err, map[string]any{"concluded": n})
		},
	}
}

func newMemberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage the staff directory",
	}
	cmd.AddCommand(newMemberAddCmd(), newMemberListCmd())
	return cmd
}

func newMemberAddCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name> <calendar-identity>",
		Short: "Add a staff member or rename an existing one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := openDeps(ctx, false)
			if err != nil {
				return err
			}
			defer d.Close()

			member, err := d.services(nil).Directory.AddMember(ctx, args[0], args[1], color)
			extra := map[string]any{}
			if member != nil {
				extra["member"] = member
			}
			return printResult(cmd.OutOrStdout(), err, extra)
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "color tag")

	return cmd
}

func newMemberListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all staff members",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			d, err := openDeps(ctx, false)
			if err != nil {
				return err
			}
			defer d.Close()

			members, err := d.services(nil).Directory.ListMembers(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tIDENTITY\tTIMEZONE\tACTIVE")
			for _, m := range members {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", m.ID, m.DisplayName, m.CalendarIdentity, m.Timezone, m.IsActive)
			}
			return tw.Flush()
		},
	}
}

func formatInstant(at time.Time, tz string) string {
	return fmt.Sprintf("%s (%s)",
		at.In(timezone.Location(tz)).Format(instantLayout),
		timezone.OffsetLabelAt(tz, at))
}
