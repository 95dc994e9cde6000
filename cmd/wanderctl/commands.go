package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/wanderlist/internal/domain/destination"
	"github.com/okian/wanderlist/internal/domain/ident"
)

func newListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List destinations, including ones stored locally",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.out.List(s.rec.RenderList(cmd.Context()))
		},
	}
}

// fieldFlags binds the writable fields of a destination.
type fieldFlags struct {
	name, location, description, date string
}

func (f *fieldFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "destination name")
	cmd.Flags().StringVar(&f.location, "location", "", "where it is")
	cmd.Flags().StringVar(&f.description, "description", "", "free text notes")
	cmd.Flags().StringVar(&f.date, "date", "", "planned visit date (YYYY-MM-DD, empty clears)")
}

// apply overwrites base with every flag the user set.
func (f *fieldFlags) apply(cmd *cobra.Command, base destination.Fields) (destination.Fields, error) {
	if cmd.Flags().Changed("name") {
		base.Name = f.name
	}
	if cmd.Flags().Changed("location") {
		base.Location = f.location
	}
	if cmd.Flags().Changed("description") {
		base.Description = f.description
	}
	if cmd.Flags().Changed("date") {
		base.Date = nil
		if f.date != "" {
			d, err := destination.ParseDate(f.date)
			if err != nil {
				return destination.Fields{}, err
			}
			base.Date = &d
		}
	}
	return base, nil
}

func newAddCmd(s *session) *cobra.Command {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a destination",
		Example: `  wanderctl add --name Paris --location France --date 2026-06-01
  wanderctl add --name Tokyo --location Japan --description "Cherry blossoms"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := ff.apply(cmd, destination.Fields{})
			if err != nil {
				return err
			}
			res, err := s.rec.Submit(cmd.Context(), f, ident.ID{})
			if err != nil {
				return err
			}
			return s.out.One(res.Record, res.Local)
		},
	}
	ff.bind(cmd)
	return cmd
}

func newEditCmd(s *session) *cobra.Command {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a destination; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cur, err := s.rec.FetchForEdit(cmd.Context(), id)
			if err != nil {
				return err
			}
			f, err := ff.apply(cmd, cur.Fields())
			if err != nil {
				return err
			}
			res, err := s.rec.Submit(cmd.Context(), f, id)
			if err != nil {
				return err
			}
			return s.out.One(res.Record, res.Local)
		},
	}
	ff.bind(cmd)
	return cmd
}

func newShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := s.rec.FetchForEdit(cmd.Context(), id)
			if err != nil {
				return err
			}
			return s.out.One(d, id.IsPending())
		},
	}
}

func newRmCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a destination after confirmation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			removed, err := s.rec.Remove(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !removed {
				return s.out.Notice("Cancelled")
			}
			return s.out.Notice("Destination removed")
		},
	}
	cmd.Flags().BoolVarP(&s.yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func parseID(raw string) (ident.ID, error) {
	id, err := ident.Parse(raw)
	if err != nil {
		return ident.ID{}, fmt.Errorf("%w: %w", destination.ErrInvalid, err)
	}
	if id.IsZero() {
		return ident.ID{}, fmt.Errorf("%w: empty id", destination.ErrInvalid)
	}
	return id, nil
}
