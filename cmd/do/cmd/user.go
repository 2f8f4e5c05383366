package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/perfreview/goalflow/internal/db"
	"github.com/perfreview/goalflow/internal/model"
	"github.com/perfreview/goalflow/internal/repository"
	"github.com/perfreview/goalflow/internal/service"
	"github.com/spf13/cobra"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage the employee directory",
	}

	cmd.AddCommand(userAddCmd())
	cmd.AddCommand(userListCmd())
	return cmd
}

func userAddCmd() *cobra.Command {
	var input service.CreateUserInput
	var role string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user to the directory",
		Example: `  do user add --email mia@example.com --name Mia --role manager
  do user add --email eve@example.com --name Eve --manager <mia's id>`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, database, err := openDatabase(ctx, true)
			if err != nil {
				return err
			}
			defer db.Close(database)

			input.Role = model.Role(role)
			users := service.NewUserService(repository.NewUserRepository(database))

			user, err := users.Create(ctx, input)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) as %s: %s\n", user.Name, user.Email, user.Role, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&input.Name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&role, "role", string(model.RoleEmployee), "admin, manager or employee")
	cmd.Flags().StringVar(&input.ManagerID, "manager", "", "user ID of the reviewing manager")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, database, err := openDatabase(ctx, true)
			if err != nil {
				return err
			}
			defer db.Close(database)

			users, err := service.NewUserService(repository.NewUserRepository(database)).Users(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tMANAGER")
			for _, u := range users {
				manager := "-"
				if u.ManagerID != nil {
					manager = *u.ManagerID
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Role, manager)
			}
			return w.Flush()
		},
	}
}
