package cli

import (
	"errors"
	"os"

	"novastay/internal/domain"
	"novastay/internal/modules/auth"
	"novastay/internal/repository"

	"github.com/spf13/cobra"
)

func newStaffCmd(open opener) *cobra.Command {
	staffCmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff accounts",
	}

	var email, name, role, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a staff account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("HOTELCTL_PASSWORD")
			}
			if password == "" {
				return errors.New("password is required (--password or HOTELCTL_PASSWORD)")
			}

			db, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB(db)

			svc := auth.NewService(repository.NewStaffRepository(db), nil)
			s, err := svc.CreateStaff(cmd.Context(), email, name, password, domain.StaffRole(role))
			if err != nil {
				return err
			}
			okColor.Fprintf(cmd.OutOrStdout(), "created staff id=%d email=%s role=%s\n", s.ID, s.Email, s.Role)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "login email")
	create.Flags().StringVar(&name, "name", "", "display name")
	create.Flags().StringVar(&role, "role", string(domain.RoleFrontDesk), "admin or front_desk")
	create.Flags().StringVar(&password, "password", "", "initial password")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("name")

	staffCmd.AddCommand(create)
	return staffCmd
}
