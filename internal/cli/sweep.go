package cli

import (
	"time"

	"novastay/internal/jobs"
	"novastay/internal/modules/reservation"
	"novastay/internal/repository"

	"github.com/spf13/cobra"
)

func newSweepCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Deactivate reservations that were never checked in and whose stay has ended",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB(db)

			svc := reservation.NewService(
				repository.NewReservationRepository(db),
				repository.NewGuestRepository(db),
				repository.NewRoomRepository(db),
				repository.NewTransactor(db),
				nil, nil,
			)
			sweeper, err := jobs.NewSweeper(svc, "@hourly")
			if err != nil {
				return err
			}

			start := time.Now()
			n, err := sweeper.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			if n == 0 {
				warnColor.Fprintln(cmd.OutOrStdout(), "no stale reservations")
				return nil
			}
			okColor.Fprintf(cmd.OutOrStdout(), "expired %d reservation(s) in %s\n", n, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}
