package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"novastay/internal/domain"
	"novastay/internal/modules/auth"
	"novastay/internal/modules/guest"
	"novastay/internal/modules/reservation"
	"novastay/internal/modules/room"
	"novastay/internal/repository"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type seedStaff struct {
	email, name, password string
	role                  domain.StaffRole
}

var demoStaff = []seedStaff{
	{"admin@novastay.local", "Front Office Manager", "admin12345", domain.RoleAdmin},
	{"desk@novastay.local", "Night Auditor", "desk12345", domain.RoleFrontDesk},
}

func newSeedCmd(open opener) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo staff, rooms, guests and reservations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB(db)

			if reset {
				if err := wipe(db); err != nil {
					return err
				}
				warnColor.Fprintln(cmd.OutOrStdout(), "old data removed")
			}
			return seed(cmd.Context(), db, cmd.OutOrStdout(), time.Now().UTC())
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete existing data first")
	return cmd
}

// wipe deletes in foreign key order.
func wipe(db *gorm.DB) error {
	for _, table := range []string{"reservations", "guests", "rooms", "staff"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clean %s: %w", table, err)
		}
	}
	return nil
}

func seed(ctx context.Context, db *gorm.DB, out io.Writer, now time.Time) error {
	tx := repository.NewTransactor(db)
	guests := repository.NewGuestRepository(db)
	rooms := repository.NewRoomRepository(db)
	reservations := repository.NewReservationRepository(db)

	authSvc := auth.NewService(repository.NewStaffRepository(db), nil)
	for _, s := range demoStaff {
		if _, err := authSvc.CreateStaff(ctx, s.email, s.name, s.password, s.role); err != nil {
			return fmt.Errorf("staff %s: %w", s.email, err)
		}
		fmt.Fprintf(out, "staff %s / %s (%s)\n", s.email, s.password, s.role)
	}

	roomSvc := room.NewService(rooms, reservations, tx)
	var created []*domain.Room
	for floor := 1; floor <= 3; floor++ {
		for i := 1; i <= 4; i++ {
			r := demoRoom(floor, i)
			saved, err := roomSvc.CreateRoom(ctx, r)
			if err != nil {
				return fmt.Errorf("room %d: %w", r.Number, err)
			}
			created = append(created, saved)
		}
	}
	fmt.Fprintf(out, "rooms: %d\n", len(created))

	guestSvc := guest.NewService(guests, reservations, tx)
	var people []*domain.Guest
	for _, g := range demoGuests() {
		saved, err := guestSvc.CreateGuest(ctx, g)
		if err != nil {
			return fmt.Errorf("guest %s: %w", g.FullName(), err)
		}
		people = append(people, saved)
	}
	fmt.Fprintf(out, "guests: %d\n", len(people))

	resSvc := reservation.NewService(reservations, guests, rooms, tx, nil, nil)
	today := domain.DateOf(now)
	for i, g := range people {
		discount := float64(i * 5)
		r := &domain.Reservation{
			GuestID:             g.ID,
			RoomID:              created[i].ID,
			IsActive:            true,
			CheckInBookingDate:  today.AddDate(0, 0, i+1),
			CheckOutBookingDate: today.AddDate(0, 0, i+4),
			Status:              domain.ReservationCreated,
			DiscountRate:        &discount,
			PaymentMethod:       domain.PaymentCash,
		}
		saved, err := resSvc.CreateReservation(ctx, r)
		if err != nil {
			return fmt.Errorf("reservation for %s: %w", g.FullName(), err)
		}
		fmt.Fprintf(out, "reservation %s room %d %s..%s $%.2f\n",
			saved.ConfirmationCode, created[i].Number,
			saved.CheckInBookingDate.Format(domain.DateLayout), saved.CheckOutBookingDate.Format(domain.DateLayout),
			saved.FinalAmountUSD)
	}

	okColor.Fprintln(out, "seed complete")
	return nil
}

func demoRoom(floor, i int) *domain.Room {
	types := []domain.RoomType{domain.RoomSingle, domain.RoomDouble, domain.RoomTwin, domain.RoomSuite}
	prices := []float64{80, 120, 110, 260}

	r := &domain.Room{
		Number:           floor*10 + i,
		FloorNumber:      floor,
		Type:             types[i-1],
		Status:           domain.RoomAvailable,
		HasBalcony:       i%2 == 0,
		PricePerNightUSD: prices[i-1] + float64(floor-1)*10,
	}
	if floor == 3 && i == 4 {
		r.Status = domain.RoomUnderMaintenance
	}
	return r
}

func demoGuests() []*domain.Guest {
	email := "amira.haddad@example.com"
	passport := "P1234567"
	return []*domain.Guest{
		{
			FirstName: "Amira", MiddleName: "Nour", LastName: "Haddad",
			Nationality: "JO", DateOfBirth: time.Date(1988, 4, 12, 0, 0, 0, 0, time.UTC),
			PhoneNumber: "+962 7 9555 0101", EmailAddress: &email, PassportNumber: &passport,
		},
		{
			FirstName: "Lukas", MiddleName: "Johann", LastName: "Becker", IsMale: true,
			Nationality: "DE", DateOfBirth: time.Date(1979, 11, 3, 0, 0, 0, 0, time.UTC),
			PhoneNumber: "+49 30 5550 1122",
		},
		{
			FirstName: "Mariana", MiddleName: "Luz", LastName: "Ortega",
			Nationality: "MX", DateOfBirth: time.Date(1995, 7, 21, 0, 0, 0, 0, time.UTC),
			PhoneNumber: "+52 55 5555 0199",
		},
	}
}
