package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"novastay/internal/domain"
	"novastay/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Occupancy(ctx context.Context, day time.Time) (*repository.OccupancyRow, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.OccupancyRow), args.Error(1)
}

func (m *MockSource) Revenue(ctx context.Context, from, to time.Time) (*repository.RevenueRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.RevenueRow), args.Error(1)
}

func day(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOccupancy(t *testing.T) {
	src := new(MockSource)
	src.On("Occupancy", mock.Anything, day(4, 5)).Return(&repository.OccupancyRow{
		RoomsByStatus: map[domain.RoomStatus]int64{domain.RoomAvailable: 2, domain.RoomUnderMaintenance: 1},
		TotalRooms:    3,
		BookedRooms:   2,
		CheckedIn:     1,
	}, nil)

	rep, err := NewService(src).Occupancy(context.Background(), time.Date(2026, 4, 5, 18, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2026-04-05", rep.Date)
	assert.Equal(t, 66.7, rep.OccupancyRate)
	assert.EqualValues(t, 1, rep.RoomsByStatus[domain.RoomUnderMaintenance])
}

func TestOccupancy_NoRooms(t *testing.T) {
	src := new(MockSource)
	src.On("Occupancy", mock.Anything, day(4, 5)).Return(&repository.OccupancyRow{RoomsByStatus: map[domain.RoomStatus]int64{}}, nil)

	rep, err := NewService(src).Occupancy(context.Background(), day(4, 5))
	require.NoError(t, err)
	assert.Zero(t, rep.OccupancyRate)
}

func TestOccupancy_SourceError(t *testing.T) {
	src := new(MockSource)
	src.On("Occupancy", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := NewService(src).Occupancy(context.Background(), day(4, 5))
	assert.Error(t, err)
}

func TestRevenue(t *testing.T) {
	src := new(MockSource)
	src.On("Revenue", mock.Anything, day(4, 1), day(5, 1)).Return(&repository.RevenueRow{
		Reservations: 2, BaseUSD: 500, FinalUSD: 455, PaidUSD: 255,
	}, nil)

	rep, err := NewService(src).Revenue(context.Background(), day(4, 1), day(5, 1))
	require.NoError(t, err)
	assert.Equal(t, 45.0, rep.DiscountUSD)
	assert.Equal(t, 200.0, rep.OutstandingUSD)
}

func TestRevenue_SingleDay(t *testing.T) {
	src := new(MockSource)
	src.On("Revenue", mock.Anything, day(4, 30), day(4, 30)).Return(&repository.RevenueRow{
		Reservations: 1, BaseUSD: 200, FinalUSD: 200,
	}, nil)

	rep, err := NewService(src).Revenue(context.Background(), day(4, 30), day(4, 30))
	require.NoError(t, err)
	assert.Equal(t, "2026-04-30", rep.From)
	assert.Equal(t, "2026-04-30", rep.To)
	assert.EqualValues(t, 1, rep.Reservations)
	src.AssertExpectations(t)
}

func TestRevenue_InvalidRange(t *testing.T) {
	s := NewService(new(MockSource))

	_, err := s.Revenue(context.Background(), day(5, 1), day(4, 1))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = s.Revenue(context.Background(), day(1, 1), day(1, 1).AddDate(2, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidRange)
}
