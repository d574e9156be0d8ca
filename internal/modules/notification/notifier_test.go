package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"novastay/internal/config"
	"novastay/internal/domain"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type MockEmailClient struct {
	mock.Mock
}

func (m *MockEmailClient) Send(email *mail.SGMailV3) (*rest.Response, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rest.Response), args.Error(1)
}

type MockSMSClient struct {
	mock.Mock
}

func (m *MockSMSClient) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openapi.ApiV2010Message), args.Error(1)
}

func testReservation(email *string) *domain.Reservation {
	return &domain.Reservation{
		ID:                  1,
		ConfirmationCode:    "NS-AB12CD34",
		CheckInBookingDate:  time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		CheckOutBookingDate: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		FinalAmountUSD:      255,
		Guest: &domain.Guest{
			FirstName:    "Rami",
			MiddleName:   "Fouad",
			LastName:     "Haddad",
			PhoneNumber:  "+96170123456",
			EmailAddress: email,
		},
		Room: &domain.Room{Number: 101, FloorNumber: 1},
	}
}

func TestNotify_SendsEmailAndSMS(t *testing.T) {
	emailClient := new(MockEmailClient)
	smsClient := new(MockSMSClient)
	addr := "rami@example.com"

	emailClient.On("Send", mock.MatchedBy(func(m *mail.SGMailV3) bool {
		return m.Subject == "Your NovaStay reservation NS-AB12CD34 is confirmed" &&
			m.Personalizations[0].To[0].Address == addr
	})).Return(&rest.Response{StatusCode: 202}, nil)

	sid := "SM123"
	smsClient.On("CreateMessage", mock.MatchedBy(func(p *openapi.CreateMessageParams) bool {
		return *p.To == "+96170123456" && *p.From == "+15550001111" &&
			strings.Contains(*p.Body, "confirmed. Room 101, 2026-05-01 to 2026-05-04, 255.00 USD")
	})).Return(&openapi.ApiV2010Message{Sid: &sid}, nil)

	s := NewService(emailClient, "desk@novastay.example", "NovaStay", smsClient, "+15550001111")
	s.Notify(context.Background(), KindConfirmed, testReservation(&addr))
	s.Wait()

	emailClient.AssertExpectations(t)
	smsClient.AssertExpectations(t)
}

func TestNotify_SkipsEmailWithoutAddress(t *testing.T) {
	emailClient := new(MockEmailClient)
	smsClient := new(MockSMSClient)
	smsClient.On("CreateMessage", mock.Anything).Return(nil, errors.New("twilio down"))

	s := NewService(emailClient, "desk@novastay.example", "NovaStay", smsClient, "+15550001111")
	s.Notify(context.Background(), KindCanceled, testReservation(nil))
	s.Wait()

	emailClient.AssertNotCalled(t, "Send", mock.Anything)
	smsClient.AssertExpectations(t)
}

func TestNotify_MissingAssociations(t *testing.T) {
	smsClient := new(MockSMSClient)
	s := NewService(nil, "", "", smsClient, "+1")

	r := testReservation(nil)
	r.Room = nil
	s.Notify(context.Background(), KindConfirmed, r)
	s.Wait()

	smsClient.AssertNotCalled(t, "CreateMessage", mock.Anything)
}

func TestRender_Canceled(t *testing.T) {
	msg, err := render(KindCanceled, testReservation(nil))
	assert.NoError(t, err)
	assert.Contains(t, msg.Subject, "was canceled")
	assert.Contains(t, msg.Text, "Dear Rami Fouad Haddad")
	assert.Contains(t, msg.Text, "(3 nights)")
	assert.Contains(t, msg.HTML, "<b>NS-AB12CD34</b> has been canceled")
	assert.Contains(t, msg.SMS, "canceled")
}

func TestNew_NoopWhenUnconfigured(t *testing.T) {
	n := New(config.SendGridConfig{}, config.TwilioConfig{})
	_, ok := n.(Noop)
	assert.True(t, ok)
}
