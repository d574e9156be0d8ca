package notification

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"log"
	"strings"
	"sync"
	"text/template"

	"novastay/internal/config"
	"novastay/internal/domain"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type Kind string

const (
	KindConfirmed Kind = "confirmed"
	KindCanceled  Kind = "canceled"
)

// Notifier tells a guest about their reservation. Implementations must not
// fail the caller: delivery problems are logged.
type Notifier interface {
	Notify(ctx context.Context, kind Kind, r *domain.Reservation)
}

// Noop is used when no delivery channel is configured.
type Noop struct{}

func (Noop) Notify(context.Context, Kind, *domain.Reservation) {}

// EmailClient is the part of the SendGrid client we use.
type EmailClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// SMSClient is the part of the Twilio API service we use.
type SMSClient interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type Service struct {
	email      EmailClient
	from       *mail.Email
	sms        SMSClient
	fromNumber string
	wg         sync.WaitGroup
}

// New builds a notifier from config, or Noop when nothing is configured.
func New(sg config.SendGridConfig, tw config.TwilioConfig) Notifier {
	var (
		email EmailClient
		sms   SMSClient
	)
	if sg.Enabled() {
		email = sendgrid.NewSendClient(sg.APIKey)
	}
	if tw.Enabled() {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username:   tw.AccountSID,
			Password:   tw.AuthToken,
			AccountSid: tw.AccountSID,
		})
		sms = client.Api
	}
	if email == nil && sms == nil {
		log.Println("notifications disabled: neither SendGrid nor Twilio configured")
		return Noop{}
	}
	return NewService(email, sg.FromEmail, sg.FromName, sms, tw.FromNumber)
}

func NewService(email EmailClient, fromEmail, fromName string, sms SMSClient, fromNumber string) *Service {
	return &Service{
		email:      email,
		from:       mail.NewEmail(fromName, fromEmail),
		sms:        sms,
		fromNumber: fromNumber,
	}
}

// Notify sends in the background. r must have Guest and Room loaded.
func (s *Service) Notify(ctx context.Context, kind Kind, r *domain.Reservation) {
	if r == nil || r.Guest == nil || r.Room == nil {
		log.Printf("notify_skipped kind=%s reason=missing_guest_or_room", kind)
		return
	}
	msg, err := render(kind, r)
	if err != nil {
		log.Printf("notify_render_failed kind=%s reservation_id=%d err=%v", kind, r.ID, err)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.deliver(msg, r.Guest)
	}()
}

// Wait blocks until every pending delivery has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) deliver(msg *message, g *domain.Guest) {
	if s.email != nil && g.EmailAddress != nil {
		if err := s.sendEmail(msg, g); err != nil {
			log.Printf("notify_email_failed reservation=%s err=%v", msg.Code, err)
		}
	}
	if s.sms != nil && g.PhoneNumber != "" {
		if err := s.sendSMS(msg, g.PhoneNumber); err != nil {
			log.Printf("notify_sms_failed reservation=%s err=%v", msg.Code, err)
		}
	}
}

func (s *Service) sendEmail(msg *message, g *domain.Guest) error {
	to := mail.NewEmail(g.FullName(), *g.EmailAddress)
	resp, err := s.email.Send(mail.NewSingleEmail(s.from, msg.Subject, to, msg.Text, msg.HTML))
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	log.Printf("notify_email_sent reservation=%s status=%d", msg.Code, resp.StatusCode)
	return nil
}

func (s *Service) sendSMS(msg *message, to string) error {
	if !strings.HasPrefix(to, "+") {
		log.Printf("notify_sms_warning reservation=%s reason=number_not_e164", msg.Code)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.fromNumber)
	params.SetBody(msg.SMS)

	resp, err := s.sms.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("notify_sms_sent reservation=%s sid=%s", msg.Code, *resp.Sid)
	}
	return nil
}

type message struct {
	Code    string
	Subject string
	Text    string
	HTML    string
	SMS     string
}

type view struct {
	Code     string
	Guest    string
	Room     int
	Floor    int
	CheckIn  string
	CheckOut string
	Nights   int
	Total    string
}

var (
	textTmpl = template.Must(template.New("text").Parse(
		`Dear {{.V.Guest}},
{{if .Canceled}}
Your reservation {{.V.Code}} has been canceled.
{{else}}
Your reservation {{.V.Code}} is confirmed.
{{end}}
Room {{.V.Room}} (floor {{.V.Floor}})
Check-in:  {{.V.CheckIn}}
Check-out: {{.V.CheckOut}} ({{.V.Nights}} nights)
Total: {{.V.Total}} USD

NovaStay Hotel
`))

	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(
		`<p>Dear {{.V.Guest}},</p>
{{if .Canceled}}<p>Your reservation <b>{{.V.Code}}</b> has been canceled.</p>{{else}}<p>Your reservation <b>{{.V.Code}}</b> is confirmed.</p>{{end}}
<table>
<tr><td>Room</td><td>{{.V.Room}} (floor {{.V.Floor}})</td></tr>
<tr><td>Check-in</td><td>{{.V.CheckIn}}</td></tr>
<tr><td>Check-out</td><td>{{.V.CheckOut}} ({{.V.Nights}} nights)</td></tr>
<tr><td>Total</td><td>{{.V.Total}} USD</td></tr>
</table>
<p>NovaStay Hotel</p>
`))

	smsTmpl = template.Must(template.New("sms").Parse(
		`NovaStay: reservation {{.V.Code}} {{if .Canceled}}canceled{{else}}confirmed{{end}}. Room {{.V.Room}}, {{.V.CheckIn}} to {{.V.CheckOut}}, {{.V.Total}} USD.`))
)

func render(kind Kind, r *domain.Reservation) (*message, error) {
	data := struct {
		V        view
		Canceled bool
	}{
		V: view{
			Code:     r.ConfirmationCode,
			Guest:    r.Guest.FullName(),
			Room:     r.Room.Number,
			Floor:    r.Room.FloorNumber,
			CheckIn:  r.CheckInBookingDate.Format(domain.DateLayout),
			CheckOut: r.CheckOutBookingDate.Format(domain.DateLayout),
			Nights:   r.Nights(),
			Total:    fmt.Sprintf("%.2f", r.FinalAmountUSD),
		},
		Canceled: kind == KindCanceled,
	}

	msg := &message{Code: r.ConfirmationCode}
	if kind == KindCanceled {
		msg.Subject = "Your NovaStay reservation " + r.ConfirmationCode + " was canceled"
	} else {
		msg.Subject = "Your NovaStay reservation " + r.ConfirmationCode + " is confirmed"
	}

	var buf bytes.Buffer
	if err := textTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	msg.Text = buf.String()

	buf.Reset()
	if err := htmlTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	msg.HTML = buf.String()

	buf.Reset()
	if err := smsTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	msg.SMS = buf.String()

	return msg, nil
}
