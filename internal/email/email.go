package email

import (
	"fmt"
	"log"
	"time"

	"github.com/resend/resend-go/v2"
)

// Service sends transactional email through Resend. All sends are
// best-effort: a failed email must never roll back the transition that
// triggered it, so callers invoke these after their commit and we only
// log failures here.
type Service struct {
	client *resend.Client
	from   string
}

// New returns a Service. With an empty API key the service runs in
// log-only mode, which is what local development uses.
func New(apiKey, from string) *Service {
	s := &Service{from: from}
	if apiKey != "" {
		s.client = resend.NewClient(apiKey)
	}
	return s
}

func (s *Service) send(to, subject, html string) {
	if s.client == nil {
		// Log-only mode: print the email instead of sending it.
		log.Printf("[email] (log-only) To: %s | Subject: %s", to, subject)
		return
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	if _, err := s.client.Emails.Send(params); err != nil {
		log.Printf("[email] failed to send %q to %s: %v", subject, to, err)
	}
}

// SendRequestReceived confirms that a subscription or renewal request
// has entered the pending queue.
func (s *Service) SendRequestReceived(to, name string) {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>We received your payment receipt. An administrator will review it shortly and you will be notified of the decision.</p>",
		name,
	)
	s.send(to, "We received your subscription request", body)
}

// SendApproved tells the user their subscription is active and until when.
func (s *Service) SendApproved(to, name string, end time.Time) {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your subscription has been approved and is active until <strong>%s</strong>.</p>",
		name, end.Format("2 January 2006"),
	)
	s.send(to, "Your subscription is active", body)
}

// SendRejected tells the user their request was rejected.
func (s *Service) SendRejected(to, name string) {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Unfortunately your subscription request was rejected. Please check your payment receipt and submit a new request.</p>",
		name,
	)
	s.send(to, "Your subscription request was rejected", body)
}

// SendExpiringSoon is the daily digest for account holders whose own
// subscription or tracked members are inside the ending-soon window.
func (s *Service) SendExpiringSoon(to, name string, memberNames []string) {
	list := ""
	for _, m := range memberNames {
		list += fmt.Sprintf("<li>%s</li>", m)
	}
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>The following memberships expire within 7 days:</p><ul>%s</ul>",
		name, list,
	)
	s.send(to, "Memberships expiring soon", body)
}
