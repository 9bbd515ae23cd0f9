// Package email mails account holders when their subscription changes.
package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/studyforge/studyforge/internal/domain/account"
	"github.com/studyforge/studyforge/internal/domain/plan"
	"github.com/studyforge/studyforge/internal/shared/config"
	"github.com/studyforge/studyforge/internal/shared/goroutine"
	"github.com/studyforge/studyforge/internal/shared/logger"
)

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// TransitionNotifier implements account.TransitionRecorder. Mail goes out on
// its own goroutine so a slow SMTP server never holds up a request.
type TransitionNotifier struct {
	sender   Sender
	from     string
	fromName string
	catalog  *plan.Catalog
	logger   logger.Interface
}

var _ account.TransitionRecorder = (*TransitionNotifier)(nil)

func NewTransitionNotifier(cfg *config.EmailConfig, catalog *plan.Catalog, log logger.Interface) *TransitionNotifier {
	return NewTransitionNotifierWithSender(
		gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		cfg.FromAddress, cfg.FromName, catalog, log)
}

func NewTransitionNotifierWithSender(sender Sender, from, fromName string, catalog *plan.Catalog, log logger.Interface) *TransitionNotifier {
	return &TransitionNotifier{
		sender:   sender,
		from:     from,
		fromName: fromName,
		catalog:  catalog,
		logger:   log.Named("email.transition"),
	}
}

func (n *TransitionNotifier) Record(_ context.Context, t account.Transition) {
	if t.Email == "" || !t.Changed() {
		return
	}
	goroutine.SafeGo(n.logger, "transition-mail", func() {
		if err := n.send(t); err != nil {
			n.logger.Warnw("failed to send transition email",
				"account_id", t.AccountID,
				"trigger", t.Trigger,
				"error", err)
		}
	})
}

func (n *TransitionNotifier) send(t account.Transition) error {
	subject, plain := n.compose(t)

	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.from, n.fromName)
	m.SetHeader("To", t.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plain)
	m.AddAlternative("text/html", "<p>"+strings.ReplaceAll(plain, "\n", "<br>")+"</p>")

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (n *TransitionNotifier) compose(t account.Transition) (subject, body string) {
	when := t.At.UTC().Format(time.RFC1123)
	switch t.Trigger {
	case account.TriggerUpgrade:
		return "Your premium plan is active",
			fmt.Sprintf("Your account moved to the %s plan on %s.\nGeneration requests are now unlimited.", t.ToTier, when)
	case account.TriggerExpiry:
		return "Your premium plan has ended",
			fmt.Sprintf("Your premium period ended and the account returned to the %s plan on %s.\n%s", t.ToTier, when, n.allowance(t.ToTier))
	default:
		return "Your plan has changed",
			fmt.Sprintf("Your account is now on the %s plan (since %s).\n%s", t.ToTier, when, n.allowance(t.ToTier))
	}
}

func (n *TransitionNotifier) allowance(tier plan.Tier) string {
	def, err := n.catalog.LimitsFor(tier)
	if err != nil || def.IsUnlimited() {
		return "Generation requests are unlimited."
	}
	return fmt.Sprintf("The plan allows %d generation requests.", def.RequestsAllowed)
}
