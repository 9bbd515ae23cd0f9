package email

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/studyforge/studyforge/internal/domain/account"
	"github.com/studyforge/studyforge/internal/domain/plan"
	"github.com/studyforge/studyforge/internal/shared/logger"
)

type chanSender struct {
	sent chan *gomail.Message
	err  error
}

func (s *chanSender) DialAndSend(m ...*gomail.Message) error {
	for _, msg := range m {
		s.sent <- msg
	}
	return s.err
}

func newNotifier(sender Sender) *TransitionNotifier {
	return NewTransitionNotifierWithSender(sender, "noreply@studyforge.test", "StudyForge", plan.DefaultCatalog(), logger.NewNopLogger())
}

func expiryTransition() account.Transition {
	return account.Transition{
		AccountID:  "acc_0123456789abcdef",
		Email:      "ana@example.com",
		FromTier:   plan.TierPremium,
		FromStatus: account.StatusActive,
		ToTier:     plan.TierFree,
		ToStatus:   account.StatusInactive,
		Trigger:    account.TriggerExpiry,
		At:         time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestTransitionNotifier_SendsExpiryMail(t *testing.T) {
	sender := &chanSender{sent: make(chan *gomail.Message, 1)}
	newNotifier(sender).Record(context.Background(), expiryTransition())

	select {
	case msg := <-sender.sent:
		assert.Equal(t, []string{"ana@example.com"}, msg.GetHeader("To"))
		assert.Equal(t, []string{"Your premium plan has ended"}, msg.GetHeader("Subject"))

		var buf bytes.Buffer
		_, err := msg.WriteTo(&buf)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "allows 5 generation requests")
	case <-time.After(time.Second):
		t.Fatal("no mail sent")
	}
}

func TestTransitionNotifier_SkipsUnchangedAndAddressless(t *testing.T) {
	sender := &chanSender{sent: make(chan *gomail.Message, 2)}
	n := newNotifier(sender)

	noop := expiryTransition()
	noop.Trigger = account.TriggerDowngrade
	noop.FromTier, noop.FromStatus = plan.TierFree, account.StatusInactive
	n.Record(context.Background(), noop)

	anon := expiryTransition()
	anon.Email = ""
	n.Record(context.Background(), anon)

	select {
	case <-sender.sent:
		t.Fatal("unexpected mail")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTransitionNotifier_SendError(t *testing.T) {
	sender := &chanSender{sent: make(chan *gomail.Message, 1), err: errors.New("smtp down")}
	err := newNotifier(sender).send(expiryTransition())
	assert.ErrorContains(t, err, "smtp down")
}
