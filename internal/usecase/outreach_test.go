package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

// recordingSender stores every message with the time it was handed over.
type recordingSender struct {
	mu    sync.Mutex
	sent  []entity.Message
	times []time.Time
	fail  map[string]error
}

func (s *recordingSender) Send(ctx context.Context, msg entity.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	s.times = append(s.times, time.Now())
	return s.fail[msg.To]
}

func recipients(emails ...string) []entity.Recipient {
	out := make([]entity.Recipient, 0, len(emails))
	for _, e := range emails {
		out = append(out, entity.Recipient{Email: e, Name: "Sam", Company: "Acme"})
	}
	return out
}

func TestOutreachRenderFillsPlaceholders(t *testing.T) {
	d := NewOutreachDispatcher(nil, "Northwind Studio", "Rita", discardLogger())

	msg, err := d.Render(TemplateIntroduction, entity.Recipient{Email: "sam@acme.io", Name: "Sam", Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "sam@acme.io", msg.To)
	assert.Contains(t, msg.Subject, "Acme")
	assert.Contains(t, msg.Body, "Hi Sam,")
	assert.Contains(t, msg.Body, "Northwind Studio")

	msg, err = d.Render(TemplateFollowUp1, entity.Recipient{Email: "x@y.io"})
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "Hi there,")
	assert.Contains(t, msg.Subject, "your company")
}

func TestOutreachRenderEscapesBody(t *testing.T) {
	d := NewOutreachDispatcher(nil, "Agency", "Rita", discardLogger())

	msg, err := d.Render(TemplateFollowUp2, entity.Recipient{Email: "x@y.io", Name: "<script>"})
	require.NoError(t, err)
	assert.NotContains(t, msg.Body, "<script>")
}

func TestOutreachTemplateNames(t *testing.T) {
	assert.Equal(t, []string{"followUp1", "followUp2", "introduction"}, OutreachTemplateNames())
}

func TestSendOne(t *testing.T) {
	sender := new(MockMessageSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(m entity.Message) bool {
		return m.To == "sam@acme.io" && m.Subject != "" && m.Body != ""
	})).Return(nil).Once()

	d := NewOutreachDispatcher(sender, "Agency", "Rita", discardLogger())
	res, err := d.SendOne(context.Background(), TemplateIntroduction, entity.Recipient{Email: "sam@acme.io"})
	require.NoError(t, err)
	assert.Equal(t, entity.OutreachResult{Email: "sam@acme.io", Success: true}, res)
	sender.AssertExpectations(t)
}

func TestSendOneReportsDeliveryFailure(t *testing.T) {
	sender := new(MockMessageSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp: 421 try later"))

	d := NewOutreachDispatcher(sender, "Agency", "Rita", discardLogger())
	res, err := d.SendOne(context.Background(), TemplateIntroduction, entity.Recipient{Email: "sam@acme.io"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "421")
}

func TestSendOneRejectsBadInput(t *testing.T) {
	sender := new(MockMessageSender)
	d := NewOutreachDispatcher(sender, "Agency", "Rita", discardLogger())

	_, err := d.SendOne(context.Background(), "coldCall", entity.Recipient{Email: "sam@acme.io"})
	assert.ErrorIs(t, err, entity.ErrInvalidTemplate)

	_, err = d.SendOne(context.Background(), TemplateIntroduction, entity.Recipient{Email: "sam"})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendBulkUnknownTemplateSendsNothing(t *testing.T) {
	sender := new(MockMessageSender)
	d := NewOutreachDispatcher(sender, "Agency", "Rita", discardLogger())

	results, err := d.SendBulk(context.Background(), recipients("a@x.io", "b@x.io"), "followUp3", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrInvalidTemplate)
	assert.Nil(t, results)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendBulkKeepsOrderAndIsolatesFailures(t *testing.T) {
	sender := &recordingSender{fail: map[string]error{"b@x.io": errors.New("mailbox unavailable")}}
	d := NewOutreachDispatcher(sender, "Agency", "Rita", discardLogger())

	results, err := d.SendBulk(context.Background(), recipients("a@x.io", "b@x.io", "c@x.io"), TemplateFollowUp1, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, entity.OutreachResult{Email: "a@x.io", Success: true}, results[0])
	assert.Equal(t, "b@x.io", results[1].Email)
	assert.False(t, results[1].Success)
	assert.Equal(t, "mailbox unavailable", results[1].Error)
	assert.Equal(t, entity.OutreachResult{Email: "c@x.io", Success: true}, results[2])

	require.Len(t, sender.sent, 3)
	assert.Equal(t, "c@x.io", sender.sent[2].To)
	assert.Equal(t, 2, CountSent(results))
}

func TestSendBulkInvalidRecipientDoesNotStopBatch(t *testing.T) {
	sender := &recordingSender{}
	d := NewOutreachDispatcher(sender, "Agency", "Rita", discardLogger())

	results, err := d.SendBulk(context.Background(), recipients("a@x.io", "broken", "c@x.io"), TemplateIntroduction, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.False(t, results[1].Success)
	assert.Equal(t, "invalid email address", results[1].Error)
	assert.Len(t, sender.sent, 2)
}

func TestSendBulkWaitsBetweenRecipients(t *testing.T) {
	sender := &recordingSender{}
	d := NewOutreachDispatcher(sender, "Agency", "Rita", discardLogger())
	const delay = 100 * time.Millisecond

	start := time.Now()
	results, err := d.SendBulk(context.Background(), recipients("a@x.io", "b@x.io", "c@x.io"), TemplateIntroduction, delay)
	elapsed := time.Since(start)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	assert.GreaterOrEqual(t, elapsed, 2*delay)
	assert.Less(t, elapsed, 2*time.Second)

	require.Len(t, sender.times, 3)
	for i := 1; i < 3; i++ {
		gap := sender.times[i].Sub(sender.times[i-1])
		assert.GreaterOrEqual(t, gap, delay)
		assert.Less(t, gap, 2*delay, "one pause per gap")
	}
	assert.Less(t, start.Add(elapsed).Sub(sender.times[2]), delay, "no pause after the last recipient")
}

func TestSendBulkCancelled(t *testing.T) {
	sender := &recordingSender{}
	d := NewOutreachDispatcher(sender, "Agency", "Rita", discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	results, err := d.SendBulk(ctx, recipients("a@x.io", "b@x.io", "c@x.io"), TemplateIntroduction, time.Second)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	for _, r := range results[1:] {
		assert.False(t, r.Success)
		assert.Equal(t, "not sent: batch cancelled", r.Error)
	}
	assert.Len(t, sender.sent, 1)
}

func TestSendBulkRejectsEmptyOrNegative(t *testing.T) {
	d := NewOutreachDispatcher(&recordingSender{}, "Agency", "Rita", discardLogger())

	_, err := d.SendBulk(context.Background(), nil, TemplateIntroduction, 0)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = d.SendBulk(context.Background(), recipients("a@x.io"), TemplateIntroduction, -time.Second)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}
