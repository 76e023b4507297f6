package notification

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"strings"
	"sync"
	"testing"

	"github.com/rizia-events/rizia-backend/config"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Email
}

func (m *recordingMailer) Send(_ context.Context, msg Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func TestRender(t *testing.T) {
	ev := Event{
		Type:      TypeBookingCreated,
		RecordID:  "bkg_1",
		Recipient: "jane@example.com",
		Name:      "Jane",
		Data: map[string]string{
			"eventName":     "Jazz Night",
			"ticketCount":   "2",
			"totalAmount":   "₹1050",
			"paymentMethod": "upi",
		},
	}
	msg, ok := Render(ev)
	require.True(t, ok)
	assert.Equal(t, []string{"jane@example.com"}, msg.To)
	assert.Equal(t, "Booking confirmed: Jazz Night", msg.Subject)
	assert.Contains(t, msg.Body, "Hello Jane")
	assert.Contains(t, msg.Body, "Booking ID: bkg_1")
	assert.Contains(t, msg.Body, "Total: ₹1050")

	msg, ok = Render(Event{
		Type:      TypeSubmissionStatusUpdated,
		Recipient: "jane@example.com",
		Data:      map[string]string{"title": "My Film", "status": "Accepted"},
	})
	require.True(t, ok)
	assert.Contains(t, msg.Body, "Hello there")
	assert.Contains(t, msg.Body, `"My Film" is now Accepted`)

	_, ok = Render(Event{Type: TypeBookingCreated})
	assert.False(t, ok, "no recipient")

	_, ok = Render(Event{Type: "user.deleted", Recipient: "x@example.com"})
	assert.False(t, ok, "unknown type")
}

type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
	closed    bool
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func TestConsumer_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	good, err := json.Marshal(Event{
		Type:      TypeBookingStatusUpdated,
		RecordID:  "bkg_9",
		Recipient: "jane@example.com",
		Data:      map[string]string{"eventName": "Jazz", "status": "Cancelled"},
	})
	require.NoError(t, err)

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafka.Message{
			{Offset: 1, Value: []byte("not json")},
			{Offset: 2, Value: good},
			{Offset: 3, Value: []byte(`{"type":"booking.created","recordId":"bkg_10","recipient":"x@example.com"}`)},
		},
	}

	var handled []string
	c := &Consumer{
		reader: reader,
		handler: HandlerFunc(func(_ context.Context, ev Event) error {
			handled = append(handled, ev.RecordID)
			if ev.RecordID == "bkg_10" {
				return errors.New("smtp down")
			}
			return nil
		}),
	}

	require.NoError(t, c.Run(ctx))
	assert.Equal(t, []string{"bkg_9", "bkg_10"}, handled)
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
	assert.True(t, reader.closed)
}

func TestEmailHandler(t *testing.T) {
	m := &recordingMailer{}
	h := NewEmailHandler(m)

	require.NoError(t, h.Handle(context.Background(), Event{Type: "unknown", Recipient: "a@b.c"}))
	assert.Empty(t, m.sent)

	require.NoError(t, h.Handle(context.Background(), Event{
		Type:      TypeBookingStatusUpdated,
		RecordID:  "bkg_1",
		Recipient: "a@b.c",
		Data:      map[string]string{"eventName": "Jazz", "status": "Confirmed"},
	}))
	require.Len(t, m.sent, 1)
	assert.Equal(t, "Booking confirmed: Jazz", m.sent[0].Subject)
}

func TestNewPublisher_NopWithoutBrokers(t *testing.T) {
	p := NewPublisher(nil, "rizia.events")
	_, ok := p.(NopPublisher)
	require.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), Event{Type: TypeBookingCreated}))
	assert.NoError(t, p.Close())

	_, ok = NewPublisher([]string{"localhost:9092"}, "rizia.events").(*KafkaPublisher)
	assert.True(t, ok)
}

func TestSMTPMailer(t *testing.T) {
	m := NewSMTPMailer(&config.Config{SMTPPort: "587", SMTPFromName: "Rizia Events", SMTPUsername: "bot@rizia.com"})
	assert.False(t, m.Configured())
	assert.NoError(t, m.Send(context.Background(), Email{To: []string{"a@b.c"}, Subject: "hi"}))
	assert.Equal(t, "bot@rizia.com", m.FromAddr)

	raw := string(m.build(Email{To: []string{"a@b.c", "d@e.f"}, Subject: "Hello", Body: "Body text"}))
	assert.True(t, strings.HasPrefix(raw, "From: Rizia Events <bot@rizia.com>\r\n"))
	assert.Contains(t, raw, "To: a@b.c, d@e.f\r\n")
	assert.Contains(t, raw, "Subject: Hello\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nBody text"))
}

func TestBuild_HeadersStaySingleLine(t *testing.T) {
	m := NewSMTPMailer(&config.Config{SMTPFromName: "Rizia Events", SMTPUsername: "bot@rizia.com"})

	msg, ok := Render(Event{
		Type:      TypeBookingCreated,
		RecordID:  "bkg_1",
		Recipient: "jane@example.com",
		Data:      map[string]string{"eventName": "Indie Night\r\nBcc: victim@example.com\r\nX-Injected: yes"},
	})
	require.True(t, ok)
	assert.NotContains(t, msg.Subject, "\n")

	raw := string(m.build(msg))
	headers, _, found := strings.Cut(raw, "\r\n\r\n")
	require.True(t, found)
	for _, line := range strings.Split(headers, "\r\n") {
		assert.False(t, strings.HasPrefix(line, "Bcc:"), line)
		assert.False(t, strings.HasPrefix(line, "X-Injected:"), line)
	}
	assert.Len(t, strings.Split(headers, "\r\n"), 5)

	raw = string(m.build(Email{To: []string{"a@b.c"}, Subject: "Booking confirmed: ₹499 Gala", Body: "x"}))
	subject := strings.SplitN(strings.SplitN(raw, "Subject: ", 2)[1], "\r\n", 2)[0]
	assert.True(t, strings.HasPrefix(subject, "=?utf-8?q?"), subject)
	decoded, err := new(mime.WordDecoder).DecodeHeader(subject)
	require.NoError(t, err)
	assert.Equal(t, "Booking confirmed: ₹499 Gala", decoded)
}
