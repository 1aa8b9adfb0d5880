package queue

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent    []string // recipients in send order
	failFor string   // recipient whose Send fails
}

func (f *fakeSender) Send(to, subject, htmlBody string) error {
	f.sent = append(f.sent, to)
	if to == f.failFor {
		return errors.New("smtp down")
	}
	return nil
}

func okRenderer() Renderer {
	render := func(ev BookingCreatedEvent) (string, string, error) {
		return "subject " + ev.Reference, "<html>body</html>", nil
	}
	return Renderer{RenderGuest: render, RenderOwner: render}
}

func eventBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(BookingCreatedEvent{
		BookingID:  1,
		Reference:  "ref-1",
		GuestEmail: "guest@example.com",
		OwnerEmail: "owner@example.com",
	})
	require.NoError(t, err)
	return body
}

func TestHandleBookingMessageSendsBothEmails(t *testing.T) {
	s := &fakeSender{}
	err := HandleBookingMessage(eventBody(t), s, okRenderer())
	require.NoError(t, err)
	assert.Equal(t, []string{"guest@example.com", "owner@example.com"}, s.sent)
}

func TestHandleBookingMessageRejectsBadJSON(t *testing.T) {
	s := &fakeSender{}
	err := HandleBookingMessage([]byte("{not json"), s, okRenderer())
	assert.Error(t, err)
	assert.Empty(t, s.sent)
}

func TestHandleBookingMessageGuestFailureStillNotifiesOwner(t *testing.T) {
	s := &fakeSender{failFor: "guest@example.com"}
	err := HandleBookingMessage(eventBody(t), s, okRenderer())
	assert.Error(t, err)
	assert.Equal(t, []string{"guest@example.com", "owner@example.com"}, s.sent)
}

func TestHandleBookingMessageRenderFailure(t *testing.T) {
	s := &fakeSender{}
	r := okRenderer()
	r.RenderGuest = func(BookingCreatedEvent) (string, string, error) {
		return "", "", errors.New("template broken")
	}
	err := HandleBookingMessage(eventBody(t), s, r)
	assert.Error(t, err)
	// owner email still goes out
	assert.Equal(t, []string{"owner@example.com"}, s.sent)
}
