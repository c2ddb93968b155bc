package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec_test"

var completedPayload = []byte(`{
	"id": "evt_1",
	"type": "checkout.session.completed",
	"data": {
		"object": {
			"id": "cs_1",
			"payment_intent": "pi_1",
			"customer_email": "jury@example.com",
			"amount_total": 15000,
			"metadata": {"ticket_id": "tck_1"}
		}
	}
}`)

func TestConstructEvent(t *testing.T) {
	header := SignatureHeader(completedPayload, webhookSecret, time.Now().Unix())

	event, err := ConstructEvent(completedPayload, header, webhookSecret)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, EventCheckoutCompleted, event.Type)

	session, err := event.UnmarshalSession()
	require.NoError(t, err)
	assert.Equal(t, "cs_1", session.ID)
	assert.Equal(t, "pi_1", session.PaymentIntent)
	assert.Equal(t, int64(15000), session.AmountTotal)
	assert.Equal(t, "tck_1", session.Metadata["ticket_id"])
}

func TestConstructEventRejectsWrongDigest(t *testing.T) {
	now := time.Now()
	header := SignatureHeader(completedPayload, "whsec_other", now.Unix())

	_, err := constructEventAt(completedPayload, header, webhookSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventRejectsTamperedBody(t *testing.T) {
	now := time.Now()
	header := SignatureHeader(completedPayload, webhookSecret, now.Unix())
	tampered := append([]byte(nil), completedPayload...)
	tampered[len(tampered)-2] = ' '

	_, err := constructEventAt(tampered, header, webhookSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventRejectsStaleTimestamp(t *testing.T) {
	now := time.Now()
	stale := now.Add(-6 * time.Minute).Unix()
	header := SignatureHeader(completedPayload, webhookSecret, stale)

	_, err := constructEventAt(completedPayload, header, webhookSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// A correctly signed header inside the window still verifies.
	recent := now.Add(-4 * time.Minute).Unix()
	header = SignatureHeader(completedPayload, webhookSecret, recent)
	_, err = constructEventAt(completedPayload, header, webhookSecret, DefaultTolerance, now)
	assert.NoError(t, err)
}

func TestConstructEventRejectsFutureTimestamp(t *testing.T) {
	now := time.Now()
	future := now.Add(10 * time.Minute).Unix()
	header := SignatureHeader(completedPayload, webhookSecret, future)

	_, err := constructEventAt(completedPayload, header, webhookSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventMissingSecret(t *testing.T) {
	header := SignatureHeader(completedPayload, webhookSecret, time.Now().Unix())

	_, err := ConstructEvent(completedPayload, header, "")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestConstructEventMalformedHeader(t *testing.T) {
	now := time.Now()
	for _, header := range []string{
		"",
		"t=abc,v1=deadbeef",
		"t=" + "1700000000",
		"v1=deadbeef",
	} {
		_, err := constructEventAt(completedPayload, header, webhookSecret, DefaultTolerance, now)
		assert.ErrorIs(t, err, ErrInvalidSignature, "header %q", header)
	}
}

func TestConstructEventAcceptsSecondDigest(t *testing.T) {
	now := time.Now()
	valid := Sign(completedPayload, webhookSecret, now.Unix())
	header := SignatureHeader(completedPayload, "whsec_rotated", now.Unix()) + ",v1=" + valid

	event, err := constructEventAt(completedPayload, header, webhookSecret, DefaultTolerance, now)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
}
