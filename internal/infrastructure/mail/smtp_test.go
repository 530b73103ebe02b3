package mail

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", 587, "user", "pass", "shop@example.com", "ArtisanMart")

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, m.Send(context.Background(), "buyer@example.com", "Your receipt", "Thanks"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "shop@example.com", gotFrom)
	assert.Equal(t, []string{"buyer@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Your receipt\r\n")
	assert.Contains(t, string(gotMsg), "From: ArtisanMart <shop@example.com>")
}

func TestSMTPMailer_RequiresRecipient(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", 587, "", "", "shop@example.com", "ArtisanMart")
	assert.Error(t, m.Send(context.Background(), "", "s", "b"))
}
