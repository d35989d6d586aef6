package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateValidate(t *testing.T) {
	subject := "Your roofing quote"

	t.Run("valid email template passes", func(t *testing.T) {
		tmpl := &Template{Name: "Quote", Channel: ChannelEmail, Subject: &subject, Body: "Hi {{first_name}}"}
		require.NoError(t, tmpl.Validate())
	})

	t.Run("sms needs no subject", func(t *testing.T) {
		tmpl := &Template{Name: "Quote SMS", Channel: ChannelSMS, Body: "Hi {{first_name}}"}
		require.NoError(t, tmpl.Validate())
	})

	t.Run("email without subject fails", func(t *testing.T) {
		tmpl := &Template{Name: "Quote", Channel: ChannelEmail, Body: "Hi"}
		require.Error(t, tmpl.Validate())
	})

	t.Run("invalid channel fails", func(t *testing.T) {
		tmpl := &Template{Name: "Quote", Channel: Channel("carrier_pigeon"), Body: "Hi"}
		require.Error(t, tmpl.Validate())
	})

	t.Run("empty body fails", func(t *testing.T) {
		tmpl := &Template{Name: "Quote", Channel: ChannelSMS}
		require.Error(t, tmpl.Validate())
	})

	t.Run("missing name fails", func(t *testing.T) {
		tmpl := &Template{Channel: ChannelSMS, Body: "Hi"}
		require.Error(t, tmpl.Validate())
	})
}

func TestTemplateSubjectText(t *testing.T) {
	subject := "Hello"
	assert.Equal(t, "Hello", (&Template{Subject: &subject}).SubjectText())
	assert.Equal(t, "", (&Template{}).SubjectText())
}
