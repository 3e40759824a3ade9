package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Welcome(t *testing.T) {
	data := NewWelcomeData("Nisum", "user-registration", "Ana <b>", "ana@x.com",
		WithCreated("2026-10-15"), WithPhoneCount(2))

	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)

	assert.Equal(t, "Welcome to Nisum, Ana <b>", subject)
	assert.Contains(t, text, "ana@x.com was registered on 2026-10-15 with 2 phone number(s)")
	assert.Contains(t, html, "Ana &lt;b&gt;")
	assert.Contains(t, html, "Phone numbers on file: 2")
}

func TestRender_DefaultsAndMissingTemplate(t *testing.T) {
	subject, text, _, err := Render(Welcome, NewWelcomeData("", "app", "", "x@y.com"))
	require.NoError(t, err)
	assert.Equal(t, "Welcome to us,", subject)
	assert.Contains(t, text, "Hi there,")
	assert.NotContains(t, text, "phone number")
	assert.Contains(t, text, "app")

	_, _, _, err = Render("nope", nil)
	assert.Error(t, err)
}

func TestNewBaseEmailData(t *testing.T) {
	d := NewBaseEmailData("Nisum", "app", Welcome, "Ana", "ana@x.com", WithCreated("2026-10-15"))
	assert.Equal(t, "ana@x.com", d.RecipientEmail)
	assert.Equal(t, "welcome", d.Type)
	assert.Equal(t, "2026-10-15", d.Created)
}
