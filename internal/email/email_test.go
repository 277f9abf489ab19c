package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplateManager_RendersBuiltins(t *testing.T) {
	tm, err := NewDefaultTemplateManager()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		TemplateVerification, TemplatePasswordReset,
		TemplateRegistrationReceived, TemplatePaymentStatusChanged,
	}, tm.TemplateNames())

	html, err := tm.Render(TemplateVerification, TemplateData{
		"Name": "<Ann>",
		"Link": "https://sg44.example/verify?token=abc",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "https://sg44.example/verify?token=abc")
	assert.Contains(t, html, "&lt;Ann&gt;")

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
}

func TestMemoryProvider_CapturesTemplatedMail(t *testing.T) {
	tm, err := NewDefaultTemplateManager()
	require.NoError(t, err)
	p := NewMemoryProvider(tm)

	err = p.SendWithTemplate(TemplatePaymentStatusChanged, TemplateData{
		"Name": "Ann", "Status": "paid", "StatusLabel": "已付款", "Link": "x",
	}, &Email{To: []string{"ann@example.com"}, Subject: "status"})
	require.NoError(t, err)

	last, ok := p.Last("ann@example.com")
	require.True(t, ok)
	assert.Equal(t, "status", last.Subject)
	assert.Contains(t, last.HTMLBody, "paid")
	assert.Len(t, p.Sent(), 1)
}

func TestGomailProvider_ValidateRequiresHost(t *testing.T) {
	p := NewGomailProvider(&SMTPConfig{Port: 587}, NewTemplateManager())
	assert.Error(t, p.Validate())

	p = NewGomailProvider(&SMTPConfig{Host: "smtp.example.com", Port: 587, FromEmail: "noreply@example.com"}, NewTemplateManager())
	assert.NoError(t, p.Validate())
	msg := p.buildMessage(&Email{To: []string{"a@example.com"}, Subject: "s", Body: "b"})
	assert.Equal(t, []string{"s"}, msg.GetHeader("Subject"))
}
