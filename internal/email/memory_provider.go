package email

import (
	"fmt"
	"strings"
	"sync"

	"sg44_backend/internal/logger"
)

// MemoryProvider keeps messages in memory and logs them instead of sending.
// It is used when no SMTP host is configured and in tests.
type MemoryProvider struct {
	renderer TemplateRenderer

	mu   sync.Mutex
	sent []Email
}

func NewMemoryProvider(renderer TemplateRenderer) *MemoryProvider {
	return &MemoryProvider{renderer: renderer}
}

func (p *MemoryProvider) Send(email *Email) error {
	p.mu.Lock()
	p.sent = append(p.sent, *email)
	p.mu.Unlock()

	logger.Info("email captured (smtp disabled)",
		"to", strings.Join(email.To, ","),
		"subject", email.Subject,
	)
	return nil
}

func (p *MemoryProvider) SendWithTemplate(templateName string, data TemplateData, email *Email) error {
	if p.renderer != nil {
		html, err := p.renderer.Render(templateName, data)
		if err != nil {
			return fmt.Errorf("failed to render template %s: %w", templateName, err)
		}
		email.HTMLBody = html
	}
	return p.Send(email)
}

// Sent returns a copy of every captured message.
func (p *MemoryProvider) Sent() []Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Email, len(p.sent))
	copy(out, p.sent)
	return out
}

// Last returns the most recent message sent to addr.
func (p *MemoryProvider) Last(addr string) (Email, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.sent) - 1; i >= 0; i-- {
		for _, to := range p.sent[i].To {
			if to == addr {
				return p.sent[i], true
			}
		}
	}
	return Email{}, false
}

func (p *MemoryProvider) Validate() error { return nil }
func (p *MemoryProvider) Close() error    { return nil }
