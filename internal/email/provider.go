package email

// Provider delivers email.
type Provider interface {
	Send(email *Email) error

	// SendWithTemplate renders templateName into email.HTMLBody and sends it.
	SendWithTemplate(templateName string, data TemplateData, email *Email) error

	Validate() error
	Close() error
}

// TemplateRenderer renders named templates.
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
}
