package email

// Email is one outgoing message. Body is plain text; HTMLBody, when set, is
// sent as the alternative part.
type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData is passed to the HTML templates.
type TemplateData map[string]interface{}
