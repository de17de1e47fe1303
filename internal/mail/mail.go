package mail

import (
	"strings"

	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

// Config table keys for the sender identity.
const (
	ConfigSenderEmail = "SENDER_EMAIL"
	ConfigSenderName  = "SENDER_NAME"
)

// EmailJob is one queued delivery. Params maps merge tags to their
// replacement values, e.g. {"{activation_link}": "https://..."}.
type EmailJob struct {
	KeyName string
	ToName  string
	ToEmail string
	Params  map[string]string

	attempt int
}

// RepositoryAPI defines the data access the dispatcher needs: stored email
// templates and sender configuration.
type RepositoryAPI interface {
	GetEmailTemplate(keyName string) (*datamodel.EmailTemplate, error)
	// GetConfigValue returns the configured value, or "" when the key is
	// not set.
	GetConfigValue(keyName string) (string, error)
}

// Sender delivers one rendered message.
type Sender interface {
	Send(fromName, fromEmail, toName, toEmail, subject, htmlBody string) error
}

// RenderMergeTags substitutes every occurrence of each tag with its value.
// Tags are plain substrings, no templating language involved.
func RenderMergeTags(text string, params map[string]string) string {
	for tag, value := range params {
		text = strings.ReplaceAll(text, tag, value)
	}
	return text
}
