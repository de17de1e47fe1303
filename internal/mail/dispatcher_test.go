package mail_test

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/core/datamodel"
	"github.com/pagecraft/pagecraft/internal/mail"
)

func TestMailDispatcher(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Mail Dispatcher Suite")
}

type mockMailRepository struct {
	templates map[string]*datamodel.EmailTemplate
	configs   map[string]string
}

func newMockMailRepository() *mockMailRepository {
	return &mockMailRepository{
		templates: make(map[string]*datamodel.EmailTemplate),
		configs: map[string]string{
			mail.ConfigSenderEmail: "noreply@pagecraft.example",
			mail.ConfigSenderName:  "PageCraft",
		},
	}
}

func (m *mockMailRepository) GetEmailTemplate(keyName string) (*datamodel.EmailTemplate, error) {
	tmpl, ok := m.templates[keyName]
	if !ok {
		return nil, internal.ErrEmailTemplateMissing
	}
	return tmpl, nil
}

func (m *mockMailRepository) GetConfigValue(keyName string) (string, error) {
	return m.configs[keyName], nil
}

type sentMessage struct {
	fromEmail string
	toEmail   string
	subject   string
	body      string
}

type mockSender struct {
	mu       sync.Mutex
	sent     []sentMessage
	failures int
}

func (m *mockSender) Send(fromName, fromEmail, toName, toEmail, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return errors.New("smtp connection refused")
	}
	m.sent = append(m.sent, sentMessage{
		fromEmail: fromEmail,
		toEmail:   toEmail,
		subject:   subject,
		body:      htmlBody,
	})
	return nil
}

func (m *mockSender) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *mockSender) lastSent() sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

var _ = Describe("RenderMergeTags", func() {
	It("replaces every occurrence of each tag", func() {
		out := mail.RenderMergeTags("Hi {name}, visit {link}. Again: {link}", map[string]string{
			"{name}": "Ada",
			"{link}": "https://example.com",
		})
		Expect(out).To(Equal("Hi Ada, visit https://example.com. Again: https://example.com"))
	})

	It("leaves unknown tags alone", func() {
		out := mail.RenderMergeTags("Hello {missing}", map[string]string{"{name}": "Ada"})
		Expect(out).To(Equal("Hello {missing}"))
	})
})

var _ = Describe("Dispatcher", func() {
	var (
		repo       *mockMailRepository
		sender     *mockSender
		dispatcher *mail.Dispatcher
	)

	newDispatcher := func() *mail.Dispatcher {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		return mail.NewDispatcher(mail.DispatcherConfig{
			MaxWorkers:   2,
			JobQueueSize: 10,
			MaxRetries:   3,
			RetryBackoff: 10 * time.Millisecond,
		}, repo, sender, logger)
	}

	BeforeEach(func() {
		repo = newMockMailRepository()
		sender = &mockSender{}
		repo.templates["welcome_email"] = &datamodel.EmailTemplate{
			KeyName:  "welcome_email",
			Title:    "Welcome {first_name}",
			Template: "<p>Hello {first_name}, activate here: {activation_link}</p>",
		}
		dispatcher = newDispatcher()
	})

	AfterEach(func() {
		dispatcher.Shutdown()
	})

	It("renders the template and delivers it", func() {
		dispatcher.Send("welcome_email", "Ada Lovelace", "ada@example.com", map[string]string{
			"{first_name}":      "Ada",
			"{activation_link}": "https://pagecraft.example/activation/tok",
		})

		Eventually(sender.sentCount, time.Second).Should(Equal(1))

		msg := sender.lastSent()
		Expect(msg.toEmail).To(Equal("ada@example.com"))
		Expect(msg.fromEmail).To(Equal("noreply@pagecraft.example"))
		Expect(msg.subject).To(Equal("Welcome Ada"))
		Expect(msg.body).To(ContainSubstring("https://pagecraft.example/activation/tok"))
		Expect(msg.body).NotTo(ContainSubstring("{first_name}"))
	})

	It("retries failed deliveries until one succeeds", func() {
		sender.failures = 2

		dispatcher.Send("welcome_email", "Ada", "ada@example.com", nil)

		Eventually(sender.sentCount, 2*time.Second).Should(Equal(1))
	})

	It("gives up after exhausting the retries", func() {
		sender.failures = 10

		dispatcher.Send("welcome_email", "Ada", "ada@example.com", nil)

		Consistently(sender.sentCount, 500*time.Millisecond).Should(BeZero())
	})

	It("drops jobs with a missing template without retrying", func() {
		dispatcher.Send("no_such_template", "Ada", "ada@example.com", nil)

		Consistently(sender.sentCount, 100*time.Millisecond).Should(BeZero())
	})
})
