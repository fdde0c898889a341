// Package notify renders and sends the shop's outbound emails. Send methods
// report a Result and never fail the caller.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"gopkg.in/gomail.v2"

	"github.com/pskitchenware/storefront/config"
	"github.com/pskitchenware/storefront/internal/domain"
)

const msgNotConfigured = "Email service is not configured."

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Sender delivers composed messages; *gomail.Dialer satisfies it
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Notifier is what checkout, the enquiry form and the digest job talk to
type Notifier interface {
	SendOrder(ctx context.Context, order OrderMail) Result
	SendEnquiry(ctx context.Context, enquiry domain.Enquiry) Result
	SendDigest(ctx context.Context, digest DigestMail) Result
}

type OrderLine struct {
	ProductName string
	ImageURL    string
	Size        string
	Quantity    int
	Price       float64
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type OrderMail struct {
	CheckoutID string
	Lines      []OrderLine
	Total      decimal.Decimal
	Address    domain.Address
}

type DigestProduct struct {
	Name     string
	Quantity int
}

type DigestMail struct {
	Day          time.Time
	TotalOrders  int
	Revenue      float64
	TopProducts  []DigestProduct
	RecentOrders []domain.Order
}

// Mailer sends through SMTP
type Mailer struct {
	cfg      config.SmtpConfig
	sender   Sender
	printer  *message.Printer
	currency string
}

func NewMailer(cfg config.SmtpConfig, currency, lang string) *Mailer {
	m := &Mailer{
		cfg:      cfg,
		printer:  message.NewPrinter(language.Make(lang)),
		currency: currency,
	}
	if m.Configured() {
		m.sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Passwd)
	}
	return m
}

// WithSender replaces the SMTP dialer
func (m *Mailer) WithSender(s Sender) *Mailer {
	m.sender = s
	return m
}

func (m *Mailer) Configured() bool {
	return strings.TrimSpace(m.cfg.Host) != "" && strings.TrimSpace(m.cfg.Sender) != ""
}

func (m *Mailer) recipients() []string {
	if len(m.cfg.Recipients) > 0 {
		return m.cfg.Recipients
	}
	return []string{m.cfg.Sender}
}

// Money formats an amount with the shop currency and grouping of the locale
func (m *Mailer) Money(v interface{}) string {
	if d, ok := v.(decimal.Decimal); ok {
		v, _ = d.Float64()
	}
	return m.printer.Sprintf("%s%v", m.currency, number.Decimal(v, number.Scale(2)))
}

func (m *Mailer) SendOrder(ctx context.Context, order OrderMail) Result {
	subject := fmt.Sprintf("New Order (%d %s)", len(order.Lines), plural(len(order.Lines), "item", "items"))
	return m.send(ctx, "order", subject, orderTemplate, order, "Failed to send order email.")
}

func (m *Mailer) SendEnquiry(ctx context.Context, enquiry domain.Enquiry) Result {
	return m.send(ctx, "enquiry", "Enquiry Form", enquiryTemplate, enquiry, "Failed to send enquiry email.")
}

func (m *Mailer) SendDigest(ctx context.Context, digest DigestMail) Result {
	subject := "Daily Sales Digest " + digest.Day.Format("2006-01-02")
	return m.send(ctx, "digest", subject, digestTemplate, digest, "Failed to send digest email.")
}

func (m *Mailer) send(ctx context.Context, kind, subject, tpl string, data interface{}, failMsg string) Result {
	if !m.Configured() || m.sender == nil {
		zap.L().Warn("email not configured", zap.String("kind", kind), zap.String("namespace", "notify"))
		return Result{Success: false, Message: msgNotConfigured}
	}
	if err := ctx.Err(); err != nil {
		return Result{Success: false, Message: failMsg}
	}

	body, err := m.render(tpl, data)
	if err != nil {
		zap.L().Error("render email error", zap.String("kind", kind), zap.Error(err), zap.String("namespace", "notify"))
		return Result{Success: false, Message: failMsg}
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.Sender, m.cfg.SenderName)
	msg.SetHeader("To", m.recipients()...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.sender.DialAndSend(msg); err != nil {
		zap.L().Error("send email error", zap.String("kind", kind), zap.Error(err), zap.String("namespace", "notify"))
		return Result{Success: false, Message: failMsg}
	}
	zap.L().Info("email sent", zap.String("kind", kind), zap.String("subject", subject), zap.String("namespace", "notify"))
	return Result{Success: true, Message: "Email sent successfully"}
}

func (m *Mailer) render(tpl string, data interface{}) (string, error) {
	t, err := template.New("mail").Funcs(template.FuncMap{"money": m.Money}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
