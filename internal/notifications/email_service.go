package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/HemangKanojiya20/event-ticket-booking/pkg/logger"
)

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// Enabled reports whether enough is configured to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.FromEmail != ""
}

func validateSMTPConfig(config SMTPConfig) error {
	if config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

var receiptFuncs = map[string]interface{}{
	"seats": formatSeats,
	"money": func(amount float64) string { return strconv.FormatFloat(amount, 'f', 2, 64) },
}

var receiptText = template.Must(template.New("receipt.txt").Funcs(receiptFuncs).Parse(`Hi {{.CustomerName}},

Your booking for {{.EventTitle}} is confirmed.

Booking ID: {{.BookingID}}
Section:    {{.SectionName}}
Row:        {{.RowName}}
Seats:      {{seats .SeatNumbers}}
{{if .DiscountApplied}}Group discount: -{{money .DiscountAmount}}
{{end}}Total:      {{money .TotalAmount}}

Booked at {{.BookedAt.Format "2006-01-02 15:04 MST"}}.
`))

var receiptHTML = htmltemplate.Must(htmltemplate.New("receipt.html").Funcs(receiptFuncs).Parse(`<h2>Booking confirmed</h2>
<p>Hi {{.CustomerName}}, your booking for <strong>{{.EventTitle}}</strong> is confirmed.</p>
<table>
<tr><td>Booking ID</td><td>{{.BookingID}}</td></tr>
<tr><td>Section</td><td>{{.SectionName}}</td></tr>
<tr><td>Row</td><td>{{.RowName}}</td></tr>
<tr><td>Seats</td><td>{{seats .SeatNumbers}}</td></tr>
{{if .DiscountApplied}}<tr><td>Group discount</td><td>-{{money .DiscountAmount}}</td></tr>{{end}}
<tr><td>Total</td><td>{{money .TotalAmount}}</td></tr>
</table>
`))

func formatSeats(numbers []int) string {
	parts := make([]string, 0, len(numbers))
	for _, n := range numbers {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ", ")
}

// ReceiptMailer emails a booking receipt to the customer.
type ReceiptMailer struct {
	config SMTPConfig
	send   func(ctx context.Context, to string, message []byte) error
	now    func() time.Time
}

func NewReceiptMailer(config SMTPConfig) (*ReceiptMailer, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	m := &ReceiptMailer{config: config, now: time.Now}
	m.send = m.sendWithSTARTTLS
	return m, nil
}

func (m *ReceiptMailer) HandleBookingConfirmed(ctx context.Context, n *BookingConfirmed) error {
	if n.CustomerEmail == "" {
		return fmt.Errorf("booking %s has no customer email", n.BookingID)
	}

	message, err := m.buildMessage(n)
	if err != nil {
		return err
	}
	if err := m.send(ctx, n.CustomerEmail, message); err != nil {
		return fmt.Errorf("failed to send receipt for booking %s: %w", n.BookingID, err)
	}

	logger.GetDefault().InfoContext(ctx, "Booking receipt sent",
		slog.String("booking_id", n.BookingID),
		slog.String("to", n.CustomerEmail),
	)
	return nil
}

// buildMessage creates the multipart email with proper headers
func (m *ReceiptMailer) buildMessage(n *BookingConfirmed) ([]byte, error) {
	var textBuf, htmlBuf bytes.Buffer
	if err := receiptText.Execute(&textBuf, n); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	if err := receiptHTML.Execute(&htmlBuf, n); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}

	now := m.now()
	boundary := "boundary_" + strconv.FormatInt(now.UnixNano(), 10)

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.config.FromName, m.config.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", n.CustomerEmail)
	fmt.Fprintf(&msg, "Subject: Your tickets for %s\r\n", n.EventTitle)
	fmt.Fprintf(&msg, "Date: %s\r\n", now.Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&msg, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n", boundary)
	msg.Write(textBuf.Bytes())
	msg.WriteString("\r\n")
	fmt.Fprintf(&msg, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n", boundary)
	msg.Write(htmlBuf.Bytes())
	msg.WriteString("\r\n")
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return msg.Bytes(), nil
}

// sendWithSTARTTLS sends email with STARTTLS encryption
func (m *ReceiptMailer) sendWithSTARTTLS(ctx context.Context, to string, message []byte) error {
	addr := net.JoinHostPort(m.config.Host, strconv.Itoa(m.config.Port))

	dialer := &net.Dialer{Timeout: m.config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(m.config.Timeout))
	}

	client, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err = client.StartTLS(&tls.Config{ServerName: m.config.Host}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if m.config.Username != "" {
		auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(m.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

// LogReceiptHandler logs receipts instead of mailing them, for local runs.
type LogReceiptHandler struct {
	log *logger.Logger
}

func NewLogReceiptHandler(l *logger.Logger) *LogReceiptHandler {
	return &LogReceiptHandler{log: l}
}

func (h *LogReceiptHandler) HandleBookingConfirmed(ctx context.Context, n *BookingConfirmed) error {
	var buf bytes.Buffer
	if err := receiptText.Execute(&buf, n); err != nil {
		return fmt.Errorf("failed to render receipt: %w", err)
	}
	h.log.InfoContext(ctx, "Booking receipt",
		slog.String("booking_id", n.BookingID),
		slog.String("to", n.CustomerEmail),
		slog.String("body", buf.String()),
	)
	return nil
}
