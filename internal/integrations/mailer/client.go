package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/jrbarber/scheduling-service/internal/domain"
)

// Client отправляет уведомления о записях по SMTP.
// Реализует интерфейс Notifier из usecase book_appointment.
type Client struct {
	host          string
	port          int
	user          string
	password      string
	from          string
	ownerEmail    string
	publicBaseURL string
	timeout       time.Duration
	enabled       bool
	log           Logger
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Config настройки SMTP-клиента
type Config struct {
	Enabled       bool
	Host          string
	Port          int
	User          string
	Password      string
	From          string
	OwnerEmail    string
	PublicBaseURL string
	Timeout       time.Duration
}

// NewClient создает новый экземпляр SMTP-клиента
func NewClient(cfg Config, log Logger) *Client {
	return &Client{
		host:          cfg.Host,
		port:          cfg.Port,
		user:          cfg.User,
		password:      cfg.Password,
		from:          cfg.From,
		ownerEmail:    cfg.OwnerEmail,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		timeout:       cfg.Timeout,
		enabled:       cfg.Enabled,
		log:           log,
	}
}

// NotifyClientBooked отправляет клиенту письмо со ссылкой подтверждения
func (c *Client) NotifyClientBooked(ctx context.Context, appt *domain.Appointment, customer *domain.Customer) error {
	if !c.enabled {
		c.log.Info("NotifyClientBooked: smtp disabled, skipping mail for appointment id=%s", appt.ID)
		return nil
	}

	confirmURL := fmt.Sprintf("%s/confirm.html?token=%s", c.publicBaseURL, appt.ConfirmationToken)

	subject := fmt.Sprintf("Appointment confirmation - %s", appt.Service)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Your appointment for %q is provisionally booked:\r\n"+
			"  %s (%d min)\r\n\r\n"+
			"Please confirm it by following the link:\r\n"+
			"  %s\r\n\r\n"+
			"If you do not confirm, the slot may be released.\r\n",
		customer.Name, appt.Service,
		appt.StartTime.Format("Mon, 02 Jan 2006 15:04"), appt.DurationMinutes,
		confirmURL,
	)

	if err := c.send(ctx, customer.Email, subject, body); err != nil {
		return fmt.Errorf("%w: NotifyClientBooked - appointment id=%s: %v", ErrSendFailed, appt.ID, err)
	}

	c.log.Info("NotifyClientBooked: confirmation mail sent for appointment id=%s", appt.ID)
	return nil
}

// NotifyOwnerBooked отправляет владельцу уведомление о новой записи
func (c *Client) NotifyOwnerBooked(ctx context.Context, appt *domain.Appointment, customer *domain.Customer) error {
	if !c.enabled {
		c.log.Info("NotifyOwnerBooked: smtp disabled, skipping mail for appointment id=%s", appt.ID)
		return nil
	}

	phone := "-"
	if customer.Phone != nil {
		phone = *customer.Phone
	}
	notes := "-"
	if appt.Notes != nil {
		notes = *appt.Notes
	}

	subject := fmt.Sprintf("New appointment - %s", customer.Name)
	body := fmt.Sprintf(
		"New appointment:\r\n"+
			"Client: %s\r\n"+
			"Email: %s\r\n"+
			"Phone: %s\r\n"+
			"Service: %s\r\n"+
			"Start: %s\r\n"+
			"Duration: %d minutes\r\n"+
			"Notes: %s\r\n",
		customer.Name, customer.Email, phone,
		appt.Service, appt.StartTime.Format("2006-01-02 15:04"),
		appt.DurationMinutes, notes,
	)

	if err := c.send(ctx, c.ownerEmail, subject, body); err != nil {
		return fmt.Errorf("%w: NotifyOwnerBooked - appointment id=%s: %v", ErrSendFailed, appt.ID, err)
	}

	c.log.Info("NotifyOwnerBooked: owner mail sent for appointment id=%s", appt.ID)
	return nil
}

// send доставляет одно письмо по SMTP с таймаутом на соединение
func (c *Client) send(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", c.host, c.port)

	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, c.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: c.host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if c.user != "" {
		auth := smtp.PlainAuth("", c.user, c.password, c.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := client.Mail(c.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", c.from, to, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}

	return client.Quit()
}
