// Package mail turns a plain-text mail definition into a MIME message for the
// teacher of a course and hands it to an SMTP server.
package mail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
)

var required = []string{"subject", "body", "attachments"}

// SyntaxError reports a malformed line of a mail definition.
type SyntaxError struct {
	Line   int
	Text   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (line %d: %q)", e.Reason, e.Line, e.Text)
}

// MissingAttributeError is returned when a required attribute is absent.
type MissingAttributeError struct {
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("%s not read", e.Attribute)
}

// MissingAttachmentError is returned when a listed attachment does not exist.
type MissingAttachmentError struct {
	Name string
}

func (e *MissingAttachmentError) Error() string {
	return fmt.Sprintf("attachment '%s' missing", e.Name)
}

// Definition is a parsed mail definition.
type Definition struct {
	Subject     string
	Body        string
	Attachments []string
	// Dir is where attachments are looked up.
	Dir string
	// Attributes holds every attribute read, lower-cased.
	Attributes map[string]string
}

// Parse reads "attribute: value" lines. Lines starting with a tab continue
// the previous attribute on a new line and blank lines are ignored.
func Parse(r io.Reader) (*Definition, error) {
	attrs := map[string]string{}
	last := ""
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if strings.HasPrefix(line, "\t") {
			if last == "" {
				return nil, &SyntaxError{Line: n, Text: line, Reason: "expected attribute before tab"}
			}
			attrs[last] += strings.TrimSpace(line) + "\n"
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, &SyntaxError{Line: n, Text: line, Reason: "malformed line (missing ':')"}
		}
		last = strings.ToLower(strings.TrimSpace(key))
		attrs[last] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read mail definition: %w", err)
	}
	for _, k := range required {
		if _, ok := attrs[k]; !ok {
			return nil, &MissingAttributeError{Attribute: k}
		}
	}
	return &Definition{
		Subject:     attrs["subject"],
		Body:        attrs["body"],
		Attachments: strings.Fields(attrs["attachments"]),
		Attributes:  attrs,
	}, nil
}

// ParseFile parses the definition at path; attachments are relative to its folder.
func ParseFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.Dir = filepath.Dir(path)
	return d, nil
}

// Message is a composed mail ready to be sent.
type Message struct {
	From string
	To   []string
	msg  *gomail.Msg
}

// WriteTo writes the RFC 5322 form of the message to w.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	return m.msg.WriteTo(w)
}

// Compose builds a multipart/mixed message with the body and every attachment.
// The body is quoted-printable and header words are encoded as needed.
func Compose(d *Definition, from string, to []string, now time.Time) (*Message, error) {
	if len(to) == 0 {
		return nil, errors.New("no recipient")
	}
	m := gomail.NewMsg(gomail.WithCharset(gomail.CharsetUTF8), gomail.WithEncoding(gomail.EncodingQP))
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("sender %q: %w", from, err)
	}
	if err := m.To(to...); err != nil {
		return nil, fmt.Errorf("recipients: %w", err)
	}
	m.Subject(d.Subject)
	m.SetDateWithValue(now)
	m.SetMessageID()
	m.SetBodyString(gomail.TypeTextPlain, d.Body)

	for _, name := range d.Attachments {
		path := filepath.Join(d.Dir, name)
		st, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingAttachmentError{Name: name}
		}
		if err != nil {
			return nil, fmt.Errorf("read attachment: %w", err)
		}
		if st.IsDir() {
			return nil, &MissingAttachmentError{Name: name}
		}
		opts := []gomail.FileOption{gomail.WithFileName(filepath.Base(name))}
		if ctype := mime.TypeByExtension(filepath.Ext(name)); ctype != "" {
			opts = append(opts, gomail.WithFileContentType(gomail.ContentType(ctype)))
		}
		m.AttachFile(path, opts...)
	}
	return &Message{From: from, To: to, msg: m}, nil
}

// SMTPConfig locates and authenticates against the outgoing server.
type SMTPConfig struct {
	Address  string
	Port     int
	Login    string
	Password string
	Timeout  time.Duration
}

// Sender delivers composed messages.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPSender sends over implicit TLS on port 465 and STARTTLS elsewhere.
type SMTPSender struct {
	Config SMTPConfig
}

func (s *SMTPSender) options() []gomail.Option {
	timeout := s.Config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	opts := []gomail.Option{
		gomail.WithPort(s.Config.Port),
		gomail.WithTimeout(timeout),
	}
	if s.Config.Port == 465 {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	}
	if s.Config.Login != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.Config.Login),
			gomail.WithPassword(s.Config.Password),
		)
	}
	return opts
}

// Send dials the server, authenticates and submits msg.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	c, err := gomail.NewClient(s.Config.Address, s.options()...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, msg.msg); err != nil {
		return fmt.Errorf("send to %s: %w", s.Config.Address, err)
	}
	return nil
}
