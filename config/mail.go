package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/school/core/mail"
)

// MailConfig holds the SMTP account used by "send".
type MailConfig struct {
	Address        string `json:"address"`
	Port           int    `json:"port"`
	Login          string `json:"login"`
	Password       string `json:"password"`
	From           string `json:"from"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func (c *MailConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = "smtp.gmail.com"
	}
	if c.Port == 0 {
		c.Port = 465
	}
	if c.From == "" {
		c.From = c.Login
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
}

func (c MailConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// SMTP returns the sender configuration.
func (c MailConfig) SMTP() mail.SMTPConfig {
	return mail.SMTPConfig{
		Address:  c.Address,
		Port:     c.Port,
		Login:    c.Login,
		Password: c.Password,
		Timeout:  time.Duration(c.TimeoutSeconds) * time.Second,
	}
}
