// Package sms sends template SMS through Aliyun Dysms.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	dysmsapi "github.com/alibabacloud-go/dysmsapi-20170525/v3/client"
	"github.com/alibabacloud-go/tea/tea"
)

// Sender sends one templated message.
type Sender interface {
	Send(ctx context.Context, phone, templateCode string, params map[string]string) error
}

// AliyunConfig credentials and signature
type AliyunConfig struct {
	AccessKeyID     string
	AccessKeySecret string
	SignName        string
	Endpoint        string // default dysmsapi.aliyuncs.com
}

// AliyunSender Dysms-backed Sender
type AliyunSender struct {
	client   *dysmsapi.Client
	signName string
}

// NewAliyunSender creates an AliyunSender
func NewAliyunSender(cfg *AliyunConfig) (*AliyunSender, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "dysmsapi.aliyuncs.com"
	}
	client, err := dysmsapi.NewClient(&openapi.Config{
		AccessKeyId:     tea.String(cfg.AccessKeyID),
		AccessKeySecret: tea.String(cfg.AccessKeySecret),
		Endpoint:        tea.String(endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("sms: create client: %w", err)
	}
	return &AliyunSender{client: client, signName: cfg.SignName}, nil
}

// Send sends a templated SMS
func (s *AliyunSender) Send(ctx context.Context, phone, templateCode string, params map[string]string) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("sms: encode params: %w", err)
	}

	resp, err := s.client.SendSms(&dysmsapi.SendSmsRequest{
		PhoneNumbers:  tea.String(phone),
		SignName:      tea.String(s.signName),
		TemplateCode:  tea.String(templateCode),
		TemplateParam: tea.String(string(paramsJSON)),
	})
	if err != nil {
		return fmt.Errorf("sms: send: %w", err)
	}
	if resp.Body == nil || resp.Body.Code == nil || *resp.Body.Code != "OK" {
		msg := "unknown error"
		if resp.Body != nil && resp.Body.Message != nil {
			msg = *resp.Body.Message
		}
		return fmt.Errorf("sms: send failed: %s", msg)
	}
	return nil
}

// Message a message captured by MockSender
type Message struct {
	Phone        string
	TemplateCode string
	Params       map[string]string
	SentAt       time.Time
}

// MockSender records messages instead of sending them.
type MockSender struct {
	mu   sync.Mutex
	sent []Message
}

// NewMockSender creates a MockSender
func NewMockSender() *MockSender {
	return &MockSender{}
}

// Send records the message
func (s *MockSender) Send(ctx context.Context, phone, templateCode string, params map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, Message{Phone: phone, TemplateCode: templateCode, Params: params, SentAt: time.Now()})
	return nil
}

// Messages returns a copy of the recorded messages
func (s *MockSender) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}
