// ABOUTME: Text-generation collaborator for introduction outreach copy
// ABOUTME: Defines the Generator interface, a fixed template generator and a fallback wrapper
package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/sherpa/logger"
)

// MessageContext carries what a generator needs to write an intro request.
type MessageContext struct {
	SenderName          string `json:"sender_name,omitempty"`
	ConnectorName       string `json:"connector_name"`
	ConnectorCompany    string `json:"connector_company,omitempty"`
	TargetName          string `json:"target_name"`
	TargetTitle         string `json:"target_title,omitempty"`
	TargetCompany       string `json:"target_company,omitempty"`
	RelationshipContext string `json:"relationship_context,omitempty"`
	Degree              int    `json:"degree"`
	Purpose             string `json:"purpose,omitempty"`
}

type Message struct {
	Subject         string   `json:"subject"`
	Body            string   `json:"body"`
	Personalization []string `json:"personalization,omitempty"`
}

type Generator interface {
	GenerateMessage(ctx context.Context, mc MessageContext) (*Message, error)
}

// TemplateGenerator fills a fixed template. It never fails.
type TemplateGenerator struct{}

func (TemplateGenerator) GenerateMessage(_ context.Context, mc MessageContext) (*Message, error) {
	connector := orDefault(mc.ConnectorName, "there")
	targetCompany := orDefault(mc.TargetCompany, "their company")
	relCtx := orDefault(mc.RelationshipContext, "our professional connection")

	subject := fmt.Sprintf("Introduction to %s", orDefault(mc.TargetName, "a contact"))
	if mc.Degree <= 1 {
		body := fmt.Sprintf("Hi %s, I'd love to find time to talk about what %s is working on. Would you be open to a short call?",
			orDefault(mc.TargetName, "there"), targetCompany)
		return &Message{Subject: "Quick hello", Body: body}, nil
	}

	body := fmt.Sprintf("Hi %s! Given %s, would you be comfortable introducing me to %s at %s? Happy to send a short blurb you can forward.",
		connector, relCtx, orDefault(mc.TargetName, "your contact"), targetCompany)

	var points []string
	if mc.RelationshipContext != "" {
		points = append(points, mc.RelationshipContext)
	}
	if mc.ConnectorCompany != "" {
		points = append(points, "Shared history at "+mc.ConnectorCompany)
	}
	return &Message{Subject: subject, Body: body, Personalization: points}, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Fallback substitutes a template message when the primary generator fails.
type Fallback struct {
	primary  Generator
	template TemplateGenerator
}

func WithFallback(primary Generator) *Fallback {
	return &Fallback{primary: primary}
}

func (f *Fallback) GenerateMessage(ctx context.Context, mc MessageContext) (*Message, error) {
	if f.primary != nil {
		msg, err := f.primary.GenerateMessage(ctx, mc)
		if err == nil && msg != nil && msg.Body != "" {
			return msg, nil
		}
		if err == nil {
			err = fmt.Errorf("empty message")
		}
		logger.Warn("textgen: primary generator failed, using template", "target", mc.TargetName, "error", err)
	}
	return f.template.GenerateMessage(ctx, mc)
}
