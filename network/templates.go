// ABOUTME: Fixed introduction message templates for connector outreach
// ABOUTME: Picks a template deterministically from the connector and target ids
package network

import (
	"hash/fnv"
	"strings"

	"github.com/harperreed/sherpa/models"
)

const directConnectionMessage = "Direct connection - reach out directly!"

var introTemplates = []string{
	"Hi {connector.name}! Hope you're doing well. I'm reaching out to enterprise companies about transformation initiatives and noticed your connection with {target.name} at {target.company}. Given {relationship.context}, would you be comfortable making a brief introduction? I think there could be some interesting synergies to explore.",
	"Hey {connector.name}! Quick favor - I'm connecting with {target.title} leaders in the {target.company} space. Would it make sense for you to introduce me to {target.name}? Happy to keep it high-level initially and make it easy for you.",
	"{connector.name}, hope all is well at {connector.company}! I remember you mentioning your connection with {target.name}. I'm working on some initiatives that might be valuable for {target.company}. Would you mind facilitating a quick intro? I'd really appreciate it.",
	"Hi {connector.name}! Thinking of you - it's been a while since {relationship.context}. I'm exploring some conversations with companies like {target.company} and saw you know {target.name}. Any chance you'd be open to a soft intro? No pressure either way!",
}

func templateIndex(connectorID, targetID string) int {
	h := fnv.New32a()
	h.Write([]byte(connectorID))
	h.Write([]byte{0})
	h.Write([]byte(targetID))
	return int(h.Sum32() % uint32(len(introTemplates)))
}

func fillTemplate(tmpl string, connector, target models.PathHop) string {
	r := strings.NewReplacer(
		"{connector.name}", connector.Name,
		"{connector.company}", fallback(connector.Company, "their company"),
		"{target.name}", target.Name,
		"{target.company}", fallback(target.Company, "their company"),
		"{target.title}", fallback(target.Title, "their role"),
		"{relationship.context}", fallback(connector.Context, "our professional connection"),
	)
	return r.Replace(tmpl)
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// introMessage drafts the intro request to the first connector on a path.
func introMessage(hops []models.PathHop) string {
	if len(hops) < 3 {
		return directConnectionMessage
	}
	connector := hops[1]
	target := hops[len(hops)-1]
	return fillTemplate(introTemplates[templateIndex(connector.NodeID, target.NodeID)], connector, target)
}

// backupMessages renders every template other than the primary one.
func backupMessages(hops []models.PathHop) []string {
	if len(hops) < 3 {
		return nil
	}
	connector := hops[1]
	target := hops[len(hops)-1]
	primary := templateIndex(connector.NodeID, target.NodeID)

	var out []string
	for i, tmpl := range introTemplates {
		if i == primary {
			continue
		}
		out = append(out, fillTemplate(tmpl, connector, target))
	}
	return out
}
