// ABOUTME: Google People API provider treating address-book contacts as first-degree connections
// ABOUTME: Converts People API persons into profile and connection records
package provider

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"

	"github.com/harperreed/sherpa/models"
)

const (
	googlePersonFields = "names,emailAddresses,organizations,biographies,photos,addresses"
	googlePageSize     = 1000
	googlePriority     = 1

	// ContactStrength is the raw strength given to saved contacts, which carry
	// no interaction signal of their own.
	ContactStrength = 0.5
)

type GoogleContactsProvider struct {
	service *people.Service
	ownerID string
}

// NewGoogleContactsProvider builds an authenticated provider. ownerID is the
// identity that maps to the signed-in Google account.
func NewGoogleContactsProvider(ctx context.Context, config *oauth2.Config, token *oauth2.Token, ownerID string) (*GoogleContactsProvider, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("google OAuth credentials not configured. Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment variables")
	}

	service, err := people.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}
	return NewGoogleContactsProviderWithService(service, ownerID), nil
}

func NewGoogleContactsProviderWithService(service *people.Service, ownerID string) *GoogleContactsProvider {
	return &GoogleContactsProvider{service: service, ownerID: ownerID}
}

func (g *GoogleContactsProvider) Name() string  { return "google-contacts" }
func (g *GoogleContactsProvider) Priority() int { return googlePriority }

func (g *GoogleContactsProvider) IsAvailable(context.Context) bool {
	return g.service != nil
}

func (g *GoogleContactsProvider) RateLimit() RateLimit {
	return RateLimit{RequestsPerHour: 3000, Burst: 10}
}

func (g *GoogleContactsProvider) isOwner(identity string) bool {
	return identity == g.ownerID || identity == "people/me"
}

func (g *GoogleContactsProvider) GetProfile(ctx context.Context, identity string) (*models.ProfileRecord, error) {
	resource := identity
	if g.isOwner(identity) {
		resource = "people/me"
	} else if !strings.HasPrefix(identity, "people/") {
		return nil, fmt.Errorf("profile %q: %w", identity, ErrNotFound)
	}

	person, err := g.service.People.Get(resource).PersonFields(googlePersonFields).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch person %s: %w", resource, err)
	}

	profile := convertProfile(person)
	if g.isOwner(identity) {
		profile.ID = g.ownerID
	}
	return profile, nil
}

// GetConnections lists the owner's contacts. Other people's contacts are not
// visible through this API.
func (g *GoogleContactsProvider) GetConnections(ctx context.Context, profileID string) ([]models.ConnectionRecord, error) {
	if !g.isOwner(profileID) {
		return nil, fmt.Errorf("connections for %q: %w", profileID, ErrNotFound)
	}

	var out []models.ConnectionRecord
	pageToken := ""
	for {
		call := g.service.People.Connections.List("people/me").
			PageSize(googlePageSize).
			PersonFields(googlePersonFields).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch contacts: %w", err)
		}
		if response == nil {
			break
		}

		for _, person := range response.Connections {
			if rec, ok := convertConnection(person); ok {
				out = append(out, rec)
			}
		}

		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return out, nil
}

func convertProfile(person *people.Person) *models.ProfileRecord {
	p := &models.ProfileRecord{
		ID:         person.ResourceName,
		PlatformID: person.ResourceName,
		FullName:   displayName(person),
		Email:      primaryEmail(person),
	}
	if len(person.Organizations) > 0 {
		p.CurrentCompany = person.Organizations[0].Name
		p.CurrentTitle = person.Organizations[0].Title
	}
	if len(person.Biographies) > 0 {
		p.Summary = person.Biographies[0].Value
	}
	if len(person.Photos) > 0 && !person.Photos[0].Default {
		p.PictureURL = person.Photos[0].Url
	}
	if len(person.Addresses) > 0 {
		addr := person.Addresses[0]
		parts := []string{}
		for _, s := range []string{addr.City, addr.Region} {
			if s != "" {
				parts = append(parts, s)
			}
		}
		p.Location = strings.Join(parts, ", ")
	}
	return p
}

func convertConnection(person *people.Person) (models.ConnectionRecord, bool) {
	name := displayName(person)
	if person.ResourceName == "" || name == "" {
		return models.ConnectionRecord{}, false
	}
	rec := models.ConnectionRecord{
		ID:                   person.ResourceName,
		ProfileID:            person.ResourceName,
		FullName:             name,
		Email:                primaryEmail(person),
		RelationshipStrength: ContactStrength,
	}
	if len(person.Organizations) > 0 {
		org := person.Organizations[0]
		rec.Company = org.Name
		rec.Title = org.Title
	}
	return rec, true
}

func displayName(person *people.Person) string {
	if len(person.Names) > 0 {
		return person.Names[0].DisplayName
	}
	return ""
}

// primaryEmail prefers the primary address, otherwise the first non-empty one.
func primaryEmail(person *people.Person) string {
	email := ""
	for _, e := range person.EmailAddresses {
		if e.Value == "" {
			continue
		}
		if email == "" {
			email = e.Value
		}
		if e.Metadata != nil && e.Metadata.Primary {
			return e.Value
		}
	}
	return email
}
