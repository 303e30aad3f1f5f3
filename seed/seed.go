// ABOUTME: Deterministic synthetic datasets for demos and tests
// ABOUTME: Builds accounts, network connections and provider snapshots from a seeded rand
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/provider"
)

// Options sizes a generated dataset. Zero fields take the defaults.
type Options struct {
	Accounts     int
	Connections  int
	SecondDegree int
	OwnerID      string
}

func DefaultOptions() Options {
	return Options{Accounts: 25, Connections: 60, SecondDegree: 4, OwnerID: "me"}
}

// Dataset is everything a demo session needs.
type Dataset struct {
	Accounts    []models.Account    `json:"accounts"`
	Connections []models.Connection `json:"connections"`
	Network     provider.Snapshot   `json:"network"`
}

// Generator draws every random choice from its rand source, so the same
// seed and clock always produce the same dataset.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

func New(rng *rand.Rand, now time.Time) *Generator {
	return &Generator{rng: rng, now: now.UTC()}
}

var (
	companyPrefixes = []string{"Apex", "Blue Ridge", "Cobalt", "Delta", "Evergreen", "Frontier", "Granite", "Harbor",
		"Ironwood", "Juniper", "Keystone", "Lakeside", "Meridian", "Northstar", "Oakmont", "Pinnacle", "Quarry",
		"Redwood", "Summit", "Tidewater"}
	companySuffixes = []string{"Financial", "Systems", "Health", "Aerospace", "Logistics", "Bank", "Labs",
		"Manufacturing", "Partners", "Federal"}
	industries = []string{"Financial Services", "Technology", "Healthcare", "Aerospace & Defense",
		"Government Services", "Manufacturing", "Retail", "Insurance"}
	locations = []string{"Austin, TX", "Dallas, TX", "Denver, CO", "Boston, MA", "Chicago, IL", "Reston, VA",
		"Seattle, WA", "Atlanta, GA", "Charlotte, NC", "San Diego, CA"}
	firstNames = []string{"Sarah", "Mike", "Jennifer", "David", "Lisa", "Robert", "Amanda", "Chris", "Jessica", "Mark",
		"Priya", "Luis", "Mei", "Omar", "Grace"}
	lastNames = []string{"Johnson", "Smith", "Williams", "Brown", "Davis", "Miller", "Wilson", "Moore", "Taylor",
		"Anderson", "Patel", "Garcia", "Chen", "Haddad", "Okafor"}
	titles = []string{"VP Talent Acquisition", "Chief People Officer", "Director of HR Operations", "CFO",
		"Head of Recruiting", "HRIS Manager", "CTO", "Procurement Manager"}
	atsProviders = []string{"Workday", "iCIMS", "SAP SuccessFactors", "Oracle HCM Cloud", "BambooHR",
		"Greenhouse", "Lever", "ADP Workforce Now", "UKG Pro", "SmartRecruiters"}
	alertTypes = []string{models.AlertFunding, models.AlertHiring, models.AlertExecutiveChange,
		models.AlertExpansion, models.AlertContract, models.AlertPartnership, models.AlertCompetitorMention,
		models.AlertTechnologyAdoption, models.AlertNews, models.AlertEarnings, models.AlertProductLaunch}
	urgencies     = []string{models.UrgencyCritical, models.UrgencyHigh, models.UrgencyMedium, models.UrgencyLow}
	activityTypes = []string{"email", "call", "meeting", "linkedin_message"}
	outcomes      = []string{models.OutcomeOpened, models.OutcomeReplied, models.OutcomeBounced, models.OutcomeNone}
	strengths     = []string{models.StrengthStrong, models.StrengthWarm, models.StrengthMedium, models.StrengthWeak}
)

var strengthValues = map[string]float64{
	models.StrengthStrong: 0.9,
	models.StrengthWarm:   0.7,
	models.StrengthMedium: 0.5,
	models.StrengthWeak:   0.3,
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *Generator) daysAgo(maxDays int) time.Time {
	return g.now.Add(-time.Duration(g.rng.Intn(maxDays*24)) * time.Hour)
}

func (g *Generator) personName() (string, string) {
	return g.pick(firstNames), g.pick(lastNames)
}

// Generate builds a full dataset.
func (g *Generator) Generate(opts Options) Dataset {
	def := DefaultOptions()
	if opts.Accounts <= 0 {
		opts.Accounts = def.Accounts
	}
	if opts.Connections <= 0 {
		opts.Connections = def.Connections
	}
	if opts.SecondDegree <= 0 {
		opts.SecondDegree = def.SecondDegree
	}
	if opts.OwnerID == "" {
		opts.OwnerID = def.OwnerID
	}

	accounts := g.Accounts(opts.Accounts)
	conns := g.Connections(accounts, opts.Connections)
	return Dataset{
		Accounts:    accounts,
		Connections: conns,
		Network:     g.Network(opts.OwnerID, accounts, conns, opts.SecondDegree),
	}
}

// Accounts generates n accounts with contacts, alerts and activities.
func (g *Generator) Accounts(n int) []models.Account {
	accounts := make([]models.Account, 0, n)
	used := make(map[string]bool)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%s %s", g.pick(companyPrefixes), g.pick(companySuffixes))
		if used[name] {
			name = fmt.Sprintf("%s %d", name, i)
		}
		used[name] = true

		employees := 50 + g.rng.Intn(20000)
		a := models.Account{
			ID:            fmt.Sprintf("acct-%03d", i+1),
			Name:          name,
			Industry:      g.pick(industries),
			Location:      g.pick(locations),
			EmployeeCount: employees,
			AnnualRevenue: float64(employees) * float64(100000+g.rng.Intn(300000)),
			FiscalYearEnd: fmt.Sprintf("%02d-%02d", 1+g.rng.Intn(12), 28),
			Status:        "active",
		}
		a.CompanySize = companySize(employees)
		if g.rng.Intn(4) > 0 {
			t := g.daysAgo(120)
			a.LastActivityAt = &t
		}
		a.Contacts = g.contacts(a.ID)
		a.Alerts = g.alerts(a.ID, employees)
		a.Activities = g.activities(a.ID)
		accounts = append(accounts, a)
	}
	return accounts
}

func companySize(employees int) string {
	switch {
	case employees >= 5000:
		return "enterprise"
	case employees >= 500:
		return "mid-market"
	default:
		return "smb"
	}
}

func (g *Generator) contacts(accountID string) []models.Contact {
	n := g.rng.Intn(5)
	out := make([]models.Contact, 0, n)
	for i := 0; i < n; i++ {
		first, last := g.personName()
		c := models.Contact{
			ID:    fmt.Sprintf("%s-contact-%d", accountID, i+1),
			Name:  first + " " + last,
			Title: g.pick(titles),
			Email: strings.ToLower(first + "." + last + "@example.com"),
			Influence: models.Influence{
				Budget:       g.rng.Intn(101),
				Technical:    g.rng.Intn(101),
				Relationship: g.rng.Intn(101),
				Urgency:      g.rng.Intn(101),
			},
		}
		if g.rng.Intn(3) > 0 {
			degree := 1 + g.rng.Intn(4)
			strength := float64(g.rng.Intn(101)) / 100
			c.SeparationDegree = &degree
			c.ConnectionStrength = &strength
		}
		if g.rng.Intn(2) == 0 {
			t := g.daysAgo(90)
			c.LastContactedAt = &t
			if g.rng.Intn(2) == 0 {
				r := t.Add(time.Duration(1+g.rng.Intn(72)) * time.Hour)
				c.LastResponseAt = &r
			}
		}
		out = append(out, c)
	}
	return out
}

// alerts draws market signals. One in three accounts gets a technology
// adoption alert naming its ATS incumbent.
func (g *Generator) alerts(accountID string, employees int) []models.Alert {
	n := g.rng.Intn(4)
	out := make([]models.Alert, 0, n+1)
	for i := 0; i < n; i++ {
		kind := g.pick(alertTypes)
		a := models.Alert{
			ID:        fmt.Sprintf("%s-alert-%d", accountID, i+1),
			Type:      kind,
			Urgency:   g.pick(urgencies),
			Title:     alertTitle(kind),
			CreatedAt: g.daysAgo(60),
		}
		switch kind {
		case models.AlertNews:
			if g.rng.Intn(2) == 0 {
				a.Metadata = &models.AlertMetadata{Keywords: []string{"budget"}}
			}
		case models.AlertCompetitorMention:
			meta := &models.AlertMetadata{IsEvaluation: g.rng.Intn(2) == 0}
			if g.rng.Intn(3) == 0 {
				meta.Sentiment = "negative"
			}
			a.Metadata = meta
		}
		out = append(out, a)
	}

	if g.rng.Intn(3) == 0 {
		incumbent := g.incumbentATS(employees)
		out = append(out, models.Alert{
			ID:        fmt.Sprintf("%s-ats", accountID),
			Type:      models.AlertTechnologyAdoption,
			Urgency:   models.UrgencyMedium,
			Title:     "ATS: " + incumbent,
			CreatedAt: g.daysAgo(180),
			Metadata:  &models.AlertMetadata{Source: incumbent, IsCompetitor: true},
		})
	}
	return out
}

func (g *Generator) incumbentATS(employees int) string {
	switch {
	case employees > 5000:
		return g.pick([]string{"Workday", "SAP SuccessFactors", "Oracle HCM Cloud", "iCIMS"})
	case employees < 500:
		return g.pick([]string{"BambooHR", "Lever", "Greenhouse"})
	default:
		return g.pick(atsProviders)
	}
}

var alertTitles = map[string]string{
	models.AlertFunding:            "Closed a new funding round",
	models.AlertHiring:             "Posted new recruiting roles",
	models.AlertExecutiveChange:    "Named a new executive",
	models.AlertExpansion:          "Announced a new office",
	models.AlertContract:           "Vendor contract up for renewal",
	models.AlertPartnership:        "Announced a strategic partnership",
	models.AlertCompetitorMention:  "Mentioned a competitor publicly",
	models.AlertTechnologyAdoption: "Adopted new HR technology",
	models.AlertNews:               "In the news",
	models.AlertEarnings:           "Reported quarterly earnings",
	models.AlertProductLaunch:      "Launched a new product",
}

func alertTitle(kind string) string {
	if t, ok := alertTitles[kind]; ok {
		return t
	}
	return kind
}

func (g *Generator) activities(accountID string) []models.Activity {
	n := g.rng.Intn(6)
	out := make([]models.Activity, 0, n)
	for i := 0; i < n; i++ {
		kind := g.pick(activityTypes)
		act := models.Activity{
			ID:        fmt.Sprintf("%s-activity-%d", accountID, i+1),
			Type:      kind,
			CreatedAt: g.daysAgo(90),
		}
		if kind == "email" {
			act.Outcome = g.pick(outcomes)
		}
		out = append(out, act)
	}
	return out
}

// Connections generates n network connections. Roughly one in five works
// at one of the accounts, which produces direct warm-intro matches.
func (g *Generator) Connections(accounts []models.Account, n int) []models.Connection {
	out := make([]models.Connection, 0, n)
	for i := 0; i < n; i++ {
		first, last := g.personName()
		c := models.Connection{
			ID:                   fmt.Sprintf("conn-%03d", i+1),
			FirstName:            first,
			LastName:             last,
			FullName:             first + " " + last,
			Title:                g.pick(titles),
			Industry:             g.pick(industries),
			Location:             g.pick(locations),
			MutualConnections:    g.rng.Intn(40),
			RelationshipStrength: g.pick(strengths),
		}
		switch {
		case len(accounts) > 0 && g.rng.Intn(5) == 0:
			c.Company = accounts[g.rng.Intn(len(accounts))].Name
		case g.rng.Intn(4) == 0:
			c.Company = g.pick(atsProviders)
			c.Title = "Enterprise Account Executive"
			c.Industry = "Technology"
		default:
			c.Company = fmt.Sprintf("%s %s", g.pick(companyPrefixes), g.pick(companySuffixes))
		}

		connected := g.daysAgo(2000)
		c.ConnectedAt = &connected
		for j := g.rng.Intn(4); j > 0; j-- {
			c.InteractionHistory = append(c.InteractionHistory, models.Interaction{
				Type: g.pick(activityTypes),
				Date: g.daysAgo(365),
			})
		}
		out = append(out, c)
	}
	return out
}

// Network builds a provider snapshot. Each connection becomes a
// first-degree record of the owner; account contacts are spread across
// those connections as second-degree records so intro paths to them exist.
func (g *Generator) Network(ownerID string, accounts []models.Account, conns []models.Connection, perConnector int) provider.Snapshot {
	snap := provider.Snapshot{
		Profiles:    []models.ProfileRecord{{ID: ownerID, FullName: "Demo Owner", CurrentTitle: "Account Executive"}},
		Connections: map[string][]models.ConnectionRecord{},
	}

	var contacts []models.Contact
	var contactCompany []string
	for _, a := range accounts {
		for _, c := range a.Contacts {
			contacts = append(contacts, c)
			contactCompany = append(contactCompany, a.Name)
		}
	}

	first := make([]models.ConnectionRecord, 0, len(conns))
	for _, c := range conns {
		profileID := "profile-" + c.ID
		rec := models.ConnectionRecord{
			ID:                   c.ID,
			ProfileID:            profileID,
			FullName:             c.FullName,
			Title:                c.Title,
			Company:              c.Company,
			RelationshipStrength: strengthValues[c.RelationshipStrength],
			MutualConnections:    c.MutualConnections,
			LastInteractionAt:    c.LastInteraction(),
		}
		if g.rng.Intn(3) == 0 {
			rec.SharedExperiences = []models.SharedExperience{{
				Type:          models.ExperienceCompany,
				Name:          c.Company,
				OverlapMonths: 6 + g.rng.Intn(48),
			}}
		}
		first = append(first, rec)
		snap.Profiles = append(snap.Profiles, models.ProfileRecord{
			ID:             profileID,
			FullName:       c.FullName,
			CurrentTitle:   c.Title,
			CurrentCompany: c.Company,
			Industry:       c.Industry,
			Location:       c.Location,
		})

		if len(contacts) == 0 {
			continue
		}
		for j := 0; j < perConnector; j++ {
			k := g.rng.Intn(len(contacts))
			target := contacts[k]
			snap.Connections[profileID] = append(snap.Connections[profileID], models.ConnectionRecord{
				ID:                   c.ID + "-" + target.ID,
				ProfileID:            target.ID,
				FullName:             target.Name,
				Title:                target.Title,
				Company:              contactCompany[k],
				Email:                target.Email,
				RelationshipStrength: float64(30+g.rng.Intn(70)) / 100,
			})
		}
	}
	snap.Connections[ownerID] = first
	return snap
}
