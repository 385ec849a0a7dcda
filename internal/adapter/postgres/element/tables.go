package element

import (
	"github.com/heartmarshall/iati-publisher/internal/adapter/postgres"
	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// Ids are UUIDv7, so ordering by id keeps insertion order.

// NewDescriptions returns the description repository.
func NewDescriptions(db postgres.Querier) *Table[domain.Description] {
	return NewTable(db, TableDef[domain.Description]{
		Name:    "descriptions",
		Entity:  "description",
		Columns: []string{"id", "activity_id", "type"},
		OrderBy: []string{"id"},
		Values: func(d domain.Description) []any {
			return []any{d.ID, d.ActivityID, d.Type}
		},
	})
}

// NewActivityDates returns the activity date repository.
func NewActivityDates(db postgres.Querier) *Table[domain.ActivityDate] {
	return NewTable(db, TableDef[domain.ActivityDate]{
		Name:    "activity_dates",
		Entity:  "activity_date",
		Columns: []string{"id", "activity_id", "type", "iso_date"},
		OrderBy: []string{"type", "id"},
		Values: func(d domain.ActivityDate) []any {
			return []any{d.ID, d.ActivityID, d.Type, d.ISODate}
		},
	})
}

// NewParticipatingOrgs returns the participating organisation repository.
func NewParticipatingOrgs(db postgres.Querier) *Table[domain.ParticipatingOrg] {
	return NewTable(db, TableDef[domain.ParticipatingOrg]{
		Name:    "participating_orgs",
		Entity:  "participating_org",
		Columns: []string{"id", "activity_id", "ref", "role", "type", "activity_id_ref"},
		OrderBy: []string{"id"},
		Values: func(o domain.ParticipatingOrg) []any {
			return []any{o.ID, o.ActivityID, o.Ref, o.Role, o.Type, o.ActivityIDRef}
		},
	})
}

// NewRecipientCountries returns the recipient country repository.
func NewRecipientCountries(db postgres.Querier) *Table[domain.RecipientCountry] {
	return NewTable(db, TableDef[domain.RecipientCountry]{
		Name:    "recipient_countries",
		Entity:  "recipient_country",
		Columns: []string{"id", "activity_id", "country", "percentage"},
		OrderBy: []string{"id"},
		Values: func(c domain.RecipientCountry) []any {
			return []any{c.ID, c.ActivityID, c.Country, c.Percentage}
		},
	})
}

// NewRecipientRegions returns the recipient region repository.
func NewRecipientRegions(db postgres.Querier) *Table[domain.RecipientRegion] {
	return NewTable(db, TableDef[domain.RecipientRegion]{
		Name:    "recipient_regions",
		Entity:  "recipient_region",
		Columns: []string{"id", "activity_id", "region", "vocabulary", "vocabulary_uri", "percentage"},
		OrderBy: []string{"id"},
		Values: func(r domain.RecipientRegion) []any {
			return []any{r.ID, r.ActivityID, r.Region, r.Vocabulary, r.VocabularyURI, r.Percentage}
		},
	})
}

// NewSectors returns the sector repository.
func NewSectors(db postgres.Querier) *Table[domain.Sector] {
	return NewTable(db, TableDef[domain.Sector]{
		Name:    "sectors",
		Entity:  "sector",
		Columns: []string{"id", "activity_id", "code", "vocabulary", "vocabulary_uri", "percentage"},
		OrderBy: []string{"vocabulary", "id"},
		Values: func(s domain.Sector) []any {
			return []any{s.ID, s.ActivityID, s.Code, s.Vocabulary, s.VocabularyURI, s.Percentage}
		},
	})
}

// NewPolicyMarkers returns the policy marker repository.
func NewPolicyMarkers(db postgres.Querier) *Table[domain.PolicyMarker] {
	return NewTable(db, TableDef[domain.PolicyMarker]{
		Name:    "policy_markers",
		Entity:  "policy_marker",
		Columns: []string{"id", "activity_id", "code", "vocabulary", "vocabulary_uri", "significance"},
		OrderBy: []string{"id"},
		Values: func(p domain.PolicyMarker) []any {
			return []any{p.ID, p.ActivityID, p.Code, p.Vocabulary, p.VocabularyURI, p.Significance}
		},
	})
}

// NewConditions returns the condition repository.
func NewConditions(db postgres.Querier) *Table[domain.Condition] {
	return NewTable(db, TableDef[domain.Condition]{
		Name:    "conditions",
		Entity:  "condition",
		Columns: []string{"id", "activity_id", "type"},
		OrderBy: []string{"id"},
		Values: func(c domain.Condition) []any {
			return []any{c.ID, c.ActivityID, c.Type}
		},
	})
}

// NewBudgets returns the budget repository.
func NewBudgets(db postgres.Querier) *Table[domain.Budget] {
	return NewTable(db, TableDef[domain.Budget]{
		Name:    "budgets",
		Entity:  "budget",
		Columns: []string{"id", "activity_id", "type", "status", "period_start", "period_end", "value", "currency", "value_date"},
		OrderBy: []string{"period_start", "id"},
		Values: func(b domain.Budget) []any {
			return []any{b.ID, b.ActivityID, b.Type, b.Status, b.PeriodStart, b.PeriodEnd, b.Value, b.Currency, b.ValueDate}
		},
	})
}

// NewTransactions returns the transaction repository.
func NewTransactions(db postgres.Querier) *Table[domain.Transaction] {
	return NewTable(db, TableDef[domain.Transaction]{
		Name:    "transactions",
		Entity:  "transaction",
		Columns: []string{
			"id", "activity_id", "ref", "humanitarian", "transaction_type", "transaction_date",
			"value", "currency", "value_date", "disbursement_channel", "flow_type", "finance_type",
			"aid_type", "tied_status", "recipient_country", "recipient_region",
			"provider_org_ref", "provider_org_type", "receiver_org_ref", "receiver_org_type",
		},
		OrderBy: []string{"transaction_date", "id"},
		Values: func(t domain.Transaction) []any {
			return []any{
				t.ID, t.ActivityID, t.Ref, t.Humanitarian, t.TransactionType, t.TransactionDate,
				t.Value, t.Currency, t.ValueDate, t.DisbursementChannel, t.FlowType, t.FinanceType,
				t.AidType, t.TiedStatus, t.RecipientCountry, t.RecipientRegion,
				t.ProviderOrgRef, t.ProviderOrgType, t.ReceiverOrgRef, t.ReceiverOrgType,
			}
		},
	})
}

// NewDocumentLinks returns the document link repository.
func NewDocumentLinks(db postgres.Querier) *Table[domain.DocumentLink] {
	return NewTable(db, TableDef[domain.DocumentLink]{
		Name:    "document_links",
		Entity:  "document_link",
		Columns: []string{"id", "activity_id", "url", "format", "document_date", "categories", "languages"},
		OrderBy: []string{"id"},
		Values: func(d domain.DocumentLink) []any {
			return []any{d.ID, d.ActivityID, d.URL, d.Format, d.DocumentDate, nonNil(d.Categories), nonNil(d.Languages)}
		},
	})
}

// NewLocations returns the location repository.
func NewLocations(db postgres.Querier) *Table[domain.Location] {
	return NewTable(db, TableDef[domain.Location]{
		Name:    "locations",
		Entity:  "location",
		Columns: []string{
			"id", "activity_id", "ref", "location_reach", "exactness", "location_class",
			"feature_designation", "latitude", "longitude",
		},
		OrderBy: []string{"id"},
		Values: func(l domain.Location) []any {
			return []any{
				l.ID, l.ActivityID, l.Ref, l.LocationReach, l.Exactness, l.LocationClass,
				l.FeatureDesignation, l.Latitude, l.Longitude,
			}
		},
	})
}

// text[] columns are NOT NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
