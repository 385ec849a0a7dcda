package domain

// EntityType identifies the kind of domain entity (used in audit logs and
// when resolving the owning activity of a child row).
type EntityType string

const (
	EntityTypePublisher          EntityType = "PUBLISHER"
	EntityTypeActivity           EntityType = "ACTIVITY"
	EntityTypeDescription        EntityType = "DESCRIPTION"
	EntityTypeActivityDate       EntityType = "ACTIVITY_DATE"
	EntityTypeParticipatingOrg   EntityType = "PARTICIPATING_ORG"
	EntityTypeRecipientCountry   EntityType = "RECIPIENT_COUNTRY"
	EntityTypeRecipientRegion    EntityType = "RECIPIENT_REGION"
	EntityTypeSector             EntityType = "SECTOR"
	EntityTypePolicyMarker       EntityType = "POLICY_MARKER"
	EntityTypeCondition          EntityType = "CONDITION"
	EntityTypeBudget             EntityType = "BUDGET"
	EntityTypeTransaction        EntityType = "TRANSACTION"
	EntityTypeDocumentLink       EntityType = "DOCUMENT_LINK"
	EntityTypeLocation           EntityType = "LOCATION"
	EntityTypeResult             EntityType = "RESULT"
	EntityTypeResultReference    EntityType = "RESULT_REFERENCE"
	EntityTypeIndicator          EntityType = "INDICATOR"
	EntityTypeIndicatorReference EntityType = "INDICATOR_REFERENCE"
	EntityTypeBaseline           EntityType = "BASELINE"
	EntityTypePeriod             EntityType = "PERIOD"
	EntityTypePeriodValue        EntityType = "PERIOD_VALUE"
	EntityTypePeriodDimension    EntityType = "PERIOD_DIMENSION"
	EntityTypePeriodLocation     EntityType = "PERIOD_LOCATION"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypePublisher, EntityTypeActivity, EntityTypeDescription, EntityTypeActivityDate,
		EntityTypeParticipatingOrg, EntityTypeRecipientCountry, EntityTypeRecipientRegion,
		EntityTypeSector, EntityTypePolicyMarker, EntityTypeCondition, EntityTypeBudget,
		EntityTypeTransaction, EntityTypeDocumentLink, EntityTypeLocation, EntityTypeResult,
		EntityTypeResultReference, EntityTypeIndicator, EntityTypeIndicatorReference,
		EntityTypeBaseline, EntityTypePeriod, EntityTypePeriodValue, EntityTypePeriodDimension,
		EntityTypePeriodLocation:
		return true
	}
	return false
}

// AuditAction represents the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete:
		return true
	}
	return false
}

// Role represents the authorization level of an API caller.
type Role string

const (
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RolePublisher, RoleAdmin:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// PeriodValueKind distinguishes indicator period targets from actuals.
type PeriodValueKind string

const (
	PeriodValueTarget PeriodValueKind = "target"
	PeriodValueActual PeriodValueKind = "actual"
)

func (k PeriodValueKind) String() string { return string(k) }

func (k PeriodValueKind) IsValid() bool {
	switch k {
	case PeriodValueTarget, PeriodValueActual:
		return true
	}
	return false
}

// SearchKind names a document collection in the search index.
type SearchKind string

const (
	SearchKindActivity  SearchKind = "activity"
	SearchKindPublisher SearchKind = "publisher"
)

func (k SearchKind) String() string { return string(k) }

func (k SearchKind) IsValid() bool {
	switch k {
	case SearchKindActivity, SearchKindPublisher:
		return true
	}
	return false
}

// IATI codes with behaviour attached to them.
const (
	TransactionTypeIncomingFunds = "1"
	TransactionTypeCommitment    = "2"
	TransactionTypeDisbursement  = "3"
	TransactionTypeExpenditure   = "4"

	BudgetTypeOriginal    = "1"
	BudgetStatusCommitted = "2"

	ActivityDateActualStart = "2"
	ActivityDateActualEnd   = "4"

	// Vocabularies 98 and 99 are defined by the reporting organisation, so
	// their codes are not checked against a code list.
	VocabularyReportingOrg1 = "98"
	VocabularyReportingOrg2 = "99"
)

// IsReportingOrgVocabulary reports whether codes of vocab are free-form.
func IsReportingOrgVocabulary(vocab string) bool {
	return vocab == VocabularyReportingOrg1 || vocab == VocabularyReportingOrg2
}
