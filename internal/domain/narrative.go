package domain

import "github.com/google/uuid"

// NarrativeOwnerType names the container a narrative belongs to.
type NarrativeOwnerType string

const (
	OwnerActivityTitle               NarrativeOwnerType = "activity_title"
	OwnerDescription                 NarrativeOwnerType = "description"
	OwnerActivityDate                NarrativeOwnerType = "activity_date"
	OwnerParticipatingOrg            NarrativeOwnerType = "participating_org"
	OwnerRecipientCountry            NarrativeOwnerType = "recipient_country"
	OwnerRecipientRegion             NarrativeOwnerType = "recipient_region"
	OwnerSector                      NarrativeOwnerType = "sector"
	OwnerPolicyMarker                NarrativeOwnerType = "policy_marker"
	OwnerCondition                   NarrativeOwnerType = "condition"
	OwnerTransactionDescription      NarrativeOwnerType = "transaction_description"
	OwnerTransactionProvider         NarrativeOwnerType = "transaction_provider"
	OwnerTransactionReceiver         NarrativeOwnerType = "transaction_receiver"
	OwnerDocumentLinkTitle           NarrativeOwnerType = "document_link_title"
	OwnerDocumentLinkDescription     NarrativeOwnerType = "document_link_description"
	OwnerLocationName                NarrativeOwnerType = "location_name"
	OwnerLocationDescription         NarrativeOwnerType = "location_description"
	OwnerLocationActivityDescription NarrativeOwnerType = "location_activity_description"
	OwnerResultTitle                 NarrativeOwnerType = "result_title"
	OwnerResultDescription           NarrativeOwnerType = "result_description"
	OwnerIndicatorTitle              NarrativeOwnerType = "indicator_title"
	OwnerIndicatorDescription        NarrativeOwnerType = "indicator_description"
	OwnerIndicatorBaselineComment    NarrativeOwnerType = "indicator_baseline_comment"
	OwnerPeriodTargetComment         NarrativeOwnerType = "indicator_period_target_comment"
	OwnerPeriodActualComment         NarrativeOwnerType = "indicator_period_actual_comment"
)

func (t NarrativeOwnerType) String() string { return string(t) }

func (t NarrativeOwnerType) IsValid() bool {
	switch t {
	case OwnerActivityTitle, OwnerDescription, OwnerActivityDate, OwnerParticipatingOrg,
		OwnerRecipientCountry, OwnerRecipientRegion, OwnerSector, OwnerPolicyMarker, OwnerCondition,
		OwnerTransactionDescription, OwnerTransactionProvider, OwnerTransactionReceiver,
		OwnerDocumentLinkTitle, OwnerDocumentLinkDescription, OwnerLocationName,
		OwnerLocationDescription, OwnerLocationActivityDescription, OwnerResultTitle,
		OwnerResultDescription, OwnerIndicatorTitle, OwnerIndicatorDescription,
		OwnerIndicatorBaselineComment, OwnerPeriodTargetComment, OwnerPeriodActualComment:
		return true
	}
	return false
}

// NarrativeOwner identifies one narrative container: the owning row and the
// role the narratives play for it.
type NarrativeOwner struct {
	Type NarrativeOwnerType `json:"type"`
	ID   uuid.UUID          `json:"id"`
}

// Narrative is a piece of localized free text. An empty Language means the
// activity default language.
type Narrative struct {
	ID         uuid.UUID          `db:"id" json:"id"`
	ActivityID uuid.UUID          `db:"activity_id" json:"activity_id"`
	OwnerType  NarrativeOwnerType `db:"owner_type" json:"owner_type"`
	OwnerID    uuid.UUID          `db:"owner_id" json:"owner_id"`
	Language   string             `db:"language" json:"language"`
	Content    string             `db:"content" json:"content"`
}

// Owner returns the container the narrative belongs to.
func (n Narrative) Owner() NarrativeOwner {
	return NarrativeOwner{Type: n.OwnerType, ID: n.OwnerID}
}

// GroupNarratives indexes narratives by their owner.
func GroupNarratives(narratives []Narrative) map[NarrativeOwner][]Narrative {
	out := make(map[NarrativeOwner][]Narrative)
	for _, n := range narratives {
		out[n.Owner()] = append(out[n.Owner()], n)
	}
	return out
}
