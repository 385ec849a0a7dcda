package domain

// Code list names.
const (
	ListActivityDateType        = "ActivityDateType"
	ListActivityScope           = "ActivityScope"
	ListActivityStatus          = "ActivityStatus"
	ListAidType                 = "AidType"
	ListBudgetStatus            = "BudgetStatus"
	ListBudgetType              = "BudgetType"
	ListCollaborationType       = "CollaborationType"
	ListConditionType           = "ConditionType"
	ListCountry                 = "Country"
	ListCurrency                = "Currency"
	ListDescriptionType         = "DescriptionType"
	ListDisbursementChannel     = "DisbursementChannel"
	ListDocumentCategory        = "DocumentCategory"
	ListFileFormat              = "FileFormat"
	ListFinanceType             = "FinanceType"
	ListFlowType                = "FlowType"
	ListGeographicExactness     = "GeographicExactness"
	ListGeographicLocationClass = "GeographicLocationClass"
	ListGeographicReach         = "GeographicLocationReach"
	ListIndicatorMeasure        = "IndicatorMeasure"
	ListIndicatorVocabulary     = "IndicatorVocabulary"
	ListLanguage                = "Language"
	ListLocationType            = "LocationType"
	ListOrganisationRole        = "OrganisationRole"
	ListOrganisationType        = "OrganisationType"
	ListPolicyMarker            = "PolicyMarker"
	ListPolicyMarkerVocabulary  = "PolicyMarkerVocabulary"
	ListPolicySignificance      = "PolicySignificance"
	ListRegion                  = "Region"
	ListRegionVocabulary        = "RegionVocabulary"
	ListResultType              = "ResultType"
	ListResultVocabulary        = "ResultVocabulary"
	ListSector                  = "Sector"
	ListSectorVocabulary        = "SectorVocabulary"
	ListTiedStatus              = "TiedStatus"
	ListTransactionType         = "TransactionType"
)

// DefaultVocabulary is assumed for vocabulary-scoped lists when no
// vocabulary is given.
const DefaultVocabulary = "1"

// IsVocabularyScoped reports whether codes of list depend on a vocabulary.
func IsVocabularyScoped(list string) bool {
	return list == ListSector || list == ListRegion
}

// CodeRef references one code of a code list. Vocabulary is empty for lists
// that are not vocabulary-scoped.
type CodeRef struct {
	List       string `json:"list"`
	Vocabulary string `json:"vocabulary,omitempty"`
	Code       string `json:"code"`
}

// CodeListItem is one entry of a code list.
type CodeListItem struct {
	List        string `db:"list" yaml:"-" json:"list"`
	Vocabulary  string `db:"vocabulary" yaml:"vocabulary" json:"vocabulary"`
	Code        string `db:"code" yaml:"code" json:"code"`
	Name        string `db:"name" yaml:"name" json:"name"`
	Description string `db:"description" yaml:"description" json:"description"`
	Category    string `db:"category" yaml:"category" json:"category"`
	Withdrawn   bool   `db:"withdrawn" yaml:"withdrawn" json:"withdrawn"`
}

// CodeListSummary describes one stored code list.
type CodeListSummary struct {
	List       string `db:"list" json:"list"`
	Vocabulary string `db:"vocabulary" json:"vocabulary"`
	Items      int    `db:"items" json:"items"`
}
