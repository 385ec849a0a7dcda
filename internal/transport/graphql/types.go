package graphql

import (
	"context"

	"github.com/99designs/gqlgen/graphql"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

type activityField = fieldFunc[*activityNode]

func (s *schema) activityObject() *object[*activityNode] {
	attr := func(get func(a *domain.Activity) graphql.Marshaler) activityField {
		return leaf(func(n *activityNode) graphql.Marshaler { return get(&n.Activity) })
	}

	return &object[*activityNode]{
		name: "Activity",
		fields: map[string]activityField{
			"id":                  attr(func(a *domain.Activity) graphql.Marshaler { return marshalUUID(a.ID) }),
			"publisherId":         attr(func(a *domain.Activity) graphql.Marshaler { return marshalUUID(a.PublisherID) }),
			"iatiIdentifier":      attr(func(a *domain.Activity) graphql.Marshaler { return graphql.MarshalString(a.IATIIdentifier) }),
			"defaultLang":         attr(func(a *domain.Activity) graphql.Marshaler { return marshalOptString(a.DefaultLang) }),
			"defaultCurrency":     attr(func(a *domain.Activity) graphql.Marshaler { return marshalOptString(a.DefaultCurrency) }),
			"hierarchy":           attr(func(a *domain.Activity) graphql.Marshaler { return graphql.MarshalInt(a.Hierarchy) }),
			"humanitarian":        attr(func(a *domain.Activity) graphql.Marshaler { return graphql.MarshalBoolean(a.Humanitarian) }),
			"linkedDataUri":       attr(func(a *domain.Activity) graphql.Marshaler { return marshalOptString(a.LinkedDataURI) }),
			"activityStatus":      attr(func(a *domain.Activity) graphql.Marshaler { return marshalOptString(a.ActivityStatus) }),
			"scope":               attr(func(a *domain.Activity) graphql.Marshaler { return marshalOptString(a.Scope) }),
			"collaborationType":   attr(func(a *domain.Activity) graphql.Marshaler { return marshalOptString(a.CollaborationType) }),
			"defaultFlowType":     attr(func(a *domain.Activity) graphql.Marshaler { return marshalOptString(a.DefaultFlowType) }),
			"defaultFinanceType":  attr(func(a *domain.Activity) graphql.Marshaler { return marshalOptString(a.DefaultFinanceType) }),
			"defaultAidType":      attr(func(a *domain.Activity) graphql.Marshaler { return marshalOptString(a.DefaultAidType) }),
			"defaultTiedStatus":   attr(func(a *domain.Activity) graphql.Marshaler { return marshalOptString(a.DefaultTiedStatus) }),
			"capitalSpend":        attr(func(a *domain.Activity) graphql.Marshaler { return marshalOptDecimal(a.CapitalSpend) }),
			"conditionsAttached":  attr(func(a *domain.Activity) graphql.Marshaler { return graphql.MarshalBoolean(a.ConditionsAttached) }),
			"secondaryReporter":   attr(func(a *domain.Activity) graphql.Marshaler { return graphql.MarshalBoolean(a.SecondaryReporter) }),
			"lastUpdatedDatetime": attr(func(a *domain.Activity) graphql.Marshaler { return marshalOptDateTime(a.LastUpdatedDatetime) }),
			"published":           attr(func(a *domain.Activity) graphql.Marshaler { return graphql.MarshalBoolean(a.Published) }),
			"readyToPublish":      attr(func(a *domain.Activity) graphql.Marshaler { return graphql.MarshalBoolean(a.ReadyToPublish) }),
			"modified":            attr(func(a *domain.Activity) graphql.Marshaler { return graphql.MarshalBoolean(a.Modified) }),
			"createdAt":           attr(func(a *domain.Activity) graphql.Marshaler { return marshalDateTime(a.CreatedAt) }),
			"updatedAt":           attr(func(a *domain.Activity) graphql.Marshaler { return marshalDateTime(a.UpdatedAt) }),

			"title": func(ctx context.Context, n *activityNode, f graphql.CollectedField) (graphql.Marshaler, error) {
				title, err := n.titleThunk(ctx)()
				if err != nil {
					return nil, err
				}
				return marshalList(ctx, s.narrative, f.Selections, title), nil
			},
			"balance": func(ctx context.Context, n *activityNode, f graphql.CollectedField) (graphql.Marshaler, error) {
				b, err := n.balanceThunk(ctx)()
				if err != nil || b == nil {
					return graphql.Null, err
				}
				return s.balance.marshal(ctx, f.Selections, *b), nil
			},

			"descriptions":       detailList(&s.description, func(d *domain.ActivityDetail) []domain.Description { return d.Descriptions }),
			"participatingOrgs":  detailList(&s.participatingOrg, func(d *domain.ActivityDetail) []domain.ParticipatingOrg { return d.ParticipatingOrgs }),
			"recipientCountries": detailList(&s.recipientCountry, func(d *domain.ActivityDetail) []domain.RecipientCountry { return d.RecipientCountries }),
			"sectors":            detailList(&s.sector, func(d *domain.ActivityDetail) []domain.Sector { return d.Sectors }),
			"budgets":            detailList(&s.budget, func(d *domain.ActivityDetail) []domain.Budget { return d.Budgets }),
			"transactions":       detailList(&s.transaction, func(d *domain.ActivityDetail) []domain.Transaction { return d.Transactions }),
			"results":            detailList(&s.result, func(d *domain.ActivityDetail) []domain.Result { return d.Results }),
			"transactionTypes":   detailList(&s.typeTotal, func(d *domain.ActivityDetail) []domain.TransactionTypeTotal { return d.TransactionTypes }),

			"budgetsNotice":      detailLeaf(func(d *domain.ActivityDetail) graphql.Marshaler { return marshalOptString(d.BudgetsNotice) }),
			"transactionsNotice": detailLeaf(func(d *domain.ActivityDetail) graphql.Marshaler { return marshalOptString(d.TransactionsNotice) }),
			"resultsNotice":      detailLeaf(func(d *domain.ActivityDetail) graphql.Marshaler { return marshalOptString(d.ResultsNotice) }),

			"aggregation": func(ctx context.Context, n *activityNode, f graphql.CollectedField) (graphql.Marshaler, error) {
				d, err := n.loadDetail(ctx)
				if err != nil {
					return nil, err
				}
				return s.aggregation.marshal(ctx, f.Selections, d.Aggregation), nil
			},
		},
	}
}

func detailList[C any](o **object[C], get func(*domain.ActivityDetail) []C) activityField {
	return func(ctx context.Context, n *activityNode, f graphql.CollectedField) (graphql.Marshaler, error) {
		d, err := n.loadDetail(ctx)
		if err != nil {
			return nil, err
		}
		return marshalList(ctx, *o, f.Selections, get(d)), nil
	}
}

func detailLeaf(get func(*domain.ActivityDetail) graphql.Marshaler) activityField {
	return func(ctx context.Context, n *activityNode, _ graphql.CollectedField) (graphql.Marshaler, error) {
		d, err := n.loadDetail(ctx)
		if err != nil {
			return nil, err
		}
		return get(d), nil
	}
}

// ---------------------------------------------------------------------------
// Descriptive elements
// ---------------------------------------------------------------------------

func (s *schema) defineElements() {
	s.narrative = &object[domain.Narrative]{
		name: "Narrative",
		fields: map[string]fieldFunc[domain.Narrative]{
			"id":       leaf(func(n domain.Narrative) graphql.Marshaler { return marshalUUID(n.ID) }),
			"language": leaf(func(n domain.Narrative) graphql.Marshaler { return marshalOptString(n.Language) }),
			"content":  leaf(func(n domain.Narrative) graphql.Marshaler { return graphql.MarshalString(n.Content) }),
		},
	}

	s.description = &object[domain.Description]{
		name: "Description",
		fields: map[string]fieldFunc[domain.Description]{
			"id":         leaf(func(d domain.Description) graphql.Marshaler { return marshalUUID(d.ID) }),
			"type":       leaf(func(d domain.Description) graphql.Marshaler { return graphql.MarshalString(d.Type) }),
			"narratives": list(&s.narrative, func(d domain.Description) []domain.Narrative { return d.Narratives }),
		},
	}

	s.participatingOrg = &object[domain.ParticipatingOrg]{
		name: "ParticipatingOrg",
		fields: map[string]fieldFunc[domain.ParticipatingOrg]{
			"id":            leaf(func(o domain.ParticipatingOrg) graphql.Marshaler { return marshalUUID(o.ID) }),
			"ref":           leaf(func(o domain.ParticipatingOrg) graphql.Marshaler { return marshalOptString(o.Ref) }),
			"role":          leaf(func(o domain.ParticipatingOrg) graphql.Marshaler { return graphql.MarshalString(o.Role) }),
			"type":          leaf(func(o domain.ParticipatingOrg) graphql.Marshaler { return marshalOptString(o.Type) }),
			"activityIdRef": leaf(func(o domain.ParticipatingOrg) graphql.Marshaler { return marshalOptString(o.ActivityIDRef) }),
			"narratives":    list(&s.narrative, func(o domain.ParticipatingOrg) []domain.Narrative { return o.Narratives }),
		},
	}

	s.recipientCountry = &object[domain.RecipientCountry]{
		name: "RecipientCountry",
		fields: map[string]fieldFunc[domain.RecipientCountry]{
			"id":         leaf(func(c domain.RecipientCountry) graphql.Marshaler { return marshalUUID(c.ID) }),
			"country":    leaf(func(c domain.RecipientCountry) graphql.Marshaler { return graphql.MarshalString(c.Country) }),
			"percentage": leaf(func(c domain.RecipientCountry) graphql.Marshaler { return marshalOptDecimal(c.Percentage) }),
			"narratives": list(&s.narrative, func(c domain.RecipientCountry) []domain.Narrative { return c.Narratives }),
		},
	}

	s.sector = &object[domain.Sector]{
		name: "Sector",
		fields: map[string]fieldFunc[domain.Sector]{
			"id":            leaf(func(c domain.Sector) graphql.Marshaler { return marshalUUID(c.ID) }),
			"code":          leaf(func(c domain.Sector) graphql.Marshaler { return graphql.MarshalString(c.Code) }),
			"vocabulary":    leaf(func(c domain.Sector) graphql.Marshaler { return graphql.MarshalString(c.Vocabulary) }),
			"vocabularyUri": leaf(func(c domain.Sector) graphql.Marshaler { return marshalOptString(c.VocabularyURI) }),
			"percentage":    leaf(func(c domain.Sector) graphql.Marshaler { return marshalOptDecimal(c.Percentage) }),
			"narratives":    list(&s.narrative, func(c domain.Sector) []domain.Narrative { return c.Narratives }),
		},
	}
}

// ---------------------------------------------------------------------------
// Financial elements
// ---------------------------------------------------------------------------

func (s *schema) defineFinance() {
	s.budget = &object[domain.Budget]{
		name: "Budget",
		fields: map[string]fieldFunc[domain.Budget]{
			"id":          leaf(func(b domain.Budget) graphql.Marshaler { return marshalUUID(b.ID) }),
			"type":        leaf(func(b domain.Budget) graphql.Marshaler { return graphql.MarshalString(b.Type) }),
			"status":      leaf(func(b domain.Budget) graphql.Marshaler { return graphql.MarshalString(b.Status) }),
			"periodStart": leaf(func(b domain.Budget) graphql.Marshaler { return marshalDate(b.PeriodStart) }),
			"periodEnd":   leaf(func(b domain.Budget) graphql.Marshaler { return marshalDate(b.PeriodEnd) }),
			"value":       leaf(func(b domain.Budget) graphql.Marshaler { return marshalDecimal(b.Value) }),
			"currency":    leaf(func(b domain.Budget) graphql.Marshaler { return marshalOptString(b.Currency) }),
			"valueDate":   leaf(func(b domain.Budget) graphql.Marshaler { return marshalOptDate(b.ValueDate) }),
		},
	}

	s.transaction = &object[domain.Transaction]{
		name: "Transaction",
		fields: map[string]fieldFunc[domain.Transaction]{
			"id":                    leaf(func(t domain.Transaction) graphql.Marshaler { return marshalUUID(t.ID) }),
			"ref":                   leaf(func(t domain.Transaction) graphql.Marshaler { return marshalOptString(t.Ref) }),
			"humanitarian":          leaf(func(t domain.Transaction) graphql.Marshaler { return marshalOptBool(t.Humanitarian) }),
			"transactionType":       leaf(func(t domain.Transaction) graphql.Marshaler { return graphql.MarshalString(t.TransactionType) }),
			"transactionDate":       leaf(func(t domain.Transaction) graphql.Marshaler { return marshalDate(t.TransactionDate) }),
			"value":                 leaf(func(t domain.Transaction) graphql.Marshaler { return marshalDecimal(t.Value) }),
			"currency":              leaf(func(t domain.Transaction) graphql.Marshaler { return marshalOptString(t.Currency) }),
			"valueDate":             leaf(func(t domain.Transaction) graphql.Marshaler { return marshalOptDate(t.ValueDate) }),
			"disbursementChannel":   leaf(func(t domain.Transaction) graphql.Marshaler { return marshalOptString(t.DisbursementChannel) }),
			"flowType":              leaf(func(t domain.Transaction) graphql.Marshaler { return marshalOptString(t.FlowType) }),
			"financeType":           leaf(func(t domain.Transaction) graphql.Marshaler { return marshalOptString(t.FinanceType) }),
			"aidType":               leaf(func(t domain.Transaction) graphql.Marshaler { return marshalOptString(t.AidType) }),
			"tiedStatus":            leaf(func(t domain.Transaction) graphql.Marshaler { return marshalOptString(t.TiedStatus) }),
			"recipientCountry":      leaf(func(t domain.Transaction) graphql.Marshaler { return marshalOptString(t.RecipientCountry) }),
			"recipientRegion":       leaf(func(t domain.Transaction) graphql.Marshaler { return marshalOptString(t.RecipientRegion) }),
			"providerOrgRef":        leaf(func(t domain.Transaction) graphql.Marshaler { return marshalOptString(t.ProviderOrgRef) }),
			"receiverOrgRef":        leaf(func(t domain.Transaction) graphql.Marshaler { return marshalOptString(t.ReceiverOrgRef) }),
			"description":           list(&s.narrative, func(t domain.Transaction) []domain.Narrative { return t.Description }),
			"providerOrgNarratives": list(&s.narrative, func(t domain.Transaction) []domain.Narrative { return t.ProviderNarratives }),
			"receiverOrgNarratives": list(&s.narrative, func(t domain.Transaction) []domain.Narrative { return t.ReceiverNarratives }),
		},
	}

	s.balance = &object[domain.TransactionBalance]{
		name: "TransactionBalance",
		fields: map[string]fieldFunc[domain.TransactionBalance]{
			"currency":              leaf(func(b domain.TransactionBalance) graphql.Marshaler { return marshalOptString(b.Currency) }),
			"totalBudget":           leaf(func(b domain.TransactionBalance) graphql.Marshaler { return marshalDecimal(b.TotalBudget) }),
			"totalExpenditure":      leaf(func(b domain.TransactionBalance) graphql.Marshaler { return marshalDecimal(b.TotalExpenditure) }),
			"cumulativeBudget":      leaf(func(b domain.TransactionBalance) graphql.Marshaler { return marshalDecimal(b.CumulativeBudget) }),
			"cumulativeExpenditure": leaf(func(b domain.TransactionBalance) graphql.Marshaler { return marshalDecimal(b.CumulativeExpenditure) }),
			"computedAt":            leaf(func(b domain.TransactionBalance) graphql.Marshaler { return marshalDateTime(b.ComputedAt) }),
		},
	}

	s.typeTotal = &object[domain.TransactionTypeTotal]{
		name: "TransactionTypeTotal",
		fields: map[string]fieldFunc[domain.TransactionTypeTotal]{
			"transactionType": leaf(func(t domain.TransactionTypeTotal) graphql.Marshaler { return graphql.MarshalString(t.TransactionType) }),
			"total":           leaf(func(t domain.TransactionTypeTotal) graphql.Marshaler { return marshalDecimal(t.Total) }),
		},
	}

	s.aggregation = &object[domain.Aggregation]{
		name: "Aggregation",
		fields: map[string]fieldFunc[domain.Aggregation]{
			"budget":        leaf(func(a domain.Aggregation) graphql.Marshaler { return marshalDecimal(a.Budget) }),
			"commitment":    leaf(func(a domain.Aggregation) graphql.Marshaler { return marshalDecimal(a.Commitment) }),
			"disbursement":  leaf(func(a domain.Aggregation) graphql.Marshaler { return marshalDecimal(a.Disbursement) }),
			"expenditure":   leaf(func(a domain.Aggregation) graphql.Marshaler { return marshalDecimal(a.Expenditure) }),
			"incomingFunds": leaf(func(a domain.Aggregation) graphql.Marshaler { return marshalDecimal(a.IncomingFunds) }),
		},
	}
}

// ---------------------------------------------------------------------------
// Result tree
// ---------------------------------------------------------------------------

func (s *schema) defineResults() {
	s.result = &object[domain.Result]{
		name: "Result",
		fields: map[string]fieldFunc[domain.Result]{
			"id":                leaf(func(r domain.Result) graphql.Marshaler { return marshalUUID(r.ID) }),
			"type":              leaf(func(r domain.Result) graphql.Marshaler { return graphql.MarshalString(r.Type) }),
			"aggregationStatus": leaf(func(r domain.Result) graphql.Marshaler { return graphql.MarshalBoolean(r.AggregationStatus) }),
			"title":             list(&s.narrative, func(r domain.Result) []domain.Narrative { return r.Title }),
			"description":       list(&s.narrative, func(r domain.Result) []domain.Narrative { return r.Description }),
			"indicators":        list(&s.indicator, func(r domain.Result) []domain.Indicator { return r.Indicators }),
		},
	}

	s.indicator = &object[domain.Indicator]{
		name: "Indicator",
		fields: map[string]fieldFunc[domain.Indicator]{
			"id":                leaf(func(i domain.Indicator) graphql.Marshaler { return marshalUUID(i.ID) }),
			"measure":           leaf(func(i domain.Indicator) graphql.Marshaler { return graphql.MarshalString(i.Measure) }),
			"ascending":         leaf(func(i domain.Indicator) graphql.Marshaler { return graphql.MarshalBoolean(i.Ascending) }),
			"aggregationStatus": leaf(func(i domain.Indicator) graphql.Marshaler { return graphql.MarshalBoolean(i.AggregationStatus) }),
			"title":             list(&s.narrative, func(i domain.Indicator) []domain.Narrative { return i.Title }),
			"description":       list(&s.narrative, func(i domain.Indicator) []domain.Narrative { return i.Description }),
			"periods":           list(&s.period, func(i domain.Indicator) []domain.Period { return i.Periods }),
		},
	}

	s.period = &object[domain.Period]{
		name: "Period",
		fields: map[string]fieldFunc[domain.Period]{
			"id":          leaf(func(p domain.Period) graphql.Marshaler { return marshalUUID(p.ID) }),
			"periodStart": leaf(func(p domain.Period) graphql.Marshaler { return marshalDate(p.PeriodStart) }),
			"periodEnd":   leaf(func(p domain.Period) graphql.Marshaler { return marshalDate(p.PeriodEnd) }),
			"targets":     list(&s.periodValue, func(p domain.Period) []domain.PeriodValue { return p.Targets }),
			"actuals":     list(&s.periodValue, func(p domain.Period) []domain.PeriodValue { return p.Actuals }),
		},
	}

	s.periodValue = &object[domain.PeriodValue]{
		name: "PeriodValue",
		fields: map[string]fieldFunc[domain.PeriodValue]{
			"id":      leaf(func(v domain.PeriodValue) graphql.Marshaler { return marshalUUID(v.ID) }),
			"value":   leaf(func(v domain.PeriodValue) graphql.Marshaler { return marshalOptDecimal(v.Value) }),
			"comment": list(&s.narrative, func(v domain.PeriodValue) []domain.Narrative { return v.Comment }),
		},
	}
}
