package graphql

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"log/slog"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

//go:embed schema.graphqls
var schemaSDL string

var parsedSchema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: schemaSDL})

// NewHandler returns the GraphQL endpoint. Requests must carry the
// per-request loaders installed by dataloader.Middleware.
func NewHandler(r *Resolver, log *slog.Logger) *handler.Server {
	srv := handler.New(newSchema(r).executable())
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})
	srv.SetErrorPresenter(NewErrorPresenter(log.With("handler", "graphql")))
	return srv
}

// schema executes queries against parsedSchema, one object marshaler per
// GraphQL type.
type schema struct {
	resolver *Resolver

	query            *object[struct{}]
	page             *object[activityPage]
	activity         *object[*activityNode]
	narrative        *object[domain.Narrative]
	description      *object[domain.Description]
	participatingOrg *object[domain.ParticipatingOrg]
	recipientCountry *object[domain.RecipientCountry]
	sector           *object[domain.Sector]
	budget           *object[domain.Budget]
	transaction      *object[domain.Transaction]
	balance          *object[domain.TransactionBalance]
	typeTotal        *object[domain.TransactionTypeTotal]
	aggregation      *object[domain.Aggregation]
	result           *object[domain.Result]
	indicator        *object[domain.Indicator]
	period           *object[domain.Period]
	periodValue      *object[domain.PeriodValue]
}

func newSchema(r *Resolver) *schema {
	s := &schema{resolver: r}
	s.query = s.queryObject()
	s.page = s.pageObject()
	s.activity = s.activityObject()
	s.defineElements()
	s.defineFinance()
	s.defineResults()
	return s
}

// executable adapts the schema to gqlgen's executor. Complexity limits are
// not enabled, so only Schema and Exec are provided.
func (s *schema) executable() graphql.ExecutableSchema {
	return &graphql.ExecutableSchemaMock{
		SchemaFunc: func() *ast.Schema { return parsedSchema },
		ExecFunc:   s.exec,
	}
}

func (s *schema) exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)
	if opCtx.Operation.Operation != ast.Query {
		return graphql.OneShot(graphql.ErrorResponse(ctx, "only queries are supported"))
	}

	done := false
	return func(ctx context.Context) *graphql.Response {
		if done {
			return nil
		}
		done = true

		data := s.query.marshal(ctx, opCtx.Operation.SelectionSet, struct{}{})
		var buf bytes.Buffer
		data.MarshalGQL(&buf)
		return &graphql.Response{Data: buf.Bytes()}
	}
}

// ---------------------------------------------------------------------------
// Query
// ---------------------------------------------------------------------------

var errIntrospection = errors.New("introspection is not supported")

func (s *schema) queryObject() *object[struct{}] {
	return &object[struct{}]{
		name: "Query",
		fields: map[string]fieldFunc[struct{}]{
			"activity": func(ctx context.Context, _ struct{}, f graphql.CollectedField) (graphql.Marshaler, error) {
				id, err := unmarshalUUID(graphql.GetFieldContext(ctx).Args["id"])
				if err != nil {
					return nil, domain.NewValidationError("id", "must be a UUID")
				}
				n, err := s.resolver.Activity(ctx, id)
				if err != nil {
					return nil, err
				}
				return s.activity.marshal(ctx, f.Selections, n), nil
			},
			"activityByIdentifier": func(ctx context.Context, _ struct{}, f graphql.CollectedField) (graphql.Marshaler, error) {
				identifier, _ := graphql.GetFieldContext(ctx).Args["iatiIdentifier"].(string)
				n, err := s.resolver.ActivityByIdentifier(ctx, identifier)
				if err != nil {
					return nil, err
				}
				return s.activity.marshal(ctx, f.Selections, n), nil
			},
			"activities": func(ctx context.Context, _ struct{}, f graphql.CollectedField) (graphql.Marshaler, error) {
				filter, err := activityFilter(graphql.GetFieldContext(ctx).Args)
				if err != nil {
					return nil, err
				}
				page, err := s.resolver.Activities(ctx, filter)
				if err != nil {
					return nil, err
				}
				return s.page.marshal(ctx, f.Selections, page), nil
			},
			"__schema": func(context.Context, struct{}, graphql.CollectedField) (graphql.Marshaler, error) {
				return nil, errIntrospection
			},
			"__type": func(context.Context, struct{}, graphql.CollectedField) (graphql.Marshaler, error) {
				return nil, errIntrospection
			},
		},
	}
}

func activityFilter(args map[string]any) (domain.ActivityFilter, error) {
	var filter domain.ActivityFilter

	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v, ok := args[name]
		if !ok || v == nil {
			continue
		}
		n, err := unmarshalInt(v)
		if err != nil || n < 0 {
			return filter, domain.NewValidationError(name, "must be a non-negative integer")
		}
		*dst = n
	}

	in, _ := args["filter"].(map[string]any)
	if v := in["publisherId"]; v != nil {
		id, err := unmarshalUUID(v)
		if err != nil {
			return filter, domain.NewValidationError("filter.publisherId", "must be a UUID")
		}
		filter.PublisherID = &id
	}
	if v, ok := in["modified"].(bool); ok {
		filter.Modified = &v
	}
	if v, ok := in["published"].(bool); ok {
		filter.Published = &v
	}
	filter.Query, _ = in["query"].(string)
	return filter, nil
}

func (s *schema) pageObject() *object[activityPage] {
	return &object[activityPage]{
		name: "ActivityPage",
		fields: map[string]fieldFunc[activityPage]{
			"items": func(ctx context.Context, p activityPage, f graphql.CollectedField) (graphql.Marshaler, error) {
				s.prime(ctx, f.Selections, p.items)
				return marshalList(ctx, s.activity, f.Selections, p.items), nil
			},
			"total": leaf(func(p activityPage) graphql.Marshaler { return graphql.MarshalInt(p.total) }),
		},
	}
}

// prime schedules the loader reads of every node before the first one is
// resolved, so each loader serves the whole page from one batch.
func (s *schema) prime(ctx context.Context, sel ast.SelectionSet, nodes []*activityNode) {
	for _, f := range graphql.CollectFields(graphql.GetOperationContext(ctx), sel, []string{"Activity"}) {
		for _, n := range nodes {
			switch f.Name {
			case "title":
				n.titleThunk(ctx)
			case "balance":
				n.balanceThunk(ctx)
			}
		}
	}
}
