package rest

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/iati-publisher/internal/transport/dataloader"
	"github.com/heartmarshall/iati-publisher/internal/transport/middleware"
)

// Handlers groups every HTTP handler served by the API.
type Handlers struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	Publisher  *PublisherHandler
	CodeList   *CodeListHandler
	Activity   *ActivityHandler
	Element    *ElementHandler
	Result     *ResultHandler
	Search     *SearchHandler
	GraphQL    http.Handler
	Loaders    *dataloader.Repos
	Metrics    *middleware.Metrics
	Gatherer   prometheus.Gatherer
	MaxBodyLen int64
}

// NewRouter registers every route on a ServeMux. Each handler is
// instrumented under its route pattern and request bodies are capped at
// MaxBodyLen bytes.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	handle := func(pattern string, handler http.Handler) {
		if h.Metrics != nil {
			handler = h.Metrics.Instrument(pattern, handler)
		}
		if h.MaxBodyLen > 0 {
			handler = http.MaxBytesHandler(handler, h.MaxBodyLen)
		}
		mux.Handle(pattern, handler)
	}

	// Probes.
	handle("GET /live", http.HandlerFunc(h.Health.Live))
	handle("GET /ready", http.HandlerFunc(h.Health.Ready))
	handle("GET /health", http.HandlerFunc(h.Health.Health))
	handle("GET /api/health", http.HandlerFunc(h.Health.Legacy))
	if h.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{}))
	}

	handle("POST /api/auth/token", http.HandlerFunc(h.Auth.Token))

	// Publishers.
	handle("POST /api/admin/publishers", http.HandlerFunc(h.Publisher.Create))
	handle("GET /api/admin/publishers", http.HandlerFunc(h.Publisher.List))
	handle("POST /api/admin/publishers/{publisherID}/api-key", http.HandlerFunc(h.Publisher.RotateKey))
	handle("GET /api/publishers/{publisherID}", http.HandlerFunc(h.Publisher.Get))
	handle("PUT /api/publishers/{publisherID}", http.HandlerFunc(h.Publisher.Update))
	handle("DELETE /api/publishers/{publisherID}", http.HandlerFunc(h.Publisher.Delete))

	handle("GET /api/codelists", http.HandlerFunc(h.CodeList.Lists))
	handle("GET /api/codelists/{list}", http.HandlerFunc(h.CodeList.List))

	handle("GET /api/search", http.HandlerFunc(h.Search.Search))

	// Activity reads.
	list := http.Handler(http.HandlerFunc(h.Activity.List))
	if h.Loaders != nil {
		list = dataloader.Middleware(h.Loaders)(list)
	}
	handle("GET /api/activities", list)

	if h.GraphQL != nil {
		graph := h.GraphQL
		if h.Loaders != nil {
			graph = dataloader.Middleware(h.Loaders)(graph)
		}
		handle("GET /api/graphql", graph)
		handle("POST /api/graphql", graph)
	}

	handle("GET /api/activities/{activityID}", http.HandlerFunc(h.Activity.Detail))
	handle("GET /api/iati-activities/{iatiIdentifier...}", http.HandlerFunc(h.Activity.ByIATIIdentifier))
	handle("GET /api/activities/{activityID}/transactions", http.HandlerFunc(h.Activity.Transactions))
	handle("GET /api/activities/{activityID}/budgets", http.HandlerFunc(h.Activity.Budgets))
	handle("GET /api/activities/{activityID}/results", http.HandlerFunc(h.Activity.Results))
	handle("GET /api/activities/{activityID}/results/{resultID}", http.HandlerFunc(h.Activity.Result))
	handle("GET /api/activities/{activityID}/balance", http.HandlerFunc(h.Activity.Balance))

	// Activity writes.
	handle("POST /api/publishers/{publisherID}/activities", http.HandlerFunc(h.Activity.Create))
	handle("PUT "+activityRoute, http.HandlerFunc(h.Activity.Update))
	handle("DELETE "+activityRoute, http.HandlerFunc(h.Activity.Delete))
	handle("POST "+activityRoute+"/ready", http.HandlerFunc(h.Activity.Ready))
	handle("POST "+activityRoute+"/publish", http.HandlerFunc(h.Activity.Publish))
	handle("GET "+activityRoute+"/history", http.HandlerFunc(h.Activity.History))

	for _, rt := range h.Element.Routes() {
		handle(rt.pattern, rt.handler)
	}
	for _, rt := range h.Result.Routes() {
		handle(rt.pattern, rt.handler)
	}

	return mux
}
