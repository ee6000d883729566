// internal/agent/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"

	routefunction "github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/agent/route-function"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/logger"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/metrics"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/observability"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

const (
	// ConfidenceThreshold gates retrieval: below or at it the query is
	// answered conversationally without touching the data store.
	ConfidenceThreshold = 0.5

	// ProcessingApology is the last-resort answer when the pipeline
	// itself breaks.
	ProcessingApology = "I encountered an error while processing your request. Please try again."
)

// IntentParser classifies a query. Implementations are total.
type IntentParser interface {
	ParseIntent(ctx context.Context, userQuery string) *models.IntentAnalysis
}

// FunctionRouter executes the retrieval for a classified intent.
type FunctionRouter interface {
	Route(ctx context.Context, analysis *models.IntentAnalysis, userID string, isDemo bool) (models.QueryResult, error)
}

// ResponseGenerator turns retrieved data into prose. Implementations are
// total.
type ResponseGenerator interface {
	Generate(ctx context.Context, userQuery string, analysis *models.IntentAnalysis, result models.QueryResult, userContext string) string
}

// Orchestrator runs the parse, retrieve, generate pipeline.
type Orchestrator struct {
	parser    IntentParser
	router    FunctionRouter
	generator ResponseGenerator
	queries   routefunction.QueryService
	obs       *observability.Observability
	logger    logger.Logger
	now       func() time.Time
}

// New wires the pipeline. obs may be nil when service-level metrics are
// not wanted, such as in tests.
func New(parser IntentParser, router FunctionRouter, generator ResponseGenerator, queries routefunction.QueryService, obs *observability.Observability, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		parser:    parser,
		router:    router,
		generator: generator,
		queries:   queries,
		obs:       obs,
		logger:    log,
		now:       time.Now,
	}
}

// ProcessQuery answers a user question end to end. It never returns nil
// and never panics outward: retrieval failures degrade to a data-free
// conversational answer, and anything worse becomes a generic apology
// with confidence 0.
func (o *Orchestrator) ProcessQuery(ctx context.Context, query, userID string, isDemo bool, userContext string) (resp *models.RAGResponse) {
	requestID := uuid.NewString()
	log := o.logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"user_id":    userID,
		"is_demo":    isDemo,
	})

	start := o.now()
	status := "success"

	defer func() {
		if r := recover(); r != nil {
			status = "panic"
			log.Error("query processing panicked", map[string]interface{}{
				"panic": r,
			})
			resp = &models.RAGResponse{
				Answer:        ProcessingApology,
				FunctionsUsed: []string{},
				Confidence:    0,
			}
		}
		if o.obs != nil {
			o.obs.RecordQueryProcessed(ctx, status)
			o.obs.RecordQueryDuration(ctx, time.Since(start), status)
		}
	}()

	log.Info("processing query", map[string]interface{}{
		"query_length": len(query),
	})

	analysis := o.parser.ParseIntent(ctx, query)
	metrics.AgentQueriesTotal.WithLabelValues(string(analysis.Intent)).Inc()

	var result models.QueryResult
	functionsUsed := []string{}

	if analysis.Intent != models.IntentGeneralChat && analysis.Confidence > ConfidenceThreshold {
		routed, err := o.router.Route(ctx, analysis, userID, isDemo)
		if err != nil {
			// Retrieval failed; the generator still runs so the user
			// gets a conversational answer instead of an error.
			status = "degraded"
			metrics.AgentStageFailures.WithLabelValues(routefunction.StageName, "QUERY_EXECUTION_FAILED").Inc()
			log.WithError(err).Error("data retrieval failed, answering without data", map[string]interface{}{
				"intent": analysis.Intent,
			})
		} else if routed != nil {
			result = routed
			functionsUsed = append(functionsUsed, string(analysis.Intent))
		}
	} else {
		log.Debug("skipping retrieval", map[string]interface{}{
			"intent":     analysis.Intent,
			"confidence": analysis.Confidence,
		})
	}

	answer := o.generator.Generate(ctx, query, analysis, result, userContext)

	metrics.AgentQueryDuration.WithLabelValues(string(analysis.Intent)).Observe(time.Since(start).Seconds())
	log.Info("query processed", map[string]interface{}{
		"intent":         analysis.Intent,
		"confidence":     analysis.Confidence,
		"functions_used": functionsUsed,
		"duration_ms":    time.Since(start).Milliseconds(),
	})

	return &models.RAGResponse{
		Answer:        answer,
		Data:          result,
		FunctionsUsed: functionsUsed,
		Confidence:    analysis.Confidence,
	}
}
