// Package agent implements the question-answering engine: a bounded, cyclic
// state machine that turns a natural-language question into SQL, executes it,
// corrects failed queries a limited number of times, and formulates a
// natural-language answer.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/datalago/askdb/pkg/metrics"
)

// Engine drives one run per question. It owns the run state, enforces the
// attempt budget and is the only component that decides termination. All
// I/O happens inside the node calls; the engine itself only routes and
// updates state.
type Engine struct {
	cfg *Config
	log *slog.Logger
}

// New creates a new Engine.
func New(cfg *Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, log: cfg.Logger}, nil
}

func (e *Engine) logInfo(msg string, args ...any) {
	if e.log != nil {
		e.log.Info(msg, args...)
	}
}

// complete calls the LLM with the configured timeout. A failure here is
// fatal for the run; it is never charged against the execution budget.
func (e *Engine) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.LLMTimeout)
	defer cancel()
	return e.cfg.LLM.Complete(ctx, systemPrompt, userPrompt)
}

// Run answers a single question. The context may be cancelled between any
// two phases; once cancelled no further LLM or database calls are issued and
// the partial run state is discarded. Infrastructure failures never surface
// as raw errors: they produce an aborted result with an explanatory answer.
func (e *Engine) Run(ctx context.Context, question string) (*Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is empty")
	}

	st := &runState{question: question}
	state := StateStart

	e.logInfo("agent: run starting", "question", question)

	for {
		// Phase boundary: stop issuing calls once the caller is gone.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch state {
		case StateStart:
			tables, err := e.listTables(ctx)
			if err != nil {
				return e.abort(st, fmt.Sprintf("não foi possível listar as tabelas do banco: %v", err)), nil
			}
			if len(tables) == 0 {
				return e.abort(st, "o banco de dados não possui tabelas"), nil
			}
			st.allTables = tables
			st.addStep("Tabelas encontradas: " + strings.Join(tables, ", "))
			e.logInfo("agent: tables listed", "count", len(tables))
			state = StateTablesListed

		case StateTablesListed:
			if !needsFiltering(len(st.allTables), e.cfg.FilterThreshold) {
				e.logInfo("agent: filtering skipped", "tables", len(st.allTables), "threshold", e.cfg.FilterThreshold)
				if err := e.loadSchema(ctx, st); err != nil {
					return e.abort(st, fmt.Sprintf("não foi possível carregar o schema: %v", err)), nil
				}
				state = StateSchemaLoaded
				continue
			}
			selected, err := e.selectTables(ctx, st)
			if err != nil {
				return e.abort(st, fmt.Sprintf("falha ao consultar o modelo de linguagem: %v", err)), nil
			}
			st.selectedTables = selected
			st.addStep("Tabelas selecionadas: " + strings.Join(selected, ", "))
			e.logInfo("agent: tables filtered", "selected", len(selected), "total", len(st.allTables))
			state = StateTablesFiltered

		case StateTablesFiltered:
			if err := e.loadSchema(ctx, st); err != nil {
				return e.abort(st, fmt.Sprintf("não foi possível carregar o schema: %v", err)), nil
			}
			state = StateSchemaLoaded

		case StateSchemaLoaded:
			// The synthesizer runs exactly once per run; generation problems
			// after this point are handled by the correction path.
			sql, err := e.synthesize(ctx, st)
			if err != nil {
				return e.abort(st, fmt.Sprintf("falha ao consultar o modelo de linguagem: %v", err)), nil
			}
			st.currentQuery = sql
			if sql == "" {
				st.addStep("O modelo não retornou uma query SQL reconhecível")
			} else {
				st.addStep("Query gerada: " + sql)
			}
			e.logInfo("agent: query generated", "sql", sql)
			state = StateQueryGenerated

		case StateQueryGenerated:
			// The attempt is charged before dispatch so a crash mid-call
			// cannot produce more executions than the budget allows.
			st.attemptCount++
			metrics.ExecutionAttemptsTotal.Inc()
			e.execute(ctx, st)
			if st.lastError != "" {
				st.addStep(fmt.Sprintf("Erro na execução (tentativa %d/%d): %s", st.attemptCount, e.cfg.MaxAttempts, st.lastError))
				e.logInfo("agent: execution failed", "attempt", st.attemptCount, "error", st.lastError)
				state = StateExecutedFail
			} else {
				st.addStep("Query executada com sucesso")
				e.logInfo("agent: execution succeeded", "attempt", st.attemptCount, "rows", st.result.Count)
				state = StateExecutedOK
			}

		case StateExecutedFail:
			switch route(true, st.attemptCount, e.cfg.MaxAttempts) {
			case decisionRetry:
				metrics.CorrectionsTotal.Inc()
				sql, err := e.correct(ctx, st)
				if err != nil {
					return e.abort(st, fmt.Sprintf("falha ao consultar o modelo de linguagem: %v", err)), nil
				}
				st.currentQuery = sql
				st.lastError = ""
				if sql == "" {
					st.addStep("O modelo não retornou uma query corrigida reconhecível")
				} else {
					st.addStep("Query corrigida: " + sql)
				}
				e.logInfo("agent: query corrected", "sql", sql)
				state = StateCorrected
			default:
				state = StateAborted
			}

		case StateCorrected:
			// Re-enter the execution phase with the corrected query.
			state = StateQueryGenerated

		case StateExecutedOK:
			answer, err := e.respond(ctx, st)
			if err != nil {
				return e.abort(st, fmt.Sprintf("falha ao consultar o modelo de linguagem: %v", err)), nil
			}
			st.finalAnswer = answer
			st.addStep("Resposta formulada")
			state = StateDone

		case StateAborted:
			// Budget exhausted: explain with the last error, no further LLM
			// calls.
			answer := fmt.Sprintf("Desculpe, não foi possível executar a consulta após %d tentativas. Último erro: %s",
				st.attemptCount, st.lastError)
			return e.abort(st, answer), nil

		case StateDone:
			metrics.RunsTotal.WithLabelValues("ok").Inc()
			e.logInfo("agent: run complete", "attempts", st.attemptCount)
			return e.assemble(st, false), nil

		default:
			return nil, fmt.Errorf("invalid engine state: %s", state)
		}
	}
}

// abort finalizes a failed run with an explanatory answer.
func (e *Engine) abort(st *runState, answer string) *Result {
	st.finalAnswer = answer
	st.addStep("Não foi possível completar a consulta")
	metrics.RunsTotal.WithLabelValues("aborted").Inc()
	e.logInfo("agent: run aborted", "attempts", st.attemptCount, "answer", answer)
	return e.assemble(st, true)
}

// assemble builds the caller-facing result from the run state.
func (e *Engine) assemble(st *runState, aborted bool) *Result {
	return &Result{
		Question:       st.question,
		FinalAnswer:    st.finalAnswer,
		GeneratedSQL:   st.currentQuery,
		Rows:           st.result,
		SelectedTables: st.selectedTables,
		AttemptCount:   st.attemptCount,
		Aborted:        aborted,
		Steps:          st.steps,
	}
}

// listTables enumerates the database tables with the query timeout applied.
func (e *Engine) listTables(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.QueryTimeout)
	defer cancel()
	return e.cfg.Inspector.ListTables(ctx)
}

// loadSchema loads DDL text for the tables in scope onto the run state.
func (e *Engine) loadSchema(ctx context.Context, st *runState) error {
	tctx, cancel := context.WithTimeout(ctx, e.cfg.QueryTimeout)
	defer cancel()

	text, err := e.cfg.Inspector.LoadSchema(tctx, st.tablesInScope())
	if err != nil {
		return err
	}
	st.schemaText = text
	st.addStep("Schema carregado com sucesso")
	e.logInfo("agent: schema loaded", "tables", len(st.tablesInScope()))
	return nil
}

// execute runs the current query, charging the already-incremented attempt.
// An empty current query is a generation failure and consumes the attempt
// without touching the database.
func (e *Engine) execute(ctx context.Context, st *runState) {
	st.result = nil
	st.lastError = ""

	if strings.TrimSpace(st.currentQuery) == "" {
		st.lastError = "nenhuma instrução SQL pôde ser extraída da resposta do modelo"
		return
	}

	qctx, cancel := context.WithTimeout(ctx, e.cfg.QueryTimeout)
	defer cancel()

	res, err := e.cfg.Querier.Query(qctx, st.currentQuery)
	if err != nil {
		st.lastError = err.Error()
		return
	}
	if res.Error != "" {
		st.lastError = res.Error
		return
	}
	st.result = &res
}
