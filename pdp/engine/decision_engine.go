// pdp/engine/decision_engine.go
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	logger "github.com/toolgate/api/logging"
	"github.com/toolgate/api/model"
	pdp_model "github.com/toolgate/api/pdp/model"
)

const evaluationErrorReason = "Policy evaluation error"

// Threshold above which a matched deny stops evaluation of the remaining
// policies regardless of the configured combining algorithm. Under
// permit_overrides this can lock in a deny that a later, lower-priority allow
// would have overridden; the behavior is intentional and pinned by tests.
const highPriorityDenyCutoff = 500

// Config is the immutable engine configuration, injected at construction.
type Config struct {
	CombiningAlgorithm string
	DefaultDecision    string
	CacheEnabled       bool
	DecisionCacheTTL   time.Duration
	PolicyCacheTTL     time.Duration
	// Business-hours window, local time, end hour exclusive. BusinessHoursEnd
	// <= 0 means unset and the 9-17 default applies; BusinessHoursStart of 0
	// with a positive end is a literal midnight start.
	BusinessHoursStart int
	BusinessHoursEnd   int
}

// DefaultConfig is fail-closed: deny by default, deny overrides.
func DefaultConfig() Config {
	return Config{
		CombiningAlgorithm: model.CombiningDenyOverrides,
		DefaultDecision:    pdp_model.DecisionDeny,
		CacheEnabled:       true,
		DecisionCacheTTL:   5 * time.Minute,
		PolicyCacheTTL:     10 * time.Minute,
		BusinessHoursStart: defaultBusinessHoursStart,
		BusinessHoursEnd:   defaultBusinessHoursEnd,
	}
}

// PolicyProvider fetches the enabled, in-window policies relevant to a
// request, with enabled rules pre-sorted by rule priority descending and
// policies sorted by policy priority descending.
type PolicyProvider interface {
	GetPoliciesForEvaluation(ctx context.Context, toolSlug, action, resourceType string) ([]*model.Policy, error)
}

// ToolProvider resolves tool integration metadata for context enrichment.
type ToolProvider interface {
	GetTool(ctx context.Context, slug string) (*model.ToolIntegration, error)
}

// Cache is the key/value memoization contract backing both the decision
// cache and the policy-set cache.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AuditRecorder accepts enforcement results. Implementations must not block;
// recording failures never influence the decision.
type AuditRecorder interface {
	Record(result *pdp_model.EnforcementResult)
}

// DecisionEngine is the policy decision point. One instance serves many
// concurrent enforcement calls; it holds no mutable state of its own.
type DecisionEngine struct {
	store    PolicyProvider
	tools    ToolProvider
	cache    Cache
	audit    AuditRecorder
	policies *PolicyEvaluator
	cfg      Config
}

func NewDecisionEngine(store PolicyProvider, tools ToolProvider, cache Cache, audit AuditRecorder, cfg Config) *DecisionEngine {
	conditions := NewConditionEvaluator()
	rules := NewRuleEvaluator(conditions, cfg.BusinessHoursStart, cfg.BusinessHoursEnd)
	return &DecisionEngine{
		store:    store,
		tools:    tools,
		cache:    cache,
		audit:    audit,
		policies: NewPolicyEvaluator(conditions, rules),
		cfg:      cfg,
	}
}

// Enforce judges one tool-access request. It never returns an error: any
// internal failure yields a deny decision with zero confidence. The audit
// record is handed off fire-and-forget exactly once per call.
func (e *DecisionEngine) Enforce(ctx context.Context, req *pdp_model.EnforcementRequest) *pdp_model.PolicyDecision {
	correlationID := uuid.NewString()
	start := time.Now()

	if e.cfg.CacheEnabled && e.cache != nil {
		if cached := e.lookupCachedDecision(ctx, req); cached != nil {
			e.recordResult(req, cached, correlationID, nil, nil, true, time.Since(start), "")
			return cached
		}
	}

	decision, evaluated, matchedRuleIDs, evalErr := e.evaluate(ctx, req)
	if evalErr != nil {
		logger.Error("Policy evaluation failed, denying",
			zap.Error(evalErr),
			zap.String("correlationID", correlationID),
			zap.String("tool", req.ToolSlug),
			zap.String("user", req.User.Sub))
		decision = &pdp_model.PolicyDecision{
			Decision:        pdp_model.DecisionDeny,
			Reason:          evaluationErrorReason,
			ConfidenceScore: 0.0,
			EvaluationID:    uuid.NewString(),
			Timestamp:       time.Now().UTC(),
			MatchedRules:    []pdp_model.MatchedRule{},
			EvaluationSummary: pdp_model.EvaluationSummary{
				CombiningAlgorithm: e.cfg.CombiningAlgorithm,
			},
		}
	}

	if evalErr == nil && e.cfg.CacheEnabled && e.cache != nil {
		if err := e.cache.Set(ctx, decisionCacheKey(req), marshalDecision(decision), e.cfg.DecisionCacheTTL); err != nil {
			logger.Warn("Failed to cache decision", zap.Error(err), zap.String("correlationID", correlationID))
		}
	}

	errText := ""
	if evalErr != nil {
		errText = evalErr.Error()
	}
	e.recordResult(req, decision, correlationID, evaluated, matchedRuleIDs, false, time.Since(start), errText)

	return decision
}

// evaluate runs steps 3-7 of the enforcement protocol. Panics are converted
// to errors so the engine boundary stays fail-closed.
func (e *DecisionEngine) evaluate(ctx context.Context, req *pdp_model.EnforcementRequest) (decision *pdp_model.PolicyDecision, evaluated []string, matchedRuleIDs []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during evaluation: %v", r)
		}
	}()

	toolType := ""
	if e.tools != nil {
		if tool, toolErr := e.tools.GetTool(ctx, req.ToolSlug); toolErr == nil && tool != nil {
			toolType = tool.Type
		}
	}
	ectx := pdp_model.NewEvaluationContext(req, toolType, time.Now())

	policies, err := e.applicablePolicies(ctx, req)
	if err != nil {
		return nil, nil, nil, err
	}

	var (
		results      []pdp_model.PolicyEvaluationResult
		matchedRules []pdp_model.MatchedRule
	)
	for _, policy := range policies {
		evaluated = append(evaluated, policy.PolicyID)
		result := e.policies.Evaluate(policy, ectx, e.cfg.CombiningAlgorithm)
		results = append(results, result)
		if !result.Matched {
			continue
		}
		matchedRules = append(matchedRules, result.MatchedRules...)

		// High-priority deny fast path, applied before the combining
		// algorithm gets a say.
		if result.Decision == model.ActionDeny && policy.Priority >= highPriorityDenyCutoff {
			logger.Debug("High-priority deny, stopping evaluation",
				zap.String("policyID", policy.PolicyID),
				zap.Int("priority", policy.Priority))
			break
		}
	}

	decision = e.combine(results, matchedRules)
	for _, mr := range matchedRules {
		matchedRuleIDs = append(matchedRuleIDs, mr.RuleID)
	}
	return decision, evaluated, matchedRuleIDs, nil
}

// combine derives the baseline from the highest-priority matched policy and
// applies the cross-policy combining algorithm as an override on top.
func (e *DecisionEngine) combine(results []pdp_model.PolicyEvaluationResult, matchedRules []pdp_model.MatchedRule) *pdp_model.PolicyDecision {
	var (
		winner       *pdp_model.PolicyEvaluationResult
		matchedCount int
	)
	for i := range results {
		if !results[i].Matched {
			continue
		}
		matchedCount++
		if winner == nil || results[i].Priority > winner.Priority {
			winner = &results[i]
		}
	}

	decision := &pdp_model.PolicyDecision{
		Decision:        e.cfg.DefaultDecision,
		Reason:          "No applicable policies matched; default decision applied",
		EvaluationID:    uuid.NewString(),
		Timestamp:       time.Now().UTC(),
		MatchedRules:    []pdp_model.MatchedRule{},
		ConfidenceScore: 0.5,
		EvaluationSummary: pdp_model.EvaluationSummary{
			PoliciesEvaluated:  len(results),
			PoliciesMatched:    matchedCount,
			RulesMatched:       len(matchedRules),
			CombiningAlgorithm: e.cfg.CombiningAlgorithm,
		},
	}

	if winner != nil {
		decision.Decision = winner.Decision
		decision.Reason = fmt.Sprintf("Policy %q (priority %d): %s", winner.PolicyName, winner.Priority, winner.Reason)
		decision.PrimaryPolicy = &pdp_model.PolicyRef{
			PolicyID: winner.PolicyID,
			Name:     winner.PolicyName,
			Type:     winner.PolicyType,
		}
		decision.MatchedRules = matchedRules
	}

	// Cross-policy override
	switch e.cfg.CombiningAlgorithm {
	case model.CombiningDenyOverrides:
		if override := highestPriorityWithDecision(results, model.ActionDeny); override != nil && decision.Decision != model.ActionDeny {
			decision.Decision = pdp_model.DecisionDeny
			decision.Reason = fmt.Sprintf("Denied by policy %q (priority %d) under deny_overrides", override.PolicyName, override.Priority)
			decision.PrimaryPolicy = &pdp_model.PolicyRef{PolicyID: override.PolicyID, Name: override.PolicyName, Type: override.PolicyType}
		}
	case model.CombiningPermitOverrides:
		if override := highestPriorityWithDecision(results, model.ActionAllow); override != nil && decision.Decision != model.ActionAllow {
			decision.Decision = pdp_model.DecisionAllow
			decision.Reason = fmt.Sprintf("Allowed by policy %q (priority %d) under permit_overrides", override.PolicyName, override.Priority)
			decision.PrimaryPolicy = &pdp_model.PolicyRef{PolicyID: override.PolicyID, Name: override.PolicyName, Type: override.PolicyType}
		}
	case model.CombiningFirstApplicable:
		// No override; the baseline stands.
	}

	decision.ConfidenceScore = confidenceScore(winner)
	return decision
}

func highestPriorityWithDecision(results []pdp_model.PolicyEvaluationResult, want string) *pdp_model.PolicyEvaluationResult {
	var best *pdp_model.PolicyEvaluationResult
	for i := range results {
		if !results[i].Matched || results[i].Decision != want {
			continue
		}
		if best == nil || results[i].Priority > best.Priority {
			best = &results[i]
		}
	}
	return best
}

// confidenceScore starts at 0.5, adds up to 0.3 for matched rules in the
// winning policy (0.1 each) and a priority bonus, clamped to [0,1].
func confidenceScore(winner *pdp_model.PolicyEvaluationResult) float64 {
	score := 0.5
	if winner != nil {
		ruleBonus := 0.1 * float64(len(winner.MatchedRules))
		if ruleBonus > 0.3 {
			ruleBonus = 0.3
		}
		score += ruleBonus
		if winner.Priority >= 500 {
			score += 0.2
		} else if winner.Priority >= 300 {
			score += 0.1
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	if score < 0.0 {
		score = 0.0
	}
	return score
}

// applicablePolicies memoizes the store query independently of the decision
// cache, keyed by tool and resource type.
func (e *DecisionEngine) applicablePolicies(ctx context.Context, req *pdp_model.EnforcementRequest) ([]*model.Policy, error) {
	key := policySetCacheKey(req.ToolSlug, req.ResourceType)

	if e.cfg.CacheEnabled && e.cache != nil {
		if raw, ok, err := e.cache.Get(ctx, key); err == nil && ok {
			var policies []*model.Policy
			if err := json.Unmarshal([]byte(raw), &policies); err == nil {
				return policies, nil
			}
			logger.Warn("Discarding unreadable cached policy set", zap.String("key", key))
		}
	}

	policies, err := e.store.GetPoliciesForEvaluation(ctx, req.ToolSlug, req.Action, req.ResourceType)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch policies for evaluation: %w", err)
	}

	if e.cfg.CacheEnabled && e.cache != nil {
		if raw, err := json.Marshal(policies); err == nil {
			if err := e.cache.Set(ctx, key, string(raw), e.cfg.PolicyCacheTTL); err != nil {
				logger.Warn("Failed to cache policy set", zap.Error(err), zap.String("key", key))
			}
		}
	}
	return policies, nil
}

func (e *DecisionEngine) lookupCachedDecision(ctx context.Context, req *pdp_model.EnforcementRequest) *pdp_model.PolicyDecision {
	raw, ok, err := e.cache.Get(ctx, decisionCacheKey(req))
	if err != nil {
		logger.Warn("Decision cache lookup failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var decision pdp_model.PolicyDecision
	if err := json.Unmarshal([]byte(raw), &decision); err != nil {
		logger.Warn("Discarding unreadable cached decision", zap.Error(err))
		return nil
	}
	return &decision
}

// recordResult builds the audit record and hands it off. Failures in the
// recorder never propagate; a nil recorder is tolerated for tests.
func (e *DecisionEngine) recordResult(req *pdp_model.EnforcementRequest, decision *pdp_model.PolicyDecision, correlationID string, evaluated, matchedRuleIDs []string, cacheHit bool, duration time.Duration, errText string) {
	if e.audit == nil {
		return
	}
	if evaluated == nil {
		evaluated = []string{}
	}
	if matchedRuleIDs == nil {
		matchedRuleIDs = []string{}
	}
	e.audit.Record(&pdp_model.EnforcementResult{
		CorrelationID:     correlationID,
		UserID:            req.User.Sub,
		UserEmail:         req.User.Email,
		ToolSlug:          req.ToolSlug,
		Action:            req.Action,
		ResourceType:      req.ResourceType,
		ResourceID:        req.ResourceID,
		ResourceName:      req.ResourceName,
		Decision:          decision.Decision,
		Reason:            decision.Reason,
		ConfidenceScore:   decision.ConfidenceScore,
		EvaluationID:      decision.EvaluationID,
		PoliciesEvaluated: evaluated,
		RulesMatched:      matchedRuleIDs,
		CacheHit:          cacheHit,
		EvaluationTime:    duration,
		Error:             errText,
		Timestamp:         time.Now().UTC(),
	})
}

func decisionCacheKey(req *pdp_model.EnforcementRequest) string {
	return fmt.Sprintf("policy_decision:%s:%s:%s:%s:%s",
		req.User.Sub, req.ToolSlug, req.Action, orAny(req.ResourceType), orAny(req.ResourceID))
}

func policySetCacheKey(toolSlug, resourceType string) string {
	return fmt.Sprintf("policies:%s:%s", toolSlug, orAny(resourceType))
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}

func marshalDecision(d *pdp_model.PolicyDecision) string {
	raw, err := json.Marshal(d)
	if err != nil {
		return ""
	}
	return string(raw)
}
