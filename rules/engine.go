package rules

import (
	"time"

	"github.com/google/uuid"

	"github.com/stellarcade/querycache/cache"
	"github.com/stellarcade/querycache/query"
)

// Contracts holds the identifiers the rule table matches against
// cache.TxContext.Contract. Deployments that address contracts by id
// rather than name override these with the deployed C... addresses.
type Contracts struct {
	CoinFlip         string
	PrizePool        string
	AchievementBadge string
	TournamentSystem string
}

// DefaultContracts returns the platform's logical contract names.
func DefaultContracts() Contracts {
	return Contracts{
		CoinFlip:         "coin_flip",
		PrizePool:        "prize_pool",
		AchievementBadge: "achievement_badge",
		TournamentSystem: "tournament_system",
	}
}

// RuleContext is what one rule sees for one outcome event. Addresses
// holds the affected accounts already extracted from the event's
// transaction context, or its mutation context as the fallback.
type RuleContext struct {
	Store     *cache.Store
	Contracts Contracts
	Event     *cache.Event
	Addresses []string
}

// Rule issues the invalidations for one concern. Rules are independent
// and additive; a rule that does not recognize the event does nothing.
type Rule func(ctx RuleContext)

// Config configures an Engine.
type Config struct {
	// Contracts overrides DefaultContracts.
	Contracts Contracts

	// Clock supplies event timestamps, defaulting to time.Now.
	Clock func() time.Time
}

// Engine applies the invalidation rule table to a cache store. The
// store must be non-nil and is shared, not owned.
type Engine struct {
	store     *cache.Store
	contracts Contracts
	clock     func() time.Time
	rules     []Rule
}

// New constructs an Engine with the built-in rule table. Omitted
// Config fields keep their documented defaults.
func New(store *cache.Store, config ...Config) *Engine {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}
	contracts := cfg.Contracts
	if contracts == (Contracts{}) {
		contracts = DefaultContracts()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		store:     store,
		contracts: contracts,
		clock:     clock,
		rules: []Rule{
			balancesRule,
			prizePoolRule,
			coinFlipRule,
			achievementRule,
			tournamentRule,
		},
	}
}

// AddRule appends a rule to the table. Rules run in registration
// order, built-ins first.
func (e *Engine) AddRule(rule Rule) {
	if rule == nil {
		return
	}
	e.rules = append(e.rules, rule)
}

// ApplyRules stamps event with the current time, a derived reason, and
// an ID when it carries none, then runs the rule table. The reason is
// tx_* when a transaction context rides the event and mutation_* when
// only a mutation context does; success, retryable failure, and
// terminal failure map per the outcome. A successful outcome's TxHash
// is propagated into the transaction context; failures preserve
// whatever was already there. The stamped event is returned and is the
// same instance attached to every invalidated entry.
//
// Invalidating keys that are not cached is a safe no-op, so ApplyRules
// never fails.
func (e *Engine) ApplyRules(outcome Outcome, event *cache.Event) *cache.Event {
	if event == nil {
		event = &cache.Event{}
	}
	event.At = e.clock()
	event.Reason = deriveReason(outcome, event)
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Tx != nil && outcome.OK && outcome.TxHash != "" {
		event.Tx.TxHash = outcome.TxHash
	}

	ctx := RuleContext{
		Store:     e.store,
		Contracts: e.contracts,
		Event:     event,
		Addresses: affectedAddresses(event),
	}
	for _, rule := range e.rules {
		rule(ctx)
	}
	return event
}

func deriveReason(outcome Outcome, event *cache.Event) cache.Reason {
	onChain := event.Tx != nil || event.Mutation == nil
	switch {
	case outcome.OK:
		if onChain {
			return cache.ReasonTxSuccess
		}
		return cache.ReasonMutationSuccess
	case outcome.Retryable:
		if onChain {
			return cache.ReasonTxFailedRetryable
		}
		return cache.ReasonMutationFailedRetryable
	default:
		if onChain {
			return cache.ReasonTxFailedTerminal
		}
		return cache.ReasonMutationFailedTerminal
	}
}

func affectedAddresses(event *cache.Event) []string {
	if event.Tx != nil && len(event.Tx.Addresses) > 0 {
		return event.Tx.Addresses
	}
	if event.Mutation != nil {
		return event.Mutation.Addresses
	}
	return nil
}

// balancesRule invalidates the balance view of every affected address.
// Any state-changing operation is assumed to move funds.
func balancesRule(ctx RuleContext) {
	for _, addr := range ctx.Addresses {
		ctx.Store.Invalidate(query.BalanceAccount(addr), ctx.Event)
	}
}

// prizePoolRule invalidates the whole balances namespace after a
// pooled-funds transaction: a pool mutation can move funds for parties
// not listed on the event.
func prizePoolRule(ctx RuleContext) {
	if ctx.Event.Tx == nil || ctx.Event.Tx.Contract != ctx.Contracts.PrizePool {
		return
	}
	ctx.Store.InvalidatePrefix(query.NamespacePrefix(query.NamespaceBalances), ctx.Event)
}

// coinFlipRule invalidates the game record and each player's recent
// list after a coin-flip transaction.
func coinFlipRule(ctx RuleContext) {
	tx := ctx.Event.Tx
	if tx == nil || tx.Contract != ctx.Contracts.CoinFlip {
		return
	}
	if tx.GameID != "" {
		ctx.Store.Invalidate(query.GameByID(tx.GameID), ctx.Event)
	}
	for _, addr := range ctx.Addresses {
		ctx.Store.Invalidate(query.GamesRecentByAddress(addr), ctx.Event)
	}
}

// achievementRule invalidates rewards and profile views after an
// achievement-badge transaction.
func achievementRule(ctx RuleContext) {
	tx := ctx.Event.Tx
	if tx == nil || tx.Contract != ctx.Contracts.AchievementBadge {
		return
	}
	for _, addr := range ctx.Addresses {
		ctx.Store.Invalidate(query.RewardsByAddress(addr), ctx.Event)
		ctx.Store.Invalidate(query.ProfileByAddress(addr), ctx.Event)
	}
}

// tournamentRule invalidates the tournament record and each player's
// score after a tournament-system transaction.
func tournamentRule(ctx RuleContext) {
	tx := ctx.Event.Tx
	if tx == nil || tx.Contract != ctx.Contracts.TournamentSystem || tx.GameID == "" {
		return
	}
	ctx.Store.Invalidate(query.TournamentByID(tx.GameID), ctx.Event)
	for _, addr := range ctx.Addresses {
		ctx.Store.Invalidate(query.TournamentScore(tx.GameID, addr), ctx.Event)
	}
}
