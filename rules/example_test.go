package rules_test

import (
	"fmt"

	"github.com/stellarcade/querycache/cache"
	"github.com/stellarcade/querycache/query"
	"github.com/stellarcade/querycache/rules"
	"github.com/stellarcade/querycache/wallet"
)

func ExampleEngine_ApplyRules() {
	store := cache.New()
	engine := rules.New(store)

	player := "GDUKEQFYNNVY3QRPRFQP3KRRGQXBAQW3EQC5DLVSGDFTUYHAVPU2A3VV"
	store.Set(query.GameByID("7"), "pending")
	store.Set(query.BalanceAccount(player), "120.5 XLM")

	event := engine.ApplyRules(rules.Success("a1b2c3"), &cache.Event{
		Tx: &cache.TxContext{
			Contract:  "coin_flip",
			Method:    "play",
			Addresses: []string{player},
			GameID:    "7",
		},
	})

	fmt.Println(event.Reason)
	fmt.Println(store.IsStale(query.GameByID("7")))
	fmt.Println(store.IsStale(query.BalanceAccount(player)))
	// Output:
	// tx_success
	// true
	// true
}

func ExampleRequirePreconditions() {
	err := rules.RequirePreconditions("join_tournament", wallet.Preconditions{
		RequireWallet:   true,
		WalletConnected: false,
	})

	fmt.Println(err != nil)
	// Output: true
}
