package query

// Canonical key constructors. All call sites build keys through these
// so that keys from unrelated code compare equal when they name the
// same logical resource.

// BalanceAccount identifies the balance view of one account.
func BalanceAccount(address string) Key {
	return mustKey(New(NamespaceBalances, "account", address))
}

// GameByID identifies a single coin-flip game record.
func GameByID(id string) Key {
	return mustKey(New(NamespaceGames, "byId", id))
}

// GamesRecentByAddress identifies the recent-games list of one player.
func GamesRecentByAddress(address string) Key {
	return mustKey(New(NamespaceGames, "recentByAddress", address))
}

// TournamentByID identifies a single tournament record.
func TournamentByID(id string) Key {
	return mustKey(New(NamespaceTournaments, "byId", id))
}

// TournamentScore identifies one player's score within a tournament.
func TournamentScore(id, address string) Key {
	return mustKey(New(NamespaceTournaments, "score", id, address))
}

// RewardsByAddress identifies the achievement and reward set of one
// address.
func RewardsByAddress(address string) Key {
	return mustKey(New(NamespaceRewards, "byAddress", address))
}

// ProfileByAddress identifies the profile view of one address.
func ProfileByAddress(address string) Key {
	return mustKey(New(NamespaceProfile, "byAddress", address))
}

// NamespacePrefix returns the prefix covering every key in ns, for use
// with prefix invalidation.
func NamespacePrefix(ns Namespace) Key {
	return mustKey(New(ns))
}

// mustKey is safe in the constructors above: string segments always
// validate.
func mustKey(k Key, err error) Key {
	if err != nil {
		panic(err)
	}
	return k
}
