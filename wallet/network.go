package wallet

// Network identifies a Stellar network.
type Network string

const (
	NetworkPubnet    Network = "pubnet"
	NetworkTestnet   Network = "testnet"
	NetworkFuturenet Network = "futurenet"
)

// Passphrase returns the network passphrase used to domain-separate
// signatures, or "" for unknown networks.
func (n Network) Passphrase() string {
	switch n {
	case NetworkPubnet:
		return "Public Global Stellar Network ; September 2015"
	case NetworkTestnet:
		return "Test SDF Network ; September 2015"
	case NetworkFuturenet:
		return "Test SDF Future Network ; October 2022"
	}
	return ""
}

// Valid reports whether n is a known network.
func (n Network) Valid() bool { return n.Passphrase() != "" }
