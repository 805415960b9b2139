package wallet

// Strkey addresses are 56 characters of RFC 4648 base32, prefixed G
// for accounts and C for contracts.
const addressLength = 56

// IsAccountAddress reports whether addr has the shape of a Stellar
// account address. Shape only; no checksum verification.
func IsAccountAddress(addr string) bool { return isStrkey(addr, 'G') }

// IsContractAddress reports whether addr has the shape of a Soroban
// contract address. Shape only; no checksum verification.
func IsContractAddress(addr string) bool { return isStrkey(addr, 'C') }

func isStrkey(addr string, prefix byte) bool {
	if len(addr) != addressLength || addr[0] != prefix {
		return false
	}
	for i := 1; i < len(addr); i++ {
		c := addr[i]
		if (c < 'A' || c > 'Z') && (c < '2' || c > '7') {
			return false
		}
	}
	return true
}
