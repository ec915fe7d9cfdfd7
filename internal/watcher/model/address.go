package model

import "github.com/ethereum/go-ethereum/common"

// ZeroAddress is the reserved sentinel address marking unused transaction
// slots. It never identifies an account.
var ZeroAddress = common.Address{}

// IsAccountAddress reports whether addr can identify an account, i.e. is not
// the reserved zero sentinel.
func IsAccountAddress(addr common.Address) bool {
	return addr != ZeroAddress
}
