package reader

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// EthereumNode is the read-only surface bscscope needs from a single RPC
// endpoint. EthReader races the same call across several of these and takes
// the first success.
type EthereumNode interface {
	NodeName() string
	NodeURL() string
	GetCode(address string) (code []byte, err error)
	BalanceAt(atBlock int64, address string) (balance *big.Int, err error)
	ReadContractToBytes(
		atBlock int64,
		from string,
		caddr string,
		abi *abi.ABI,
		method string,
		args ...interface{},
	) ([]byte, error)
	StorageAt(atBlock int64, caddr string, slot string) ([]byte, error)
	CurrentBlock() (uint64, error)
}
