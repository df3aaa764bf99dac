package reader

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	bsccommon "github.com/tranvictor/bscscope/common"
	"github.com/tranvictor/bscscope/util/explorers"
)

var DEFAULT_ADDRESS string = "0x0000000000000000000000000000000000000000"

// ErrNotEIP1967Proxy reports that both the implementation and the beacon
// slots of EIP-1967 are empty for the queried contract.
var ErrNotEIP1967Proxy = errors.New("not an eip1967 proxy contract")

// EthReader reads chain state through a set of RPC nodes. Every operation is
// raced against all nodes at once and the first success wins, a node set
// where every member fails yields the joined errors.
type EthReader struct {
	nodes map[string]EthereumNode
	be    explorers.BlockExplorer
}

func NewEthReaderGeneric(nodes map[string]string, be explorers.BlockExplorer) *EthReader {
	ns := map[string]EthereumNode{}
	for name, c := range nodes {
		ns[name] = NewOneNodeReader(name, c)
	}
	return &EthReader{
		nodes: ns,
		be:    be,
	}
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type nodeResult[T any] struct {
	Value T
	Error error
}

// readFromAnyNode fires call against every node concurrently and returns the
// first successful result.
func readFromAnyNode[T any](nodes map[string]EthereumNode, call func(n EthereumNode) (T, error)) (T, error) {
	resCh := make(chan nodeResult[T], len(nodes))
	for i := range nodes {
		n := nodes[i]
		go func() {
			value, err := call(n)
			resCh <- nodeResult[T]{
				Value: value,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Value, nil
		}
		errs = append(errs, result.Error)
	}
	var zero T
	return zero, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (er *EthReader) GetCode(address string) (code []byte, err error) {
	return readFromAnyNode(er.nodes, func(n EthereumNode) ([]byte, error) {
		return n.GetCode(address)
	})
}

// BalanceAt reads the native balance at a specific block, or the latest
// balance when atBlock is negative. Explorer account endpoints only serve
// the latest state, so pinned inspections come through here instead.
func (er *EthReader) BalanceAt(atBlock int64, address string) (balance *big.Int, err error) {
	return readFromAnyNode(er.nodes, func(n EthereumNode) (*big.Int, error) {
		return n.BalanceAt(atBlock, address)
	})
}

func (er *EthReader) ReadContractToBytes(
	atBlock int64,
	from string,
	caddr string,
	abi *abi.ABI,
	method string,
	args ...interface{},
) ([]byte, error) {
	return readFromAnyNode(er.nodes, func(n EthereumNode) ([]byte, error) {
		return n.ReadContractToBytes(atBlock, from, caddr, abi, method, args...)
	})
}

func (er *EthReader) StorageAt(atBlock int64, caddr string, slot string) ([]byte, error) {
	return readFromAnyNode(er.nodes, func(n EthereumNode) ([]byte, error) {
		return n.StorageAt(atBlock, caddr, slot)
	})
}

func (er *EthReader) CurrentBlock() (uint64, error) {
	return readFromAnyNode(er.nodes, func(n EthereumNode) (uint64, error) {
		return n.CurrentBlock()
	})
}

// ImplementationOfEIP1967 reads the EIP-1967 implementation slot, then falls
// back to the beacon slot and asks the beacon for its implementation. It
// returns ErrNotEIP1967Proxy when both slots are empty.
func (er *EthReader) ImplementationOfEIP1967(
	atBlock int64,
	caddr string,
) (common.Address, error) {
	// eip 1967
	// bytes32(uint256(keccak256('eip1967.proxy.implementation')) - 1)
	slotBig := big.NewInt(0).Sub(
		crypto.Keccak256Hash([]byte("eip1967.proxy.implementation")).Big(),
		big.NewInt(1),
	)

	addrByte, err := er.StorageAt(atBlock, caddr, common.BigToHash(slotBig).Hex())
	if err != nil {
		return common.Address{}, err
	}

	addr := common.BytesToAddress(addrByte)

	if addr.Big().Cmp(big.NewInt(0)) != 0 {
		return addr, nil
	}

	// eip 1967
	// bytes32(uint256(keccak256('eip1967.proxy.beacon')) - 1)
	slotBig = big.NewInt(0).Sub(
		crypto.Keccak256Hash([]byte("eip1967.proxy.beacon")).Big(),
		big.NewInt(1),
	)

	addrByte, err = er.StorageAt(atBlock, caddr, common.BigToHash(slotBig).Hex())
	if err != nil {
		return common.Address{}, err
	}

	beaconAddr := common.BytesToAddress(addrByte)

	if beaconAddr.Big().Cmp(big.NewInt(0)) != 0 {
		paddr := common.Address{}
		err = er.ReadHistoryContractWithABI(
			atBlock,
			&paddr,
			beaconAddr.Hex(),
			bsccommon.GetEIP1967BeaconABI(),
			"implementation",
		)
		if err != nil {
			return common.Address{}, err
		}
		return paddr, nil
	}

	return common.Address{}, ErrNotEIP1967Proxy
}

// ImplementationOf tries ImplementationOfEIP1967 first and then the older
// zeppelinos and matic slot conventions.
func (er *EthReader) ImplementationOf(atBlock int64, caddr string) (common.Address, error) {
	addr, err := er.ImplementationOfEIP1967(atBlock, caddr)
	if err == nil {
		return addr, nil
	}
	if !errors.Is(err, ErrNotEIP1967Proxy) {
		return common.Address{}, err
	}

	// old standard: org.zeppelinos.proxy.implementation
	slotBig := crypto.Keccak256Hash([]byte("org.zeppelinos.proxy.implementation")).Big()

	addrByte, err := er.StorageAt(atBlock, caddr, common.BigToHash(slotBig).Hex())
	if err != nil {
		return common.Address{}, err
	}

	addr = common.BytesToAddress(addrByte)

	if addr.Big().Cmp(big.NewInt(0)) != 0 {
		return addr, nil
	}

	// eip 1967 on Polygon
	// bytes32(uint256(keccak256('matic.network.proxy.implementation')) - 1)
	slotBig = big.NewInt(0).Sub(
		crypto.Keccak256Hash([]byte("matic.network.proxy.implementation")).Big(),
		big.NewInt(1),
	)

	addrByte, err = er.StorageAt(atBlock, caddr, common.BigToHash(slotBig).Hex())
	if err != nil {
		return common.Address{}, err
	}

	return common.BytesToAddress(addrByte), nil
}

func (er *EthReader) ReadHistoryContractWithABI(
	atBlock int64,
	result interface{},
	caddr string,
	abi *abi.ABI,
	method string,
	args ...interface{},
) error {
	responseBytes, err := er.ReadContractToBytes(
		atBlock, DEFAULT_ADDRESS, caddr, abi, method, args...)
	if err != nil {
		return err
	}
	return abi.UnpackIntoInterface(result, method, responseBytes)
}

func (er *EthReader) ReadContractWithABI(
	result interface{},
	caddr string,
	abi *abi.ABI,
	method string,
	args ...interface{},
) error {
	responseBytes, err := er.ReadContractToBytes(-1, DEFAULT_ADDRESS, caddr, abi, method, args...)
	if err != nil {
		return err
	}
	return abi.UnpackIntoInterface(result, method, responseBytes)
}

func (er *EthReader) ERC20Symbol(caddr string) (string, error) {
	abi := bsccommon.GetERC20ABI()
	var result string
	err := er.ReadContractWithABI(&result, caddr, abi, "symbol")
	return result, err
}

func (er *EthReader) ERC20Decimal(caddr string) (int64, error) {
	abi := bsccommon.GetERC20ABI()
	var result uint8
	err := er.ReadContractWithABI(&result, caddr, abi, "decimals")
	return int64(result), err
}

func (er *EthReader) GetABIString(address string) (string, error) {
	return er.be.GetABIString(address)
}

func (er *EthReader) GetABI(address string) (*abi.ABI, error) {
	body, err := er.GetABIString(address)
	if err != nil {
		return nil, err
	}

	result, err := abi.JSON(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	return &result, nil
}
