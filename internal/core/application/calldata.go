package application

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

var methodSignatures = map[string]string{
	MethodFund:                     "fund()",
	MethodWithdraw:                 "withdraw()",
	MethodCheaperWithdraw:          "cheaperWithdraw()",
	MethodGetOwner:                 "getOwner()",
	MethodGetPriceFeed:             "getPriceFeed()",
	MethodGetAddressToAmountFunded: "getAddressToAmountFunded(address)",
	MethodGetFunder:                "getFunder(uint256)",
	MethodUpdateAnswer:             "updateAnswer(int256)",
	MethodUpdateRoundData:          "updateRoundData(uint80,int256,uint256,uint256)",
	MethodLatestRoundData:          "latestRoundData()",
	MethodGetRoundData:             "getRoundData(uint80)",
	MethodDecimals:                 "decimals()",
	MethodVersion:                  "version()",
	MethodDescription:              "description()",
}

func methodSelector(method string) []byte {
	sig, ok := methodSignatures[method]
	if !ok {
		sig = method + "()"
	}
	return crypto.Keccak256([]byte(sig))[:4]
}

// encodeCallData returns the payload of a transaction: the method selector
// followed by one 32-byte word per argument and by the raw data, if any.
func encodeCallData(method string, args []string, data []byte) ([]byte, error) {
	if method == "" {
		return append([]byte(nil), data...), nil
	}

	buf := methodSelector(method)
	for _, arg := range args {
		word, err := encodeArg(arg)
		if err != nil {
			return nil, err
		}
		buf = append(buf, word...)
	}
	return append(buf, data...), nil
}

func encodeArg(arg string) ([]byte, error) {
	if common.IsHexAddress(arg) {
		return common.LeftPadBytes(common.HexToAddress(arg).Bytes(), 32), nil
	}
	i, err := parseBigInt(arg)
	if err != nil {
		return nil, err
	}
	return math.U256Bytes(i), nil
}

func parseBigInt(arg string) (*big.Int, error) {
	i, ok := new(big.Int).SetString(arg, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an integer", ErrInvalidArgs, arg)
	}
	return i, nil
}

func parseUint(arg string) (uint64, error) {
	i, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not an unsigned integer", ErrInvalidArgs, arg)
	}
	return i, nil
}

func parseInt64(arg string) (int64, error) {
	i, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrInvalidArgs, arg)
	}
	return i, nil
}

func parseAddress(arg string) (common.Address, error) {
	if !common.IsHexAddress(arg) {
		return common.Address{}, fmt.Errorf("%w: %s is not an address", ErrInvalidArgs, arg)
	}
	return common.HexToAddress(arg), nil
}

func checkNumOfArgs(method string, args []string, expected int) error {
	if len(args) != expected {
		return fmt.Errorf(
			"%w: %s expects %d args, got %d", ErrInvalidArgs, method, expected, len(args),
		)
	}
	return nil
}
