package abi

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Encode is the equivalent of Solidity's abi.encode for the argument list described by abiStr,
// e.g. `[{"type":"address"},{"type":"uint256"}]`.
func Encode(abiStr string, values ...any) ([]byte, error) {
	args, err := parseArguments(abiStr)
	if err != nil {
		return nil, err
	}

	return args.Pack(values...)
}

// parseArguments builds the argument list through a dummy method, the only way geth exposes
// to parse a bare argument list from JSON.
func parseArguments(abiStr string) (abi.Arguments, error) {
	def := fmt.Sprintf(`[{ "name" : "method", "type": "function", "inputs": %s}]`, abiStr)
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		return nil, err
	}

	return parsed.Methods["method"].Inputs, nil
}
