package api

import (
	"math/big"

	"wrapvault"
)

func errorcase(err error) error {
	if err != nil {
		return wrapvault.NewRPCErrorCause(-1006, err)
	}
	return nil
}

// parseAmountArg parses a base unit amount argument. Amounts travel as
// decimal strings so that callers in any language keep full precision.
func parseAmountArg(s string) (*big.Int, error) {
	if s == "" {
		return nil, wrapvault.NewRPCError(-1006, "amount not be empty")
	}
	num, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, wrapvault.NewRPCError(-1006, "amount parse error")
	}
	return num, nil
}
