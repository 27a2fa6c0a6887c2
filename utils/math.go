package utils

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	kiloByte = 1024
	megaByte = kiloByte * kiloByte
	gigaByte = megaByte * kiloByte
)

// FormatBytes renders a byte count with 1024 based units and three decimals,
// e.g. "1.500 KB". Counts below one kilobyte are printed as is.
func FormatBytes(bytes uint64) string {
	value := decimal.NewFromBigInt(new(big.Int).SetUint64(bytes), 0)

	switch {
	case bytes < kiloByte:
		return fmt.Sprintf("%d Bytes", bytes)
	case bytes < megaByte:
		return value.Div(decimal.NewFromInt(kiloByte)).StringFixed(3) + " KB"
	case bytes < gigaByte:
		return value.Div(decimal.NewFromInt(megaByte)).StringFixed(3) + " MB"
	default:
		return value.Div(decimal.NewFromInt(gigaByte)).StringFixed(3) + " GB"
	}
}
