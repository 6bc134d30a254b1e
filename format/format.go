package format

import (
	"fmt"
	"strconv"
)

const (
	Thousand = 1000
	Million  = Thousand * 1000
	Billion  = Million * 1000
	Trillion = Billion * 1000
)

type unit struct {
	size   float64
	suffix string
}

var (
	numberUnits = []unit{{Trillion, "T"}, {Billion, "B"}, {Million, "M"}, {Thousand, "K"}}
	byteUnits   = []unit{{Trillion, " TB"}, {Billion, " GB"}, {Million, " MB"}, {Thousand, " KB"}}
)

// HumanNumber renders a count with a K, M, B or T suffix and three
// significant digits.
func HumanNumber(n uint64) string {
	for _, u := range numberUnits {
		if float64(n) >= u.size {
			return decimalPlace(float64(n)/u.size) + u.suffix
		}
	}

	return strconv.FormatUint(n, 10)
}

// HumanBytes renders a size in decimal units.
func HumanBytes(b int64) string {
	for _, u := range byteUnits {
		if float64(b) > u.size {
			return fmt.Sprintf("%.1f%s", float64(b)/u.size, u.suffix)
		}
	}

	return fmt.Sprintf("%d B", b)
}

// Ratio renders how many bytes each token covers on average.
func Ratio(bytes, tokens int) string {
	if tokens == 0 {
		return "-"
	}

	return strconv.FormatFloat(float64(bytes)/float64(tokens), 'f', 2, 64)
}

func decimalPlace(number float64) string {
	switch {
	case number >= 100:
		return fmt.Sprintf("%.0f", number)
	case number >= 10:
		return fmt.Sprintf("%.1f", number)
	default:
		return fmt.Sprintf("%.2f", number)
	}
}
