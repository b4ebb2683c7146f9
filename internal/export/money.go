package export

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount as "Rs. 12,34,567.89" with Indian
// digit grouping and two decimals. The "Rs." prefix avoids rupee-sign
// encoding problems in generated PDFs.
func FormatMoney(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	grouped := groupIndian(intPart)
	out := "Rs. " + grouped + "." + fracPart
	if neg {
		out = "Rs. -" + grouped + "." + fracPart
	}
	return out
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// groupIndian inserts separators lakh/crore style: the last three
// digits form one group, every two digits before that another.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}
