// Package format holds the pure formatting helpers shared by the
// document service and the renderer.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Money renders an amount in euros: two decimals, thousands separated
// by spaces, the ",00" of round amounts elided. Matches the formatting
// used on existing rendered documents.
func Money(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	whole, frac := parts[0], parts[1]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	out := b.String()
	if frac != "00" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out + " €"
}

// NextNumber computes the next document number for a day: the date as
// YYYYMMDD followed by a 3-digit sequence over the numbers already
// issued that day.
func NextNumber(day time.Time, existing []string) string {
	prefix := day.Format("20060102")
	count := 0
	for _, number := range existing {
		if strings.HasPrefix(number, prefix) {
			count++
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, count+1)
}

// Serial labels the k-th unit (1-indexed) of a document.
func Serial(number string, k int) string {
	return fmt.Sprintf("%s-%03d", number, k)
}
