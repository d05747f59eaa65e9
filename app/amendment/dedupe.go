package amendment

import (
	"strconv"
	"strings"
)

const fingerprintSeparator = "\x1f"

// Fingerprint identifies an amendment submission independently of spacing,
// case and sub-dollar noise in its amounts.
func Fingerprint(r Record) string {
	fields := []string{
		r.BillNumber,
		r.ItemNumber,
		NormalizeText(r.PatronName),
		strconv.FormatInt(RoundHalfUp(valueOrZero(r.DeltaGF)), 10),
		strconv.FormatInt(RoundHalfUp(valueOrZero(r.DeltaNGF)), 10),
		Truncate(NormalizeText(r.Description()), DescriptionLength),
	}

	for i, field := range fields {
		fields[i] = strings.ReplaceAll(field, fingerprintSeparator, "")
	}

	return strings.Join(fields, fingerprintSeparator)
}

// Dedupe returns a new slice keeping the first record seen for each
// fingerprint, in input order.
func Dedupe(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))

	for _, r := range records {
		key := Fingerprint(r)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}

	return out
}
