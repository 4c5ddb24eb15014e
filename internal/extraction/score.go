package extraction

import "math"

// requiredFieldCount is the size of the fixed required-field set the success
// rate is computed over. Issuer is excluded: the normalizer always derives
// one.
const requiredFieldCount = 5

// Score counts how many of the five required fields were extracted and
// returns the success rate as a percentage rounded to one decimal place.
func Score(f *Fields) (extracted int, rate float64) {
	for _, v := range []string{
		f.CardLast4,
		f.StatementDate,
		f.DueDate,
		f.TotalBalance,
		f.MinimumPayment,
	} {
		if v != "" && v != NotFound {
			extracted++
		}
	}
	rate = math.Round(float64(extracted)/requiredFieldCount*1000) / 10
	return extracted, rate
}
