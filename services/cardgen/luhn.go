package cardgen

// LuhnValid reports whether a digit string passes the Luhn checksum.
// numbers shorter than 13 digits are never valid card numbers.
func LuhnValid(number string) bool {
	if len(number) < 13 {
		return false
	}
	sum := 0
	for i := 0; i < len(number); i++ {
		c := number[len(number)-1-i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

// LuhnCheckDigit computes the digit that has to be appended to `partial`
// for the result to pass the Luhn checksum.
func LuhnCheckDigit(partial string) byte {
	sum := 0
	for i := 0; i < len(partial); i++ {
		d := int(partial[len(partial)-1-i] - '0')
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return byte('0' + (10-sum%10)%10)
}
