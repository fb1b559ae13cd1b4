package domain

import "regexp"

var (
	aadhaarRegex = regexp.MustCompile(`^[0-9]{12}$`)
	abhaRegex    = regexp.MustCompile(`^[0-9]{14}$`)
	otpRegex     = regexp.MustCompile(`^[0-9]{6}$`)
	phoneRegex   = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)
)

// ValidateAadhaarNumber checks the 12-digit Aadhaar format.
func ValidateAadhaarNumber(number string) error {
	if !aadhaarRegex.MatchString(number) {
		return validationErr("aadhaar number must be exactly 12 digits")
	}
	return nil
}

// ValidateAbhaID checks the 14-digit ABHA format.
func ValidateAbhaID(abhaID string) error {
	if !abhaRegex.MatchString(abhaID) {
		return validationErr("abha id must be exactly 14 digits")
	}
	return nil
}

// ValidateOTPCode rejects input that cannot be a code at all, so typos
// like an empty field do not burn an attempt.
func ValidateOTPCode(code string) error {
	if !otpRegex.MatchString(code) {
		return validationErr("otp must be exactly %d digits", OTPDigits)
	}
	return nil
}

// ValidatePhone checks an E.164 number such as +919812345678.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return validationErr("phone must be in E.164 format")
	}
	return nil
}

// MaskIdentifier hides all but the last four digits of an Aadhaar number.
// Display only; this is not a security boundary.
func MaskIdentifier(number string) string {
	if len(number) < 4 {
		return "XXXX XXXX XXXX"
	}
	return "XXXX XXXX " + number[len(number)-4:]
}
