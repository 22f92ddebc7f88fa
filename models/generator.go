package models

// GeneratorOptions configures the password generator. Character classes are
// pointer bools so a caller can distinguish "not specified" (nil, defaults to
// enabled) from an explicit false.
type GeneratorOptions struct {
	Length    int   `json:"length"`
	Uppercase *bool `json:"uppercase"`
	Lowercase *bool `json:"lowercase"`
	Numbers   *bool `json:"numbers"`
	Symbols   *bool `json:"symbols"`
}

// StrengthReport is the result of analyzing a candidate password.
type StrengthReport struct {
	// Score is a coarse rating from 0 (unusable) to 4 (strong).
	Score int `json:"score"`

	// EntropyBits estimates the password's entropy from its length and the
	// character classes it draws from.
	EntropyBits float64 `json:"entropyBits"`

	// Label is a human-readable name for the score bucket.
	Label string `json:"label"`

	// Warnings lists the specific weaknesses found, if any.
	Warnings []string `json:"warnings,omitempty"`
}
