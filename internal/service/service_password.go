package service

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/gui-benedito/go-secret-vault/internal/logger"
	"github.com/gui-benedito/go-secret-vault/models"
)

// Character pools for the generator and charset detection for the analyzer.
const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	numberChars    = "0123456789"
	symbolChars    = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// MinPasswordLength and MaxPasswordLength bound generated passwords.
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// Strength score labels, index by [models.StrengthReport.Score].
var strengthLabels = [5]string{"unusable", "weak", "fair", "good", "strong"}

// passwordService is the private implementation of [PasswordService].
type passwordService struct {
	logger *logger.Logger
}

// NewPasswordService constructs a [PasswordService].
func NewPasswordService(logger *logger.Logger) PasswordService {
	return &passwordService{logger: logger}
}

// Generate implements [PasswordService]. Every selected character class is
// guaranteed at least one position; positions are then shuffled with a
// crypto/rand Fisher-Yates pass so class positions leak nothing.
func (p *passwordService) Generate(opts models.GeneratorOptions) (string, error) {
	if opts.Length < MinPasswordLength {
		return "", ErrLengthTooShort
	}
	if opts.Length > MaxPasswordLength {
		return "", ErrLengthTooLong
	}

	var pool string
	var requiredSets []string

	if enabled(opts.Uppercase) {
		pool += uppercaseChars
		requiredSets = append(requiredSets, uppercaseChars)
	}
	if enabled(opts.Lowercase) {
		pool += lowercaseChars
		requiredSets = append(requiredSets, lowercaseChars)
	}
	if enabled(opts.Numbers) {
		pool += numberChars
		requiredSets = append(requiredSets, numberChars)
	}
	if enabled(opts.Symbols) {
		pool += symbolChars
		requiredSets = append(requiredSets, symbolChars)
	}

	if len(requiredSets) == 0 {
		return "", ErrNoCharacterTypes
	}
	if opts.Length < len(requiredSets) {
		return "", ErrLengthInsufficient
	}

	result := make([]byte, opts.Length)

	for i, charset := range requiredSets {
		ch, err := randChar(charset)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}
	for i := len(requiredSets); i < opts.Length; i++ {
		ch, err := randChar(pool)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	if err := secureShuffle(result); err != nil {
		return "", err
	}

	return string(result), nil
}

// AnalyzeStrength implements [PasswordService]. The score is a coarse bucket
// computed from estimated entropy, with penalties for heavy character
// repetition and missing class variety.
func (p *passwordService) AnalyzeStrength(password string) models.StrengthReport {
	report := models.StrengthReport{}

	if password == "" {
		report.Label = strengthLabels[0]
		report.Warnings = append(report.Warnings, "password is empty")
		return report
	}

	classes, poolSize := charsetCoverage(password)
	report.EntropyBits = float64(len(password)) * math.Log2(float64(poolSize))

	switch {
	case report.EntropyBits >= 90:
		report.Score = 4
	case report.EntropyBits >= 70:
		report.Score = 3
	case report.EntropyBits >= 50:
		report.Score = 2
	case report.EntropyBits >= 30:
		report.Score = 1
	default:
		report.Score = 0
	}

	if len(password) < MinPasswordLength {
		report.Warnings = append(report.Warnings, "shorter than 8 characters")
		if report.Score > 1 {
			report.Score = 1
		}
	}
	if classes < 2 {
		report.Warnings = append(report.Warnings, "uses a single character class")
		if report.Score > 2 {
			report.Score = 2
		}
	}
	if ratio := repetitionRatio(password); ratio >= 0.5 {
		report.Warnings = append(report.Warnings, "heavy character repetition")
		if report.Score > 1 {
			report.Score--
		}
	}

	report.Label = strengthLabels[report.Score]
	return report
}

// enabled treats a nil class flag as enabled, so the zero options value still
// selects all four classes apart from Length.
func enabled(flag *bool) bool {
	return flag == nil || *flag
}

// charsetCoverage counts the character classes present and sums their pool
// sizes for the entropy estimate. Characters outside the four known classes
// contribute a flat extra pool.
func charsetCoverage(password string) (classes, poolSize int) {
	var hasUpper, hasLower, hasNumber, hasSymbol, hasOther bool

	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasNumber = true
		case r < 128:
			hasSymbol = true
		default:
			hasOther = true
		}
	}

	if hasUpper {
		classes++
		poolSize += len(uppercaseChars)
	}
	if hasLower {
		classes++
		poolSize += len(lowercaseChars)
	}
	if hasNumber {
		classes++
		poolSize += len(numberChars)
	}
	if hasSymbol {
		classes++
		poolSize += len(symbolChars)
	}
	if hasOther {
		classes++
		poolSize += 32
	}

	return classes, poolSize
}

// repetitionRatio is the share of characters beyond the first occurrence of
// the most frequent one. "aaaaaaab" scores high, "abcdefgh" scores zero.
func repetitionRatio(password string) float64 {
	counts := make(map[rune]int, len(password))
	max := 0
	total := 0
	for _, r := range password {
		counts[r]++
		if counts[r] > max {
			max = counts[r]
		}
		total++
	}
	if total == 0 {
		return 0
	}
	return float64(max-1) / float64(total)
}

// randChar picks one character from charset using crypto/rand.
func randChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, fmt.Errorf("read random index: %w", err)
	}
	return charset[n.Int64()], nil
}

// secureShuffle performs a Fisher-Yates shuffle driven by crypto/rand.
func secureShuffle(data []byte) error {
	for i := len(data) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("read random index: %w", err)
		}
		j := n.Int64()
		data[i], data[j] = data[j], data[i]
	}
	return nil
}
