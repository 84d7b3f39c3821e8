package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxIngredientLength caps the text sent to the analysis service
const MaxIngredientLength = 2000

// IngredientPreprocessor cleans typed or OCR-extracted ingredient text
type IngredientPreprocessor struct {
	enableDebugLogging bool
}

// Compiled regex patterns for ingredient preprocessing
var (
	// Matches a leading label such as "Ingredients:" or "INGREDIENTS -"
	ingredientLabelPattern = regexp.MustCompile(`(?i)^\s*ingredients?\s*[:\-]\s*`)

	// Matches percentage annotations like "(12%)" or "[3.5 %]"
	percentagePattern = regexp.MustCompile(`[\(\[]\s*\d+(?:[.,]\d+)?\s*%\s*[\)\]]`)

	// Line breaks from OCR become separators
	lineBreakPattern = regexp.MustCompile(`\s*[\r\n]+\s*`)

	// Runs of separators, possibly with blanks in between
	repeatedSeparatorPattern = regexp.MustCompile(`(?:\s*,\s*){2,}`)

	// Blanks left in front of a separator
	spaceBeforeSeparatorPattern = regexp.MustCompile(`\s+([,;])`)

	// Trailing full stop OCR picks up at the end of a label
	trailingPunctuationPattern = regexp.MustCompile(`[\s,;.]+$`)

	// Multiple spaces cleanup
	multiSpacePattern = regexp.MustCompile(`[ \t]+`)

	// Non-alphanumeric characters dropped from cache keys
	nonKeyPattern = regexp.MustCompile(`[^a-z0-9,;]+`)
)

// NewIngredientPreprocessor creates a new ingredient preprocessor
func NewIngredientPreprocessor(enableDebugLogging bool) *IngredientPreprocessor {
	return &IngredientPreprocessor{
		enableDebugLogging: enableDebugLogging,
	}
}

// Clean normalizes ingredient text for analysis.
// Drops the "Ingredients:" label and percentage annotations, turns line
// breaks into commas, collapses whitespace and caps the length.
func (p *IngredientPreprocessor) Clean(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	original := text

	// Step 1: Drop a leading label
	cleaned := ingredientLabelPattern.ReplaceAllString(text, "")

	// Step 2: Drop percentage annotations
	cleaned = percentagePattern.ReplaceAllString(cleaned, "")

	// Step 3: Line breaks become separators
	cleaned = lineBreakPattern.ReplaceAllString(cleaned, ", ")

	// Step 4: Collapse whitespace and repeated separators
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = spaceBeforeSeparatorPattern.ReplaceAllString(cleaned, "$1")
	cleaned = repeatedSeparatorPattern.ReplaceAllString(cleaned, ", ")
	cleaned = trailingPunctuationPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimLeft(cleaned, ",; ")

	// Step 5: Limit length on a rune boundary, cutting at a separator when possible
	if len(cleaned) > MaxIngredientLength {
		cut := MaxIngredientLength
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = cleaned[:cut]
		if lastSep := strings.LastIndexAny(cleaned, ",;"); lastSep > MaxIngredientLength/2 {
			cleaned = cleaned[:lastSep]
		}
	}

	if p.enableDebugLogging {
		log.Printf("[PREPROCESS] Input: %q → Output: %q", original, cleaned)
	}

	return cleaned
}

// CacheKey builds a stable key for cleaned ingredient text. Case,
// whitespace and punctuation other than separators do not change the key.
func (p *IngredientPreprocessor) CacheKey(cleaned string) string {
	normalized := nonKeyPattern.ReplaceAllString(strings.ToLower(cleaned), "")
	sum := sha256.Sum256([]byte(normalized))
	return "analysis:v" + RulesVersion + ":" + hex.EncodeToString(sum[:])
}
