package normalizer

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/models"
)

var (
	// numberRegexp captures a numeric token with optional grouping and
	// decimal separators in either convention (1,299.99 / 1.299,99). The
	// grouped form requires at least one separator so the alternation
	// never truncates an ungrouped run of digits like "2500".
	numberRegexp = regexp.MustCompile(`\d{1,3}(?:[.,\s]\d{3})+(?:[.,]\d{1,2})?|\d+(?:[.,]\d+)?`)
	// ratingRegexp captures the leading numeric rating, e.g. "4.5 out of 5".
	ratingRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)
	// popularityRegexp captures counts like "1,024 sold", "(345)" or "1.2k".
	popularityRegexp = regexp.MustCompile(`(\d[\d.,]*)\s*([kK])?`)
	// currencyCodeRegexp captures a standalone 3-letter code token.
	currencyCodeRegexp = regexp.MustCompile(`\b[A-Za-z]{3}\b`)
)

// currencySymbols maps price-text symbols to ISO codes.
var currencySymbols = map[rune]string{
	'$': "USD",
	'€': "EUR",
	'£': "GBP",
	'¥': "JPY",
	'₹': "INR",
	'₫': "VND",
	'₩': "KRW",
}

// SourceProfile carries the per-source knowledge normalization needs:
// where relative links point and which currency the site prices in when
// the text itself carries no symbol.
type SourceProfile struct {
	BaseURL         *url.URL
	DefaultCurrency string
}

// Result is the outcome of normalizing one raw candidate. Kept reports
// whether the listing survived; Diags records every per-item drop,
// including an InvalidRating entry when only the rating field was dropped.
type Result struct {
	Listing models.Listing
	Kept    bool
	Diags   []models.Discard
}

// Normalizer converts raw source candidates into canonical listings. It is
// a pure function of its inputs: no network calls, no clock reads.
type Normalizer struct {
	profiles map[models.SourceID]SourceProfile
}

// New creates a Normalizer with the given per-source profiles.
func New(profiles map[models.SourceID]SourceProfile) *Normalizer {
	return &Normalizer{profiles: profiles}
}

// Normalize validates and converts one raw candidate. A malformed name or
// price discards the candidate; a malformed rating discards only the
// rating field, since a bad rating should not cost an otherwise valid
// listing.
func (n *Normalizer) Normalize(raw models.RawCandidate) Result {
	res := Result{}
	profile := n.profiles[raw.Source]

	name := collapseWhitespace(raw.Name)
	if name == "" {
		res.Diags = append(res.Diags, models.Discard{
			Reason: models.DiscardInvalidName,
			Detail: "empty name after trimming",
		})
		return res
	}

	price, err := n.parsePrice(raw.PriceText, profile.DefaultCurrency)
	if err != nil {
		res.Diags = append(res.Diags, models.Discard{
			Reason: models.DiscardInvalidPrice,
			Detail: err.Error(),
		})
		return res
	}

	listing := models.Listing{
		Name:   name,
		Price:  price,
		Source: raw.Source,
	}

	if raw.RatingText != "" {
		if rating, ok := parseRating(raw.RatingText); ok {
			listing.Rating = &rating
		} else {
			res.Diags = append(res.Diags, models.Discard{
				Reason: models.DiscardInvalidRating,
				Detail: fmt.Sprintf("unusable rating %q", raw.RatingText),
			})
		}
	}

	if raw.PopularityText != "" {
		if pop, ok := parsePopularity(raw.PopularityText); ok {
			listing.Popularity = &pop
		}
	}

	if raw.URLText != "" {
		if abs, ok := resolveURL(raw.URLText, profile.BaseURL); ok {
			listing.SourceURL = abs
		}
	}

	res.Listing = listing
	res.Kept = true
	return res
}

// parsePrice strips currency symbols and grouping separators and parses
// the remaining number as a decimal. The currency comes from a symbol or
// code in the text when present, else from the source profile.
func (n *Normalizer) parsePrice(text, defaultCurrency string) (models.Money, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Money{}, fmt.Errorf("empty price text")
	}

	currency := detectCurrency(text, defaultCurrency)
	if currency == "" {
		return models.Money{}, fmt.Errorf("no currency for price %q", text)
	}

	// eBay renders price ranges ("$10.99 to $24.99"); the first number is
	// the lowest offer and the one we keep.
	match := numberRegexp.FindString(text)
	if match == "" {
		return models.Money{}, fmt.Errorf("no numeric value in %q", text)
	}

	amount, err := decimal.NewFromString(normalizeSeparators(match))
	if err != nil {
		return models.Money{}, fmt.Errorf("unparsable price %q: %w", text, err)
	}
	if amount.IsNegative() {
		return models.Money{}, fmt.Errorf("negative price %q", text)
	}

	return models.Money{Amount: amount, Currency: currency}, nil
}

// normalizeSeparators rewrites a localized numeric token into Go decimal
// syntax. With both separators present the rightmost one is the decimal
// point; a lone comma followed by one or two digits is a decimal comma
// ("45,00"), anything else is grouping.
func normalizeSeparators(token string) string {
	token = strings.ReplaceAll(token, " ", "")
	lastDot := strings.LastIndexByte(token, '.')
	lastComma := strings.LastIndexByte(token, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			token = strings.ReplaceAll(token, ".", "")
			token = strings.Replace(token, ",", ".", 1)
		} else {
			token = strings.ReplaceAll(token, ",", "")
		}
	case lastComma >= 0:
		decimals := len(token) - lastComma - 1
		if strings.Count(token, ",") == 1 && decimals >= 1 && decimals <= 2 {
			token = strings.Replace(token, ",", ".", 1)
		} else {
			token = strings.ReplaceAll(token, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(token, ".") > 1 {
			token = strings.ReplaceAll(token, ".", "")
		}
	}
	return token
}

// detectCurrency finds a currency symbol or ISO code inside the price
// text, falling back to the source default.
func detectCurrency(text, fallback string) string {
	for _, r := range text {
		if code, ok := currencySymbols[r]; ok {
			return code
		}
	}
	for _, tok := range currencyCodeRegexp.FindAllString(text, -1) {
		if models.IsKnownCurrency(tok) {
			return strings.ToUpper(tok)
		}
	}
	return fallback
}

// parseRating extracts a rating and rejects values outside [0,5]. Out of
// bound values are not clamped.
func parseRating(text string) (decimal.Decimal, bool) {
	match := ratingRegexp.FindString(text)
	if match == "" {
		return decimal.Decimal{}, false
	}
	val, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if val.IsNegative() || val.GreaterThan(decimal.NewFromInt(5)) {
		return decimal.Decimal{}, false
	}
	return val, true
}

// parsePopularity reads counts like "1,024 sold", "(345)" and "1.2k".
func parsePopularity(text string) (int, bool) {
	match := popularityRegexp.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	numeric := match[1]
	thousands := match[2] != ""

	if thousands {
		val, err := strconv.ParseFloat(normalizeSeparators(numeric), 64)
		if err != nil {
			return 0, false
		}
		return int(val * 1000), true
	}

	numeric = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, numeric)
	val, err := strconv.Atoi(numeric)
	if err != nil {
		return 0, false
	}
	return val, true
}

// resolveURL makes a candidate link absolute against the source base URL.
func resolveURL(raw string, base *url.URL) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	if u.IsAbs() {
		return u.String(), true
	}
	if base == nil {
		return "", false
	}
	return base.ResolveReference(u).String(), true
}

// collapseWhitespace trims and squeezes internal whitespace runs.
func collapseWhitespace(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}
