package dialogue

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// DateResolver turns free-text date expressions into canonical MM/DD/YYYY
// strings. Explicit forms (03/03/2000, "March 3 2000", "3rd of March") are
// matched directly; everything else is handed to the natural-language parser
// ("tomorrow", "next friday"). The first candidate span found wins.
type DateResolver struct {
	parser *when.Parser
	now    func() time.Time
}

func NewDateResolver() *DateResolver {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &DateResolver{
		parser: w,
		now:    time.Now,
	}
}

var (
	numericDatePattern = regexp.MustCompile(`\b(\d{1,2})[/\-.](\d{1,2})(?:[/\-.](\d{2,4}))?\b`)
	monthDayPattern    = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t|tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	dayMonthPattern    = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t|tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b(?:,?\s+(\d{4}))?`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Resolve returns the canonical MM/DD/YYYY form of the first date expression
// found in text, or "" when none is found (callers re-prompt).
func (d *DateResolver) Resolve(text string) string {
	if m := numericDatePattern.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year := d.yearOrCurrent(m[3])
		if formatted, ok := canonicalDate(year, month, day); ok {
			return formatted
		}
	}

	if m := monthDayPattern.FindStringSubmatch(text); m != nil {
		month := monthsByPrefix[strings.ToLower(m[1])[:3]]
		day, _ := strconv.Atoi(m[2])
		year := d.yearOrCurrent(m[3])
		if formatted, ok := canonicalDate(year, int(month), day); ok {
			return formatted
		}
	}

	if m := dayMonthPattern.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month := monthsByPrefix[strings.ToLower(m[2])[:3]]
		year := d.yearOrCurrent(m[3])
		if formatted, ok := canonicalDate(year, int(month), day); ok {
			return formatted
		}
	}

	result, err := d.parser.Parse(text, d.now())
	if err != nil {
		log.Printf("Date parser error on %q: %v", text, err)
		return ""
	}
	if result == nil {
		return ""
	}
	return result.Time.Format("01/02/2006")
}

func (d *DateResolver) yearOrCurrent(raw string) int {
	if raw == "" {
		return d.now().Year()
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return d.now().Year()
	}
	if year < 100 {
		year += 2000
	}
	return year
}

// canonicalDate validates the components by round-tripping through time.Date,
// rejecting things like 13/45 that the regexes cannot.
func canonicalDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if int(t.Month()) != month || t.Day() != day || t.Year() != year {
		return "", false
	}
	return fmt.Sprintf("%02d/%02d/%04d", month, day, year), true
}
