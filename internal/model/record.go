package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// MixedContentItem is one insecure resource referenced from an HTTPS page.
type MixedContentItem struct {
	// Type is the resource kind reported by the crawler (script, img, iframe, ...).
	Type string `json:"type"`

	// URL is the insecure http:// address of the resource.
	URL string `json:"url"`
}

// HeadingDetail describes one empty or CSS-hidden heading element.
type HeadingDetail struct {
	// Level is the heading tag, e.g. "H2".
	Level string `json:"level"`

	// CSSIssue names the CSS technique hiding the heading (display:none, ...).
	// It is empty for headings that are merely empty.
	CSSIssue string `json:"css_issue,omitempty"`
}

// Record is the flat metric set of one audited URL, as produced by the
// crawler that feeds seoaudit.
//
// Every field is optional. A field that is absent from the input keeps its
// documented default (zero value, except CanonicalIsSelf which defaults to
// true). Absence is never an error, but it is remembered: rules only run
// against records that carry every field they need (see Has).
//
// Design decision: We resolve defaults once, at decode time, into a typed
// struct instead of looking fields up in a map inside every rule. Rules get
// compile-time checked access and the defaulting policy lives in one place.
type Record struct {
	URL            string `json:"url"`
	FinalURL       string `json:"final_url"`
	StatusCode     int    `json:"status_code"`
	ContentType    string `json:"content_type"`
	CrawlTimestamp string `json:"crawl_timestamp"`

	Title                 string `json:"title"`
	TitleLength           int    `json:"title_length"`
	TitleWords            int    `json:"title_words"`
	MetaDescription       string `json:"meta_description"`
	MetaDescriptionLength int    `json:"meta_description_length"`
	MetaKeywords          string `json:"meta_keywords"`

	H1Count  int    `json:"h1_count"`
	H2Count  int    `json:"h2_count"`
	H3Count  int    `json:"h3_count"`
	H4Count  int    `json:"h4_count"`
	H5Count  int    `json:"h5_count"`
	H6Count  int    `json:"h6_count"`
	H1Text   string `json:"h1_text"`
	H1Length int    `json:"h1_length"`

	EmptyHeadingsCount    int             `json:"empty_headings_count"`
	HiddenHeadingsCount   int             `json:"hidden_headings_count"`
	EmptyHeadingsDetails  []HeadingDetail `json:"empty_headings_details"`
	HiddenHeadingsDetails []HeadingDetail `json:"hidden_headings_details"`
	HiddenHeadingsSummary string          `json:"hidden_headings_summary"`

	ImagesCount          int `json:"images_count"`
	ImagesWithoutAlt     int `json:"images_without_alt"`
	ImagesWithoutSrc     int `json:"images_without_src"`
	ImagesWithDimensions int `json:"images_with_dimensions"`

	InternalLinksCount int     `json:"internal_links_count"`
	ExternalLinksCount int     `json:"external_links_count"`
	TotalLinksCount    int     `json:"total_links_count"`
	WordCount          int     `json:"word_count"`
	CharacterCount     int     `json:"character_count"`
	TextRatio          float64 `json:"text_ratio"`

	CanonicalURL       string `json:"canonical_url"`
	CanonicalIsSelf    bool   `json:"canonical_is_self"`
	MetaRobots         string `json:"meta_robots"`
	MetaRobotsNoindex  bool   `json:"meta_robots_noindex"`
	MetaRobotsNofollow bool   `json:"meta_robots_nofollow"`
	HasViewport        bool   `json:"has_viewport"`
	HasCharset         bool   `json:"has_charset"`
	HasFavicon         bool   `json:"has_favicon"`
	SchemaTotalCount   int    `json:"schema_total_count"`
	OGTagsCount        int    `json:"og_tags_count"`
	TwitterTagsCount   int    `json:"twitter_tags_count"`

	// ResponseTime is expressed in seconds.
	ResponseTime float64 `json:"response_time"`

	// ContentLength is expressed in bytes.
	ContentLength int64 `json:"content_length"`

	IsHTTPSPage                bool               `json:"is_https_page"`
	ActiveMixedContentCount    int                `json:"active_mixed_content_count"`
	PassiveMixedContentCount   int                `json:"passive_mixed_content_count"`
	TotalMixedContentCount     int                `json:"total_mixed_content_count"`
	ActiveMixedContentDetails  []MixedContentItem `json:"active_mixed_content_details"`
	PassiveMixedContentDetails []MixedContentItem `json:"passive_mixed_content_details"`
	MixedContentRisk           string             `json:"mixed_content_risk"`
	HTTPLinksCount             int                `json:"http_links_count"`
	HTTPFormsCount             int                `json:"http_forms_count"`

	// Extra holds input keys that are not typed fields of Record.
	// They are carried through to the raw-data view untouched.
	Extra map[string]any `json:"-"`

	// present is the set of fields supplied by the input.
	// A nil set means the record was built in Go and is fully specified.
	present map[Field]bool
}

// NewRecord returns a Record for url with every default applied and only
// the url field marked as present. Use Mark to declare further fields.
func NewRecord(url string) Record {
	r := defaultRecord()
	r.URL = url
	r.present = map[Field]bool{FieldURL: true}
	return r
}

// defaultRecord returns a Record carrying the documented defaults.
func defaultRecord() Record {
	return Record{CanonicalIsSelf: true}
}

// ParseRecord decodes a single JSON object into a Record.
func ParseRecord(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, err
	}
	return r, nil
}

// UnmarshalJSON decodes a record, applying defaults for absent fields and
// remembering which fields were supplied. A JSON null counts as absent.
// Integer fields also accept JSON numbers written as floats ("200.0",
// "1e2"), as dataframe exports produce for columns holding missing values;
// the fraction is truncated. Non-numeric values are still an error.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if normalizeIntegers(raw) {
		normalized, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		data = normalized
	}

	type alias Record
	decoded := alias(defaultRecord())
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*r = Record(decoded)
	r.present = make(map[Field]bool, len(raw))
	for key, value := range raw {
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}
		field := Field(key)
		if field.Known() {
			r.present[field] = true
			continue
		}
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		if r.Extra == nil {
			r.Extra = make(map[string]any)
		}
		r.Extra[key] = v
	}
	return nil
}

// integerFields holds the JSON names of the integer-typed Record fields.
var integerFields = sync.OnceValue(func() map[string]bool {
	fields := make(map[string]bool)
	t := reflect.TypeFor[Record]()
	for i := range t.NumField() {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		switch f.Type.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fields[name] = true
		}
	}
	return fields
})

// normalizeIntegers rewrites float literals of integer fields in raw as
// truncated integer literals. It reports whether anything changed.
func normalizeIntegers(raw map[string]json.RawMessage) bool {
	changed := false
	for key, value := range raw {
		if !integerFields()[key] {
			continue
		}
		if integer, ok := truncateNumber(value); ok {
			raw[key] = integer
			changed = true
		}
	}
	return changed
}

// truncateNumber converts a JSON number literal with a fraction or an
// exponent into an integer literal. Anything else is left to the decoder.
func truncateNumber(value json.RawMessage) (json.RawMessage, bool) {
	literal := bytes.TrimSpace(value)
	if len(literal) == 0 || !bytes.ContainsAny(literal, ".eE") {
		return nil, false
	}
	if c := literal[0]; c != '-' && (c < '0' || c > '9') {
		return nil, false
	}
	f, err := strconv.ParseFloat(string(literal), 64)
	if err != nil || math.IsNaN(f) || math.Abs(f) >= math.MaxInt64 {
		return nil, false
	}
	return strconv.AppendInt(nil, int64(math.Trunc(f)), 10), true
}

// Mark declares fields as present. It is a no-op on fully specified records.
func (r *Record) Mark(fields ...Field) {
	if r.present == nil {
		return
	}
	for _, f := range fields {
		r.present[f] = true
	}
}

// Has reports whether the record carries field f.
func (r *Record) Has(f Field) bool {
	if r.present == nil {
		return true
	}
	return r.present[f]
}

// HasAll reports whether the record carries every one of fields.
func (r *Record) HasAll(fields ...Field) bool {
	for _, f := range fields {
		if !r.Has(f) {
			return false
		}
	}
	return true
}

// HasAny reports whether the record carries at least one of fields.
func (r *Record) HasAny(fields ...Field) bool {
	for _, f := range fields {
		if r.Has(f) {
			return true
		}
	}
	return false
}

// Values returns the supplied fields of the record keyed by their JSON name,
// together with any Extra keys. Numbers are returned as float64, the same
// shape encoding/json produces for untyped input.
func (r *Record) Values() map[string]any {
	data, err := json.Marshal(r)
	if err != nil {
		return map[string]any{string(FieldURL): r.URL}
	}
	values := make(map[string]any)
	if err := json.Unmarshal(data, &values); err != nil {
		return map[string]any{string(FieldURL): r.URL}
	}
	for key := range values {
		if !r.Has(Field(key)) {
			delete(values, key)
		}
	}
	for key, v := range r.Extra {
		values[key] = v
	}
	return values
}

// RawTable flattens records into the raw-data view: a column order made of
// the fixed priority prefix followed by every other seen column sorted
// alphabetically, and one row per record. Cells a record does not carry are
// filled with an empty string.
func RawTable(records []Record) ([]string, []map[string]any) {
	rows := make([]map[string]any, len(records))
	seen := make(map[string]struct{})
	for i := range records {
		rows[i] = records[i].Values()
		for key := range rows[i] {
			seen[key] = struct{}{}
		}
	}

	columns := make([]string, 0, len(seen))
	prioritized := make(map[string]struct{}, len(rawColumnPriority))
	for _, col := range rawColumnPriority {
		prioritized[col] = struct{}{}
		if _, ok := seen[col]; ok {
			columns = append(columns, col)
		}
	}
	rest := make([]string, 0, len(seen))
	for col := range seen {
		if _, ok := prioritized[col]; !ok {
			rest = append(rest, col)
		}
	}
	sort.Strings(rest)
	columns = append(columns, rest...)

	for _, row := range rows {
		for _, col := range columns {
			if _, ok := row[col]; !ok {
				row[col] = ""
			}
		}
	}
	return columns, rows
}
