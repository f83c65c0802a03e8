package model

// Field names a metric of an audited URL. The value is the JSON key used by
// the crawler export and by the raw-data view of every exporter.
type Field string

// Identity fields.
const (
	FieldURL            Field = "url"
	FieldFinalURL       Field = "final_url"
	FieldStatusCode     Field = "status_code"
	FieldContentType    Field = "content_type"
	FieldCrawlTimestamp Field = "crawl_timestamp"
)

// Title and meta description fields.
const (
	FieldTitle                 Field = "title"
	FieldTitleLength           Field = "title_length"
	FieldTitleWords            Field = "title_words"
	FieldMetaDescription       Field = "meta_description"
	FieldMetaDescriptionLength Field = "meta_description_length"
	FieldMetaKeywords          Field = "meta_keywords"
)

// Heading fields.
const (
	FieldH1Count               Field = "h1_count"
	FieldH2Count               Field = "h2_count"
	FieldH3Count               Field = "h3_count"
	FieldH4Count               Field = "h4_count"
	FieldH5Count               Field = "h5_count"
	FieldH6Count               Field = "h6_count"
	FieldH1Text                Field = "h1_text"
	FieldH1Length              Field = "h1_length"
	FieldEmptyHeadingsCount    Field = "empty_headings_count"
	FieldHiddenHeadingsCount   Field = "hidden_headings_count"
	FieldEmptyHeadingsDetails  Field = "empty_headings_details"
	FieldHiddenHeadingsDetails Field = "hidden_headings_details"
	FieldHiddenHeadingsSummary Field = "hidden_headings_summary"
)

// Image fields.
const (
	FieldImagesCount          Field = "images_count"
	FieldImagesWithoutAlt     Field = "images_without_alt"
	FieldImagesWithoutSrc     Field = "images_without_src"
	FieldImagesWithDimensions Field = "images_with_dimensions"
)

// Link and content structure fields.
const (
	FieldInternalLinksCount Field = "internal_links_count"
	FieldExternalLinksCount Field = "external_links_count"
	FieldTotalLinksCount    Field = "total_links_count"
	FieldWordCount          Field = "word_count"
	FieldCharacterCount     Field = "character_count"
	FieldTextRatio          Field = "text_ratio"
)

// Technical markup fields.
const (
	FieldCanonicalURL       Field = "canonical_url"
	FieldCanonicalIsSelf    Field = "canonical_is_self"
	FieldMetaRobots         Field = "meta_robots"
	FieldMetaRobotsNoindex  Field = "meta_robots_noindex"
	FieldMetaRobotsNofollow Field = "meta_robots_nofollow"
	FieldHasViewport        Field = "has_viewport"
	FieldHasCharset         Field = "has_charset"
	FieldHasFavicon         Field = "has_favicon"
	FieldSchemaTotalCount   Field = "schema_total_count"
	FieldOGTagsCount        Field = "og_tags_count"
	FieldTwitterTagsCount   Field = "twitter_tags_count"
)

// Performance fields.
const (
	FieldResponseTime  Field = "response_time"
	FieldContentLength Field = "content_length"
)

// Mixed content fields.
const (
	FieldIsHTTPSPage                Field = "is_https_page"
	FieldActiveMixedContentCount    Field = "active_mixed_content_count"
	FieldPassiveMixedContentCount   Field = "passive_mixed_content_count"
	FieldTotalMixedContentCount     Field = "total_mixed_content_count"
	FieldActiveMixedContentDetails  Field = "active_mixed_content_details"
	FieldPassiveMixedContentDetails Field = "passive_mixed_content_details"
	FieldMixedContentRisk           Field = "mixed_content_risk"
	FieldHTTPLinksCount             Field = "http_links_count"
	FieldHTTPFormsCount             Field = "http_forms_count"
)

// knownFields is the set of fields decoded into typed Record members.
// Anything else found in the input is kept in Record.Extra.
var knownFields = map[Field]struct{}{
	FieldURL: {}, FieldFinalURL: {}, FieldStatusCode: {}, FieldContentType: {}, FieldCrawlTimestamp: {},
	FieldTitle: {}, FieldTitleLength: {}, FieldTitleWords: {},
	FieldMetaDescription: {}, FieldMetaDescriptionLength: {}, FieldMetaKeywords: {},
	FieldH1Count: {}, FieldH2Count: {}, FieldH3Count: {}, FieldH4Count: {}, FieldH5Count: {}, FieldH6Count: {},
	FieldH1Text: {}, FieldH1Length: {},
	FieldEmptyHeadingsCount: {}, FieldHiddenHeadingsCount: {}, FieldEmptyHeadingsDetails: {},
	FieldHiddenHeadingsDetails: {}, FieldHiddenHeadingsSummary: {},
	FieldImagesCount: {}, FieldImagesWithoutAlt: {}, FieldImagesWithoutSrc: {}, FieldImagesWithDimensions: {},
	FieldInternalLinksCount: {}, FieldExternalLinksCount: {}, FieldTotalLinksCount: {},
	FieldWordCount: {}, FieldCharacterCount: {}, FieldTextRatio: {},
	FieldCanonicalURL: {}, FieldCanonicalIsSelf: {}, FieldMetaRobots: {}, FieldMetaRobotsNoindex: {},
	FieldMetaRobotsNofollow: {}, FieldHasViewport: {}, FieldHasCharset: {}, FieldHasFavicon: {},
	FieldSchemaTotalCount: {}, FieldOGTagsCount: {}, FieldTwitterTagsCount: {},
	FieldResponseTime: {}, FieldContentLength: {},
	FieldIsHTTPSPage: {}, FieldActiveMixedContentCount: {}, FieldPassiveMixedContentCount: {},
	FieldTotalMixedContentCount: {}, FieldActiveMixedContentDetails: {}, FieldPassiveMixedContentDetails: {},
	FieldMixedContentRisk: {}, FieldHTTPLinksCount: {}, FieldHTTPFormsCount: {},
}

// Known reports whether f is decoded into a typed Record member.
func (f Field) Known() bool {
	_, ok := knownFields[f]
	return ok
}

// String returns the JSON key of the field.
func (f Field) String() string {
	return string(f)
}

// rawColumnPriority is the fixed column prefix of the raw-data view.
// Columns not listed here follow in alphabetical order.
var rawColumnPriority = []string{
	"url", "final_url", "status_code",
	"title", "title_length", "title_words",
	"meta_description", "meta_description_length", "meta_keywords",
	"h1_count", "h1_text", "h1_length",
	"h2_count", "h3_count", "h4_count", "h5_count", "h6_count",
	"internal_links_count", "external_links_count", "total_links_count",
	"images_count", "images_without_alt", "images_without_src",
	"word_count", "character_count", "text_ratio",
	"canonical_url", "canonical_is_self", "meta_robots",
	"has_viewport", "has_charset", "has_favicon",
	"schema_total_count", "og_tags_count", "twitter_tags_count",
	"response_time", "content_length", "content_type", "crawl_timestamp",
}
