package config

import "fmt"

// Megabyte is the unit used by the content size thresholds.
const Megabyte int64 = 1024 * 1024

// Thresholds holds every numeric cut-off used by the rule packs.
//
// Design decision: The values are heuristics inherited from SEO practice
// (SERP truncation lengths, Core Web Vitals guidance) rather than derived from
// a model. We keep each one as a named, overridable field so that a team can
// tune them in the configuration file instead of patching rules. A rule reads
// its threshold from here and never hard-codes the number.
//
// Comparisons are strict: a title of exactly TitleMaxLength characters is fine,
// one more character is flagged.
type Thresholds struct {
	// TitleMaxLength flags titles longer than this as too long.
	TitleMaxLength int `yaml:"title_max_length"`
	// TitleCriticalLength raises a long title from MÉDIO to ALTO above this length.
	TitleCriticalLength int `yaml:"title_critical_length"`
	// TitleMinLength flags non-empty titles shorter than this as too short.
	TitleMinLength int `yaml:"title_min_length"`
	// TitleDuplicateHighGroup raises a duplicate title to ALTO when more pages than this share it.
	TitleDuplicateHighGroup int `yaml:"title_duplicate_high_group"`

	// MetaMaxLength flags meta descriptions longer than this as too long.
	MetaMaxLength int `yaml:"meta_max_length"`
	// MetaCriticalLength raises a long meta description to ALTO at or above this length.
	MetaCriticalLength int `yaml:"meta_critical_length"`
	// MetaMinLength flags non-empty meta descriptions shorter than this as too short.
	MetaMinLength int `yaml:"meta_min_length"`
	// MetaDuplicateHighGroup raises a duplicate description to ALTO when more pages than this share it.
	MetaDuplicateHighGroup int `yaml:"meta_duplicate_high_group"`

	// H1MaxLength flags H1 texts longer than this.
	H1MaxLength int `yaml:"h1_max_length"`

	// ImagesWithoutAltCritical raises missing ALT text to CRÍTICO above this count.
	ImagesWithoutAltCritical int `yaml:"images_without_alt_critical"`
	// ImageCountWarning flags pages with more images than this.
	ImageCountWarning int `yaml:"image_count_warning"`
	// ImageCountHigh raises the image count issue to ALTO above this count.
	ImageCountHigh int `yaml:"image_count_high"`
	// ImageDimensionsCoverage is the minimum share (0..1) of images with explicit dimensions.
	ImageDimensionsCoverage float64 `yaml:"image_dimensions_coverage"`

	// SlowResponse flags pages answering slower than this many seconds.
	SlowResponse float64 `yaml:"slow_response_seconds"`
	// VerySlowResponse flags pages answering slower than this many seconds as CRÍTICO.
	VerySlowResponse float64 `yaml:"very_slow_response_seconds"`

	// HeavyPageBytes flags pages larger than this.
	HeavyPageBytes int64 `yaml:"heavy_page_bytes"`
	// HeavyPageHighBytes raises a heavy page to ALTO above this size.
	HeavyPageHighBytes int64 `yaml:"heavy_page_high_bytes"`
	// HeavyPageCriticalBytes raises a heavy page to CRÍTICO above this size.
	HeavyPageCriticalBytes int64 `yaml:"heavy_page_critical_bytes"`

	// ResourceImages is the image count above which a page counts as resource heavy.
	ResourceImages int `yaml:"resource_images"`
	// ResourceLinks is the link count above which a page counts as resource heavy.
	ResourceLinks int `yaml:"resource_links"`
	// ResourceTotal is the combined count a resource heavy page must exceed to be flagged.
	ResourceTotal int `yaml:"resource_total"`
	// ResourceTotalHigh raises the resource issue to ALTO above this combined count.
	ResourceTotalHigh int `yaml:"resource_total_high"`

	// MinTextRatio flags pages whose text-to-markup ratio is below this value.
	MinTextRatio float64 `yaml:"min_text_ratio"`
}

// DefaultThresholds returns the canonical thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TitleMaxLength:          60,
		TitleCriticalLength:     70,
		TitleMinLength:          30,
		TitleDuplicateHighGroup: 3,

		MetaMaxLength:          160,
		MetaCriticalLength:     180,
		MetaMinLength:          120,
		MetaDuplicateHighGroup: 2,

		H1MaxLength: 70,

		ImagesWithoutAltCritical: 5,
		ImageCountWarning:        50,
		ImageCountHigh:           100,
		ImageDimensionsCoverage:  0.80,

		SlowResponse:     3,
		VerySlowResponse: 5,

		HeavyPageBytes:         1 * Megabyte,
		HeavyPageHighBytes:     3 * Megabyte,
		HeavyPageCriticalBytes: 5 * Megabyte,

		ResourceImages:    50,
		ResourceLinks:     200,
		ResourceTotal:     100,
		ResourceTotalHigh: 300,

		MinTextRatio: 0.10,
	}
}

// Validate checks that every threshold is positive and that banded
// thresholds are ordered.
func (t Thresholds) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"title_max_length", float64(t.TitleMaxLength)},
		{"title_critical_length", float64(t.TitleCriticalLength)},
		{"title_min_length", float64(t.TitleMinLength)},
		{"title_duplicate_high_group", float64(t.TitleDuplicateHighGroup)},
		{"meta_max_length", float64(t.MetaMaxLength)},
		{"meta_critical_length", float64(t.MetaCriticalLength)},
		{"meta_min_length", float64(t.MetaMinLength)},
		{"meta_duplicate_high_group", float64(t.MetaDuplicateHighGroup)},
		{"h1_max_length", float64(t.H1MaxLength)},
		{"images_without_alt_critical", float64(t.ImagesWithoutAltCritical)},
		{"image_count_warning", float64(t.ImageCountWarning)},
		{"image_count_high", float64(t.ImageCountHigh)},
		{"image_dimensions_coverage", t.ImageDimensionsCoverage},
		{"slow_response_seconds", t.SlowResponse},
		{"very_slow_response_seconds", t.VerySlowResponse},
		{"heavy_page_bytes", float64(t.HeavyPageBytes)},
		{"heavy_page_high_bytes", float64(t.HeavyPageHighBytes)},
		{"heavy_page_critical_bytes", float64(t.HeavyPageCriticalBytes)},
		{"resource_images", float64(t.ResourceImages)},
		{"resource_links", float64(t.ResourceLinks)},
		{"resource_total", float64(t.ResourceTotal)},
		{"resource_total_high", float64(t.ResourceTotalHigh)},
		{"min_text_ratio", t.MinTextRatio},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidThreshold, p.name)
		}
	}

	if t.ImageDimensionsCoverage > 1 {
		return fmt.Errorf("%w: image_dimensions_coverage must be at most 1", ErrInvalidThreshold)
	}
	if t.MinTextRatio > 1 {
		return fmt.Errorf("%w: min_text_ratio must be at most 1", ErrInvalidThreshold)
	}

	ordered := []struct {
		low, high         float64
		lowName, highName string
	}{
		{float64(t.TitleMinLength), float64(t.TitleMaxLength), "title_min_length", "title_max_length"},
		{float64(t.TitleMaxLength), float64(t.TitleCriticalLength), "title_max_length", "title_critical_length"},
		{float64(t.MetaMinLength), float64(t.MetaMaxLength), "meta_min_length", "meta_max_length"},
		{float64(t.MetaMaxLength), float64(t.MetaCriticalLength), "meta_max_length", "meta_critical_length"},
		{float64(t.ImageCountWarning), float64(t.ImageCountHigh), "image_count_warning", "image_count_high"},
		{t.SlowResponse, t.VerySlowResponse, "slow_response_seconds", "very_slow_response_seconds"},
		{float64(t.HeavyPageBytes), float64(t.HeavyPageHighBytes), "heavy_page_bytes", "heavy_page_high_bytes"},
		{float64(t.HeavyPageHighBytes), float64(t.HeavyPageCriticalBytes), "heavy_page_high_bytes", "heavy_page_critical_bytes"},
		{float64(t.ResourceTotal), float64(t.ResourceTotalHigh), "resource_total", "resource_total_high"},
	}
	for _, o := range ordered {
		if o.low > o.high {
			return fmt.Errorf("%w: %s must not exceed %s", ErrInvalidThreshold, o.lowName, o.highName)
		}
	}

	return nil
}
