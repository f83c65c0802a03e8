// Package pagetype maps an audited URL to a coarse content type.
//
// Several rules only apply to some kinds of pages: a product page without
// structured data matters more than a contact page without it, and a blog
// post without images is worth a note while a legal page is not. The
// classifier is a heuristic over URL path segments, nothing more.
package pagetype

import "strings"

// PageType is the coarse content type of a page.
type PageType string

const (
	BlogArticle   PageType = "Blog/Article"
	Product       PageType = "Product"
	Category      PageType = "Category"
	Institutional PageType = "Institutional"
	Contact       PageType = "Contact"
	Homepage      PageType = "Homepage"
	Content       PageType = "Content"
)

// In reports whether t is one of types.
func (t PageType) In(types ...PageType) bool {
	for _, candidate := range types {
		if t == candidate {
			return true
		}
	}
	return false
}

// DefaultHomepageMaxSlashes is the largest number of "/" characters a URL
// ending in "/" may contain and still be treated as a homepage.
// "https://example.com/" contains exactly three.
const DefaultHomepageMaxSlashes = 3

// Segments lists the lower-case substrings that identify each page type.
// The yaml tags match the page_types section of the configuration file.
type Segments struct {
	Blog          []string `yaml:"blog"`
	Product       []string `yaml:"product"`
	Category      []string `yaml:"category"`
	Institutional []string `yaml:"institutional"`
	Contact       []string `yaml:"contact"`
}

// DefaultSegments returns the built-in segment lists.
func DefaultSegments() Segments {
	return Segments{
		Blog:          []string{"/blog/", "/artigo/"},
		Product:       []string{"/produto/", "/product/"},
		Category:      []string{"/categoria/", "/category/"},
		Institutional: []string{"/sobre", "/about"},
		Contact:       []string{"/contato", "/contact"},
	}
}

// Classifier assigns a PageType to a URL.
// A Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	segments           Segments
	homepageMaxSlashes int
}

// New creates a Classifier from segment lists. Segments are lower-cased.
func New(segments Segments) *Classifier {
	return &Classifier{
		segments: Segments{
			Blog:          lowerAll(segments.Blog),
			Product:       lowerAll(segments.Product),
			Category:      lowerAll(segments.Category),
			Institutional: lowerAll(segments.Institutional),
			Contact:       lowerAll(segments.Contact),
		},
		homepageMaxSlashes: DefaultHomepageMaxSlashes,
	}
}

// Default returns a Classifier using DefaultSegments.
func Default() *Classifier {
	return New(DefaultSegments())
}

// Classify returns the page type of rawURL. Checks run in a fixed order and
// the first match wins: blog, product, category, institutional, contact,
// homepage, and finally Content.
func (c *Classifier) Classify(rawURL string) PageType {
	u := strings.ToLower(rawURL)

	switch {
	case containsAny(u, c.segments.Blog):
		return BlogArticle
	case containsAny(u, c.segments.Product):
		return Product
	case containsAny(u, c.segments.Category):
		return Category
	case containsAny(u, c.segments.Institutional):
		return Institutional
	case containsAny(u, c.segments.Contact):
		return Contact
	case strings.HasSuffix(u, "/") && strings.Count(u, "/") <= c.homepageMaxSlashes:
		return Homepage
	default:
		return Content
	}
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(v))
	}
	return out
}
