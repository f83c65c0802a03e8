package pagetype

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	c := Default()

	testCases := []struct {
		url      string
		expected PageType
	}{
		{"https://example.com/blog/how-to", BlogArticle},
		{"https://example.com/artigo/seo", BlogArticle},
		{"https://example.com/produto/camisa", Product},
		{"https://example.com/Product/shirt", Product},
		{"https://example.com/categoria/roupas", Category},
		{"https://example.com/category/shoes", Category},
		{"https://example.com/sobre-nos", Institutional},
		{"https://example.com/about", Institutional},
		{"https://example.com/contato", Contact},
		{"https://example.com/contact-us", Contact},
		{"https://example.com/", Homepage},
		{"https://example.com/pt/", Content},
		{"https://example.com/page", Content},
		{"https://example.com/post/hello", Content},
		{"", Content},
		{"not a url", Content},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			t.Parallel()
			if got := c.Classify(tc.url); got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}

// TestClassify_FirstMatchWins tests precedence when several segments match.
func TestClassify_FirstMatchWins(t *testing.T) {
	t.Parallel()

	got := Default().Classify("https://example.com/blog/product/x")
	if got != BlogArticle {
		t.Errorf("got %q, expected %q", got, BlogArticle)
	}
}

// TestClassify_CustomSegments tests configured segment lists.
func TestClassify_CustomSegments(t *testing.T) {
	t.Parallel()

	segments := DefaultSegments()
	segments.Blog = append(segments.Blog, "/POST/")
	c := New(segments)

	if got := c.Classify("https://example.com/post/hello"); got != BlogArticle {
		t.Errorf("got %q, expected %q", got, BlogArticle)
	}
}

func TestPageTypeIn(t *testing.T) {
	t.Parallel()

	if !Product.In(Product, BlogArticle) {
		t.Error("expected Product to be in the set")
	}
	if Contact.In(Product, BlogArticle) {
		t.Error("expected Contact not to be in the set")
	}
}
