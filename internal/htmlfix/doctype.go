package htmlfix

import "strings"

// Defaults for AddDoctype.
const (
	// DefaultDoctype is the HTML5 doctype declaration.
	DefaultDoctype = "<!DOCTYPE html>"

	// DefaultNamespace is the xmlns attribute of the <html> tag.
	DefaultNamespace = "http://www.w3.org/1999/xhtml"

	// DefaultLanguage is the lang attribute of the <html> tag.
	DefaultLanguage = "fr"
)

// doctypeOptions holds the pieces of the document wrapper.
type doctypeOptions struct {
	doctype   string
	namespace string
	language  string
}

// DoctypeOption configures AddDoctype.
type DoctypeOption func(*doctypeOptions)

// WithDoctype replaces the doctype declaration.
func WithDoctype(doctype string) DoctypeOption {
	return func(o *doctypeOptions) {
		o.doctype = doctype
	}
}

// WithNamespace replaces the xmlns attribute of the <html> tag.
func WithNamespace(ns string) DoctypeOption {
	return func(o *doctypeOptions) {
		o.namespace = ns
	}
}

// WithLanguage replaces the lang attribute of the <html> tag.
// An empty language keeps the default.
func WithLanguage(lang string) DoctypeOption {
	return func(o *doctypeOptions) {
		if lang != "" {
			o.language = lang
		}
	}
}

// HTMLOpenTag returns the opening <html> tag AddDoctype emits.
func HTMLOpenTag(opts ...DoctypeOption) string {
	o := newDoctypeOptions(opts)
	return `<html xmlns="` + o.namespace + `" lang="` + o.language + `">`
}

// AddDoctype wraps content in a doctype declaration and an <html> element:
//
//	<!DOCTYPE html>
//	<html xmlns="http://www.w3.org/1999/xhtml" lang="fr">
//	content
//	</html>
func AddDoctype(content string, opts ...DoctypeOption) string {
	o := newDoctypeOptions(opts)

	var b strings.Builder
	b.Grow(len(content) + 128)
	b.WriteString(o.doctype)
	b.WriteByte('\n')
	b.WriteString(HTMLOpenTag(opts...))
	b.WriteByte('\n')
	b.WriteString(content)
	b.WriteByte('\n')
	b.WriteString("</html>")
	return b.String()
}

func newDoctypeOptions(opts []DoctypeOption) doctypeOptions {
	o := doctypeOptions{
		doctype:   DefaultDoctype,
		namespace: DefaultNamespace,
		language:  DefaultLanguage,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
