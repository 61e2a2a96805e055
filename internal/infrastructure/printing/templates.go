package printing

import "embed"

//go:embed templates/*.html
var templateFS embed.FS

// templateFor maps a document type to its embedded template name
func templateFor(documentType string) (string, bool) {
	switch documentType {
	case "quotation":
		return "quotation.html", true
	case "invoice":
		return "invoice.html", true
	default:
		return "", false
	}
}
