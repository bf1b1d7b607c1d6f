// Package engine adapts the third-party PDF and DOCX libraries to the
// conversion interfaces declared in domain. Engines are stateless and safe
// for concurrent use.
package engine

import (
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu otherwise creates a config dir and font cache under the user's home.
	api.DisableConfigDir()
}

// newPDFConfig returns the pdfcpu configuration shared by all engines.
func newPDFConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
