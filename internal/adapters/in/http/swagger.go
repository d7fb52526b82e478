package http

import (
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

type swaggerDoc string

func (d swaggerDoc) ReadDoc() string { return string(d) }

var registerSwagger sync.Once

// RegisterSwagger publishes doc to the swag registry read by the swagger UI.
// Only the first call per process takes effect.
func RegisterSwagger(doc *openapi3.T) error {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return err
	}
	registerSwagger.Do(func() {
		swag.Register(swag.Name, swaggerDoc(raw))
	})
	return nil
}
