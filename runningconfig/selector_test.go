package runningconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/runconfig/rcerrors"
)

const selectorYAML = `openapi: 3.1.0
paths:
  /system:
    get:
      tags: [config]
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema: {type: object}
  /system/users/{id}:
    get:
      tags: [config]
      parameters:
        - {name: id, in: path, required: true}
      responses:
        "200": {description: ok}
  /system/log:
    parameters:
      - {name: lines, in: query}
    get:
      tags: [config]
      responses:
        "200": {description: ok}
  /systemd:
    get:
      tags: [config, systemd]
      responses:
        2XX:
          description: ok
          content:
            application/vnd.unit+json:
              schema:
                type: object
                additionalProperties: {type: object}
  /metrics:
    get:
      tags: [monitoring]
      responses:
        "200": {description: ok}
  /network/interfaces:
    get:
      tags: [config]
      responses:
        "200":
          $ref: '#/components/responses/Interfaces'
  /network/reset:
    post:
      tags: [config]
      responses:
        "204": {description: ok}
components:
  responses:
    Interfaces:
      description: interfaces
      content:
        application/json; charset=utf-8:
          schema:
            type: array
            items: {type: string}
`

func selectedPaths(eps []Endpoint) []string {
	paths := make([]string, len(eps))
	for i, ep := range eps {
		paths[i] = ep.Path
	}
	return paths
}

func TestSelect(t *testing.T) {
	doc := loadDoc(t, "selector.yaml", selectorYAML)

	tests := []struct {
		prefix string
		want   []string
	}{
		{"", []string{"/system", "/systemd", "/network/interfaces"}},
		{"/", []string{"/system", "/systemd", "/network/interfaces"}},
		{"system", []string{"/system", "/systemd"}},
		{"/systemd/", []string{"/systemd"}},
		{"network", []string{"/network/interfaces"}},
		{"/network/inter", []string{"/network/interfaces"}},
		{"metrics", nil},
	}
	for _, tt := range tests {
		t.Run("prefix "+tt.prefix, func(t *testing.T) {
			eps, err := Select(doc, tt.prefix)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, eps)
				return
			}
			assert.Equal(t, tt.want, selectedPaths(eps))
		})
	}
}

func TestSelectResponseResolution(t *testing.T) {
	doc := loadDoc(t, "selector.yaml", selectorYAML)
	eps, err := Select(doc, "")
	require.NoError(t, err)
	require.Len(t, eps, 3)

	assert.Equal(t, "200", eps[0].StatusCode)
	assert.Equal(t, ShapeFixed, eps[0].Shape)

	assert.Equal(t, "2XX", eps[1].StatusCode)
	assert.Equal(t, "application/vnd.unit+json", eps[1].MediaType)
	assert.Equal(t, ShapeMap, eps[1].Shape)

	assert.Equal(t, "200", eps[2].StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", eps[2].MediaType)
	assert.Equal(t, ShapeList, eps[2].Shape)
	assert.Same(t, doc, eps[2].Spec)
}

func TestSelectSwagger2(t *testing.T) {
	doc := loadDoc(t, "swagger.yaml", `swagger: "2.0"
paths:
  /interfaces:
    get:
      tags: [config]
      responses:
        200:
          description: ok
          schema:
            $ref: '#/definitions/Interfaces'
definitions:
  Interfaces:
    type: object
    additionalProperties:
      type: object
`)
	eps, err := Select(doc, "")
	require.NoError(t, err)
	require.Len(t, eps, 1)
	assert.Equal(t, ShapeMap, eps[0].Shape)
	assert.Empty(t, eps[0].MediaType)
	assert.Equal(t, "#/definitions/Interfaces", eps[0].Schema.Pointer)
}

func TestSelectSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name: "no success response",
			content: `openapi: 3.0.0
paths:
  /ntp:
    get:
      tags: [config]
      responses:
        "404": {description: missing}
`,
			wantMsg: "no 200 or 2XX response declared",
		},
		{
			name: "default response only",
			content: `openapi: 3.0.0
paths:
  /ntp:
    get:
      tags: [config]
      responses:
        default:
          description: error
          content:
            application/json:
              schema: {type: object}
`,
			wantMsg: "no 200 or 2XX response declared",
		},
		{
			name: "no JSON content",
			content: `openapi: 3.0.0
paths:
  /ntp:
    get:
      tags: [config]
      responses:
        "200":
          description: ok
          content:
            text/plain:
              schema: {type: string}
`,
			wantMsg: "200 response has no JSON schema",
		},
		{
			name: "dangling schema ref",
			content: `openapi: 3.0.0
paths:
  /ntp:
    get:
      tags: [config]
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/NTP'
`,
			wantMsg: "unresolvable schema for 200 response",
		},
		{
			name: "dangling response ref",
			content: `openapi: 3.0.0
paths:
  /ntp:
    get:
      tags: [config]
      responses:
        "200":
          $ref: '#/components/responses/NTP'
`,
			wantMsg: "unresolvable 200 response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := loadDoc(t, "broken.yaml", tt.content)
			_, err := Select(doc, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, rcerrors.ErrSchema)
			assert.Contains(t, err.Error(), tt.wantMsg)

			var se *rcerrors.SchemaError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "/ntp", se.Path)
			assert.Equal(t, "broken.yaml", se.Source)
		})
	}

	t.Run("circular schema", func(t *testing.T) {
		doc := loadDoc(t, "circular.yaml", singleEndpointSpec("/ntp", `                $ref: '#/components/schemas/A'
components:
  schemas:
    A: {$ref: '#/components/schemas/B'}
    B: {$ref: '#/components/schemas/A'}
`))
		_, err := Select(doc, "")
		assert.ErrorIs(t, err, rcerrors.ErrSchema)
		assert.ErrorIs(t, err, rcerrors.ErrCircularReference)
	})

	t.Run("unselected endpoints are not checked", func(t *testing.T) {
		doc := loadDoc(t, "unselected.yaml", `openapi: 3.0.0
paths:
  /ntp:
    get:
      tags: [monitoring]
      responses:
        "200": {description: no schema}
`)
		eps, err := Select(doc, "")
		require.NoError(t, err)
		assert.Empty(t, eps)
	})
}
