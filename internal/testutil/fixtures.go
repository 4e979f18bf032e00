// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"
)

// SystemSpecYAML declares a single fixed-shape config endpoint, GET /system.
const SystemSpecYAML = `openapi: 3.0.3
info:
  title: System API
  version: 1.0.0
paths:
  /system:
    get:
      operationId: getSystem
      tags: [config]
      responses:
        "200":
          description: system settings
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/System'
  /system/reboot:
    post:
      tags: [config]
      responses:
        "204":
          description: rebooting
components:
  schemas:
    System:
      type: object
      required: [hostname]
      properties:
        hostname:
          type: string
        timezone:
          type: string
`

// ServiceSpecYAML declares a map-shaped config endpoint, GET /services, plus
// endpoints that must never be selected.
const ServiceSpecYAML = `openapi: 3.0.3
info:
  title: Service API
  version: 1.0.0
paths:
  /services:
    get:
      operationId: listServices
      tags: [config]
      responses:
        "200":
          description: services keyed by name
          content:
            application/json:
              schema:
                type: object
                additionalProperties:
                  $ref: '#/components/schemas/Service'
  /services/{name}:
    get:
      tags: [config]
      parameters:
        - name: name
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: one service
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Service'
  /status:
    get:
      tags: [monitoring]
      responses:
        "200":
          description: health
          content:
            application/json:
              schema:
                type: object
components:
  schemas:
    Service:
      type: object
      required: [enable]
      properties:
        enable:
          type: boolean
`

// SystemBody and ServicesBody are canned responses for the fixture specs.
const (
	SystemBody   = `{"hostname":"UT","timezone":"Asia/Shanghai"}`
	ServicesBody = `{"networking":{"enable":true},"rsyslog":{"enable":false}}`
)

// ExpectedOutput is the aggregated YAML for SystemSpecYAML followed by
// ServiceSpecYAML when served SystemBody and ServicesBody.
const ExpectedOutput = "---\n" +
	"system:\n" +
	"  hostname: UT\n" +
	"  timezone: Asia/Shanghai\n" +
	"---\n" +
	"service networking:\n" +
	"  enable: true\n" +
	"service rsyslog:\n" +
	"  enable: false\n"

// DefaultRoutes serves the fixture bodies for /system and /services.
func DefaultRoutes() map[string]Route {
	return map[string]Route{
		"/system":   JSONRoute(SystemBody),
		"/services": JSONRoute(ServicesBody),
	}
}

// WriteTempSpec writes content to a temporary file named name.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempSpec(t *testing.T, name, content string) string {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write temporary spec file: %v", err)
	}
	return tmpFile
}

// WriteTempYAML marshals a value to YAML and writes it to a temporary file.
// Returns the path to the temporary file.
func WriteTempYAML(t *testing.T, v any) string {
	t.Helper()

	data, err := yaml.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal value to YAML: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary YAML file: %v", err)
	}
	return tmpFile
}

// WriteTempJSON marshals a value to JSON and writes it to a temporary file.
// Returns the path to the temporary file.
func WriteTempJSON(t *testing.T, v any) string {
	t.Helper()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal value to JSON: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary JSON file: %v", err)
	}
	return tmpFile
}
