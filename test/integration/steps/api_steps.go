package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

// registerAPISteps registers HTTP request steps.
func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.Step(`^I send (\d+) "([^"]*)" requests to "([^"]*)"$`, iSendRequestsTo)
	ctx.Step(`^I set header "([^"]*)" to "([^"]*)"$`, iSetHeaderTo)
}

// registerResponseSteps registers response validation steps.
func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should have (\d+) items?$`, theResponseFieldShouldHaveItems)
	ctx.Step(`^the metric "([^"]*)" should be (-?[\d.]+) against (-?[\d.]+) with change (-?[\d.]+)%$`, theMetricShouldBe)
}

func (tc *TestContext) send(method, endpoint string, body []byte) error {
	if err := tc.ensureServer(); err != nil {
		return err
	}

	endpoint = strings.ReplaceAll(endpoint, "{last_id}", tc.lastID)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, tc.server.URL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range tc.requestHeaders {
		req.Header.Set(key, value)
	}
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	tc.status = resp.StatusCode
	tc.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if id, err := tc.lookup("data.id"); err == nil {
		if s, ok := id.(string); ok {
			tc.lastID = s
		}
	}
	return nil
}

func iSendARequestTo(ctx context.Context, method, endpoint string) error {
	return GetTestContext(ctx).send(method, endpoint, nil)
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) error {
	return GetTestContext(ctx).send(method, endpoint, []byte(body.Content))
}

func iSendRequestsTo(ctx context.Context, count int, method, endpoint string) error {
	tc := GetTestContext(ctx)
	for i := 0; i < count; i++ {
		if err := tc.send(method, endpoint, nil); err != nil {
			return err
		}
	}
	return nil
}

func iSetHeaderTo(ctx context.Context, header, value string) error {
	GetTestContext(ctx).requestHeaders[header] = value
	return nil
}

func theResponseStatusShouldBe(ctx context.Context, expected int) error {
	tc := GetTestContext(ctx)
	if tc.status != expected {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expected, tc.status, string(tc.responseBody))
	}
	return nil
}

// lookup walks a dotted path through the JSON response. Numeric segments
// index arrays.
func (tc *TestContext) lookup(path string) (any, error) {
	var current any
	if err := json.Unmarshal(tc.responseBody, &current); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[segment]
			if !ok {
				return nil, fmt.Errorf("field %q not found in response", path)
			}
			current = value
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", segment, path)
			}
			current = node[index]
		default:
			return nil, fmt.Errorf("field %q not found in response", path)
		}
	}
	return current, nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expected string) error {
	tc := GetTestContext(ctx)
	value, err := tc.lookup(field)
	if err != nil {
		return err
	}

	actual := fmt.Sprintf("%v", value)
	if actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func theResponseFieldShouldHaveItems(ctx context.Context, field string, expected int) error {
	tc := GetTestContext(ctx)
	value, err := tc.lookup(field)
	if err != nil {
		return err
	}
	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list", field)
	}
	if len(items) != expected {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, expected, len(items))
	}
	return nil
}

func theMetricShouldBe(ctx context.Context, key string, value, previous, change float64) error {
	tc := GetTestContext(ctx)
	raw, err := tc.lookup("data.metrics")
	if err != nil {
		return err
	}
	metrics, _ := raw.([]any)

	for _, m := range metrics {
		metric, _ := m.(map[string]any)
		if metric["key"] != key {
			continue
		}
		if metric["value"] != value || metric["previous_value"] != previous || metric["percent_change"] != change {
			return fmt.Errorf("metric %s: expected %v against %v (%v%%), got %v against %v (%v%%)",
				key, value, previous, change, metric["value"], metric["previous_value"], metric["percent_change"])
		}
		return nil
	}
	return fmt.Errorf("metric %s not found", key)
}
