package metrics

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("outcome", "charged"),
		attribute.String("plate", "B CV 8890"),
		attribute.String("endpoint", "passages"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "plate" {
			t.Fatalf("expected plate label to be dropped")
		}
	}
}
