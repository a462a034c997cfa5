package telemetry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/macropower/i3-event-handler/pkg/telemetry"
)

func TestSetup_Disabled(t *testing.T) {
	t.Parallel()

	shutdown, err := telemetry.Setup(t.Context(), "")
	require.NoError(t, err)
	require.NoError(t, shutdown(t.Context()))
}

func TestResource(t *testing.T) {
	t.Parallel()

	res := telemetry.Resource()

	v, ok := res.Set().Value(attribute.Key("service.name"))
	require.True(t, ok)
	assert.Equal(t, telemetry.ServiceName, v.AsString())
}
