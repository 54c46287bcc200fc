package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientMetadataString(t *testing.T) {
	var missing *ClientMetadata
	assert.Equal(t, "ip=- rid=-", missing.String())

	metadata := NewClientMetadata("203.0.113.7", "curl/8.5")
	metadata.SetRequestID("01j9z")
	assert.Equal(t, "ip=203.0.113.7 rid=01j9z", metadata.String())

	metadata.SetEndpoint("DELETE /api/gallery/:uuid")
	assert.Equal(t, `ip=203.0.113.7 rid=01j9z endpoint="DELETE /api/gallery/:uuid"`, metadata.String())
}
