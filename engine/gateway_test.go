package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"xcasset/assets"
)

func TestGatewaySubmitRejectsBadEncoding(t *testing.T) {
	g := &Gateway{limits: assets.DefaultLimits}

	// malformed payloads never reach the message store
	_, err := g.Submit([]byte{0xff})
	require.Error(t, err)

	_, err = g.Submit(nil)
	require.Error(t, err)
}
