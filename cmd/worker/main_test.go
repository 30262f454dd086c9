package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaia-project/gaia/internal/app"
	_ "github.com/gaia-project/gaia/internal/testing/guard"
)

func TestMainSkipsInTestMode(t *testing.T) {
	app.RefreshTestMode()
	require.True(t, app.InTestMode())
	main()
}
