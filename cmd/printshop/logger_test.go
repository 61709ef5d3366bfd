package main

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		env       string
		jsonCore  bool
		debugging bool
	}{
		{env: envLocal, jsonCore: false, debugging: true},
		{env: envDev, jsonCore: true, debugging: true},
		{env: envProd, jsonCore: false, debugging: false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Chdir(t.TempDir())

			log := setupLogger(tt.env)
			h, ok := log.Handler().(*dualHandler)
			require.True(t, ok)

			_, isJSON := h.coreHandler.(*slog.JSONHandler)
			_, isText := h.coreHandler.(*slog.TextHandler)
			assert.Equal(t, tt.jsonCore, isJSON)
			assert.Equal(t, !tt.jsonCore, isText)

			assert.Equal(t, tt.debugging, log.Enabled(context.Background(), slog.LevelDebug))
			assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
		})
	}
}

func TestSetupLogger_ErrorsGoToFile(t *testing.T) {
	t.Chdir(t.TempDir())

	log := setupLogger(envProd)
	log.Info("routine")
	log.Error("db down", slog.String("op", "storage.sqlstore.Open"))

	b, err := os.ReadFile("errors.log")
	require.NoError(t, err)
	assert.Contains(t, string(b), "db down")
	assert.NotContains(t, string(b), "routine")
}
