package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutputLevels(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"trace", logrus.TraceLevel},
		{"DEBUG", logrus.DebugLevel},
		{" warn ", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"nonsense", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			l := NewWithOutput(tt.in, &bytes.Buffer{})
			assert.Equal(t, tt.want, l.GetLevel())
		})
	}
}

func TestNewWithOutputWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("info", &buf)
	l.WithField("candidate", "Ada Lovelace").Info("indexed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "indexed", entry["msg"])
	assert.Equal(t, "Ada Lovelace", entry["candidate"])
}
