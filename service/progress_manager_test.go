package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressManagerNonTerminalWriterStaysSilent(t *testing.T) {
	var buf bytes.Buffer
	pm := NewProgressManager()
	pm.SetWriter(&buf)

	pm.Initialize(3)
	pm.Start()
	for i := 1; i <= 3; i++ {
		pm.Update(i, 3)
	}
	pm.Complete(true)
	pm.Close()

	assert.Empty(t, buf.String())
}

func TestNoOpProgressManager(t *testing.T) {
	var pm NoOpProgressManager
	assert.NotPanics(t, func() {
		pm.Initialize(10)
		pm.Start()
		pm.Update(5, 10)
		pm.Complete(false)
	})
}
