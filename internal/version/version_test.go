package version_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/pyblocks/internal/version"
)

func TestShort(t *testing.T) {
	assert.NotEmpty(t, version.Short())
}

func TestInfo(t *testing.T) {
	info := version.Info()

	assert.Contains(t, info, "pyblocks")
	assert.Contains(t, info, runtime.Version())
	assert.Contains(t, info, runtime.GOOS+"/"+runtime.GOARCH)
	for _, field := range []string{"Commit:", "Built:", "Go:", "OS/Arch:"} {
		assert.Contains(t, info, field)
	}
}

func TestGetUsesLdflags(t *testing.T) {
	old := version.Version
	t.Cleanup(func() { version.Version = old })

	version.Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", version.Get().Version)
	assert.Equal(t, "v1.2.3", version.Short())
}
