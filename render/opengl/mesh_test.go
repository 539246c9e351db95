package glrender

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVertexStrideMatchesAttributes(t *testing.T) {
	// position and normal, three floats each
	assert.Equal(t, int32(6*4), vertexStride)
}
