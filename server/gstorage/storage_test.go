package gstorage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	gs := &GStorage{bucket: "vita", prefix: "vita-dev"}
	assert.Equal(t, "vita-dev/vita.db", gs.ObjectName("/home/vita/db/vita.db"))

	gs = &GStorage{bucket: "vita"}
	assert.Equal(t, "vita.db", gs.ObjectName("vita.db"))
}
