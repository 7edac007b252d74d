package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	st := New("01j", "prod", "127.0.0.1:8080", "connected")
	assert.Equal(t, "01j", st.SessionID)
	assert.Equal(t, "prod", st.SessionName)
	assert.Equal(t, "127.0.0.1:8080", st.Upstream)
	assert.Equal(t, "connected", st.Status)
	assert.Zero(t, st.Width)
}

func TestResize(t *testing.T) {
	st := &State{}
	st.Resize(80, 30)
	assert.Equal(t, 80, st.Width)
	assert.Equal(t, 30, st.Height)

	st.Resize(-1, 5)
	assert.Equal(t, 0, st.Width)
	assert.Equal(t, 5, st.Height)
}
