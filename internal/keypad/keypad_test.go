package keypad

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestSetGet(t *testing.T) {
	kp := New()
	for k := Key0; k <= KeyF; k++ {
		assert.False(t, kp.Get(k))
	}

	kp.Set(KeyA, true)
	assert.True(t, kp.Get(KeyA))
	assert.False(t, kp.Get(KeyB))

	kp.Set(KeyA, false)
	assert.False(t, kp.Get(KeyA))
}

func TestOutOfRange(t *testing.T) {
	kp := New()
	kp.Set(Key(16), true)
	assert.False(t, kp.Get(Key(16)))
	assert.False(t, Key(16).Valid())
	assert.True(t, KeyF.Valid())
}

func TestReset(t *testing.T) {
	kp := New()
	kp.Set(Key1, true)
	kp.Set(KeyF, true)

	kp.Reset()
	assert.False(t, kp.Get(Key1))
	assert.False(t, kp.Get(KeyF))
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "keyC", KeyC.String())
	assert.Equal(t, "key0", Key0.String())
}
