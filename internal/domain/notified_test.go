package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotifiedSetDropsDuplicates(t *testing.T) {
	s := NewNotifiedSet("9", "1", "9", "2", "1")
	assert.Equal(t, []string{"9", "1", "2"}, s.IDs())
	assert.Equal(t, 3, s.Len())
}

func TestNotifiedSetAdd(t *testing.T) {
	s := NewNotifiedSet()
	require.True(t, s.Add("5"))
	require.False(t, s.Add("5"))
	assert.True(t, s.Has("5"))
	assert.False(t, s.Has("6"))
}

func TestNotifiedSetZeroValueAndNil(t *testing.T) {
	var zero NotifiedSet
	assert.True(t, zero.Add("1"))
	assert.Equal(t, []string{"1"}, zero.IDs())

	var nilSet *NotifiedSet
	assert.False(t, nilSet.Has("1"))
	assert.Equal(t, 0, nilSet.Len())
	assert.Equal(t, []string{}, nilSet.IDs())
}

func TestNotifiedSetCloneIsIndependent(t *testing.T) {
	a := NewNotifiedSet("1")
	b := a.Clone()
	b.Add("2")
	assert.Equal(t, []string{"1"}, a.IDs())
	assert.Equal(t, []string{"1", "2"}, b.IDs())
}
