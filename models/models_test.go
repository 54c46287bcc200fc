package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminBeforeCreate(t *testing.T) {
	a := &Admin{Email: "  Owner@Farm.Example "}
	require.NoError(t, a.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, a.UUID)
	assert.Equal(t, "owner@farm.example", a.Email)
	assert.Equal(t, "admin", a.Role)
	assert.False(t, a.HasSession())

	token := "t"
	a.RefreshToken = &token
	assert.True(t, a.HasSession())
}

func TestProductBeforeCreateDerivesSlug(t *testing.T) {
	p := &Product{Name: "Crème Fraîche 250g"}
	require.NoError(t, p.BeforeCreate(nil))
	assert.Equal(t, "creme-fraiche-250g", p.Slug)

	p2 := &Product{Name: "Eggs", Slug: "free-range-eggs"}
	require.NoError(t, p2.BeforeCreate(nil))
	assert.Equal(t, "free-range-eggs", p2.Slug)
}

func TestMediaKind(t *testing.T) {
	var k MediaKind
	require.NoError(t, k.Scan([]byte("video")))
	assert.Equal(t, MediaKindVideo, k)

	_, err := MediaKind("audio").Value()
	assert.Error(t, err)

	assert.Error(t, k.Scan(42))
}

func TestSocialLinksRoundTrip(t *testing.T) {
	links := SocialLinks{"instagram": "https://instagram.com/ourfarm"}
	v, err := links.Value()
	require.NoError(t, err)

	var scanned SocialLinks
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, links, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)
}
