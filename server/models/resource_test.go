package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSeedResources(t *testing.T) {
	InitializeTestDb()

	resources, paging, err := FetchResources(ResourceFilter{}, 1)
	require.Nil(t, err)
	assert.Len(t, resources, len(seedResources()))
	assert.Equal(t, int64(len(seedResources())), paging.Total)
	assert.Equal(t, int64(1), paging.Pages)
}

func TestFetchResourcesWithFilter(t *testing.T) {
	InitializeTestDb()

	require.Nil(t, CreateResource(&Resource{
		Type: OXYGEN_RESOURCE, Name: "Lifeline Cylinders", City: "Delhi ",
		PhoneNumber: "+911100000000", Description: "Refills 24x7", Available: true,
	}))
	require.Nil(t, CreateResource(&Resource{
		Type: OXYGEN_RESOURCE, Name: "Closed Depot", City: "Delhi",
		PhoneNumber: "+911100000001", Available: false,
	}))

	cases := []struct {
		description string
		filter      ResourceFilter
		expected    int
	}{
		{"by type", ResourceFilter{Type: OXYGEN_RESOURCE}, 3},
		{"by type & city, case insensitive", ResourceFilter{Type: OXYGEN_RESOURCE, City: "delhi"}, 2},
		{"available only", ResourceFilter{Type: OXYGEN_RESOURCE, City: "Delhi", AvailableOnly: true}, 1},
		{"keyword in description", ResourceFilter{Query: "24X7"}, 1},
		{"keyword with type", ResourceFilter{Type: BLOOD_BANK_RESOURCE, Query: "cylinders"}, 0},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			resources, paging, err := FetchResources(c.filter, 1)
			assert.Nil(t, err)
			assert.Len(t, resources, c.expected)
			assert.Equal(t, int64(c.expected), paging.Total)
		})
	}
}

func TestAvailableResources(t *testing.T) {
	InitializeTestDb()

	resources, err := AvailableResources(BLOOD_BANK_RESOURCE, "", 5)
	require.Nil(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "Red Cross Blood Bank", resources[0].Name)

	resources, err = AvailableResources(BLOOD_BANK_RESOURCE, "mumbai", 5)
	require.Nil(t, err)
	assert.Empty(t, resources)

	cities, err := ResourceCities()
	require.Nil(t, err)
	assert.Equal(t, []string{"Delhi", "Mumbai"}, cities)
}

func TestVerifyResource(t *testing.T) {
	InitializeTestDb()

	resource := &Resource{Type: AMBULANCE_RESOURCE, Name: "Ziqitza", City: "Pune", PhoneNumber: "+91108", Verified: true}
	require.Nil(t, CreateResource(resource))
	assert.False(t, resource.Verified, "new listings start unverified")

	require.Nil(t, VerifyResource(resource.ID))

	found, err := FindResource(resource.ID)
	require.Nil(t, err)
	assert.True(t, found.Verified)

	err = VerifyResource(9999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestNewPaging(t *testing.T) {
	assert.Equal(t, &Paging{Total: 0, Page: 1, Pages: 1}, newPaging(0, 20, 0))
	assert.Equal(t, &Paging{Total: 41, Page: 2, Pages: 3}, newPaging(2, 20, 41))
}
