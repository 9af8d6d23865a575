// internal/services/registry_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/pharmatrace/pharmatrace-backend/internal/models"
)

type RegistryServiceTestSuite struct {
	suite.Suite
	registry *RegistryService
}

func (suite *RegistryServiceTestSuite) SetupTest() {
	db := setupTestDB(suite.T())
	suite.registry = NewRegistryService(db)
}

func (suite *RegistryServiceTestSuite) TestSequentialIdsPerRole() {
	for n := uint(1); n <= 3; n++ {
		p := registerTestParticipant(suite.T(), suite.registry, models.RoleSupplier, "0xaaa", "Supplier")
		suite.Equal(n, p.ID)
		suite.True(p.Active)
	}

	count, err := suite.registry.CountParticipants(models.RoleSupplier)
	suite.NoError(err)
	suite.Equal(uint(3), count)
}

func (suite *RegistryServiceTestSuite) TestRoleSequencesAreIndependent() {
	registerTestParticipant(suite.T(), suite.registry, models.RoleSupplier, "0xaaa", "Supplier")
	registerTestParticipant(suite.T(), suite.registry, models.RoleSupplier, "0xbbb", "Supplier Two")

	manufacturer := registerTestParticipant(suite.T(), suite.registry, models.RoleManufacturer, "0xccc", "Manufacturer")
	suite.Equal(uint(1), manufacturer.ID)

	count, err := suite.registry.CountParticipants(models.RoleManufacturer)
	suite.NoError(err)
	suite.Equal(uint(1), count)

	count, err = suite.registry.CountParticipants(models.RoleRetailer)
	suite.NoError(err)
	suite.Equal(uint(0), count)
}

func (suite *RegistryServiceTestSuite) TestRegisterRejectsBlankFields() {
	_, err := suite.registry.RegisterParticipant(models.RoleSupplier, &RegisterParticipantRequest{
		Address: "0xaaa",
		Name:    "",
		Place:   "Pune",
	})
	suite.ErrorIs(err, ErrInvalidInput)

	_, err = suite.registry.RegisterParticipant(models.RoleSupplier, &RegisterParticipantRequest{
		Address: "0xaaa",
		Name:    "Supplier",
		Place:   "   ",
	})
	suite.ErrorIs(err, ErrInvalidInput)

	// Failed registrations must not burn ids
	count, err := suite.registry.CountParticipants(models.RoleSupplier)
	suite.NoError(err)
	suite.Equal(uint(0), count)
}

func (suite *RegistryServiceTestSuite) TestDuplicateAddressesAllowed() {
	first := registerTestParticipant(suite.T(), suite.registry, models.RoleSupplier, "0xsame", "First")
	second := registerTestParticipant(suite.T(), suite.registry, models.RoleSupplier, "0xsame", "Second")

	suite.Equal(uint(1), first.ID)
	suite.Equal(uint(2), second.ID)
}

func (suite *RegistryServiceTestSuite) TestToggleFlipsActive() {
	p := registerTestParticipant(suite.T(), suite.registry, models.RoleDistributor, "0xddd", "Distributor")
	suite.True(p.Active)

	active, err := suite.registry.ToggleParticipant(models.RoleDistributor, p.ID)
	suite.NoError(err)
	suite.False(active)

	active, err = suite.registry.ToggleParticipant(models.RoleDistributor, p.ID)
	suite.NoError(err)
	suite.True(active)
}

func (suite *RegistryServiceTestSuite) TestToggleUnknownIdFails() {
	_, err := suite.registry.ToggleParticipant(models.RoleDistributor, 7)
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *RegistryServiceTestSuite) TestGetParticipant() {
	registered := registerTestParticipant(suite.T(), suite.registry, models.RoleRetailer, "0xeee", "Retailer")

	fetched, err := suite.registry.GetParticipant(models.RoleRetailer, registered.ID)
	suite.NoError(err)
	suite.Equal("Retailer", fetched.Name)
	suite.Equal("Pune", fetched.Place)

	_, err = suite.registry.GetParticipant(models.RoleRetailer, 99)
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *RegistryServiceTestSuite) TestListParticipantsOrdered() {
	registerTestParticipant(suite.T(), suite.registry, models.RoleSupplier, "0x1", "One")
	registerTestParticipant(suite.T(), suite.registry, models.RoleSupplier, "0x2", "Two")
	registerTestParticipant(suite.T(), suite.registry, models.RoleManufacturer, "0x3", "Other class")

	suppliers, err := suite.registry.ListParticipants(models.RoleSupplier)
	suite.NoError(err)
	suite.Len(suppliers, 2)
	suite.Equal(uint(1), suppliers[0].ID)
	suite.Equal(uint(2), suppliers[1].ID)
}

func TestRegistryServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceTestSuite))
}
