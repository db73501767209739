package repository_test

import (
	"path/filepath"
	"testing"

	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type sqliteStorageSuite struct {
	storageSuite

	path   string
	sqlite *repository.SQLiteStorage
}

func TestSQLiteStorageSuite(t *testing.T) {
	suite.Run(t, new(sqliteStorageSuite))
}

func (suite *sqliteStorageSuite) SetupSuite() {
	suite.path = filepath.Join(suite.T().TempDir(), "storefront.db")

	var err error
	suite.sqlite, err = repository.OpenSQLite(suite.path)
	suite.Require().NoError(err)

	suite.storage = suite.sqlite
}

func (suite *sqliteStorageSuite) TearDownSuite() {
	suite.NoError(suite.sqlite.Close())
}

func (suite *sqliteStorageSuite) TestReopen() {
	t := suite.T()
	ctx := t.Context()

	require.NoError(t, suite.storage.SetItem(ctx, "cartItems", []byte(`[]`)))

	reopened, err := repository.OpenSQLite(suite.path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetItem(ctx, "cartItems")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := repository.OpenSQLite("  ")
	require.EqualError(t, err, "path is empty")
}
