package repository_test

import (
	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// storageSuite holds the behaviour every port.Storage backend must share.
// Backend suites embed it and assign storage in SetupSuite.
type storageSuite struct {
	suite.Suite

	storage port.Storage
}

func (suite *storageSuite) TestSetItem() {
	tests := []struct {
		name      string
		key       string
		values    [][]byte
		wantError string
	}{
		{
			name:   "set item: ok",
			key:    gofakeit.UUID(),
			values: [][]byte{randomValue()},
		},
		{
			name:   "overwrite item: last write wins",
			key:    gofakeit.UUID(),
			values: [][]byte{randomValue(), randomValue(), randomValue()},
		},
		{
			name:      "set item with empty key: error",
			key:       "",
			values:    [][]byte{randomValue()},
			wantError: "key is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			for _, value := range tt.values {
				err := suite.storage.SetItem(ctx, tt.key, value)
				if tt.wantError != "" {
					require.EqualError(t, err, tt.wantError)
					return
				}
				require.NoError(t, err)
			}

			got, err := suite.storage.GetItem(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.values[len(tt.values)-1], got)
		})
	}
}

func (suite *storageSuite) TestGetItem() {
	tests := []struct {
		name      string
		key       string
		setup     []byte
		wantErrIs error
		wantError string
	}{
		{
			name:  "get existing item: ok",
			key:   gofakeit.UUID(),
			setup: randomValue(),
		},
		{
			name:      "get missing item: not found",
			key:       gofakeit.UUID(),
			wantErrIs: port.ErrNotFound,
		},
		{
			name:      "get item with empty key: error",
			key:       "",
			wantError: "key is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			if tt.setup != nil {
				require.NoError(t, suite.storage.SetItem(ctx, tt.key, tt.setup))
			}

			got, err := suite.storage.GetItem(ctx, tt.key)
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.setup, got)
		})
	}
}

func (suite *storageSuite) TestRemoveItem() {
	tests := []struct {
		name      string
		key       string
		setup     []byte
		wantError string
	}{
		{
			name:  "remove existing item: ok",
			key:   gofakeit.UUID(),
			setup: randomValue(),
		},
		{
			name: "remove missing item: ok",
			key:  gofakeit.UUID(),
		},
		{
			name:      "remove item with empty key: error",
			key:       "",
			wantError: "key is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			if tt.setup != nil {
				require.NoError(t, suite.storage.SetItem(ctx, tt.key, tt.setup))
			}

			err := suite.storage.RemoveItem(ctx, tt.key)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			_, err = suite.storage.GetItem(ctx, tt.key)
			require.ErrorIs(t, err, port.ErrNotFound)
		})
	}
}

func randomValue() []byte {
	return []byte(gofakeit.Sentence(8))
}
