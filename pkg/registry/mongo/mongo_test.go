package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/matzehuels/hardref/pkg/asset"
)

const ns = "hardref.packages"

func rifleDoc() bson.D {
	return bson.D{
		{Key: "_id", Value: "/Game/Weapons/Rifle"},
		{Key: "size", Value: int64(100)},
		{Key: "type", Value: "Blueprint"},
		{Key: "display_path", Value: "/Game/Weapons/Rifle.Rifle"},
		{Key: "hard_dependencies", Value: bson.A{"/Game/FX/Muzzle"}},
	}
}

func TestRegistryQueries(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("hard dependencies", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, rifleDoc()))

		deps, err := New(mt.Coll).HardDependencies(ctx, "/Game/Weapons/Rifle")
		require.NoError(mt, err)
		assert.Equal(mt, []asset.PackageID{"/Game/FX/Muzzle"}, deps)
	})

	mt.Run("package metadata", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, rifleDoc()))

		meta, ok, err := New(mt.Coll).PackageMetadata(ctx, "/Game/Weapons/Rifle")
		require.NoError(mt, err)
		assert.True(mt, ok)
		assert.Equal(mt, asset.PackageMetadata{ID: "/Game/Weapons/Rifle", Size: 100, TypeName: "Blueprint"}, meta)
	})

	mt.Run("unknown package", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)
		r := New(mt.Coll)

		_, ok, err := r.PackageMetadata(ctx, "/Game/Deleted")
		require.NoError(mt, err)
		assert.False(mt, ok)

		deps, err := r.HardDependencies(ctx, "/Game/Deleted")
		require.NoError(mt, err)
		assert.Nil(mt, deps)
	})

	mt.Run("asset metadata batch", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			rifleDoc(),
			bson.D{{Key: "_id", Value: "/Game/FX/Muzzle"}, {Key: "type", Value: "ParticleSystem"}},
		))

		got, err := New(mt.Coll).AssetMetadata(ctx, []asset.PackageID{"/Game/Weapons/Rifle", "/Game/FX/Muzzle", "/Game/Gone"})
		require.NoError(mt, err)
		assert.Equal(mt, map[asset.PackageID]asset.AssetMetadata{
			"/Game/Weapons/Rifle": {TypeName: "Blueprint", DisplayPath: "/Game/Weapons/Rifle.Rifle"},
			"/Game/FX/Muzzle":     {TypeName: "ParticleSystem", DisplayPath: "/Game/FX/Muzzle"},
		}, got)
	})

	mt.Run("empty batch skips the query", func(mt *mtest.T) {
		got, err := New(mt.Coll).AssetMetadata(ctx, nil)
		require.NoError(mt, err)
		assert.Empty(mt, got)
	})

	mt.Run("backend error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized on hardref",
		}))

		_, _, err := New(mt.Coll).PackageMetadata(ctx, "/Game/Weapons/Rifle")
		assert.Error(mt, err)
	})

	mt.Run("upsert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2},
			bson.E{Key: "nModified", Value: 1},
			bson.E{Key: "upserted", Value: bson.A{
				bson.D{{Key: "index", Value: 1}, {Key: "_id", Value: "/Game/FX/Muzzle"}},
			}},
		))

		n, err := New(mt.Coll).Upsert(ctx, []Document{
			{ID: "/Game/Weapons/Rifle", Size: 100, HardDependencies: []string{"/Game/FX/Muzzle"}},
			{ID: "/Game/FX/Muzzle", Size: 50},
		})
		require.NoError(mt, err)
		assert.Equal(mt, 2, n)
	})
}

func TestCloseWithoutClient(t *testing.T) {
	r := &Registry{}
	assert.NoError(t, r.Close(context.Background()))
}
