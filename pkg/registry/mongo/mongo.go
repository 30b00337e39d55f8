// Package mongo implements an asset registry stored in a MongoDB collection.
//
// Each package is one document keyed by its identifier:
//
//	{
//	    "_id": "/Game/Weapons/Rifle",
//	    "size": 104857,
//	    "type": "Blueprint",
//	    "display_path": "/Game/Weapons/Rifle.Rifle",
//	    "hard_dependencies": ["/Game/FX/Muzzle"]
//	}
//
// This lets a build farm export the editor's registry once and serve scans
// for many Blueprints without a running editor.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/hardref/pkg/asset"
	"github.com/matzehuels/hardref/pkg/observability"
)

const backend = "mongo"

// Default database and collection names.
const (
	DefaultDatabase   = "hardref"
	DefaultCollection = "packages"
)

// Options configures a connection.
type Options struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// Document is the stored form of one package.
type Document struct {
	ID               string   `bson:"_id"`
	Size             int64    `bson:"size"`
	Type             string   `bson:"type,omitempty"`
	DisplayPath      string   `bson:"display_path,omitempty"`
	HardDependencies []string `bson:"hard_dependencies"`
}

// Registry implements [asset.Registry] over a MongoDB collection.
// It is safe for concurrent use.
type Registry struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect opens a client and returns a registry over the configured collection.
func Connect(ctx context.Context, opts Options) (*Registry, error) {
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	clientOpts := options.Client().ApplyURI(opts.URI)
	if opts.Timeout > 0 {
		clientOpts.SetTimeout(opts.Timeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}
	r := New(client.Database(opts.Database).Collection(opts.Collection))
	r.client = client
	return r, nil
}

// New returns a registry over an existing collection. Close is then a no-op;
// the caller owns the client.
func New(coll *mongo.Collection) *Registry {
	return &Registry{coll: coll}
}

// Close disconnects the client opened by Connect.
func (r *Registry) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}

func (r *Registry) find(ctx context.Context, op string, pkg asset.PackageID) (Document, bool, error) {
	start := time.Now()
	var doc Document
	err := r.coll.FindOne(ctx, bson.M{"_id": string(pkg)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observability.Registry().OnQuery(ctx, backend, op, time.Since(start))
		return Document{}, false, nil
	}
	if err != nil {
		observability.Registry().OnError(ctx, backend, op, err)
		return Document{}, false, err
	}
	observability.Registry().OnQuery(ctx, backend, op, time.Since(start))
	return doc, true, nil
}

// HardDependencies implements [asset.Registry].
func (r *Registry) HardDependencies(ctx context.Context, pkg asset.PackageID) ([]asset.PackageID, error) {
	doc, ok, err := r.find(ctx, "hard_dependencies", pkg)
	if err != nil || !ok {
		return nil, err
	}
	deps := make([]asset.PackageID, len(doc.HardDependencies))
	for i, d := range doc.HardDependencies {
		deps[i] = asset.PackageID(d)
	}
	return deps, nil
}

// PackageMetadata implements [asset.Registry].
func (r *Registry) PackageMetadata(ctx context.Context, pkg asset.PackageID) (asset.PackageMetadata, bool, error) {
	doc, ok, err := r.find(ctx, "package_metadata", pkg)
	if err != nil || !ok {
		return asset.PackageMetadata{}, false, err
	}
	return asset.PackageMetadata{ID: pkg, Size: doc.Size, TypeName: doc.Type}, true, nil
}

// AssetMetadata implements [asset.Registry] with a single $in query.
func (r *Registry) AssetMetadata(ctx context.Context, pkgs []asset.PackageID) (map[asset.PackageID]asset.AssetMetadata, error) {
	out := make(map[asset.PackageID]asset.AssetMetadata, len(pkgs))
	if len(pkgs) == 0 {
		return out, nil
	}
	names := make([]string, len(pkgs))
	for i, p := range pkgs {
		names[i] = string(p)
	}

	start := time.Now()
	findOpts := options.Find().SetProjection(bson.M{"type": 1, "display_path": 1})
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": names}}, findOpts)
	if err != nil {
		observability.Registry().OnError(ctx, backend, "asset_metadata", err)
		return nil, err
	}
	var docs []Document
	if err := cur.All(ctx, &docs); err != nil {
		observability.Registry().OnError(ctx, backend, "asset_metadata", err)
		return nil, err
	}
	observability.Registry().OnQuery(ctx, backend, "asset_metadata", time.Since(start))

	for _, d := range docs {
		display := d.DisplayPath
		if display == "" {
			display = d.ID
		}
		out[asset.PackageID(d.ID)] = asset.AssetMetadata{TypeName: d.Type, DisplayPath: display}
	}
	return out, nil
}

// Upsert stores documents, replacing existing packages with the same ID.
// It returns the number of inserted plus modified documents.
func (r *Registry) Upsert(ctx context.Context, docs []Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	models := make([]mongo.WriteModel, len(docs))
	for i, d := range docs {
		if d.HardDependencies == nil {
			d.HardDependencies = []string{}
		}
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": d.ID}).
			SetReplacement(d).
			SetUpsert(true)
	}
	res, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		observability.Registry().OnError(ctx, backend, "upsert", err)
		return 0, err
	}
	return int(res.UpsertedCount + res.ModifiedCount), nil
}

var _ asset.Registry = (*Registry)(nil)
