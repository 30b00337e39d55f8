package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hardref/pkg/registry/mongo"
	"github.com/matzehuels/hardref/pkg/snapshot"
)

// registryCommand creates the registry command.
func (c *CLI) registryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage the MongoDB asset registry",
	}
	cmd.AddCommand(c.registryImportCommand())
	return cmd
}

// registryImportCommand creates the "registry import" subcommand.
func (c *CLI) registryImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot>",
		Short: "Copy a snapshot's packages into MongoDB",
		Long: `Upsert every package record of the snapshot into the configured MongoDB
collection. Existing packages with the same name are replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}

			reg, err := mongo.Connect(ctx, c.Config.Registry.Mongo.Options())
			if err != nil {
				return err
			}
			defer reg.Close(ctx)

			prog := newProgress(loggerFromContext(ctx))
			spin := newSpinner(ctx, fmt.Sprintf("Importing %d packages", len(snap.Packages)))
			spin.Start()
			n, err := reg.Upsert(ctx, documentsFromSnapshot(snap))
			if err != nil {
				spin.StopWithError("Import failed")
				return err
			}
			spin.StopWithSuccess(fmt.Sprintf("Imported %d of %d packages", n, len(snap.Packages)))
			printDetail("%s.%s", c.Config.Registry.Mongo.Database, c.Config.Registry.Mongo.Collection)
			prog.done("Registry updated")
			return nil
		},
	}
}

// documentsFromSnapshot converts snapshot package records to registry
// documents.
func documentsFromSnapshot(snap *snapshot.Snapshot) []mongo.Document {
	docs := make([]mongo.Document, len(snap.Packages))
	for i, p := range snap.Packages {
		deps := make([]string, len(p.Dependencies))
		for j, d := range p.Dependencies {
			deps[j] = string(d)
		}
		docs[i] = mongo.Document{
			ID:               string(p.Name),
			Size:             p.Size,
			Type:             p.Type,
			DisplayPath:      p.DisplayPath,
			HardDependencies: deps,
		}
	}
	return docs
}
