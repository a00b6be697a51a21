package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/repcoach/pkg/coach"
	"github.com/go-go-golems/repcoach/pkg/tools"
	"github.com/go-go-golems/repcoach/pkg/undo"
)

type toolCatalogEntry struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Parameters  map[string]interface{} `yaml:"parameters"`
}

func newToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Dump the tool catalog with argument schemas as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := tools.NewInMemoryRegistry()
			if err := coach.RegisterAll(registry, coach.Deps{
				Store:  coach.NewMemoryStore(),
				Biller: coach.NewMemoryBiller(),
				Undo:   undo.NewLedger(),
			}); err != nil {
				return err
			}

			catalog := make([]toolCatalogEntry, 0, registry.Count())
			for _, def := range registry.List() {
				raw, err := json.Marshal(def.Parameters)
				if err != nil {
					return errors.Wrapf(err, "could not marshal schema for %s", def.Name)
				}
				params := map[string]interface{}{}
				if err := json.Unmarshal(raw, &params); err != nil {
					return errors.Wrapf(err, "could not decode schema for %s", def.Name)
				}
				catalog = append(catalog, toolCatalogEntry{
					Name:        def.Name,
					Description: def.Description,
					Parameters:  params,
				})
			}

			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer func() { _ = enc.Close() }()
			return enc.Encode(catalog)
		},
	}
}
